package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindForStatus(t *testing.T) {
	tests := []struct {
		status int
		want   ErrorKind
	}{
		{401, ErrKindAuth},
		{402, ErrKindInsufficientCredits},
		{404, ErrKindNPCNotFound},
		{500, ErrKindHTTP},
		{418, ErrKindHTTP},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, KindForStatus(tt.status), "status %d", tt.status)
	}
}

func TestAPIError(t *testing.T) {
	err := &APIError{Op: "spawn NPC", Status: 402, Body: "out of joules"}
	assert.Equal(t, "spawn NPC: HTTP 402: out of joules", err.Error())
	assert.Equal(t, ErrKindInsufficientCredits, err.Kind())

	err = &APIError{Op: "send chat", Status: 500}
	assert.Equal(t, "send chat: HTTP 500", err.Error())
}

func TestConnectionStatus_String(t *testing.T) {
	assert.Equal(t, "CONNECTED", StatusConnected.String())
	assert.Equal(t, "DISCONNECTED", StatusDisconnected.String())
	assert.Equal(t, "RECONNECTING", StatusReconnecting.String())
	assert.Equal(t, "RECONNECT_FAILED", StatusReconnectFailed.String())
	assert.Equal(t, "UNKNOWN", ConnectionStatus(99).String())
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "AUTH_ERROR", ErrKindAuth.String())
	assert.Equal(t, "PARSE_ERROR", ErrKindParse.String())
	assert.Equal(t, "UNKNOWN", ErrKindUnknown.String())
}
