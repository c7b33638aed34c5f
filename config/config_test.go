package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_Defaults(t *testing.T) {
	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, DefaultBaseURL, cfg.BaseURL)
	assert.Equal(t, "", cfg.GameKey)
	assert.Equal(t, DefaultReconnectBase, cfg.ReconnectBase)
	assert.Equal(t, DefaultReconnectMax, cfg.ReconnectMax)
	assert.Equal(t, DefaultMaxReconnectAttempts, cfg.MaxReconnectAttempts)
	assert.Equal(t, 0, cfg.MaxSessions)
}

func TestNew_TrimsTrailingSlash(t *testing.T) {
	cfg, err := New(WithBaseURL("http://localhost:4315/"))
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:4315", cfg.BaseURL)
}

func TestNew_Validation(t *testing.T) {
	tests := []struct {
		name string
		opt  func(c *Config)
	}{
		{"empty base URL", WithBaseURL("/")},
		{"connect timeout too small", WithConnectTimeout(time.Second)},
		{"connect timeout too large", WithConnectTimeout(10 * time.Minute)},
		{"zero reconnect attempts", WithReconnect(time.Second, time.Minute, 0)},
		{"too many reconnect attempts", WithReconnect(time.Second, time.Minute, 51)},
		{"max below base", WithReconnect(time.Minute, time.Second, 5)},
		{"negative max sessions", WithMaxSessions(-1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.opt)
			assert.Error(t, err)
		})
	}
}

func TestNew_CustomOptions(t *testing.T) {
	cfg, err := New(
		WithGameKey("my-key"),
		WithReconnect(500*time.Millisecond, 10*time.Second, 3),
		WithMaxSessions(4),
	)
	require.NoError(t, err)
	assert.Equal(t, "my-key", cfg.GameKey)
	assert.Equal(t, 500*time.Millisecond, cfg.ReconnectBase)
	assert.Equal(t, 10*time.Second, cfg.ReconnectMax)
	assert.Equal(t, 3, cfg.MaxReconnectAttempts)
	assert.Equal(t, 4, cfg.MaxSessions)
}
