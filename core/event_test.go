package core

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCommand_Accessors(t *testing.T) {
	cmd := Command{
		Name:      "sell_item",
		Arguments: `{"item_id":"potion","quantity":3,"price":2.5,"gift":true}`,
	}

	assert.Equal(t, "potion", cmd.StringArg("item_id"))
	assert.Equal(t, int64(3), cmd.IntArg("quantity", 0))
	assert.Equal(t, 2.5, cmd.FloatArg("price", 0))
	assert.True(t, cmd.BoolArg("gift", false))

	// Absent arguments fall back to defaults.
	assert.Equal(t, "", cmd.StringArg("missing"))
	assert.Equal(t, int64(7), cmd.IntArg("missing", 7))
	assert.Equal(t, 1.5, cmd.FloatArg("missing", 1.5))
	assert.False(t, cmd.BoolArg("missing", false))
}

func TestAudio_Bytes(t *testing.T) {
	payload := []byte{0x01, 0x02, 0x03}
	a := &Audio{Data: base64.StdEncoding.EncodeToString(payload)}
	assert.Equal(t, payload, a.Bytes())

	assert.Nil(t, (&Audio{Data: "not-base64!!"}).Bytes())
	assert.Nil(t, (&Audio{}).Bytes())
	var nilAudio *Audio
	assert.Nil(t, nilAudio.Bytes())
}

func TestMessageEvent_Audio(t *testing.T) {
	e := MessageEvent{Text: "hi"}
	assert.False(t, e.HasAudio())
	assert.Nil(t, e.AudioBytes())

	e.Audio = &Audio{Data: base64.StdEncoding.EncodeToString([]byte("pcm"))}
	assert.True(t, e.HasAudio())
	assert.Equal(t, []byte("pcm"), e.AudioBytes())
}
