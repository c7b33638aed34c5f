package core

import (
	"encoding/base64"

	"github.com/google/uuid"
	"github.com/tidwall/gjson"
)

// ServerEvent is one decoded line from the NPC response stream. An event
// always identifies the NPC it originated from; message, commands and audio
// are each optional.
type ServerEvent struct {
	NpcID    uuid.UUID `json:"npc_id"`
	Message  string    `json:"message,omitempty"`
	Commands []Command `json:"command,omitempty"`
	Audio    *Audio    `json:"audio,omitempty"`
}

// Command is a function invocation requested by an NPC. Arguments hold the
// raw JSON payload; they are decoded lazily via the typed accessors so the
// stream loop never pays for argument parsing the host does not need.
type Command struct {
	Name      string `json:"name"`
	Arguments string `json:"arguments"`
}

// StringArg returns the named string argument or "" if absent.
func (c Command) StringArg(name string) string {
	return gjson.Get(c.Arguments, name).String()
}

// IntArg returns the named integer argument or def if absent or not numeric.
func (c Command) IntArg(name string, def int64) int64 {
	v := gjson.Get(c.Arguments, name)
	if !v.Exists() {
		return def
	}
	return v.Int()
}

// FloatArg returns the named numeric argument or def if absent.
func (c Command) FloatArg(name string, def float64) float64 {
	v := gjson.Get(c.Arguments, name)
	if !v.Exists() {
		return def
	}
	return v.Float()
}

// BoolArg returns the named boolean argument or def if absent.
func (c Command) BoolArg(name string, def bool) bool {
	v := gjson.Get(c.Arguments, name)
	if !v.Exists() {
		return def
	}
	return v.Bool()
}

// Audio is an opaque TTS payload attached to a stream event.
type Audio struct {
	Data string `json:"data"`
}

// Bytes decodes the base64 payload. It returns nil for an empty or
// malformed payload.
func (a *Audio) Bytes() []byte {
	if a == nil || a.Data == "" {
		return nil
	}
	b, err := base64.StdEncoding.DecodeString(a.Data)
	if err != nil {
		return nil
	}
	return b
}
