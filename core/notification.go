package core

import "github.com/google/uuid"

// ConnectionStatus describes the state of a stream session as observed by the
// host. Statuses for one session are always delivered in the order the
// underlying transitions occurred.
type ConnectionStatus int

const (
	// StatusConnected indicates the streaming handshake completed and the
	// session entered its read loop.
	StatusConnected ConnectionStatus = iota
	// StatusDisconnected indicates the stream ended, failed, or was stopped.
	StatusDisconnected
	// StatusReconnecting indicates a reconnect attempt is scheduled.
	StatusReconnecting
	// StatusReconnectFailed indicates the session exhausted its reconnect
	// attempts and is terminal.
	StatusReconnectFailed
)

// String returns the string representation of the status.
func (s ConnectionStatus) String() string {
	switch s {
	case StatusConnected:
		return "CONNECTED"
	case StatusDisconnected:
		return "DISCONNECTED"
	case StatusReconnecting:
		return "RECONNECTING"
	case StatusReconnectFailed:
		return "RECONNECT_FAILED"
	default:
		return "UNKNOWN"
	}
}

// ConnectionEvent notifies a change in a stream session's connection state.
type ConnectionEvent struct {
	Key     string
	Status  ConnectionStatus
	Message string
}

// MessageEvent notifies a text message spoken by an NPC, with an optional
// TTS audio payload.
type MessageEvent struct {
	NpcID uuid.UUID
	Key   string
	Text  string
	Audio *Audio
}

// HasAudio reports whether the event carries an audio payload.
func (e MessageEvent) HasAudio() bool { return e.Audio != nil && e.Audio.Data != "" }

// AudioBytes decodes the audio payload, or returns nil if there is none.
func (e MessageEvent) AudioBytes() []byte { return e.Audio.Bytes() }

// CommandEvent notifies a function invocation requested by an NPC. The host
// is expected to execute the command and may use the Command accessors to
// decode arguments on demand.
type CommandEvent struct {
	NpcID   uuid.UUID
	Key     string
	Command Command
}

// Name returns the invoked command's name.
func (e CommandEvent) Name() string { return e.Command.Name }

// Arguments returns the raw JSON argument payload.
func (e CommandEvent) Arguments() string { return e.Command.Arguments }

// ErrorEvent notifies a classified failure. NpcID and Key are optional
// depending on where the failure occurred.
type ErrorEvent struct {
	Kind    ErrorKind
	Message string
	NpcID   *uuid.UUID
	Key     string
	Err     error
}

// Publisher is the sink the stream session and HTTP client push
// notifications into. The event.Bus is the default implementation; hosts may
// supply their own. Message and command publication report whether any
// subscriber consumed the event.
type Publisher interface {
	ConnectionChanged(ConnectionEvent)
	NPCMessage(MessageEvent) bool
	NPCCommand(CommandEvent) bool
	StreamError(ErrorEvent)
}

// NoOpPublisher discards all notifications. Useful for tests and for request
// clients used without a bus.
type NoOpPublisher struct{}

// ConnectionChanged implements Publisher.
func (NoOpPublisher) ConnectionChanged(ConnectionEvent) {}

// NPCMessage implements Publisher.
func (NoOpPublisher) NPCMessage(MessageEvent) bool { return false }

// NPCCommand implements Publisher.
func (NoOpPublisher) NPCCommand(CommandEvent) bool { return false }

// StreamError implements Publisher.
func (NoOpPublisher) StreamError(ErrorEvent) {}
