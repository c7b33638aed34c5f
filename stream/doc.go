// Package stream implements the long-lived NPC response stream: one session
// per game key that connects to the newline-delimited JSON endpoint, decodes
// events, publishes notifications and reconnects with bounded exponential
// backoff. It consists of:
//
//   - A line scanner turning the raw response body into trimmed, non-empty lines
//   - A decoder turning one line into a core.ServerEvent
//   - A pure reconnect Policy (delay growth, cap, jitter, give-up)
//   - The Session state machine owning one connection's lifecycle
//   - A Registry enforcing at most one live session per key
//
// Sessions perform no business logic; every observation (connection status,
// NPC messages, NPC commands, parse failures) is pushed to a core.Publisher.
package stream
