// Package core provides the foundational domain types and interfaces shared
// across npclink. It defines:
//
//   - ServerEvent / Command / Audio (one decoded line of the NPC response stream)
//   - Notification payloads (connection status, NPC messages, NPC commands, errors)
//   - The Publisher interface the stream session emits notifications through
//   - The error taxonomy for classified HTTP and stream failures
//
// The package intentionally keeps implementation concerns (transports, the
// listener bus, session management) out of scope, exposing small interfaces so
// hosts can plug their own event sinks.
package core
