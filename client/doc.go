// Package client implements the request/response side of the Player2 NPC
// API: spawning, chatting with and killing NPCs, health checks and the TTS
// endpoints. Each operation is a plain JSON-over-HTTP call returning a typed
// result or a classified error; the long-lived response stream lives in the
// stream package.
//
// Failures with a status-code classification (auth, credits, not-found) are
// additionally published as error notifications when the client was built
// with a publisher, mirroring how stream failures reach the host.
package client
