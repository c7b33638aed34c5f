// Package completion exposes the backend's OpenAI-compatible chat
// completions endpoint. It wraps the official OpenAI client, pointed at the
// local API and authenticated with the game key header, and adapts a small
// request/response surface suitable for ad-hoc NPC reasoning outside the
// conversation streams.
package completion
