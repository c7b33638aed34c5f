// Package npc provides the high-level NPC surface: a fluent builder for
// spawning NPCs, handles for talking to live NPCs, and a registry that
// tracks every handle the process owns. Function declarations are built
// with the same builder style and compile down to the JSON-schema wire
// format the backend expects.
package npc
