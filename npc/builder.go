package npc

import (
	"context"
	"fmt"

	"github.com/hupe1980/npclink/client"
	"github.com/hupe1980/npclink/logging"
)

// StreamStarter begins response streaming for a session key. *stream.Registry
// satisfies it.
type StreamStarter interface {
	Start(key string)
}

// BuilderOptions wire a Builder into the surrounding SDK.
type BuilderOptions struct {
	// Handles receives the spawned handle. Nil skips registration.
	Handles *HandleRegistry
	// Streams is asked to start the game's response stream after a spawn.
	// Nil skips stream startup.
	Streams StreamStarter
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Builder assembles an NPC definition and spawns it. Builders are cheap,
// single-use, and not safe for concurrent mutation.
type Builder struct {
	api     API
	handles *HandleRegistry
	streams StreamStarter
	logger  logging.Logger

	shortName     string
	name          string
	description   string
	systemPrompt  string
	voiceID       string
	keepGameState *bool
	functions     []*Function
}

// NewBuilder starts an NPC definition with the given short name.
func NewBuilder(api API, shortName string, optFns ...func(o *BuilderOptions)) *Builder {
	opts := BuilderOptions{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Builder{
		api:       api,
		handles:   opts.Handles,
		streams:   opts.Streams,
		logger:    opts.Logger,
		shortName: shortName,
	}
}

// Name sets the NPC's display name. Defaults to the short name.
func (b *Builder) Name(name string) *Builder {
	b.name = name
	return b
}

// Description sets the character description the model roleplays from.
func (b *Builder) Description(desc string) *Builder {
	b.description = desc
	return b
}

// SystemPrompt sets additional system-level instructions.
func (b *Builder) SystemPrompt(prompt string) *Builder {
	b.systemPrompt = prompt
	return b
}

// VoiceID selects the TTS voice for the NPC.
func (b *Builder) VoiceID(voiceID string) *Builder {
	b.voiceID = voiceID
	return b
}

// KeepGameState asks the backend to persist the NPC's conversation state
// across spawns.
func (b *Builder) KeepGameState(v bool) *Builder {
	b.keepGameState = &v
	return b
}

// Function adds a command the NPC may invoke.
func (b *Builder) Function(fns ...*Function) *Builder {
	b.functions = append(b.functions, fns...)
	return b
}

// Spawn creates the NPC in the given game, registers its handle, and makes
// sure the game's response stream is running.
func (b *Builder) Spawn(ctx context.Context, gameID string) (*Handle, error) {
	if b.shortName == "" {
		return nil, fmt.Errorf("spawn npc: short name is required")
	}
	if gameID == "" {
		return nil, fmt.Errorf("spawn npc: game id is required")
	}

	name := b.name
	if name == "" {
		name = b.shortName
	}

	req := client.SpawnRequest{
		ShortName:            b.shortName,
		Name:                 name,
		CharacterDescription: b.description,
		SystemPrompt:         b.systemPrompt,
		VoiceID:              b.voiceID,
		KeepGameState:        b.keepGameState,
	}
	for _, f := range b.functions {
		req.Commands = append(req.Commands, f.Def())
	}

	id, err := b.api.SpawnNPC(ctx, gameID, req)
	if err != nil {
		return nil, err
	}

	b.logger.Info("npc spawned", "game_id", gameID, "npc_id", id, "short_name", b.shortName)

	h := newHandle(b.api, gameID, id, b.shortName, name, b.logger)
	if b.handles != nil {
		b.handles.Register(h)
	}
	if b.streams != nil {
		b.streams.Start(gameID)
	}
	return h, nil
}
