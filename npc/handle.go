package npc

import (
	"context"
	"errors"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/hupe1980/npclink/client"
	"github.com/hupe1980/npclink/logging"
)

// ErrNPCDead is returned when an operation targets a killed NPC handle.
var ErrNPCDead = errors.New("npc has been killed")

// API is the subset of the HTTP client the npc package needs. *client.Client
// satisfies it.
type API interface {
	SpawnNPC(ctx context.Context, gameID string, req client.SpawnRequest) (uuid.UUID, error)
	SendChat(ctx context.Context, gameID string, npcID uuid.UUID, req client.ChatRequest) error
	KillNPC(ctx context.Context, gameID string, npcID uuid.UUID) error
}

// ChatOptions carry the optional parts of a chat message.
type ChatOptions struct {
	// GameState is free-form world context passed alongside the message.
	GameState string
	// TTS selects how audio is produced, e.g. client.TTSLocalClient.
	TTS string
}

// WithGameState sets the game state context for one chat message.
func WithGameState(state string) func(o *ChatOptions) {
	return func(o *ChatOptions) { o.GameState = state }
}

// WithTTS selects the TTS mode for one chat message.
func WithTTS(mode string) func(o *ChatOptions) {
	return func(o *ChatOptions) { o.TTS = mode }
}

// Handle is a live NPC. Handles are created by Builder.Spawn and stay valid
// until Kill; afterwards every operation returns ErrNPCDead. Safe for
// concurrent use.
type Handle struct {
	api       API
	gameID    string
	id        uuid.UUID
	shortName string
	name      string
	logger    logging.Logger

	alive atomic.Bool

	// onKill is set by the registry so a killed handle drops out of it.
	onKill func(h *Handle)
}

func newHandle(api API, gameID string, id uuid.UUID, shortName, name string, logger logging.Logger) *Handle {
	h := &Handle{
		api:       api,
		gameID:    gameID,
		id:        id,
		shortName: shortName,
		name:      name,
		logger:    logger,
	}
	h.alive.Store(true)
	return h
}

// ID returns the NPC's backend identifier.
func (h *Handle) ID() uuid.UUID { return h.id }

// GameID returns the game the NPC lives in.
func (h *Handle) GameID() string { return h.gameID }

// ShortName returns the short name the NPC was spawned with.
func (h *Handle) ShortName() string { return h.shortName }

// DisplayName returns the NPC's display name.
func (h *Handle) DisplayName() string { return h.name }

// Alive reports whether the handle is still usable.
func (h *Handle) Alive() bool { return h.alive.Load() }

// Chat sends a message to the NPC. The reply arrives asynchronously on the
// game's response stream, not as a return value.
func (h *Handle) Chat(ctx context.Context, sender, message string, optFns ...func(o *ChatOptions)) error {
	if !h.alive.Load() {
		return ErrNPCDead
	}

	opts := ChatOptions{}
	for _, fn := range optFns {
		fn(&opts)
	}

	return h.api.SendChat(ctx, h.gameID, h.id, client.ChatRequest{
		SenderName:    sender,
		SenderMessage: message,
		GameStateInfo: opts.GameState,
		TTS:           opts.TTS,
	})
}

// Kill removes the NPC from the backend and invalidates the handle. Killing
// an already dead handle is a no-op.
func (h *Handle) Kill(ctx context.Context) error {
	if !h.alive.CompareAndSwap(true, false) {
		return nil
	}

	if err := h.api.KillNPC(ctx, h.gameID, h.id); err != nil {
		// The backend still has the NPC; let the caller retry.
		h.alive.Store(true)
		return err
	}

	h.logger.Info("npc killed", "game_id", h.gameID, "npc_id", h.id, "short_name", h.shortName)
	if h.onKill != nil {
		h.onKill(h)
	}
	return nil
}

// markDead invalidates the handle without a backend call. Used by the
// registry when handles are removed administratively.
func (h *Handle) markDead() {
	h.alive.Store(false)
}
