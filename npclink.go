// Package npclink is a client SDK for the Player2 NPC platform. It lets a
// game spawn AI-driven NPCs, talk to them, and receive their replies and
// command invocations over a long-lived response stream. Most applications
// interact with this package by:
//  1. Creating an NPCLink via New() with a validated config
//  2. Registering listeners for messages, commands and connection changes
//  3. Spawning NPCs through Builder() and chatting via the returned handles
//
// The façade wires together the HTTP client, the stream session registry,
// the event bus and the NPC handle registry; the subpackages remain usable
// on their own for applications that need finer control.
package npclink

import (
	"context"
	"net"
	"net/http"

	"github.com/google/uuid"

	"github.com/hupe1980/npclink/client"
	"github.com/hupe1980/npclink/completion"
	"github.com/hupe1980/npclink/config"
	"github.com/hupe1980/npclink/event"
	"github.com/hupe1980/npclink/logging"
	"github.com/hupe1980/npclink/npc"
	"github.com/hupe1980/npclink/stream"
)

// Options configures the NPCLink instance.
type Options struct {
	// Logger (defaults to NoOp logger if nil)
	Logger logging.Logger
	// Bus overrides the default event bus. Useful when the host already
	// owns a bus shared with other subsystems.
	Bus *event.Bus
	// HTTPClient overrides the transport used for request/response calls.
	// Streaming connections always use a dedicated client without an
	// overall timeout.
	HTTPClient *http.Client
}

// NPCLink is the high-level façade aggregating the HTTP client, the stream
// registry, the handle registry and the event bus.
type NPCLink struct {
	cfg     *config.Config
	logger  logging.Logger
	bus     *event.Bus
	api     *client.Client
	compl   *completion.Client
	streams *stream.Registry
	handles *npc.HandleRegistry
}

// New creates an NPCLink from a validated config. A nil config gets the
// defaults, which target the local Player2 app.
func New(cfg *config.Config, optFns ...func(o *Options)) (*NPCLink, error) {
	if cfg == nil {
		var err error
		if cfg, err = config.New(); err != nil {
			return nil, err
		}
	}

	opts := Options{
		Logger: logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	bus := opts.Bus
	if bus == nil {
		bus = event.NewBus(func(o *event.BusOptions) { o.Logger = opts.Logger })
	}

	api := client.New(cfg.BaseURL, cfg.GameKey, func(o *client.Options) {
		o.HTTPClient = opts.HTTPClient
		o.RequestTimeout = cfg.RequestTimeout
		o.Publisher = bus
		o.Logger = opts.Logger
	})

	compl := completion.New(cfg.BaseURL, cfg.GameKey, func(o *completion.Options) {
		o.HTTPClient = opts.HTTPClient
		o.Logger = opts.Logger
	})

	// The stream transport must not carry an overall request timeout; a
	// healthy stream stays open indefinitely. Connection setup is still
	// bounded.
	streamHTTP := &http.Client{
		Transport: &http.Transport{
			DialContext:           (&net.Dialer{Timeout: cfg.ConnectTimeout}).DialContext,
			TLSHandshakeTimeout:   cfg.ConnectTimeout,
			ResponseHeaderTimeout: cfg.ConnectTimeout,
		},
	}

	streams := stream.NewRegistry(func(key string) stream.Dialer {
		return &stream.HTTPDialer{
			Client:  streamHTTP,
			URL:     cfg.BaseURL + "/v1/npc/games/" + key + "/npcs/responses",
			GameKey: cfg.GameKey,
		}
	}, func(o *stream.RegistryOptions) {
		o.Publisher = bus
		o.Policy = stream.Policy{
			Base:        cfg.ReconnectBase,
			Max:         cfg.ReconnectMax,
			MaxAttempts: cfg.MaxReconnectAttempts,
		}
		o.Logger = opts.Logger
		o.MaxSessions = cfg.MaxSessions
	})

	return &NPCLink{
		cfg:     cfg,
		logger:  opts.Logger,
		bus:     bus,
		api:     api,
		compl:   compl,
		streams: streams,
		handles: npc.NewHandleRegistry(),
	}, nil
}

// Client returns the underlying request/response HTTP client.
func (n *NPCLink) Client() *client.Client { return n.api }

// Completions returns the chat completions client.
func (n *NPCLink) Completions() *completion.Client { return n.compl }

// Builder starts an NPC definition. The spawned NPC is registered with this
// instance and its game's response stream is started automatically.
func (n *NPCLink) Builder(shortName string) *npc.Builder {
	return npc.NewBuilder(n.api, shortName, func(o *npc.BuilderOptions) {
		o.Handles = n.handles
		o.Streams = n.streams
		o.Logger = n.logger
	})
}

// NPC returns the live handle for the given NPC id.
func (n *NPCLink) NPC(id uuid.UUID) (*npc.Handle, bool) {
	return n.handles.Get(id)
}

// NPCsByGame returns every live handle belonging to the given game.
func (n *NPCLink) NPCsByGame(gameID string) []*npc.Handle {
	return n.handles.ByGame(gameID)
}

// KillNPC removes an NPC. It goes through the registered handle when one
// exists, falling back to a direct API call for NPCs spawned elsewhere.
func (n *NPCLink) KillNPC(ctx context.Context, gameID string, id uuid.UUID) error {
	if h, ok := n.handles.Get(id); ok {
		return h.Kill(ctx)
	}
	return n.api.KillNPC(ctx, gameID, id)
}

// StartListening opens the response stream for the given game. Already
// listening games are a no-op.
func (n *NPCLink) StartListening(gameID string) {
	n.streams.Start(gameID)
}

// StopListening closes the game's response stream and waits for it to shut
// down.
func (n *NPCLink) StopListening(gameID string) {
	n.streams.Stop(gameID)
}

// IsListening reports whether the game's response stream is active.
func (n *NPCLink) IsListening(gameID string) bool {
	return n.streams.Active(gameID)
}

// AddListener registers a listener on the event bus.
func (n *NPCLink) AddListener(l event.Listener) event.Subscription {
	return n.bus.Add(l)
}

// RemoveListener unregisters a listener.
func (n *NPCLink) RemoveListener(sub event.Subscription) {
	n.bus.Remove(sub)
}

// CheckHealth reports whether the backend is reachable.
func (n *NPCLink) CheckHealth(ctx context.Context) bool {
	return n.api.CheckHealth(ctx)
}

// TTSSpeak speaks text through the backend's TTS engine.
func (n *NPCLink) TTSSpeak(ctx context.Context, req client.TTSSpeakRequest) (*client.TTSSpeakResponse, error) {
	return n.api.TTSSpeak(ctx, req)
}

// TTSStop stops any in-app TTS playback.
func (n *NPCLink) TTSStop(ctx context.Context) error {
	return n.api.TTSStop(ctx)
}

// TTSVoices lists the voices available for TTS.
func (n *NPCLink) TTSVoices(ctx context.Context) ([]client.TTSVoice, error) {
	return n.api.TTSVoices(ctx)
}

// Shutdown stops every response stream, waits for them to exit, and
// invalidates all NPC handles. Backend NPCs are left running; kill them
// individually if the game session is over for good.
func (n *NPCLink) Shutdown() {
	n.streams.ShutdownAll()
	n.handles.Clear()
	n.bus.Clear()
	n.logger.Info("npclink shut down")
}
