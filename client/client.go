package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hupe1980/npclink/core"
	"github.com/hupe1980/npclink/logging"
)

// GameKeyHeader is the header carrying the game client key on every request.
const GameKeyHeader = "player2-game-key"

// maxErrorBody bounds how much of an error response body is retained.
const maxErrorBody = 4096

// Options configure the client.
type Options struct {
	// HTTPClient overrides the default client (30s timeout).
	HTTPClient *http.Client
	// RequestTimeout is applied to the default HTTP client. Ignored when
	// HTTPClient is set.
	RequestTimeout time.Duration
	// Publisher receives error notifications for classified failures.
	// Defaults to a no-op sink.
	Publisher core.Publisher
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Client issues request/response calls against the Player2 NPC API.
// It is safe for concurrent use.
type Client struct {
	baseURL    string
	gameKey    string
	httpClient *http.Client
	pub        core.Publisher
	logger     logging.Logger
}

// New creates a client for the API at baseURL (trailing slash trimmed),
// authenticating with gameKey.
func New(baseURL, gameKey string, optFns ...func(o *Options)) *Client {
	opts := Options{
		RequestTimeout: 30 * time.Second,
		Publisher:      core.NoOpPublisher{},
		Logger:         logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	httpClient := opts.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: opts.RequestTimeout}
	}

	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		gameKey:    gameKey,
		httpClient: httpClient,
		pub:        opts.Publisher,
		logger:     opts.Logger,
	}
}

// BaseURL returns the base URL of the client.
func (c *Client) BaseURL() string { return c.baseURL }

// GameKey returns the configured game client key.
func (c *Client) GameKey() string { return c.gameKey }

// SpawnNPC spawns a new NPC in the given game and returns its ID. The
// response body is the new NPC's UUID.
func (c *Client) SpawnNPC(ctx context.Context, gameID string, req SpawnRequest) (uuid.UUID, error) {
	url := c.baseURL + "/v1/npc/games/" + gameID + "/npcs/spawn"

	resp, err := c.postJSON(ctx, url, req)
	if err != nil {
		return uuid.Nil, c.transportError("spawn NPC", err, nil, gameID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return uuid.Nil, c.apiError("spawn NPC", resp, nil, gameID)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return uuid.Nil, fmt.Errorf("spawn NPC: read response: %w", err)
	}
	npcID, err := uuid.Parse(strings.Trim(strings.TrimSpace(string(body)), `"`))
	if err != nil {
		return uuid.Nil, fmt.Errorf("spawn NPC: parse NPC id: %w", err)
	}

	c.logger.Info("npc.spawned", "npc_id", npcID, "game_id", gameID)

	return npcID, nil
}

// SendChat delivers a chat message to an NPC. The NPC's reply arrives
// asynchronously on the game's response stream.
func (c *Client) SendChat(ctx context.Context, gameID string, npcID uuid.UUID, req ChatRequest) error {
	url := c.baseURL + "/v1/npc/games/" + gameID + "/npcs/" + npcID.String() + "/chat"

	resp, err := c.postJSON(ctx, url, req)
	if err != nil {
		return c.transportError("send chat", err, &npcID, gameID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return c.apiError("send chat", resp, &npcID, gameID)
	}

	c.logger.Debug("npc.chat.sent", "npc_id", npcID, "game_id", gameID)

	return nil
}

// KillNPC removes an NPC from its game. A 404 is tolerated so killing an
// already-gone NPC is not an error.
func (c *Client) KillNPC(ctx context.Context, gameID string, npcID uuid.UUID) error {
	url := c.baseURL + "/v1/npc/games/" + gameID + "/npcs/" + npcID.String() + "/kill"

	resp, err := c.post(ctx, url)
	if err != nil {
		return c.transportError("kill NPC", err, &npcID, gameID)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNotFound {
		return c.apiError("kill NPC", resp, &npcID, gameID)
	}

	c.logger.Info("npc.killed", "npc_id", npcID, "game_id", gameID)

	return nil
}

// CheckHealth sends a heartbeat to the API. It reports healthy only on a 200
// response; transport failures count as unhealthy and are not published as
// error events.
func (c *Client) CheckHealth(ctx context.Context) bool {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/v1/health", nil)
	if err != nil {
		return false
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("health check failed", "error", err.Error())
		return false
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body) //nolint:errcheck

	healthy := resp.StatusCode == http.StatusOK
	c.logger.Debug("health check", "healthy", healthy)
	return healthy
}

// TTSSpeak speaks text through the Player2 app's TTS engine.
func (c *Client) TTSSpeak(ctx context.Context, req TTSSpeakRequest) (*TTSSpeakResponse, error) {
	resp, err := c.postJSON(ctx, c.baseURL+"/v1/tts/speak", req)
	if err != nil {
		return nil, c.transportError("TTS speak", err, nil, "")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError("TTS speak", resp, nil, "")
	}

	var out TTSSpeakResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("TTS speak: decode: %w", err)
	}
	return &out, nil
}

// TTSStop stops any currently playing TTS audio. A non-200 response is
// logged but not treated as an error.
func (c *Client) TTSStop(ctx context.Context) error {
	resp, err := c.post(ctx, c.baseURL+"/v1/tts/stop")
	if err != nil {
		return fmt.Errorf("TTS stop: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Warn("TTS stop returned unexpected status", "status", resp.StatusCode)
	}
	return nil
}

// TTSVoices lists the voices available for TTS.
func (c *Client) TTSVoices(ctx context.Context) ([]TTSVoice, error) {
	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/v1/tts/voices", nil)
	if err != nil {
		return nil, fmt.Errorf("TTS voices: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, c.transportError("TTS voices", err, nil, "")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, c.apiError("TTS voices", resp, nil, "")
	}

	var out ttsVoicesResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("TTS voices: decode: %w", err)
	}
	return out.Voices, nil
}

func (c *Client) newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, err
	}
	req.Header.Set(GameKeyHeader, c.gameKey)
	return req, nil
}

func (c *Client) postJSON(ctx context.Context, url string, body any) (*http.Response, error) {
	b, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal: %w", err)
	}
	req, err := c.newRequest(ctx, http.MethodPost, url, bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json; charset=utf-8")
	return c.httpClient.Do(req)
}

func (c *Client) post(ctx context.Context, url string) (*http.Response, error) {
	req, err := c.newRequest(ctx, http.MethodPost, url, nil)
	if err != nil {
		return nil, err
	}
	return c.httpClient.Do(req)
}

// apiError consumes the response body, builds a classified *core.APIError and
// publishes a matching error notification.
func (c *Client) apiError(op string, resp *http.Response, npcID *uuid.UUID, gameID string) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	apiErr := &core.APIError{Op: op, Status: resp.StatusCode, Body: strings.TrimSpace(string(body))}

	c.logger.Error("api.call.failed", "operation", op, "status", resp.StatusCode)
	c.pub.StreamError(core.ErrorEvent{
		Kind:    apiErr.Kind(),
		Message: apiErr.Error(),
		NpcID:   npcID,
		Key:     gameID,
		Err:     apiErr,
	})
	return apiErr
}

// transportError wraps a connection-level failure and publishes it.
func (c *Client) transportError(op string, err error, npcID *uuid.UUID, gameID string) error {
	wrapped := fmt.Errorf("%s: %w", op, err)

	c.logger.Error("api.call.failed", "operation", op, "error", err.Error())
	c.pub.StreamError(core.ErrorEvent{
		Kind:    core.ErrKindConnectionFailed,
		Message: wrapped.Error(),
		NpcID:   npcID,
		Key:     gameID,
		Err:     wrapped,
	})
	return wrapped
}
