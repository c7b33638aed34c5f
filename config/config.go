// Package config holds the npclink configuration object. A Config is an
// explicitly constructed value handed to npclink.New; there is no package
// level state.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Defaults applied by New.
const (
	DefaultBaseURL = "http://127.0.0.1:4315"

	DefaultConnectTimeout = 30 * time.Second
	DefaultRequestTimeout = 30 * time.Second

	DefaultReconnectBase        = 1 * time.Second
	DefaultReconnectMax         = 60 * time.Second
	DefaultMaxReconnectAttempts = 10
)

// Config configures the npclink library.
type Config struct {
	// BaseURL is the Player2 API address. The local app listens on
	// http://127.0.0.1:4315.
	BaseURL string

	// GameKey is the game client key from the developer dashboard, sent on
	// every request as the player2-game-key header. May be empty for local
	// testing against an unregistered game.
	GameKey string

	// ConnectTimeout is the TCP/TLS dial timeout for all HTTP connections.
	ConnectTimeout time.Duration

	// RequestTimeout bounds request/response API calls. The streaming
	// connection is not subject to it; a stream's lifetime is governed by
	// its session's cancellation.
	RequestTimeout time.Duration

	// ReconnectBase is the first reconnect delay; subsequent delays double
	// up to ReconnectMax.
	ReconnectBase time.Duration

	// ReconnectMax caps the reconnect delay before jitter.
	ReconnectMax time.Duration

	// MaxReconnectAttempts bounds consecutive failed connection attempts
	// before a stream session gives up.
	MaxReconnectAttempts int

	// MaxSessions caps concurrently active stream sessions. Zero means
	// unlimited.
	MaxSessions int
}

// New builds a validated Config from functional options.
func New(optFns ...func(c *Config)) (*Config, error) {
	cfg := &Config{
		BaseURL:              DefaultBaseURL,
		ConnectTimeout:       DefaultConnectTimeout,
		RequestTimeout:       DefaultRequestTimeout,
		ReconnectBase:        DefaultReconnectBase,
		ReconnectMax:         DefaultReconnectMax,
		MaxReconnectAttempts: DefaultMaxReconnectAttempts,
	}
	for _, fn := range optFns {
		fn(cfg)
	}

	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("config: base URL must not be empty")
	}
	if cfg.ConnectTimeout < 5*time.Second || cfg.ConnectTimeout > 120*time.Second {
		return nil, fmt.Errorf("config: connect timeout must be between 5s and 120s, got %s", cfg.ConnectTimeout)
	}
	if cfg.MaxReconnectAttempts < 1 || cfg.MaxReconnectAttempts > 50 {
		return nil, fmt.Errorf("config: max reconnect attempts must be between 1 and 50, got %d", cfg.MaxReconnectAttempts)
	}
	if cfg.ReconnectBase <= 0 || cfg.ReconnectMax < cfg.ReconnectBase {
		return nil, fmt.Errorf("config: reconnect delays must satisfy 0 < base <= max")
	}
	if cfg.MaxSessions < 0 {
		return nil, fmt.Errorf("config: max sessions must not be negative")
	}

	return cfg, nil
}

// WithBaseURL sets the Player2 API base URL. A trailing slash is trimmed.
func WithBaseURL(url string) func(c *Config) {
	return func(c *Config) { c.BaseURL = url }
}

// WithGameKey sets the game client key used for authentication.
func WithGameKey(key string) func(c *Config) {
	return func(c *Config) { c.GameKey = key }
}

// WithConnectTimeout sets the dial timeout (5s-120s).
func WithConnectTimeout(d time.Duration) func(c *Config) {
	return func(c *Config) { c.ConnectTimeout = d }
}

// WithRequestTimeout sets the per-request timeout for request/response calls.
func WithRequestTimeout(d time.Duration) func(c *Config) {
	return func(c *Config) { c.RequestTimeout = d }
}

// WithReconnect configures the stream reconnect policy (attempts 1-50).
func WithReconnect(base, max time.Duration, maxAttempts int) func(c *Config) {
	return func(c *Config) {
		c.ReconnectBase = base
		c.ReconnectMax = max
		c.MaxReconnectAttempts = maxAttempts
	}
}

// WithMaxSessions caps concurrently active stream sessions (0 = unlimited).
func WithMaxSessions(n int) func(c *Config) {
	return func(c *Config) { c.MaxSessions = n }
}
