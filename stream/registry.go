package stream

import (
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/hupe1980/npclink/core"
	"github.com/hupe1980/npclink/logging"
)

// RegistryOptions configure a Registry.
type RegistryOptions struct {
	// Publisher is handed to every session. Defaults to a no-op sink.
	Publisher core.Publisher
	// Policy is the reconnect policy for every session.
	Policy Policy
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
	// MaxSessions caps the number of concurrently active sessions.
	// Zero means unlimited.
	MaxSessions int
}

// Registry tracks at most one active Session per key. All methods are safe
// for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	dial        func(key string) Dialer
	pub         core.Publisher
	policy      Policy
	logger      logging.Logger
	maxSessions int
}

// NewRegistry creates a session registry. The dial function builds the
// Dialer for a given session key.
func NewRegistry(dial func(key string) Dialer, optFns ...func(o *RegistryOptions)) *Registry {
	opts := RegistryOptions{
		Publisher: core.NoOpPublisher{},
		Policy:    DefaultPolicy(),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	return &Registry{
		sessions:    make(map[string]*Session),
		dial:        dial,
		pub:         opts.Publisher,
		policy:      opts.Policy,
		logger:      opts.Logger,
		maxSessions: opts.MaxSessions,
	}
}

// Start begins streaming for the given key. If a session for the key is
// already active the call is a no-op, so concurrent callers race safely.
func (r *Registry) Start(key string) {
	r.mu.Lock()
	if _, ok := r.sessions[key]; ok {
		r.mu.Unlock()
		return
	}
	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		r.mu.Unlock()
		r.logger.Warn("session limit reached, not starting stream", "key", key, "max", r.maxSessions)
		return
	}

	s := NewSession(key, r.dial(key), func(o *SessionOptions) {
		o.Publisher = r.pub
		o.Policy = r.policy
		o.Logger = r.logger
	})
	s.onExit = func(s *Session) { r.evict(s) }
	r.sessions[key] = s
	r.mu.Unlock()

	s.Start()
}

// Stop ends streaming for the given key and blocks until the session's
// goroutine has exited. Unknown keys are a no-op.
func (r *Registry) Stop(key string) {
	r.mu.Lock()
	s, ok := r.sessions[key]
	if ok {
		delete(r.sessions, key)
	}
	r.mu.Unlock()

	if ok {
		s.Stop()
	}
}

// Active reports whether a session for the key is currently registered.
func (r *Registry) Active(key string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.sessions[key]
	return ok
}

// Len returns the number of registered sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// ShutdownAll stops every registered session in parallel and waits for all
// of them to exit.
func (r *Registry) ShutdownAll() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	g := new(errgroup.Group)
	for _, s := range sessions {
		g.Go(func() error {
			s.Stop()
			return nil
		})
	}
	_ = g.Wait()
}

// evict drops a session that exited on its own, unless it was already
// replaced by a newer session for the same key.
func (r *Registry) evict(s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if cur, ok := r.sessions[s.key]; ok && cur == s {
		delete(r.sessions, s.key)
	}
}
