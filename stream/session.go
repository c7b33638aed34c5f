package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/hupe1980/npclink/client"
	"github.com/hupe1980/npclink/core"
	"github.com/hupe1980/npclink/logging"
)

// ErrStreamClosed indicates the server ended the stream. A natural close is
// treated like any other disconnect and routed through the reconnect policy.
var ErrStreamClosed = errors.New("stream closed by server")

// Dialer opens one streaming connection. Implementations must honor ctx
// cancellation while connecting and return a body whose Read unblocks when
// the body is closed.
type Dialer interface {
	Dial(ctx context.Context) (io.ReadCloser, error)
}

// DialerFunc adapts a function to the Dialer interface.
type DialerFunc func(ctx context.Context) (io.ReadCloser, error)

// Dial implements Dialer.
func (f DialerFunc) Dial(ctx context.Context) (io.ReadCloser, error) { return f(ctx) }

// HTTPDialer opens the NPC response stream over HTTP. The supplied client
// must not set an overall request timeout; a stream's lifetime is governed by
// session cancellation, not the transport.
type HTTPDialer struct {
	Client  *http.Client
	URL     string
	GameKey string
}

// Dial implements Dialer. A non-200 response is a connection failure.
func (d *HTTPDialer) Dial(ctx context.Context) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, d.URL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/x-json-stream")
	req.Header.Set(client.GameKeyHeader, d.GameKey)

	resp, err := d.Client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &core.APIError{Op: "connect stream", Status: resp.StatusCode}
	}
	return resp.Body, nil
}

// SessionOptions configure a Session.
type SessionOptions struct {
	// Publisher receives all notifications. Defaults to a no-op sink.
	Publisher core.Publisher
	// Policy governs reconnect behavior. Defaults to DefaultPolicy.
	Policy Policy
	// Logger defaults to NoOpLogger.
	Logger logging.Logger
}

// Session owns one response stream's connect / read / reconnect lifecycle
// for a single session key. It runs on its own goroutine and is safe to
// start and stop from concurrent callers; uniqueness per key is enforced by
// the Registry one layer up.
type Session struct {
	key    string
	dialer Dialer
	pub    core.Publisher
	policy Policy
	logger logging.Logger

	ctx    context.Context
	cancel context.CancelFunc
	done   chan struct{}

	started atomic.Bool
	stopped sync.Once

	// attempts counts consecutive failed connection attempts. Only the run
	// goroutine touches it.
	attempts int

	// onExit is invoked by the run goroutine after the final notification;
	// the Registry uses it to drop terminally failed sessions.
	onExit func(*Session)
}

// NewSession creates a stream session for the given key. The session does
// nothing until Start is called.
func NewSession(key string, dialer Dialer, optFns ...func(o *SessionOptions)) *Session {
	opts := SessionOptions{
		Publisher: core.NoOpPublisher{},
		Policy:    DefaultPolicy(),
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Session{
		key:    key,
		dialer: dialer,
		pub:    opts.Publisher,
		policy: opts.Policy,
		logger: opts.Logger,
		ctx:    ctx,
		cancel: cancel,
		done:   make(chan struct{}),
	}
}

// Key returns the session key.
func (s *Session) Key() string { return s.key }

// Start launches the session's run loop. Calling Start again, or after Stop,
// is a no-op.
func (s *Session) Start() {
	if s.ctx.Err() != nil {
		return
	}
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go s.run()
}

// Stop cancels the session and blocks until its goroutine has fully exited.
// Any in-flight read is interrupted and the final DISCONNECTED notification
// is published before Stop returns. Stopping an already stopped (or never
// started) session is a no-op.
func (s *Session) Stop() {
	s.stopped.Do(s.cancel)
	if s.started.Load() {
		<-s.done
	}
}

// Done is closed once the session's goroutine has exited, whether through
// Stop or terminal reconnect failure.
func (s *Session) Done() <-chan struct{} { return s.done }

func (s *Session) run() {
	defer close(s.done)
	defer func() {
		s.pub.ConnectionChanged(core.ConnectionEvent{
			Key:     s.key,
			Status:  core.StatusDisconnected,
			Message: "stream stopped",
		})
		if s.onExit != nil {
			s.onExit(s)
		}
	}()

	for {
		err := s.connectAndStream()
		if s.ctx.Err() != nil {
			return
		}

		s.logger.Warn("stream disconnected", "key", s.key, "error", err.Error())
		s.pub.ConnectionChanged(core.ConnectionEvent{
			Key:     s.key,
			Status:  core.StatusDisconnected,
			Message: err.Error(),
		})

		s.attempts++
		delay, retry := s.policy.Next(s.attempts)
		if !retry {
			s.logger.Error("max reconnection attempts reached", "key", s.key, "max", s.policy.MaxAttempts)
			s.pub.ConnectionChanged(core.ConnectionEvent{
				Key:     s.key,
				Status:  core.StatusReconnectFailed,
				Message: "exceeded maximum reconnection attempts",
			})
			return
		}

		s.logger.Info("stream reconnecting", "key", s.key, "attempt", s.attempts, "max", s.policy.MaxAttempts, "delay", delay)
		s.pub.ConnectionChanged(core.ConnectionEvent{
			Key:     s.key,
			Status:  core.StatusReconnecting,
			Message: fmt.Sprintf("reconnecting (attempt %d)", s.attempts),
		})

		if !s.sleep(delay) {
			return
		}
	}
}

// connectAndStream dials the stream and runs the read loop until the stream
// ends, a read fails, or the session is stopped.
func (s *Session) connectAndStream() error {
	if err := s.ctx.Err(); err != nil {
		return err
	}

	body, err := s.dialer.Dial(s.ctx)
	if err != nil {
		return fmt.Errorf("connect stream: %w", err)
	}
	defer body.Close()

	// Unblock a pending read when stop arrives.
	unhook := context.AfterFunc(s.ctx, func() { body.Close() })
	defer unhook()

	s.attempts = 0
	s.logger.Info("stream connected", "key", s.key)
	s.pub.ConnectionChanged(core.ConnectionEvent{
		Key:     s.key,
		Status:  core.StatusConnected,
		Message: "connected to response stream",
	})

	sc := newLineScanner(body)
	for {
		if err := s.ctx.Err(); err != nil {
			return err
		}
		line, err := sc.ReadLine()
		if errors.Is(err, io.EOF) {
			return ErrStreamClosed
		}
		if err != nil {
			return fmt.Errorf("read stream: %w", err)
		}
		s.dispatch(line)
	}
}

// dispatch decodes one line and publishes the resulting notifications.
// Decode failures never terminate the session.
func (s *Session) dispatch(line string) {
	ev, err := decodeLine(line)
	if err != nil {
		if errors.Is(err, errMissingNpcID) {
			s.logger.Warn("discarding stream event without npc_id", "key", s.key, "line", line)
			return
		}
		s.logger.Error("failed to parse stream event", "key", s.key, "line", line, "error", err.Error())
		s.pub.StreamError(core.ErrorEvent{
			Kind:    core.ErrKindParse,
			Message: "failed to parse NPC response: " + line,
			Key:     s.key,
			Err:     err,
		})
		return
	}

	if ev.Message != "" {
		s.pub.NPCMessage(core.MessageEvent{
			NpcID: ev.NpcID,
			Key:   s.key,
			Text:  ev.Message,
			Audio: ev.Audio,
		})
	}

	for _, cmd := range ev.Commands {
		if cmd.Name == "" {
			s.logger.Debug("skipping unnamed command", "key", s.key, "npc_id", ev.NpcID)
			continue
		}
		s.pub.NPCCommand(core.CommandEvent{
			NpcID:   ev.NpcID,
			Key:     s.key,
			Command: cmd,
		})
	}
}

// sleep waits for d or until the session is stopped. It reports whether the
// full delay elapsed.
func (s *Session) sleep(d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return true
	case <-s.ctx.Done():
		return false
	}
}
