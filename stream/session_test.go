package stream

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/npclink/core"
)

// recordingPublisher captures every notification in arrival order.
type recordingPublisher struct {
	mu       sync.Mutex
	conns    []core.ConnectionEvent
	messages []core.MessageEvent
	commands []core.CommandEvent
	errs     []core.ErrorEvent
}

func (p *recordingPublisher) ConnectionChanged(ev core.ConnectionEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.conns = append(p.conns, ev)
}

func (p *recordingPublisher) NPCMessage(ev core.MessageEvent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, ev)
	return true
}

func (p *recordingPublisher) NPCCommand(ev core.CommandEvent) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.commands = append(p.commands, ev)
	return true
}

func (p *recordingPublisher) StreamError(ev core.ErrorEvent) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.errs = append(p.errs, ev)
}

func (p *recordingPublisher) statuses() []core.ConnectionStatus {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]core.ConnectionStatus, len(p.conns))
	for i, ev := range p.conns {
		out[i] = ev.Status
	}
	return out
}

func (p *recordingPublisher) connEvents() []core.ConnectionEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]core.ConnectionEvent(nil), p.conns...)
}

func (p *recordingPublisher) messageTexts() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.messages))
	for i, ev := range p.messages {
		out[i] = ev.Text
	}
	return out
}

func fastPolicy(attempts int) Policy {
	return Policy{Base: time.Millisecond, Max: 2 * time.Millisecond, MaxAttempts: attempts}
}

func waitDone(t *testing.T, s *Session) {
	t.Helper()
	select {
	case <-s.Done():
	case <-time.After(5 * time.Second):
		t.Fatal("session did not exit in time")
	}
}

func TestSession(t *testing.T) {
	npcID := uuid.New()

	t.Run("fails twice then connects", func(t *testing.T) {
		pub := &recordingPublisher{}
		var mu sync.Mutex
		dials := 0

		pr, pw := io.Pipe()
		t.Cleanup(func() { pw.Close() })

		dialer := DialerFunc(func(ctx context.Context) (io.ReadCloser, error) {
			mu.Lock()
			defer mu.Unlock()
			dials++
			if dials <= 2 {
				return nil, errors.New("connection refused")
			}
			go fmt.Fprintf(pw, `{"npc_id":%q,"message":"<bob> Hi there"}`+"\n", npcID)
			return pr, nil
		})

		s := NewSession("alpha", dialer, func(o *SessionOptions) {
			o.Publisher = pub
			o.Policy = fastPolicy(5)
		})
		s.Start()

		require.Eventually(t, func() bool {
			return len(pub.messageTexts()) == 1
		}, 5*time.Second, 5*time.Millisecond)

		s.Stop()
		waitDone(t, s)

		assert.Equal(t, []string{"Hi there"}, pub.messageTexts())

		// Two failed dials each yield DISCONNECTED then RECONNECTING, the
		// third dial succeeds, and stopping ends with a final DISCONNECTED.
		assert.Equal(t, []core.ConnectionStatus{
			core.StatusDisconnected,
			core.StatusReconnecting,
			core.StatusDisconnected,
			core.StatusReconnecting,
			core.StatusConnected,
		}, pub.statuses()[:5])

		conns := pub.connEvents()
		assert.Equal(t, "reconnecting (attempt 1)", conns[1].Message)
		assert.Equal(t, "reconnecting (attempt 2)", conns[3].Message)
		assert.Equal(t, core.StatusDisconnected, conns[len(conns)-1].Status)
		assert.Equal(t, "stream stopped", conns[len(conns)-1].Message)
	})

	t.Run("stop interrupts a blocked read", func(t *testing.T) {
		pub := &recordingPublisher{}
		pr, pw := io.Pipe()
		t.Cleanup(func() { pw.Close() })

		s := NewSession("alpha", DialerFunc(func(ctx context.Context) (io.ReadCloser, error) {
			return pr, nil
		}), func(o *SessionOptions) {
			o.Publisher = pub
			o.Policy = fastPolicy(5)
		})
		s.Start()

		require.Eventually(t, func() bool {
			st := pub.statuses()
			return len(st) == 1 && st[0] == core.StatusConnected
		}, 5*time.Second, 5*time.Millisecond)

		s.Stop()
		waitDone(t, s)

		st := pub.statuses()
		assert.Equal(t, []core.ConnectionStatus{core.StatusConnected, core.StatusDisconnected}, st)
		assert.Equal(t, "stream stopped", pub.connEvents()[1].Message)
	})

	t.Run("gives up after max attempts", func(t *testing.T) {
		pub := &recordingPublisher{}

		s := NewSession("alpha", DialerFunc(func(ctx context.Context) (io.ReadCloser, error) {
			return nil, errors.New("connection refused")
		}), func(o *SessionOptions) {
			o.Publisher = pub
			o.Policy = fastPolicy(2)
		})
		s.Start()
		waitDone(t, s)

		assert.Equal(t, []core.ConnectionStatus{
			core.StatusDisconnected,
			core.StatusReconnecting,
			core.StatusDisconnected,
			core.StatusReconnecting,
			core.StatusDisconnected,
			core.StatusReconnectFailed,
			core.StatusDisconnected,
		}, pub.statuses())

		conns := pub.connEvents()
		assert.Equal(t, "exceeded maximum reconnection attempts", conns[5].Message)
	})

	t.Run("attempt counter resets on successful connect", func(t *testing.T) {
		pub := &recordingPublisher{}
		var mu sync.Mutex
		dials := 0

		// Dial 1 fails, dial 2 succeeds and closes cleanly, dial 3 fails,
		// dial 4 blocks so the session stays up until Stop.
		pr, pw := io.Pipe()
		t.Cleanup(func() { pw.Close() })

		dialer := DialerFunc(func(ctx context.Context) (io.ReadCloser, error) {
			mu.Lock()
			defer mu.Unlock()
			dials++
			switch dials {
			case 1, 3:
				return nil, errors.New("connection refused")
			case 2:
				return io.NopCloser(strings.NewReader("")), nil
			default:
				return pr, nil
			}
		})

		s := NewSession("alpha", dialer, func(o *SessionOptions) {
			o.Publisher = pub
			o.Policy = fastPolicy(5)
		})
		s.Start()

		require.Eventually(t, func() bool {
			mu.Lock()
			defer mu.Unlock()
			return dials >= 4
		}, 5*time.Second, 5*time.Millisecond)

		s.Stop()
		waitDone(t, s)

		var reconnects []string
		for _, ev := range pub.connEvents() {
			if ev.Status == core.StatusReconnecting {
				reconnects = append(reconnects, ev.Message)
			}
		}
		// The failure after the successful connect counts from one again.
		assert.Equal(t, []string{
			"reconnecting (attempt 1)",
			"reconnecting (attempt 1)",
			"reconnecting (attempt 2)",
		}, reconnects)
	})

	t.Run("malformed lines publish parse errors without killing the stream", func(t *testing.T) {
		pub := &recordingPublisher{}
		pr, pw := io.Pipe()
		t.Cleanup(func() { pw.Close() })

		s := NewSession("alpha", DialerFunc(func(ctx context.Context) (io.ReadCloser, error) {
			return pr, nil
		}), func(o *SessionOptions) {
			o.Publisher = pub
			o.Policy = fastPolicy(5)
		})
		s.Start()

		go func() {
			fmt.Fprintf(pw, "this is not json\n")
			fmt.Fprintf(pw, `{"message":"no subject"}`+"\n")
			fmt.Fprintf(pw, `{"npc_id":%q,"message":"still alive","command":[{"name":"wave","arguments":"{}"}]}`+"\n", npcID)
		}()

		require.Eventually(t, func() bool {
			return len(pub.messageTexts()) == 1
		}, 5*time.Second, 5*time.Millisecond)

		s.Stop()
		waitDone(t, s)

		pub.mu.Lock()
		defer pub.mu.Unlock()
		require.Len(t, pub.errs, 1)
		assert.Equal(t, core.ErrKindParse, pub.errs[0].Kind)
		assert.Contains(t, pub.errs[0].Message, "this is not json")
		require.Len(t, pub.commands, 1)
		assert.Equal(t, "wave", pub.commands[0].Name())
		assert.Equal(t, []core.MessageEvent{{NpcID: npcID, Key: "alpha", Text: "still alive"}}, pub.messages)
	})

	t.Run("empty message with commands publishes commands only", func(t *testing.T) {
		pub := &recordingPublisher{}
		line := fmt.Sprintf(`{"npc_id":%q,"command":[{"name":"jump","arguments":"{}"}]}`, npcID)
		pr, pw := io.Pipe()
		t.Cleanup(func() { pw.Close() })

		s := NewSession("alpha", DialerFunc(func(ctx context.Context) (io.ReadCloser, error) {
			return pr, nil
		}), func(o *SessionOptions) {
			o.Publisher = pub
			o.Policy = fastPolicy(5)
		})
		s.Start()

		go fmt.Fprint(pw, line+"\n")

		require.Eventually(t, func() bool {
			pub.mu.Lock()
			defer pub.mu.Unlock()
			return len(pub.commands) == 1
		}, 5*time.Second, 5*time.Millisecond)

		s.Stop()
		waitDone(t, s)

		assert.Empty(t, pub.messageTexts())
	})

	t.Run("stop interrupts the backoff sleep", func(t *testing.T) {
		pub := &recordingPublisher{}

		s := NewSession("alpha", DialerFunc(func(ctx context.Context) (io.ReadCloser, error) {
			return nil, errors.New("connection refused")
		}), func(o *SessionOptions) {
			o.Publisher = pub
			o.Policy = Policy{Base: time.Hour, Max: time.Hour, MaxAttempts: 10}
		})
		s.Start()

		require.Eventually(t, func() bool {
			for _, st := range pub.statuses() {
				if st == core.StatusReconnecting {
					return true
				}
			}
			return false
		}, 5*time.Second, 5*time.Millisecond)

		done := make(chan struct{})
		go func() {
			s.Stop()
			close(done)
		}()
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatal("stop did not interrupt the backoff sleep")
		}
	})

	t.Run("stop is idempotent and start after stop is a no-op", func(t *testing.T) {
		pub := &recordingPublisher{}
		pr, pw := io.Pipe()
		t.Cleanup(func() { pw.Close() })

		s := NewSession("alpha", DialerFunc(func(ctx context.Context) (io.ReadCloser, error) {
			return pr, nil
		}), func(o *SessionOptions) {
			o.Publisher = pub
			o.Policy = fastPolicy(5)
		})
		s.Start()
		s.Start()

		s.Stop()
		s.Stop()
		waitDone(t, s)

		before := len(pub.connEvents())
		s.Start()
		time.Sleep(20 * time.Millisecond)
		assert.Equal(t, before, len(pub.connEvents()))
	})

	t.Run("stop before start is a no-op", func(t *testing.T) {
		s := NewSession("alpha", DialerFunc(func(ctx context.Context) (io.ReadCloser, error) {
			return nil, errors.New("unreachable")
		}))
		s.Stop()
		s.Start()
		select {
		case <-s.Done():
			t.Fatal("done channel should stay open for a never-run session")
		default:
		}
	})
}
