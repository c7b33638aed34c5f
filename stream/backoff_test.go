package stream

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPolicyNext(t *testing.T) {
	t.Run("doubles per attempt with bounded jitter", func(t *testing.T) {
		p := Policy{Base: 1 * time.Second, Max: 60 * time.Second, MaxAttempts: 10}

		for attempt := 1; attempt <= 10; attempt++ {
			want := p.Base << uint(attempt-1)
			if want > p.Max {
				want = p.Max
			}

			// Jitter is random, so sample repeatedly against the bounds.
			for i := 0; i < 50; i++ {
				d, ok := p.Next(attempt)
				require.True(t, ok, "attempt %d", attempt)
				assert.GreaterOrEqual(t, d, want, "attempt %d", attempt)
				assert.LessOrEqual(t, d, want+want/10, "attempt %d", attempt)
			}
		}
	})

	t.Run("caps at max", func(t *testing.T) {
		p := Policy{Base: 1 * time.Second, Max: 4 * time.Second, MaxAttempts: 50}

		d, ok := p.Next(40)
		require.True(t, ok)
		assert.GreaterOrEqual(t, d, p.Max)
		assert.LessOrEqual(t, d, p.Max+p.Max/10)
	})

	t.Run("gives up past max attempts", func(t *testing.T) {
		p := Policy{Base: time.Millisecond, Max: time.Second, MaxAttempts: 3}

		_, ok := p.Next(3)
		assert.True(t, ok)

		_, ok = p.Next(4)
		assert.False(t, ok)
	})

	t.Run("single attempt policy", func(t *testing.T) {
		p := Policy{Base: time.Millisecond, Max: time.Millisecond, MaxAttempts: 1}

		_, ok := p.Next(1)
		assert.True(t, ok)

		_, ok = p.Next(2)
		assert.False(t, ok)
	})

	t.Run("default policy", func(t *testing.T) {
		p := DefaultPolicy()
		assert.Equal(t, DefaultBase, p.Base)
		assert.Equal(t, DefaultMax, p.Max)
		assert.Equal(t, DefaultMaxAttempts, p.MaxAttempts)
	})
}
