package session

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAutoLogout(t *testing.T) {
	t.Run("fires exactly once, not before the duration", func(t *testing.T) {
		var fires int32
		fired := make(chan time.Time, 1)
		a := NewAutoLogout(func() {
			atomic.AddInt32(&fires, 1)
			fired <- time.Now()
		})

		start := time.Now()
		a.Arm(100 * time.Millisecond)
		assert.True(t, a.Armed())

		select {
		case at := <-fired:
			assert.GreaterOrEqual(t, at.Sub(start), 100*time.Millisecond)
		case <-time.After(2 * time.Second):
			t.Fatal("timer never fired")
		}

		// No second fire.
		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, int32(1), atomic.LoadInt32(&fires))
		assert.False(t, a.Armed())
	})

	t.Run("cancel disarms without firing", func(t *testing.T) {
		var fires int32
		a := NewAutoLogout(func() { atomic.AddInt32(&fires, 1) })

		a.Arm(50 * time.Millisecond)
		a.Cancel()
		assert.False(t, a.Armed())

		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, int32(0), atomic.LoadInt32(&fires))
	})

	t.Run("re-arm cancels the previous timer", func(t *testing.T) {
		var fires int32
		a := NewAutoLogout(func() { atomic.AddInt32(&fires, 1) })

		a.Arm(50 * time.Millisecond)
		a.Arm(300 * time.Millisecond)

		// The first timer would have fired by now; it must not.
		time.Sleep(150 * time.Millisecond)
		assert.Equal(t, int32(0), atomic.LoadInt32(&fires))

		require.Eventually(t, func() bool {
			return atomic.LoadInt32(&fires) == 1
		}, 2*time.Second, 10*time.Millisecond)
	})

	t.Run("cancel when never armed is a no-op", func(t *testing.T) {
		a := NewAutoLogout(func() { t.Error("must not fire") })
		a.Cancel()
		assert.False(t, a.Armed())
	})
}
