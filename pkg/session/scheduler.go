package session

import (
	"sync"
	"time"
)

// AutoLogout is a cancellable one-shot timer which forces the
// session out when it fires. Arm always cancels the previous timer
// first, so a re-login can never leave an old timer alive that
// would log the fresh session out mid-way.
type AutoLogout struct {
	mu       sync.Mutex
	timer    *time.Timer
	gen      uint64
	onExpire func()
}

func NewAutoLogout(onExpire func()) *AutoLogout {
	return &AutoLogout{onExpire: onExpire}
}

func (a *AutoLogout) Arm(d time.Duration) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.gen++
	gen := a.gen
	if a.timer != nil {
		a.timer.Stop()
	}
	a.timer = time.AfterFunc(d, func() {
		a.fire(gen)
	})
}

func (a *AutoLogout) Cancel() {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.gen++
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
}

func (a *AutoLogout) Armed() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.timer != nil
}

func (a *AutoLogout) fire(gen uint64) {
	a.mu.Lock()
	if gen != a.gen || a.timer == nil {
		// Cancelled or re-armed after this timer was scheduled.
		a.mu.Unlock()
		return
	}
	a.timer = nil
	a.mu.Unlock()

	// The callback takes the manager lock, so it must run outside ours.
	a.onExpire()
}
