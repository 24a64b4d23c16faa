package session

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/amiskov/feed-client/pkg/auth"
	"github.com/amiskov/feed-client/pkg/logger"
)

type iAuthGateway interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
	CreateUser(ctx context.Context, email, password, name string) (*auth.CreateUserResult, error)
}

var ErrAuthInProgress = errors.New("session: authentication already in progress")

// Manager owns the session lifecycle: it is the single source of
// truth for the current state, consumes gateway results, drives the
// auto-logout timer and writes through the store. All transitions
// run to completion under one mutex, completion callbacks included.
type Manager struct {
	mu      sync.Mutex
	state   State
	sess    *Session
	lastErr *auth.Error

	gateway iAuthGateway
	store   Store
	sched   *AutoLogout
	ttl     time.Duration

	// Marker of the in-flight login/signup call. A response whose
	// marker no longer matches is stale (logout happened meanwhile)
	// and must be discarded, not applied.
	attempt string

	rehydrated bool
	subs       []func(State)
	notifyCh   chan stateNotice
}

// A committed transition together with the subscribers it goes to.
// Queued under the transition lock, delivered by one goroutine, so
// subscribers always observe transitions in commit order.
type stateNotice struct {
	st   State
	subs []func(State)
}

func NewManager(gw iAuthGateway, store Store, ttl time.Duration) *Manager {
	m := &Manager{
		state:    Unauthenticated,
		gateway:  gw,
		store:    store,
		ttl:      ttl,
		notifyCh: make(chan stateNotice, 64),
	}
	m.sched = NewAutoLogout(m.expire)
	go m.deliver()
	return m
}

// Subscribe registers a callback invoked after every committed
// transition. Callbacks run outside the manager lock, one at a
// time, in commit order, and must not block.
func (m *Manager) Subscribe(fn func(State)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.subs = append(m.subs, fn)
}

func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Current returns a snapshot of the live session, if any.
func (m *Manager) Current() (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.sess == nil {
		return Session{}, false
	}
	return *m.sess, true
}

func (m *Manager) LastError() *auth.Error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastErr
}

// Rehydrate reads the store once per process. An expired record is
// cleared and the manager stays logged out; a live one is adopted
// and the timer armed for the remaining lifetime.
func (m *Manager) Rehydrate(ctx context.Context) error {
	m.mu.Lock()
	if m.rehydrated {
		m.mu.Unlock()
		return nil
	}
	m.rehydrated = true

	stored, err := m.store.Load()
	if err != nil {
		m.mu.Unlock()
		return fmt.Errorf("session: failed loading stored session, %w", err)
	}
	if stored == nil {
		m.mu.Unlock()
		return nil
	}

	remaining := time.Until(stored.Expiry)
	if remaining <= 0 {
		logger.Log(ctx).Infof("session: stored session expired at %s, clearing", stored.Expiry)
		if err := m.store.Clear(); err != nil {
			logger.Log(ctx).Errorf("session: can't clear expired session, %v", err)
		}
		m.mu.Unlock()
		return nil
	}

	sess := *stored
	m.sess = &sess
	m.state = Authenticated
	m.sched.Arm(remaining)
	m.unlockAndNotify(Authenticated)
	return nil
}

// Login starts an authentication attempt. It returns
// ErrAuthInProgress while another attempt is outstanding; the
// result arrives through a transition and the subscribers.
func (m *Manager) Login(ctx context.Context, email, password string) error {
	attempt, err := m.startAttempt(ctx)
	if err != nil {
		return err
	}

	go func() {
		res, err := m.gateway.Login(ctx, email, password)
		m.finishLogin(ctx, attempt, res, err)
	}()
	return nil
}

// Signup creates an account. Success does not log the user in, the
// manager goes back to Unauthenticated and the user logs in
// explicitly.
func (m *Manager) Signup(ctx context.Context, email, password, name string) error {
	attempt, err := m.startAttempt(ctx)
	if err != nil {
		return err
	}

	go func() {
		_, err := m.gateway.CreateUser(ctx, email, password, name)
		m.finishSignup(ctx, attempt, err)
	}()
	return nil
}

// Logout clears the session from memory and from the store and
// disarms the timer. Calling it when already logged out is a no-op.
func (m *Manager) Logout() {
	m.mu.Lock()
	if m.state == Unauthenticated && m.sess == nil && m.lastErr == nil && m.attempt == "" {
		m.mu.Unlock()
		return
	}
	m.attempt = "" // a late auth response must not resurrect the session
	m.clearLocked(context.Background())
	m.state = Unauthenticated
	m.unlockAndNotify(Unauthenticated)
}

// AcknowledgeError dismisses the surfaced error.
func (m *Manager) AcknowledgeError() {
	m.mu.Lock()
	if m.state != Failed {
		m.mu.Unlock()
		return
	}
	m.lastErr = nil
	m.state = Unauthenticated
	m.unlockAndNotify(Unauthenticated)
}

func (m *Manager) startAttempt(ctx context.Context) (string, error) {
	m.mu.Lock()
	if m.state == Authenticating {
		m.mu.Unlock()
		logger.Log(ctx).Infof("session: auth request rejected, another one is in flight")
		return "", ErrAuthInProgress
	}
	if m.state == Authenticated {
		// Fresh login over a live session: drop the old one first
		// so its timer can't fire into the new session.
		m.clearLocked(ctx)
	}
	m.lastErr = nil
	m.state = Authenticating
	m.attempt = uuid.NewString()
	attempt := m.attempt
	m.unlockAndNotify(Authenticating)
	return attempt, nil
}

func (m *Manager) finishLogin(ctx context.Context, attempt string, res *auth.LoginResult, err error) {
	m.mu.Lock()
	if m.attempt != attempt || m.state != Authenticating {
		m.mu.Unlock()
		logger.Log(ctx).Infof("session: discarding stale login response")
		return
	}
	m.attempt = ""

	if err != nil {
		m.lastErr = asAuthError(err)
		m.state = Failed
		m.unlockAndNotify(Failed)
		return
	}

	expiry := time.Now().Add(m.ttl)
	if err := m.store.Save(res.Token, res.UserID, expiry); err != nil {
		// The session is still valid in memory for this run.
		logger.Log(ctx).Errorf("session: can't persist session, %v", err)
	}
	m.sess = &Session{
		Token:  res.Token,
		UserID: res.UserID,
		Expiry: expiry,
	}
	m.state = Authenticated
	m.sched.Arm(time.Until(expiry))
	m.unlockAndNotify(Authenticated)
}

func (m *Manager) finishSignup(ctx context.Context, attempt string, err error) {
	m.mu.Lock()
	if m.attempt != attempt || m.state != Authenticating {
		m.mu.Unlock()
		logger.Log(ctx).Infof("session: discarding stale signup response")
		return
	}
	m.attempt = ""

	if err != nil {
		m.lastErr = asAuthError(err)
		m.state = Failed
		m.unlockAndNotify(Failed)
		return
	}

	m.state = Unauthenticated
	m.unlockAndNotify(Unauthenticated)
}

// expire is the timer callback. It only acts on a live session; a
// logout or re-login that won the race already disarmed everything.
func (m *Manager) expire() {
	m.mu.Lock()
	if m.state != Authenticated {
		m.mu.Unlock()
		return
	}
	m.clearLocked(context.Background())
	m.state = Unauthenticated
	m.unlockAndNotify(Unauthenticated)
}

// clearLocked performs the logout side effects. Caller holds m.mu.
func (m *Manager) clearLocked(ctx context.Context) {
	m.sched.Cancel()
	if err := m.store.Clear(); err != nil {
		logger.Log(ctx).Errorf("session: can't clear stored session, %v", err)
	}
	m.sess = nil
	m.lastErr = nil
}

// unlockAndNotify queues the notification while still holding the
// lock, then releases it. Queueing under m.mu keeps the
// notifications in commit order even though transitions finish on
// different goroutines (gateway completions, the timer).
func (m *Manager) unlockAndNotify(st State) {
	subs := make([]func(State), len(m.subs))
	copy(subs, m.subs)
	m.notifyCh <- stateNotice{st: st, subs: subs}
	m.mu.Unlock()
}

func (m *Manager) deliver() {
	for n := range m.notifyCh {
		for _, fn := range n.subs {
			fn(n.st)
		}
	}
}

func asAuthError(err error) *auth.Error {
	var aerr *auth.Error
	if errors.As(err, &aerr) {
		return aerr
	}
	return &auth.Error{Kind: auth.Unknown, Message: err.Error()}
}
