// Package auth holds the client session: a small state machine over the
// stored credential, a periodic refresh task and the token-aware gateway
// that both of them talk to.
package auth

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/analytiq/analytiq/internal/validate"
	"github.com/analytiq/analytiq/pkg/domain"
)

// Backend is what the Manager needs from the API layer. *Gateway implements it.
type Backend interface {
	IsAuthenticated() bool
	ValidateToken(ctx context.Context) (*domain.Validation, error)
	RefreshToken(ctx context.Context) (*domain.AuthResponse, error)
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Signup(ctx context.Context, email, password string) (*domain.User, error)
	Logout() error
	SaveUser(u *domain.User) error
}

const sessionExpiredMessage = "Session expired. Please log in again."

// Manager owns the Session. Every change goes through dispatch, which also
// starts or stops the refresh task and notifies subscribers.
//
// Subscribers are called synchronously and in order; they must not call
// back into the Manager.
type Manager struct {
	backend  Backend
	log      *slog.Logger
	interval time.Duration

	mu      sync.Mutex
	session Session
	subs    map[int]func(Session)
	nextSub int
	task    *refreshTask
	closed  bool

	notifyMu sync.Mutex
}

// ManagerOption configures a Manager.
type ManagerOption func(*Manager)

// WithLogger sets the logger for transitions and refresh outcomes.
func WithLogger(l *slog.Logger) ManagerOption {
	return func(m *Manager) {
		if l != nil {
			m.log = l
		}
	}
}

// WithRefreshInterval overrides DefaultRefreshInterval. Non-positive values
// are ignored.
func WithRefreshInterval(d time.Duration) ManagerOption {
	return func(m *Manager) {
		if d > 0 {
			m.interval = d
		}
	}
}

// NewManager returns a Manager in the initial loading state. Call Init next.
func NewManager(backend Backend, opts ...ManagerOption) *Manager {
	m := &Manager{
		backend:  backend,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		interval: DefaultRefreshInterval,
		session:  InitialSession(),
		subs:     make(map[int]func(Session)),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Snapshot returns the current session.
func (m *Manager) Snapshot() Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.session
}

// Subscribe registers fn for every session change and returns a function
// that removes it.
func (m *Manager) Subscribe(fn func(Session)) (unsubscribe func()) {
	m.mu.Lock()
	id := m.nextSub
	m.nextSub++
	m.subs[id] = fn
	m.mu.Unlock()
	return func() {
		m.mu.Lock()
		delete(m.subs, id)
		m.mu.Unlock()
	}
}

// Init restores a stored session. A token that fails validation gets one
// refresh and one re-validation; anything else ends unauthenticated. Init
// never fails.
func (m *Manager) Init(ctx context.Context) Session {
	m.dispatch(actionLoading{})

	if !m.backend.IsAuthenticated() {
		m.log.Debug("no usable stored token")
		m.dispatch(actionLogout{})
		return m.Snapshot()
	}

	v, err := m.backend.ValidateToken(ctx)
	if err == nil && v.OK() {
		m.dispatch(actionSetUser{user: v.User})
		return m.Snapshot()
	}
	m.log.Info("stored token not accepted, trying refresh", "err", err)

	user, err := m.refreshAndValidate(ctx)
	if err != nil {
		m.log.Info("session restore failed", "err", err)
		m.dispatch(actionLogout{})
		return m.Snapshot()
	}
	m.dispatch(actionSetUser{user: user})
	return m.Snapshot()
}

// Login authenticates and moves straight to authenticated on success.
func (m *Manager) Login(ctx context.Context, email, password string) (*domain.User, error) {
	m.dispatch(actionLoading{})
	user, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return nil, m.fail("login", err)
	}
	m.dispatch(actionLoginSuccess{user: user})
	return user, nil
}

// Signup creates the account and then logs in with the same credentials.
func (m *Manager) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	m.dispatch(actionLoading{})
	created, err := m.backend.Signup(ctx, email, password)
	if err != nil {
		return nil, m.fail("signup", err)
	}
	loggedIn, err := m.backend.Login(ctx, email, password)
	if err != nil {
		return nil, m.fail("signup", err)
	}

	user := &domain.User{Email: email}
	if created != nil {
		user = user.Merge(*created)
	}
	if loggedIn != nil {
		user = user.Merge(*loggedIn)
	}
	if err := m.backend.SaveUser(user); err != nil {
		m.log.Warn("cache user after signup", "err", err)
	}
	m.dispatch(actionLoginSuccess{user: user})
	return user, nil
}

// Logout clears stored credentials and resets the session. The session is
// reset even if clearing the store fails.
func (m *Manager) Logout() error {
	err := m.backend.Logout()
	m.dispatch(actionLogout{})
	if err != nil {
		return &AuthError{Op: "logout", Message: "Failed to remove stored credentials", Err: err}
	}
	return nil
}

// Refresh forces a token refresh and re-validation. On failure the session
// is logged out.
func (m *Manager) Refresh(ctx context.Context) (*domain.User, error) {
	user, err := m.refreshAndValidate(ctx)
	if err != nil {
		m.log.Info("manual refresh failed", "err", err)
		m.forceLogout()
		return nil, &AuthError{Op: "refresh", Message: "Token refresh failed", Err: err}
	}
	m.dispatch(actionSetUser{user: user})
	return user, nil
}

// ClearError drops the current error message.
func (m *Manager) ClearError() {
	m.dispatch(actionClearError{})
}

// UpdateUser merges patch into the current profile and persists it.
func (m *Manager) UpdateUser(patch domain.User) error {
	user := m.Snapshot().User.Merge(patch)
	err := m.backend.SaveUser(user)
	m.dispatch(actionSetUser{user: user})
	if err != nil {
		return &AuthError{Op: "update user", Message: "Failed to save profile", Err: err}
	}
	return nil
}

// Expire ends the session after the backend rejected the token mid-use.
// Credentials are expected to be cleared already.
func (m *Manager) Expire() {
	m.dispatch(actionExpired{msg: sessionExpiredMessage})
}

// Close stops the refresh task and waits for it to exit. The Manager keeps
// answering Snapshot but no longer schedules refreshes.
func (m *Manager) Close() {
	m.mu.Lock()
	m.closed = true
	task := m.task
	m.task = nil
	m.mu.Unlock()

	if task != nil {
		task.stop()
		task.wait()
		m.log.Debug("refresh task stopped")
	}
}

func (m *Manager) refreshAndValidate(ctx context.Context) (*domain.User, error) {
	resp, err := m.backend.RefreshToken(ctx)
	if err != nil {
		return nil, err
	}
	if resp == nil || resp.AccessToken == "" {
		return nil, ErrInvalidToken
	}
	v, err := m.backend.ValidateToken(ctx)
	if err != nil {
		return nil, err
	}
	if !v.OK() {
		return nil, ErrInvalidToken
	}
	return v.User, nil
}

// tick runs on the refresh task. Results that arrive after the task was
// cancelled are dropped. The success path checks for cancellation under mu,
// so a logout that lands first always wins.
func (m *Manager) tick(ctx context.Context) {
	m.log.Debug("automatic token refresh")
	user, err := m.refreshAndValidate(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		m.log.Warn("automatic token refresh failed, logging out", "err", err)
		m.forceLogout()
		return
	}
	live := func() bool { return ctx.Err() == nil && !m.closed }
	if m.dispatchIf(live, actionSetUser{user: user}) {
		m.log.Info("token refreshed")
	}
}

func (m *Manager) forceLogout() {
	if err := m.backend.Logout(); err != nil {
		m.log.Warn("clear credentials", "err", err)
	}
	m.dispatch(actionLogout{})
}

func (m *Manager) fail(op string, err error) error {
	ae := &AuthError{Op: op, Message: validate.ErrorMessage(err), Err: err}
	m.dispatch(actionError{msg: ae.Message})
	return ae
}

func (m *Manager) dispatch(a action) {
	m.dispatchIf(nil, a)
}

// dispatchIf is dispatch guarded by ok, which runs under mu. A nil ok always
// passes. It reports whether a was applied.
func (m *Manager) dispatchIf(ok func() bool, a action) bool {
	m.mu.Lock()
	if ok != nil && !ok() {
		m.mu.Unlock()
		return false
	}
	prev := m.session
	next := reduce(prev, a)
	m.session = next
	m.reconcileLocked()
	subs := make([]func(Session), 0, len(m.subs))
	for _, fn := range m.subs {
		subs = append(subs, fn)
	}
	// Taken before releasing mu so notifications keep dispatch order.
	m.notifyMu.Lock()
	m.mu.Unlock()
	defer m.notifyMu.Unlock()

	if prev.State() != next.State() {
		m.log.Debug("session transition", "from", prev.State(), "to", next.State())
	}
	for _, fn := range subs {
		fn(next)
	}
	return true
}

// reconcileLocked runs the refresh task exactly while authenticated and not
// loading.
func (m *Manager) reconcileLocked() {
	want := !m.closed && m.session.IsAuthenticated && !m.session.IsLoading
	switch {
	case want && m.task == nil:
		m.task = startRefreshTask(m.interval, m.tick)
		m.log.Debug("refresh task started", "interval", m.interval)
	case !want && m.task != nil:
		m.task.stop()
		m.task = nil
		m.log.Debug("refresh task cancelled")
	}
}
