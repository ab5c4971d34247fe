package auth

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/analytiq/analytiq/internal/credential"
	"github.com/analytiq/analytiq/pkg/client"
	"github.com/analytiq/analytiq/pkg/domain"
)

// Gateway is the token-aware layer between the session and the API client.
// It owns the credential store: tokens are saved on login and refresh and
// removed whenever the backend rejects them.
//
// Every clear bumps a logout epoch. A token or profile obtained under an
// older epoch is dropped instead of saved, so a refresh that was in flight
// during a logout cannot bring the credentials back.
type Gateway struct {
	api   *client.Client
	store credential.Store
	log   *slog.Logger
	now   func() time.Time

	mu             sync.Mutex
	onUnauthorized func()

	credMu sync.Mutex // guards epoch and all store writes
	epoch  uint64
}

// NewGateway wires api to store. A nil logger discards.
func NewGateway(api *client.Client, store credential.Store, log *slog.Logger) *Gateway {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return &Gateway{api: api, store: store, log: log, now: time.Now}
}

// OnUnauthorized registers fn to run after a protected call gets a 401 and
// the credentials have been cleared.
func (g *Gateway) OnUnauthorized(fn func()) {
	g.mu.Lock()
	g.onUnauthorized = fn
	g.mu.Unlock()
}

// IsAuthenticated reports whether a locally usable token is stored. Malformed
// or nearly expired tokens are removed.
func (g *Gateway) IsAuthenticated() bool {
	cred, err := g.store.Load()
	if err != nil {
		if !errors.Is(err, credential.ErrNotFound) {
			g.log.Warn("load credentials", "err", err)
		}
		g.api.SetToken("")
		return false
	}
	if !credential.Usable(cred.Token, g.now()) {
		g.log.Info("stored token expired or malformed, removing")
		g.clear()
		return false
	}
	g.api.SetToken(cred.Token)
	return true
}

// ValidateToken asks the backend whether the current token is still good. A
// rejected token is cleared; a transport failure leaves it in place.
func (g *Gateway) ValidateToken(ctx context.Context) (*domain.Validation, error) {
	epoch := g.currentEpoch()
	if err := g.syncToken(); err != nil {
		return nil, fmt.Errorf("auth.ValidateToken: %w", err)
	}
	v, err := g.api.ValidateToken(ctx)
	if err != nil {
		if client.IsStatus(err, http.StatusUnauthorized) {
			g.clear()
		} else {
			g.log.Warn("validate token: backend unreachable, keeping token", "err", err)
		}
		return nil, fmt.Errorf("auth.ValidateToken: %w", err)
	}
	if !v.OK() {
		g.clear()
		return v, fmt.Errorf("auth.ValidateToken: %w", ErrInvalidToken)
	}
	if err := g.saveUser(epoch, v.User); err != nil {
		g.log.Warn("cache user", "err", err)
	}
	return v, nil
}

// RefreshToken exchanges the current token for a new one. A failed refresh
// clears the stored credentials unless ctx was cancelled first.
func (g *Gateway) RefreshToken(ctx context.Context) (*domain.AuthResponse, error) {
	epoch := g.currentEpoch()
	if err := g.syncToken(); err != nil {
		return nil, fmt.Errorf("auth.RefreshToken: %w", err)
	}
	resp, err := g.api.RefreshToken(ctx)
	if err != nil {
		if ctx.Err() != nil || errors.Is(err, context.Canceled) {
			g.log.Debug("token refresh cancelled, keeping token", "err", err)
		} else {
			g.clear()
		}
		return nil, fmt.Errorf("auth.RefreshToken: %w", err)
	}
	if resp.AccessToken == "" {
		g.clear()
		return nil, fmt.Errorf("auth.RefreshToken: %w", ErrInvalidToken)
	}
	if err := g.setToken(epoch, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("auth.RefreshToken: %w", err)
	}
	return resp, nil
}

// Login exchanges credentials for a token, stores it and returns the
// validated profile. If validation fails the profile is just the email.
func (g *Gateway) Login(ctx context.Context, email, password string) (*domain.User, error) {
	epoch := g.currentEpoch()
	resp, err := g.api.Login(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}
	if resp.AccessToken == "" {
		return nil, fmt.Errorf("auth.Login: %w", ErrInvalidToken)
	}
	if err := g.setToken(epoch, resp.AccessToken); err != nil {
		return nil, fmt.Errorf("auth.Login: %w", err)
	}

	user := &domain.User{Email: email}
	if v, err := g.api.ValidateToken(ctx); err == nil && v.OK() {
		user = user.Merge(*v.User)
	} else {
		g.log.Debug("validate after login failed, using basic profile", "err", err)
	}
	if err := g.saveUser(epoch, user); err != nil {
		g.log.Warn("cache user", "err", err)
	}
	return user, nil
}

// Signup creates an account. It does not log in.
func (g *Gateway) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	u, err := g.api.Signup(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("auth.Signup: %w", err)
	}
	return u, nil
}

// Logout removes the stored token and profile. It waits for a save that is
// already under way, so nothing written before it survives.
func (g *Gateway) Logout() error {
	if err := g.wipe(); err != nil {
		return fmt.Errorf("auth.Logout: %w", err)
	}
	return nil
}

// SaveUser replaces the cached profile.
func (g *Gateway) SaveUser(u *domain.User) error {
	g.credMu.Lock()
	defer g.credMu.Unlock()
	if err := g.store.SaveUser(u); err != nil {
		return fmt.Errorf("auth.SaveUser: %w", err)
	}
	return nil
}

// CachedUser returns the profile saved by the last login or validation.
func (g *Gateway) CachedUser() *domain.User {
	cred, err := g.store.Load()
	if err != nil {
		return nil
	}
	return cred.User
}

func (g *Gateway) GetSites(ctx context.Context) ([]domain.Site, error) {
	if err := g.requireToken(); err != nil {
		return nil, err
	}
	sites, err := g.api.GetSites(ctx)
	return sites, g.guard(err)
}

func (g *Gateway) GetSite(ctx context.Context, id string) (*domain.Site, error) {
	if err := g.requireToken(); err != nil {
		return nil, err
	}
	site, err := g.api.GetSite(ctx, id)
	return site, g.guard(err)
}

func (g *Gateway) CreateSite(ctx context.Context, s domain.NewSite) (*domain.CreatedSite, error) {
	if err := g.requireToken(); err != nil {
		return nil, err
	}
	created, err := g.api.CreateSite(ctx, s)
	return created, g.guard(err)
}

func (g *Gateway) DeleteSite(ctx context.Context, id string) (*domain.DeleteResult, error) {
	if err := g.requireToken(); err != nil {
		return nil, err
	}
	res, err := g.api.DeleteSite(ctx, id)
	return res, g.guard(err)
}

func (g *Gateway) VerifySite(ctx context.Context, id string) (*domain.Verification, error) {
	if err := g.requireToken(); err != nil {
		return nil, err
	}
	v, err := g.api.VerifySite(ctx, id)
	return v, g.guard(err)
}

func (g *Gateway) GetDashboard(ctx context.Context, id string) (*domain.DashboardSummary, error) {
	if err := g.requireToken(); err != nil {
		return nil, err
	}
	d, err := g.api.GetDashboard(ctx, id)
	return d, g.guard(err)
}

func (g *Gateway) GetReport(ctx context.Context, id string, r domain.ReportRange) (*domain.Report, error) {
	if err := g.requireToken(); err != nil {
		return nil, err
	}
	rep, err := g.api.GetReport(ctx, id, r)
	return rep, g.guard(err)
}

// syncToken makes sure the client carries the stored token.
func (g *Gateway) syncToken() error {
	if g.api.Token() != "" {
		return nil
	}
	cred, err := g.store.Load()
	if err != nil {
		if errors.Is(err, credential.ErrNotFound) {
			return ErrNoToken
		}
		return err
	}
	g.api.SetToken(cred.Token)
	return nil
}

func (g *Gateway) requireToken() error {
	if g.api.Token() == "" {
		return ErrNotAuthenticated
	}
	return nil
}

func (g *Gateway) currentEpoch() uint64 {
	g.credMu.Lock()
	defer g.credMu.Unlock()
	return g.epoch
}

// setToken persists token only if no logout happened since epoch was read.
func (g *Gateway) setToken(epoch uint64, token string) error {
	g.credMu.Lock()
	defer g.credMu.Unlock()
	if g.epoch != epoch {
		return ErrLoggedOut
	}
	if err := g.store.SaveToken(token); err != nil {
		return err
	}
	g.api.SetToken(token)
	return nil
}

func (g *Gateway) saveUser(epoch uint64, u *domain.User) error {
	g.credMu.Lock()
	defer g.credMu.Unlock()
	if g.epoch != epoch {
		return ErrLoggedOut
	}
	return g.store.SaveUser(u)
}

func (g *Gateway) wipe() error {
	g.credMu.Lock()
	defer g.credMu.Unlock()
	g.epoch++
	g.api.SetToken("")
	return g.store.Clear()
}

func (g *Gateway) clear() {
	if err := g.wipe(); err != nil {
		g.log.Warn("clear credentials", "err", err)
	}
}

// guard clears credentials on 401 and tells the session.
func (g *Gateway) guard(err error) error {
	if err == nil || !client.IsStatus(err, http.StatusUnauthorized) {
		return err
	}
	g.log.Info("backend rejected token, clearing credentials")
	g.clear()
	g.mu.Lock()
	fn := g.onUnauthorized
	g.mu.Unlock()
	if fn != nil {
		fn()
	}
	return fmt.Errorf("%w: %w", ErrNotAuthenticated, err)
}
