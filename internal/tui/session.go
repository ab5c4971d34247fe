package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/analytiq/analytiq/internal/auth"
	"github.com/analytiq/analytiq/pkg/domain"
)

// Session is the part of *auth.Manager the TUI drives.
type Session interface {
	Init(ctx context.Context) auth.Session
	Snapshot() auth.Session
	Login(ctx context.Context, email, password string) (*domain.User, error)
	Signup(ctx context.Context, email, password string) (*domain.User, error)
	Logout() error
	ClearError()
}

// SiteAPI is the part of *auth.Gateway the protected views use.
type SiteAPI interface {
	GetSites(ctx context.Context) ([]domain.Site, error)
	CreateSite(ctx context.Context, s domain.NewSite) (*domain.CreatedSite, error)
	DeleteSite(ctx context.Context, id string) (*domain.DeleteResult, error)
	VerifySite(ctx context.Context, id string) (*domain.Verification, error)
	GetDashboard(ctx context.Context, id string) (*domain.DashboardSummary, error)
	GetReport(ctx context.Context, id string, r domain.ReportRange) (*domain.Report, error)
}

// sessionMsg carries a session snapshot into the update loop.
type sessionMsg struct {
	session  auth.Session
	fromFeed bool
}

// SessionFeed hands manager notifications to the program. Publish never
// blocks and only the latest snapshot is kept, so it is safe as an
// auth.Manager subscriber.
type SessionFeed struct {
	mu     sync.Mutex
	latest auth.Session
	ready  chan struct{}
}

// NewSessionFeed returns an empty feed.
func NewSessionFeed() *SessionFeed {
	return &SessionFeed{ready: make(chan struct{}, 1)}
}

// Publish records s as the latest snapshot.
func (f *SessionFeed) Publish(s auth.Session) {
	f.mu.Lock()
	f.latest = s
	f.mu.Unlock()
	select {
	case f.ready <- struct{}{}:
	default:
	}
}

// next waits for the next published snapshot.
func (f *SessionFeed) next() tea.Cmd {
	if f == nil {
		return nil
	}
	return func() tea.Msg {
		<-f.ready
		f.mu.Lock()
		defer f.mu.Unlock()
		return sessionMsg{session: f.latest, fromFeed: true}
	}
}
