package tui

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/analytiq/analytiq/internal/auth"
	"github.com/analytiq/analytiq/pkg/domain"
)

type fakeSession struct {
	mu       sync.Mutex
	snap     auth.Session
	loginErr error
	logins   int
	signups  int
	cleared  int
}

func newFakeSession(authenticated bool) *fakeSession {
	s := &fakeSession{}
	if authenticated {
		s.snap = auth.Session{User: &domain.User{Email: "alice@example.com"}, IsAuthenticated: true}
	}
	return s
}

func (f *fakeSession) Init(context.Context) auth.Session { return f.Snapshot() }

func (f *fakeSession) Snapshot() auth.Session {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.snap
}

func (f *fakeSession) Login(_ context.Context, email, _ string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.logins++
	if f.loginErr != nil {
		f.snap = auth.Session{Error: f.loginErr.Error()}
		return nil, f.loginErr
	}
	u := &domain.User{Email: email}
	f.snap = auth.Session{User: u, IsAuthenticated: true}
	return u, nil
}

func (f *fakeSession) Signup(ctx context.Context, email, password string) (*domain.User, error) {
	f.mu.Lock()
	f.signups++
	f.mu.Unlock()
	return f.Login(ctx, email, password)
}

func (f *fakeSession) Logout() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.snap = auth.Session{}
	return nil
}

func (f *fakeSession) ClearError() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.cleared++
	f.snap.Error = ""
}

type fakeSites struct {
	sites     []domain.Site
	err       error
	deleted   []string
	verified  bool
	created   *domain.CreatedSite
	summary   *domain.DashboardSummary
	report    *domain.Report
	reportErr error
	lastNewed domain.NewSite
}

func (f *fakeSites) GetSites(context.Context) ([]domain.Site, error) {
	return f.sites, f.err
}

func (f *fakeSites) CreateSite(_ context.Context, s domain.NewSite) (*domain.CreatedSite, error) {
	f.lastNewed = s
	if f.err != nil {
		return nil, f.err
	}
	return f.created, nil
}

func (f *fakeSites) DeleteSite(_ context.Context, id string) (*domain.DeleteResult, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.deleted = append(f.deleted, id)
	return &domain.DeleteResult{Status: "deleted"}, nil
}

func (f *fakeSites) VerifySite(_ context.Context, id string) (*domain.Verification, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.verified {
		return &domain.Verification{Verified: true, SiteID: id, Message: "Site verified"}, nil
	}
	return &domain.Verification{Verified: false, SiteID: id, Message: "Tracking script not found"}, nil
}

func (f *fakeSites) GetDashboard(_ context.Context, id string) (*domain.DashboardSummary, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.summary, nil
}

func (f *fakeSites) GetReport(context.Context, string, domain.ReportRange) (*domain.Report, error) {
	if f.err != nil {
		return nil, f.err
	}
	if f.reportErr != nil {
		return nil, f.reportErr
	}
	return f.report, nil
}

var errBoom = errors.New("boom")

func testSites() []domain.Site {
	return []domain.Site{
		{SiteID: "s1", Name: "Blog", URL: "https://blog.example.com", Verified: true, LastUpdated: "2026-10-18T10:00:00"},
		{SiteID: "s2", Name: "Shop", URL: "https://shop.example.com"},
	}
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "backspace":
		return tea.KeyMsg{Type: tea.KeyBackspace}
	case "ctrl+t":
		return tea.KeyMsg{Type: tea.KeyCtrlT}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeText(m authModel, text string) authModel {
	for _, r := range text {
		m, _ = m.Update(keyMsg(string(r)))
	}
	return m
}
