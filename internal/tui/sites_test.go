package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/analytiq/analytiq/pkg/client"
)

func loadedSitesModel(api *fakeSites) sitesModel {
	m := newSitesModel(api)
	m.width = 100
	m, _ = m.Update(sitesLoadedMsg{sites: api.sites})
	return m
}

func TestSitesRendersList(t *testing.T) {
	m := loadedSitesModel(&fakeSites{sites: testSites()})
	view := m.View()
	for _, want := range []string{"Blog", "Shop", "verified", "pending", "https://blog.example.com"} {
		if !strings.Contains(view, want) {
			t.Errorf("expected %q in view, got:\n%s", want, view)
		}
	}
}

func TestSitesLoadingAndEmpty(t *testing.T) {
	m := newSitesModel(&fakeSites{})
	if !strings.Contains(m.View(), "loading sites...") {
		t.Errorf("expected loading text, got:\n%s", m.View())
	}
	m, _ = m.Update(sitesLoadedMsg{})
	if !strings.Contains(m.View(), "no sites yet") {
		t.Errorf("expected empty state, got:\n%s", m.View())
	}
}

func TestSitesLoadError(t *testing.T) {
	m := newSitesModel(&fakeSites{})
	m, _ = m.Update(sitesLoadedMsg{err: client.ErrTimeout})
	if !strings.Contains(m.View(), "Request timed out") {
		t.Errorf("expected humanized error, got:\n%s", m.View())
	}
}

func TestSitesCursorBounds(t *testing.T) {
	m := loadedSitesModel(&fakeSites{sites: testSites()})
	m, _ = m.Update(keyMsg("k"))
	if m.cursor != 0 {
		t.Errorf("cursor moved above top: %d", m.cursor)
	}
	m, _ = m.Update(keyMsg("j"))
	m, _ = m.Update(keyMsg("j"))
	if m.cursor != 1 {
		t.Errorf("cursor moved past bottom: %d", m.cursor)
	}
}

func TestSitesCursorClampedOnReload(t *testing.T) {
	m := loadedSitesModel(&fakeSites{sites: testSites()})
	m.cursor = 1
	m, _ = m.Update(sitesLoadedMsg{sites: testSites()[:1]})
	if m.cursor != 0 {
		t.Errorf("expected cursor clamped to 0, got %d", m.cursor)
	}
}

func TestSitesDeleteConfirm(t *testing.T) {
	api := &fakeSites{sites: testSites()}
	m := loadedSitesModel(api)

	m, cmd := m.Update(keyMsg("d"))
	if cmd != nil {
		t.Fatal("delete must wait for confirmation")
	}
	if !m.confirmDelete || !strings.Contains(m.View(), "delete Blog? (y/n)") {
		t.Fatalf("expected confirmation prompt, got:\n%s", m.View())
	}

	m, cmd = m.Update(keyMsg("y"))
	if cmd == nil {
		t.Fatal("expected delete command after y")
	}
	msg := cmd().(siteDeletedMsg)
	if len(api.deleted) != 1 || api.deleted[0] != "s1" {
		t.Errorf("expected s1 deleted, got %v", api.deleted)
	}

	m, cmd = m.Update(msg)
	if cmd == nil {
		t.Error("expected reload after delete")
	}
	if !strings.Contains(m.View(), "site deleted") {
		t.Errorf("expected delete status, got:\n%s", m.View())
	}
}

func TestSitesDeleteCancel(t *testing.T) {
	api := &fakeSites{sites: testSites()}
	m := loadedSitesModel(api)
	m, _ = m.Update(keyMsg("d"))
	m, cmd := m.Update(keyMsg("n"))
	if cmd != nil || len(api.deleted) != 0 {
		t.Fatal("expected nothing deleted on n")
	}
	if m.confirmDelete {
		t.Error("expected prompt dismissed")
	}
}

func TestSitesVerify(t *testing.T) {
	api := &fakeSites{sites: testSites()}
	m := loadedSitesModel(api)
	m, _ = m.Update(keyMsg("j"))

	m, cmd := m.Update(keyMsg("v"))
	if cmd == nil {
		t.Fatal("expected verify command")
	}
	m, _ = m.Update(cmd())
	if !strings.Contains(m.View(), "Tracking script not found") {
		t.Errorf("expected verification message, got:\n%s", m.View())
	}

	api.verified = true
	m, cmd = m.Update(keyMsg("v"))
	m, reload := m.Update(cmd())
	if reload == nil {
		t.Error("expected reload after successful verification")
	}
	if !strings.Contains(m.View(), "tracking snippet found") {
		t.Errorf("expected success status, got:\n%s", m.View())
	}
}

func TestSitesKeyCommands(t *testing.T) {
	m := loadedSitesModel(&fakeSites{sites: testSites()})
	tests := []struct {
		key  string
		want tea.Msg
	}{
		{"a", showAddSiteMsg{}},
		{"enter", showDetailMsg{site: testSites()[0]}},
		{"L", logoutMsg{}},
	}
	for _, tc := range tests {
		t.Run(tc.key, func(t *testing.T) {
			_, cmd := m.Update(keyMsg(tc.key))
			if cmd == nil {
				t.Fatalf("expected command for %q", tc.key)
			}
			got := cmd()
			switch want := tc.want.(type) {
			case showDetailMsg:
				d, ok := got.(showDetailMsg)
				if !ok || d.site.SiteID != want.site.SiteID {
					t.Errorf("got %#v, want %#v", got, want)
				}
			default:
				if got != tc.want {
					t.Errorf("got %#v, want %#v", got, tc.want)
				}
			}
		})
	}
}
