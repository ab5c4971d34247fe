package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/analytiq/analytiq/internal/browser"
	"github.com/analytiq/analytiq/internal/validate"
	"github.com/analytiq/analytiq/pkg/domain"
)

// -- messages --

type sitesLoadedMsg struct {
	sites []domain.Site
	err   error
}

type siteDeletedMsg struct {
	id  string
	res *domain.DeleteResult
	err error
}

type siteVerifiedMsg struct {
	id  string
	res *domain.Verification
	err error
}

type openResultMsg struct {
	err error
}

// showAddSiteMsg asks the app to switch to the add-site form.
type showAddSiteMsg struct{}

// showDetailMsg asks the app to open the dashboard for a site.
type showDetailMsg struct {
	site domain.Site
}

// logoutMsg asks the app to end the session.
type logoutMsg struct{}

// -- model --

type sitesModel struct {
	api           SiteAPI
	sites         []domain.Site
	cursor        int
	loading       bool
	loaded        bool
	err           string
	status        string
	confirmDelete bool
	busy          string // site id with a request in flight
	width         int
	height        int
}

func newSitesModel(api SiteAPI) sitesModel {
	return sitesModel{api: api}
}

func (m sitesModel) Init() tea.Cmd {
	return m.load()
}

func (m sitesModel) load() tea.Cmd {
	api := m.api
	return func() tea.Msg {
		sites, err := api.GetSites(context.Background())
		return sitesLoadedMsg{sites: sites, err: err}
	}
}

func (m sitesModel) selected() (domain.Site, bool) {
	if m.cursor < 0 || m.cursor >= len(m.sites) {
		return domain.Site{}, false
	}
	return m.sites[m.cursor], true
}

func (m sitesModel) Update(msg tea.Msg) (sitesModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case sitesLoadedMsg:
		m.loading = false
		m.loaded = true
		if msg.err != nil {
			m.err = validate.ErrorMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.sites = msg.sites
		if m.cursor >= len(m.sites) {
			m.cursor = max(len(m.sites)-1, 0)
		}

	case siteDeletedMsg:
		m.busy = ""
		if msg.err != nil {
			m.status = errStyle.Render("delete failed: " + validate.ErrorMessage(msg.err))
			return m, nil
		}
		m.status = okStyle.Render("site deleted")
		m.loading = true
		return m, m.load()

	case siteVerifiedMsg:
		m.busy = ""
		switch {
		case msg.err != nil:
			m.status = errStyle.Render("verification failed: " + validate.ErrorMessage(msg.err))
		case msg.res.Verified:
			m.status = okStyle.Render("verified: tracking snippet found")
			m.loading = true
			return m, m.load()
		default:
			m.status = warnStyle.Render("not verified: " + msg.res.Message)
		}

	case openResultMsg:
		if msg.err != nil {
			m.status = errStyle.Render("could not open browser: " + msg.err.Error())
		}

	case siteCreatedMsg:
		if msg.err == nil {
			m.loading = true
			return m, m.load()
		}

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m sitesModel) handleKey(msg tea.KeyMsg) (sitesModel, tea.Cmd) {
	if m.confirmDelete {
		m.confirmDelete = false
		site, ok := m.selected()
		if msg.String() != "y" || !ok {
			m.status = dimStyle.Render("delete cancelled")
			return m, nil
		}
		m.busy = site.SiteID
		m.status = dimStyle.Render("deleting " + site.Name + "...")
		api := m.api
		return m, func() tea.Msg {
			res, err := api.DeleteSite(context.Background(), site.SiteID)
			return siteDeletedMsg{id: site.SiteID, res: res, err: err}
		}
	}

	m.status = ""
	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.sites)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "a":
		return m, func() tea.Msg { return showAddSiteMsg{} }
	case "d":
		if site, ok := m.selected(); ok {
			m.confirmDelete = true
			m.status = warnStyle.Render(fmt.Sprintf("delete %s? (y/n)", site.Name))
		}
	case "v":
		if site, ok := m.selected(); ok && m.busy == "" {
			m.busy = site.SiteID
			m.status = dimStyle.Render("checking " + site.URL + "...")
			api := m.api
			return m, func() tea.Msg {
				res, err := api.VerifySite(context.Background(), site.SiteID)
				return siteVerifiedMsg{id: site.SiteID, res: res, err: err}
			}
		}
	case "enter":
		if site, ok := m.selected(); ok {
			return m, func() tea.Msg { return showDetailMsg{site: site} }
		}
	case "o":
		if site, ok := m.selected(); ok {
			return m, func() tea.Msg {
				return openResultMsg{err: browser.Open(site.URL)}
			}
		}
	case "r":
		m.loading = true
		return m, m.load()
	case "L":
		return m, func() tea.Msg { return logoutMsg{} }
	}
	return m, nil
}

func (m sitesModel) View() string {
	var b strings.Builder

	if !m.loaded || (m.loading && len(m.sites) == 0) {
		b.WriteString(" " + dimStyle.Render("loading sites...") + "\n")
		return b.String()
	}
	if m.err != "" {
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
		b.WriteString(" " + dimStyle.Render("press r to retry") + "\n")
		return b.String()
	}

	b.WriteString(" " + titleStyle.Render("Your sites") + "  " + metaStyle.Render(fmt.Sprintf("%d", len(m.sites))) + "\n\n")
	if len(m.sites) == 0 {
		b.WriteString(" " + dimStyle.Render("no sites yet, press a to add your first one") + "\n")
	}

	urlWidth := max(m.width-48, 20)
	for i, site := range m.sites {
		cursor := " "
		nameStyle := normalStyle
		if i == m.cursor {
			cursor = accentStyle.Render("▸")
			nameStyle = selectedStyle
		}
		line := fmt.Sprintf(" %s %s  %s  %s  %s",
			cursor,
			nameStyle.Render(fmt.Sprintf("%-20s", truncStr(site.Name, 20))),
			statusBadge(site.Verified),
			dimStyle.Render(truncStr(site.URL, urlWidth)),
			metaStyle.Render(formatStamp(site.LastUpdated)),
		)
		if i == m.cursor {
			line = selectedRowBg.Render(line)
		}
		b.WriteString(line + "\n")
	}

	if m.status != "" {
		b.WriteString("\n " + m.status + "\n")
	}
	return b.String()
}
