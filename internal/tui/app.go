package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/analytiq/analytiq/internal/auth"
)

type view int

const (
	viewLanding view = iota
	viewAuth
	viewSites
	viewAddSite
	viewDetail
)

// protected views need an authenticated session.
func (v view) protected() bool {
	return v == viewSites || v == viewAddSite || v == viewDetail
}

// loggedOutMsg is the result of a user-initiated logout.
type loggedOutMsg struct {
	err error
}

// App is the root Bubbletea model.
type App struct {
	session Session
	api     SiteAPI
	feed    *SessionFeed
	snap    auth.Session

	view    view
	pending view // protected view to open after login; viewLanding when none

	auth     authModel
	sites    sitesModel
	addSite  addSiteModel
	detail   detailModel
	helpOpen bool
	notice   string

	width  int
	height int
	frame  int
}

// NewApp creates the TUI. feed may be nil when nothing publishes session
// changes.
func NewApp(s Session, api SiteAPI, feed *SessionFeed) App {
	a := App{
		session: s,
		api:     api,
		feed:    feed,
		snap:    auth.InitialSession(),
		auth:    newAuthModel(s, modeLogin),
		sites:   newSitesModel(api),
		addSite: newAddSiteModel(api),
	}
	return a
}

func (a App) Init() tea.Cmd {
	return tea.Batch(shimmerTickCmd(), a.initSession(), a.feed.next())
}

func (a App) initSession() tea.Cmd {
	s := a.session
	if s == nil {
		return nil
	}
	return func() tea.Msg {
		return sessionMsg{session: s.Init(context.Background())}
	}
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		// Chrome: header(2) + help(1) + notice(1)
		bodyMsg := tea.WindowSizeMsg{Width: msg.Width, Height: msg.Height - 4}
		a.sites, _ = a.sites.Update(bodyMsg)
		return a, nil

	case shimmerTickMsg:
		a.frame++
		return a, shimmerTickCmd()

	case sessionMsg:
		var cmd tea.Cmd
		a, cmd = a.applySession(msg.session)
		if msg.fromFeed {
			cmd = tea.Batch(cmd, a.feed.next())
		}
		return a, cmd

	case authDoneMsg:
		var cmd tea.Cmd
		a.auth, cmd = a.auth.Update(msg)
		if msg.err != nil {
			return a, cmd
		}
		a.snap = a.session.Snapshot()
		target := a.pending
		a.pending = viewLanding
		if !target.protected() {
			target = viewSites
		}
		a.auth = newAuthModel(a.session, modeLogin)
		return a.navigate(target)

	case showAddSiteMsg:
		a.addSite = newAddSiteModel(a.api)
		return a.navigate(viewAddSite)

	case showDetailMsg:
		a.detail = newDetailModel(a.api, msg.site)
		return a.navigate(viewDetail)

	case backToSitesMsg:
		return a.navigate(viewSites)

	case logoutMsg:
		s := a.session
		return a, func() tea.Msg { return loggedOutMsg{err: s.Logout()} }

	case loggedOutMsg:
		a.snap = a.session.Snapshot()
		a.view = viewLanding
		a.sites = newSitesModel(a.api)
		a.notice = "logged out"
		if msg.err != nil {
			a.notice = msg.err.Error()
		}
		return a, nil

	case siteCreatedMsg:
		var cmd, reload tea.Cmd
		a.addSite, cmd = a.addSite.Update(msg)
		a.sites, reload = a.sites.Update(msg)
		return a, tea.Batch(cmd, reload)

	case sitesLoadedMsg, siteDeletedMsg, siteVerifiedMsg:
		var cmd tea.Cmd
		a.sites, cmd = a.sites.Update(msg)
		return a, cmd

	case dashboardLoadedMsg, reportLoadedMsg:
		var cmd tea.Cmd
		a.detail, cmd = a.detail.Update(msg)
		return a, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		a.notice = ""

		if a.helpOpen {
			switch msg.String() {
			case "h", "?", "esc":
				a.helpOpen = false
			case "q":
				return a, tea.Quit
			}
			return a, nil
		}

		if msg.String() == "esc" {
			return a.back()
		}

		if !a.isEditing() {
			switch msg.String() {
			case "h", "?":
				a.helpOpen = true
				return a, nil
			case "q":
				return a, tea.Quit
			}
			if a.view == viewLanding {
				return a.landingKey(msg)
			}
		}
	}

	// Protected views render a placeholder until the session resolves.
	if a.view.protected() && !a.snap.IsAuthenticated {
		return a, nil
	}

	var cmd tea.Cmd
	switch a.view {
	case viewAuth:
		a.auth, cmd = a.auth.Update(msg)
	case viewSites:
		a.sites, cmd = a.sites.Update(msg)
	case viewAddSite:
		a.addSite, cmd = a.addSite.Update(msg)
	case viewDetail:
		a.detail, cmd = a.detail.Update(msg)
	}
	return a, cmd
}

func (a App) landingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "l":
		a.auth = newAuthModel(a.session, modeLogin)
		a.view = viewAuth
	case "s":
		a.auth = newAuthModel(a.session, modeSignup)
		a.view = viewAuth
	case "enter", "d":
		return a.navigate(viewSites)
	}
	return a, nil
}

// back handles esc: sub-views return to the site list, the rest to landing.
func (a App) back() (tea.Model, tea.Cmd) {
	switch a.view {
	case viewAddSite, viewDetail:
		return a.navigate(viewSites)
	case viewAuth:
		a.pending = viewLanding
		a.view = viewLanding
	}
	return a, nil
}

// navigate switches views, gating protected ones on the session.
func (a App) navigate(v view) (App, tea.Cmd) {
	a.view = v
	if !v.protected() {
		return a, nil
	}
	if a.snap.IsLoading {
		return a, nil
	}
	if !a.snap.IsAuthenticated {
		a.pending = v
		a.auth = newAuthModel(a.session, modeLogin)
		a.view = viewAuth
		return a, nil
	}
	return a, a.enter(v)
}

// enter returns the load command for a protected view.
func (a App) enter(v view) tea.Cmd {
	switch v {
	case viewSites:
		if !a.sites.loaded || a.sites.err != "" {
			return a.sites.Init()
		}
	case viewDetail:
		return a.detail.Init()
	}
	return nil
}

func (a App) applySession(s auth.Session) (App, tea.Cmd) {
	prev := a.snap
	a.snap = s

	if prev.IsAuthenticated && !s.IsAuthenticated && !s.IsLoading {
		// Session ended under us: refresh failure, 401 or logout elsewhere.
		a.view = viewLanding
		a.pending = viewLanding
		a.sites = newSitesModel(a.api)
		a.notice = s.Error
		if a.notice == "" {
			a.notice = "signed out"
		}
		return a, nil
	}

	if !s.IsAuthenticated && s.Error != "" && a.view == viewLanding {
		a.notice = s.Error
	}
	if prev.IsLoading && !s.IsLoading && a.view.protected() {
		return a.navigate(a.view)
	}
	return a, nil
}

func (a App) isEditing() bool {
	switch a.view {
	case viewAuth:
		return true
	case viewAddSite:
		return a.addSite.editing()
	case viewSites:
		return a.sites.confirmDelete
	}
	return false
}

func (a App) View() string {
	logo := renderShimmerLogo(a.frame)
	header := centered(logo, a.width, lipgloss.Width(logo))

	account := ""
	switch {
	case a.snap.IsLoading:
		account = dimStyle.Render("checking session...")
	case a.snap.IsAuthenticated:
		account = metaStyle.Render(a.snap.User.Label())
	}
	header += "\n" + centered(account, a.width, lipgloss.Width(account))

	var body, help string
	switch a.view {
	case viewLanding:
		body = landingView(a.snap, a.width)
		if a.snap.IsAuthenticated {
			help = helpBar("enter", "sites", "h", "help", "q", "quit")
		} else {
			help = helpBar("l", "log in", "s", "sign up", "h", "help", "q", "quit")
		}
	case viewAuth:
		body = a.auth.View()
		help = helpBar("tab", "next", "enter", "submit", "ctrl+t", "switch", "esc", "back")
	case viewSites:
		body = a.sites.View()
		if a.sites.confirmDelete {
			help = helpBar("y", "delete", "n", "cancel")
		} else {
			help = helpBar("j/k", "nav", "a", "add", "d", "delete", "v", "verify", "enter", "details", "o", "open", "r", "reload", "L", "logout", "h", "help")
		}
	case viewAddSite:
		body = a.addSite.View()
		if a.addSite.editing() {
			help = helpBar("tab", "next", "enter", "submit", "esc", "cancel")
		} else {
			help = helpBar("c", "copy snippet", "enter", "done", "esc", "back")
		}
	case viewDetail:
		body = a.detail.View()
		help = helpBar("r", "reload", "o", "open", "esc", "back", "q", "quit")
	}

	if a.view.protected() && !a.snap.IsAuthenticated {
		body = "\n " + dimStyle.Render("checking authentication...") + "\n"
	}

	if a.helpOpen {
		body = helpView()
		help = helpBar("esc", "close", "q", "quit")
	}

	notice := ""
	if a.notice != "" {
		notice = " " + warnStyle.Render(a.notice)
	}

	chrome := 4
	body = strings.TrimRight(truncateToHeight(body, a.height-chrome), "\n")

	return fmt.Sprintf("%s\n%s\n%s\n%s", header, body, notice, help)
}
