package tui

import (
	"context"
	"strings"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/analytiq/analytiq/internal/validate"
	"github.com/analytiq/analytiq/pkg/domain"
)

type siteField int

const (
	fieldSiteName siteField = iota
	fieldSiteURL
	numSiteFields
)

var siteFieldKeys = [numSiteFields]string{"name", "url"}

type siteCreatedMsg struct {
	created *domain.CreatedSite
	err     error
}

type copyResultMsg struct {
	err error
}

// backToSitesMsg asks the app to return to the site list.
type backToSitesMsg struct{}

type addSiteModel struct {
	api        SiteAPI
	fields     [numSiteFields]string
	focus      siteField
	fieldErrs  map[string]string
	err        string
	submitting bool
	created    *domain.CreatedSite
	status     string
}

func newAddSiteModel(api SiteAPI) addSiteModel {
	return addSiteModel{api: api}
}

// editing reports whether keystrokes go into the form.
func (m addSiteModel) editing() bool {
	return m.created == nil
}

func (m addSiteModel) Update(msg tea.Msg) (addSiteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case siteCreatedMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = validate.ErrorMessage(msg.err)
			return m, nil
		}
		m.created = msg.created
		m.fields = [numSiteFields]string{}
		m.focus = fieldSiteName

	case copyResultMsg:
		if msg.err != nil {
			m.status = errStyle.Render("copy failed: " + msg.err.Error())
		} else {
			m.status = okStyle.Render("snippet copied to clipboard")
		}

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		if m.created != nil {
			return m.handleCreatedKey(msg)
		}
		return m.handleFormKey(msg)
	}
	return m, nil
}

func (m addSiteModel) handleCreatedKey(msg tea.KeyMsg) (addSiteModel, tea.Cmd) {
	switch msg.String() {
	case "c":
		snippet := m.created.Snippet
		return m, func() tea.Msg {
			return copyResultMsg{err: clipboard.WriteAll(snippet)}
		}
	case "enter":
		return m, func() tea.Msg { return backToSitesMsg{} }
	}
	return m, nil
}

func (m addSiteModel) handleFormKey(msg tea.KeyMsg) (addSiteModel, tea.Cmd) {
	m.err = ""
	switch msg.String() {
	case "tab", "down":
		m.focus = (m.focus + 1) % numSiteFields
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + numSiteFields) % numSiteFields
	case "enter":
		if m.focus < numSiteFields-1 {
			m.focus++
			return m, nil
		}
		return m.submit()
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
		delete(m.fieldErrs, siteFieldKeys[m.focus])
	}
	return m, nil
}

func (m addSiteModel) submit() (addSiteModel, tea.Cmd) {
	form := validate.SiteForm{
		Name: validate.Sanitize(m.fields[fieldSiteName]),
		URL:  strings.TrimSpace(m.fields[fieldSiteURL]),
	}
	if err := form.Validate(); err != nil {
		m.fieldErrs = validate.FieldErrors(err)
		if _, bad := m.fieldErrs["name"]; bad {
			m.focus = fieldSiteName
		} else {
			m.focus = fieldSiteURL
		}
		return m, nil
	}

	m.fieldErrs = nil
	m.submitting = true
	api := m.api
	req := domain.NewSite{Name: form.Name, URL: form.URL}
	return m, func() tea.Msg {
		created, err := api.CreateSite(context.Background(), req)
		return siteCreatedMsg{created: created, err: err}
	}
}

func (m addSiteModel) View() string {
	var b strings.Builder

	if m.created != nil {
		b.WriteString("\n " + okStyle.Render("✓ "+m.created.Name+" added") + "\n\n")
		b.WriteString(" " + normalStyle.Render("Paste this into the <head> of every page on "+m.created.URL+":") + "\n\n")
		b.WriteString(snippetStyle.Render(m.created.Snippet) + "\n\n")
		b.WriteString(" " + warnStyle.Render("This snippet is only shown once.") + " " +
			dimStyle.Render("Press v on the site list once it is deployed.") + "\n")
		if m.status != "" {
			b.WriteString("\n " + m.status + "\n")
		}
		return b.String()
	}

	b.WriteString("\n " + titleStyle.Render("Add a site") + "\n\n")
	b.WriteString(renderField("name", m.fields[fieldSiteName], "My blog",
		m.fieldErrs["name"], m.focus == fieldSiteName, false) + "\n")
	b.WriteString(renderField("url", m.fields[fieldSiteURL], "https://example.com",
		m.fieldErrs["url"], m.focus == fieldSiteURL, false) + "\n\n")

	switch {
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("creating...") + "\n")
	case m.err != "":
		b.WriteString(" " + errStyle.Render(m.err) + "\n")
	}
	return b.String()
}
