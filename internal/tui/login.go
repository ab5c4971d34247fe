package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/analytiq/analytiq/internal/validate"
	"github.com/analytiq/analytiq/pkg/domain"
)

type authMode int

const (
	modeLogin authMode = iota
	modeSignup
)

type authField int

const (
	fieldEmail authField = iota
	fieldPassword
	fieldConfirm
	numAuthFields
)

var authFieldKeys = [numAuthFields]string{"email", "password", "confirm"}

// authDoneMsg is the result of a login or signup attempt.
type authDoneMsg struct {
	user *domain.User
	err  error
}

type authModel struct {
	session    Session
	mode       authMode
	fields     [numAuthFields]string
	focus      authField
	fieldErrs  map[string]string
	err        string
	submitting bool
}

func newAuthModel(s Session, mode authMode) authModel {
	return authModel{session: s, mode: mode}
}

func (m authModel) numFields() authField {
	if m.mode == modeSignup {
		return numAuthFields
	}
	return fieldConfirm
}

func (m authModel) Update(msg tea.Msg) (authModel, tea.Cmd) {
	switch msg := msg.(type) {
	case authDoneMsg:
		m.submitting = false
		if msg.err != nil {
			m.err = msg.err.Error()
			m.fields[fieldPassword] = ""
			m.fields[fieldConfirm] = ""
			m.focus = fieldPassword
		}
		return m, nil

	case tea.KeyMsg:
		if m.submitting {
			return m, nil
		}
		return m.updateKeys(msg)
	}
	return m, nil
}

func (m authModel) updateKeys(msg tea.KeyMsg) (authModel, tea.Cmd) {
	if m.err != "" {
		m.err = ""
		if m.session != nil {
			m.session.ClearError()
		}
	}
	n := m.numFields()

	switch msg.String() {
	case "ctrl+t":
		if m.mode == modeLogin {
			m.mode = modeSignup
		} else {
			m.mode = modeLogin
			if m.focus == fieldConfirm {
				m.focus = fieldPassword
			}
		}
		m.fieldErrs = nil
	case "tab", "down":
		m.focus = (m.focus + 1) % n
	case "shift+tab", "up":
		m.focus = (m.focus - 1 + n) % n
	case "enter":
		if m.focus < n-1 {
			m.focus++
			return m, nil
		}
		return m.submit()
	default:
		f := &m.fields[m.focus]
		*f = editRune(*f, msg.String())
		delete(m.fieldErrs, authFieldKeys[m.focus])
	}
	return m, nil
}

func (m authModel) submit() (authModel, tea.Cmd) {
	email := strings.TrimSpace(m.fields[fieldEmail])
	password := m.fields[fieldPassword]

	var err error
	if m.mode == modeSignup {
		err = validate.SignupForm{Email: email, Password: password, Confirm: m.fields[fieldConfirm]}.Validate()
	} else {
		err = validate.LoginForm{Email: email, Password: password}.Validate()
	}
	if err != nil {
		m.fieldErrs = validate.FieldErrors(err)
		for i := authField(0); i < m.numFields(); i++ {
			if _, bad := m.fieldErrs[authFieldKeys[i]]; bad {
				m.focus = i
				break
			}
		}
		return m, nil
	}

	m.fieldErrs = nil
	m.submitting = true
	s := m.session
	signup := m.mode == modeSignup
	return m, func() tea.Msg {
		var user *domain.User
		var err error
		if signup {
			user, err = s.Signup(context.Background(), email, password)
		} else {
			user, err = s.Login(context.Background(), email, password)
		}
		return authDoneMsg{user: user, err: err}
	}
}

func (m authModel) View() string {
	var b strings.Builder

	title, other := "Log in", "ctrl+t to create an account"
	if m.mode == modeSignup {
		title, other = "Create your account", "ctrl+t to log in instead"
	}
	b.WriteString("\n " + titleStyle.Render(title) + "  " + metaStyle.Render(other) + "\n\n")

	b.WriteString(renderField("email", m.fields[fieldEmail], "you@example.com",
		m.fieldErrs["email"], m.focus == fieldEmail, false) + "\n")
	b.WriteString(renderField("password", m.fields[fieldPassword], "••••••••",
		m.fieldErrs["password"], m.focus == fieldPassword, true) + "\n")

	if m.mode == modeSignup {
		if pw := m.fields[fieldPassword]; pw != "" {
			level := string(validate.PasswordStrength(pw))
			fmt.Fprintf(&b, "%s%s %s\n", strings.Repeat(" ", 14), metaStyle.Render("strength"), strengthStyle(level).Render(level))
		}
		b.WriteString(renderField("confirm", m.fields[fieldConfirm], "repeat password",
			m.fieldErrs["confirm"], m.focus == fieldConfirm, true) + "\n")
	}

	b.WriteString("\n")
	switch {
	case m.submitting && m.mode == modeSignup:
		b.WriteString(" " + dimStyle.Render("creating account...") + "\n")
	case m.submitting:
		b.WriteString(" " + dimStyle.Render("signing in...") + "\n")
	case m.err != "":
		b.WriteString(" " + errStyle.Render(m.err) + "\n")
	}
	return b.String()
}
