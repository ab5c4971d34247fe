package auth

import "github.com/analytiq/analytiq/pkg/domain"

// Session is a snapshot of the client's authentication state.
type Session struct {
	User            *domain.User
	IsAuthenticated bool
	IsLoading       bool
	Error           string
}

// InitialSession is the state before Init has run.
func InitialSession() Session {
	return Session{IsLoading: true}
}

// State collapses a Session into one of four named states.
type State int

const (
	StateUnauthenticated State = iota
	StateLoading
	StateAuthenticated
	StateError
)

func (s State) String() string {
	switch s {
	case StateLoading:
		return "loading"
	case StateAuthenticated:
		return "authenticated"
	case StateError:
		return "error"
	default:
		return "unauthenticated"
	}
}

// State reports which named state the session is in. Loading wins over an
// error, and an error wins over the authenticated flag.
func (s Session) State() State {
	switch {
	case s.IsLoading:
		return StateLoading
	case s.Error != "":
		return StateError
	case s.IsAuthenticated:
		return StateAuthenticated
	default:
		return StateUnauthenticated
	}
}

type action interface{ isAction() }

type (
	actionLoading      struct{}
	actionLoginSuccess struct{ user *domain.User }
	actionLogout       struct{}
	actionError        struct{ msg string }
	actionClearError   struct{}
	actionSetUser      struct{ user *domain.User }
	actionExpired      struct{ msg string }
)

func (actionLoading) isAction()      {}
func (actionLoginSuccess) isAction() {}
func (actionLogout) isAction()       {}
func (actionError) isAction()        {}
func (actionClearError) isAction()   {}
func (actionSetUser) isAction()      {}
func (actionExpired) isAction()      {}

func reduce(s Session, a action) Session {
	switch a := a.(type) {
	case actionLoading:
		s.IsLoading = true
		s.Error = ""
	case actionLoginSuccess:
		s = Session{User: a.user, IsAuthenticated: true}
	case actionLogout:
		s = Session{}
	case actionError:
		s.IsLoading = false
		s.Error = a.msg
	case actionClearError:
		s.Error = ""
	case actionSetUser:
		s.User = a.user
		s.IsAuthenticated = true
		s.IsLoading = false
	case actionExpired:
		s = Session{Error: a.msg}
	}
	return s
}
