package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/analytiq/analytiq/pkg/domain"
)

func TestReduce(t *testing.T) {
	alice := &domain.User{Email: "alice@example.com"}
	bob := &domain.User{Email: "bob@example.com"}

	tests := []struct {
		name   string
		from   Session
		action action
		want   Session
	}{
		{
			name:   "loading clears error",
			from:   Session{Error: "boom"},
			action: actionLoading{},
			want:   Session{IsLoading: true},
		},
		{
			name:   "loading keeps user",
			from:   Session{User: alice, IsAuthenticated: true},
			action: actionLoading{},
			want:   Session{User: alice, IsAuthenticated: true, IsLoading: true},
		},
		{
			name:   "login success",
			from:   Session{IsLoading: true},
			action: actionLoginSuccess{user: alice},
			want:   Session{User: alice, IsAuthenticated: true},
		},
		{
			name:   "logout resets",
			from:   Session{User: alice, IsAuthenticated: true, Error: "x"},
			action: actionLogout{},
			want:   Session{},
		},
		{
			name:   "error stops loading",
			from:   Session{IsLoading: true},
			action: actionError{msg: "Invalid email or password"},
			want:   Session{Error: "Invalid email or password"},
		},
		{
			name:   "clear error",
			from:   Session{User: alice, IsAuthenticated: true, Error: "x"},
			action: actionClearError{},
			want:   Session{User: alice, IsAuthenticated: true},
		},
		{
			name:   "set user authenticates",
			from:   Session{User: alice, IsLoading: true, Error: "kept"},
			action: actionSetUser{user: bob},
			want:   Session{User: bob, IsAuthenticated: true, Error: "kept"},
		},
		{
			name:   "expired logs out with message",
			from:   Session{User: alice, IsAuthenticated: true},
			action: actionExpired{msg: sessionExpiredMessage},
			want:   Session{Error: sessionExpiredMessage},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, reduce(tt.from, tt.action))
		})
	}
}

func TestClearErrorAlwaysEmpty(t *testing.T) {
	froms := []Session{
		InitialSession(),
		{},
		{Error: "x"},
		{IsLoading: true, Error: "y"},
		{User: &domain.User{Email: "a@b.co"}, IsAuthenticated: true, Error: "z"},
	}
	for _, s := range froms {
		assert.Empty(t, reduce(s, actionClearError{}).Error)
	}
}

func TestSessionState(t *testing.T) {
	assert.Equal(t, StateLoading, InitialSession().State())
	assert.Equal(t, StateUnauthenticated, Session{}.State())
	assert.Equal(t, StateAuthenticated, Session{IsAuthenticated: true}.State())
	assert.Equal(t, StateError, Session{Error: "x"}.State())
	assert.Equal(t, StateLoading, Session{IsLoading: true, Error: "x"}.State())
	assert.Equal(t, "authenticated", StateAuthenticated.String())
}
