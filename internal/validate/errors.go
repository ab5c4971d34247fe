package validate

import (
	"errors"
	"net"
	"strings"

	"github.com/analytiq/analytiq/pkg/client"
)

// ErrorMessage turns an API or transport error into something fit for a
// status line.
func ErrorMessage(err error) string {
	if err == nil {
		return "An unknown error occurred"
	}
	if errors.Is(err, client.ErrTimeout) {
		return "Request timed out. Please try again"
	}
	var opErr *net.OpError
	var dnsErr *net.DNSError
	if errors.As(err, &opErr) || errors.As(err, &dnsErr) {
		return "Unable to connect to server. Please check your internet connection"
	}

	msg := client.Message(err)
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "invalid credentials"):
		return "Invalid email or password"
	case strings.Contains(lower, "already registered"), strings.Contains(lower, "user already exists"):
		return "An account with this email already exists"
	case strings.Contains(lower, "timeout"), strings.Contains(lower, "timed out"):
		return "Request timed out. Please try again"
	}
	if msg == "" {
		return "An unexpected error occurred"
	}
	return msg
}
