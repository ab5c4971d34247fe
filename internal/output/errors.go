package output

import (
	"fmt"

	"github.com/fatih/color"
)

// Process exit codes. Scripts can tell a missing session (ExitAuthError)
// apart from a backend that answered with an error (ExitAPIError).
const (
	ExitSuccess     = 0
	ExitGeneral     = 1
	ExitUsageError  = 2 // bad flags or form input
	ExitAuthError   = 3 // no session, or the backend rejected it
	ExitConfigError = 4
	ExitTimeout     = 5
	ExitAPIError    = 6 // any other 4xx or 5xx
)

// CLIError is what a command returns when it wants to control the message
// and exit code. Summary is the headline; Detail and Suggestion are optional.
type CLIError struct {
	Summary    string
	Detail     string
	Suggestion string
	ExitCode   int
	Err        error
}

func (e *CLIError) Error() string { return e.Summary }

func (e *CLIError) Unwrap() error { return e.Err }

// FormatError writes e to the err writer as an "error:" line followed by
// indented cause and hint lines. Quiet mode does not hide it.
func (p *Printer) FormatError(e *CLIError) {
	p.Error("%s", e.Summary)
	if e.Detail != "" {
		fmt.Fprintf(p.err, "  %s %s\n", p.paint("cause:", color.Faint), e.Detail)
	}
	if e.Suggestion != "" {
		fmt.Fprintf(p.err, "  %s %s\n", p.paint("hint:", color.FgCyan), e.Suggestion)
	}
}
