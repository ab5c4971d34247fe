package output

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func plainPrinter(quiet bool) (*Printer, *bytes.Buffer, *bytes.Buffer) {
	var out, errOut bytes.Buffer
	p := NewPrinter(PrinterOptions{ColorMode: ColorNever, Quiet: quiet, Out: &out, Err: &errOut})
	return p, &out, &errOut
}

func TestParseColorMode(t *testing.T) {
	tests := []struct {
		input string
		want  ColorMode
	}{
		{"auto", ColorAuto},
		{"always", ColorAlways},
		{"never", ColorNever},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseColorMode(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := ParseColorMode("rainbow")
	assert.Error(t, err)
}

func TestResolveColors(t *testing.T) {
	t.Setenv("NO_COLOR", "1")
	assert.True(t, ResolveColors(ColorAlways, false))
	assert.False(t, ResolveColors(ColorNever, true))
	assert.False(t, ResolveColors(ColorAuto, true))
}

func TestResolveColors_DumbTerm(t *testing.T) {
	t.Setenv("TERM", "dumb")
	assert.False(t, ResolveColors(ColorAuto, true))
}

func TestPrinter_Plain(t *testing.T) {
	p, out, errOut := plainPrinter(false)

	p.Success("Logged in as %s", "alice@example.com")
	p.Info("checking")
	p.Warning("token expires soon")
	p.Error("boom")

	assert.Contains(t, out.String(), "ok: Logged in as alice@example.com")
	assert.Contains(t, out.String(), "checking")
	assert.Contains(t, errOut.String(), "warning: token expires soon")
	assert.Contains(t, errOut.String(), "error: boom")
}

func TestPrinter_Quiet(t *testing.T) {
	p, out, errOut := plainPrinter(true)

	p.Success("hidden")
	p.Info("hidden")
	p.Header("hidden")
	p.PrintHints("login")
	p.Print("site_123")
	p.Error("still shown")

	assert.Equal(t, "site_123\n", out.String())
	assert.Contains(t, errOut.String(), "still shown")
	assert.Nil(t, p.Table([]string{"a"}))
}

func TestPrinter_Header(t *testing.T) {
	p, out, _ := plainPrinter(false)
	p.Header("Sites")
	assert.Equal(t, "\nSites\n-----\n", out.String())
}

func TestPrinter_StatusBadge(t *testing.T) {
	p, _, _ := plainPrinter(false)
	assert.Equal(t, "[verified]", p.StatusBadge("verified"))
	assert.Equal(t, "[pending]", p.StatusBadge("pending"))
}

func TestPrintHints(t *testing.T) {
	p, out, _ := plainPrinter(false)
	p.PrintHints("login")
	assert.Equal(t, "\nSee also: analytiq whoami, analytiq sites list\n", out.String())

	out.Reset()
	p.PrintHints("nope")
	assert.Empty(t, out.String())
}

func TestFormatError(t *testing.T) {
	p, _, errOut := plainPrinter(false)
	p.FormatError(&CLIError{
		Summary:    "not logged in",
		Detail:     "no stored token",
		Suggestion: "Run 'analytiq login'",
		ExitCode:   ExitAuthError,
	})

	lines := strings.Split(strings.TrimSpace(errOut.String()), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "error: not logged in", lines[0])
	assert.Equal(t, "  cause: no stored token", lines[1])
	assert.Equal(t, "  hint: Run 'analytiq login'", lines[2])
}

func TestFormatError_SummaryOnly(t *testing.T) {
	p, _, errOut := plainPrinter(false)
	p.FormatError(&CLIError{Summary: "boom"})
	assert.Equal(t, "error: boom\n", errOut.String())
}

func TestTable(t *testing.T) {
	p, out, _ := plainPrinter(false)
	tbl := p.Table([]string{"id", "name", "status"})
	tbl.AddRow("s1", "Blog", "verified")
	tbl.AddRow("s2", "Shop", "pending")
	assert.Equal(t, 2, tbl.Len())
	require.NoError(t, tbl.Render())

	got := out.String()
	assert.Contains(t, got, "Blog")
	assert.Contains(t, got, "Shop")
	assert.Contains(t, got, "s2")
}

func TestPrinter_ColorAlwaysThroughPipe(t *testing.T) {
	var out, errOut bytes.Buffer
	p := NewPrinter(PrinterOptions{ColorMode: ColorAlways, Out: &out, Err: &errOut})

	p.Success("done")
	p.FormatError(&CLIError{Summary: "boom", Suggestion: "retry"})

	assert.Contains(t, out.String(), "\x1b[")
	assert.Contains(t, out.String(), "done")
	assert.Contains(t, errOut.String(), "boom")
	assert.Contains(t, errOut.String(), "retry")
	assert.Contains(t, p.StatusBadge("verified"), "● verified")
}

func TestPrinter_QuietStillFormatsErrors(t *testing.T) {
	p, _, errOut := plainPrinter(true)
	p.Warning("hidden")
	p.FormatError(&CLIError{Summary: "boom", Detail: "why"})
	assert.Equal(t, "error: boom\n  cause: why\n", errOut.String())
}
