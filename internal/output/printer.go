// Package output renders what the analytiq subcommands print: tagged status
// lines, key/value blocks, tables and structured errors. Results go to the
// out writer and diagnostics to the err writer, so stdout stays pipeable.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"
)

// ColorMode is the value of the --color flag.
type ColorMode int

const (
	ColorAuto ColorMode = iota
	ColorAlways
	ColorNever
)

var colorModes = map[string]ColorMode{
	"auto":   ColorAuto,
	"always": ColorAlways,
	"never":  ColorNever,
}

// ParseColorMode maps a --color value to its mode.
func ParseColorMode(s string) (ColorMode, error) {
	mode, ok := colorModes[s]
	if !ok {
		return ColorAuto, fmt.Errorf("invalid color mode %q: must be auto, always, or never", s)
	}
	return mode, nil
}

// ResolveColors decides whether to colorize. In auto mode NO_COLOR and a dumb
// terminal switch colors off; otherwise the output.colors setting applies.
func ResolveColors(mode ColorMode, configColors bool) bool {
	if mode != ColorAuto {
		return mode == ColorAlways
	}
	_, noColor := os.LookupEnv("NO_COLOR")
	return configColors && !noColor && os.Getenv("TERM") != "dumb"
}

// PrinterOptions configures NewPrinter. Nil writers mean stdout and stderr.
type PrinterOptions struct {
	ColorMode    ColorMode
	ConfigColors bool
	Quiet        bool
	Out          io.Writer
	Err          io.Writer
}

// Printer writes command output. In quiet mode only Print, Error and
// FormatError produce anything.
type Printer struct {
	out   io.Writer
	err   io.Writer
	color bool
	quiet bool
}

func NewPrinter(opts PrinterOptions) *Printer {
	p := &Printer{
		out:   opts.Out,
		err:   opts.Err,
		color: ResolveColors(opts.ColorMode, opts.ConfigColors),
		quiet: opts.Quiet,
	}
	if p.out == nil {
		p.out = os.Stdout
	}
	if p.err == nil {
		p.err = os.Stderr
	}
	return p
}

// Out is the writer for results, e.g. JSON output.
func (p *Printer) Out() io.Writer {
	return p.out
}

func (p *Printer) IsQuiet() bool {
	return p.quiet
}

// paint applies attrs when colors are on. Colors are forced so that
// --color=always works through pipes.
func (p *Printer) paint(s string, attrs ...color.Attribute) string {
	if !p.color {
		return s
	}
	c := color.New(attrs...)
	c.EnableColor()
	return c.Sprint(s)
}

// tagged writes "tag: message" with the tag colored.
func (p *Printer) tagged(w io.Writer, tag string, attr color.Attribute, format string, args ...interface{}) {
	fmt.Fprintf(w, "%s %s\n", p.paint(tag+":", attr, color.Bold), fmt.Sprintf(format, args...))
}

// Info writes an untagged progress or context line.
func (p *Printer) Info(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	fmt.Fprintln(p.out, p.paint(fmt.Sprintf(format, args...), color.FgCyan))
}

// Success reports a completed action.
func (p *Printer) Success(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.tagged(p.out, "ok", color.FgGreen, format, args...)
}

// Warning goes to the err writer.
func (p *Printer) Warning(format string, args ...interface{}) {
	if p.quiet {
		return
	}
	p.tagged(p.err, "warning", color.FgYellow, format, args...)
}

func (p *Printer) Error(format string, args ...interface{}) {
	p.tagged(p.err, "error", color.FgRed, format, args...)
}

// Print writes format as is. Quiet mode does not apply, so scripts can still
// read the single value a command produces.
func (p *Printer) Print(format string, args ...interface{}) {
	fmt.Fprintf(p.out, format+"\n", args...)
}

// Header starts a section with an underlined title.
func (p *Printer) Header(title string) {
	if p.quiet {
		return
	}
	rule := "-"
	if p.color {
		rule = "─"
	}
	underline := strings.Repeat(rule, len([]rune(title)))
	fmt.Fprintf(p.out, "\n%s\n%s\n", p.paint(title, color.Bold), p.paint(underline, color.Faint))
}

// KeyValue writes one line of an aligned detail block.
func (p *Printer) KeyValue(key, value string) {
	if p.quiet {
		return
	}
	fmt.Fprintf(p.out, "  %-14s %s\n", key+":", value)
}

// StatusBadge renders a site's verification status for a table cell.
func (p *Printer) StatusBadge(status string) string {
	if !p.color {
		return "[" + status + "]"
	}
	switch status {
	case "verified":
		return p.paint("● verified", color.FgGreen)
	case "pending":
		return p.paint("○ pending", color.FgYellow)
	}
	return p.paint("○ "+status, color.FgWhite)
}
