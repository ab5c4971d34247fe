package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// Shimmer animation for the ANALYTIQ logo.
type shimmerTickMsg time.Time

func shimmerTickCmd() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(t time.Time) tea.Msg {
		return shimmerTickMsg(t)
	})
}

// renderShimmerLogo renders "ANALYTIQ" as a wave of light moving from deep
// navy (#13284a) to electric blue (#3b9eff).
func renderShimmerLogo(frame int) string {
	const text = "ANALYTIQ"
	n := len(text)

	var out strings.Builder
	t := float64(frame)

	for i := 0; i < n; i++ {
		x := float64(i) / float64(n-1)

		phase := t*0.1 - x*3.0
		phase += math.Sin(t*0.023) * 2.0

		b := math.Sin(phase)*0.5 + 0.5
		b = math.Pow(b, 1.3)

		tide := math.Sin(t*0.035) * 0.12
		b = b*0.75 + tide + 0.18
		b = math.Max(0.05, math.Min(1.0, b))

		r := clampByte(19 + b*(59-19))
		g := clampByte(40 + b*(158-40))
		bl := clampByte(74 + b*(255-74))

		s := lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(fmt.Sprintf("#%02X%02X%02X", r, g, bl)))
		out.WriteString(s.Render(string(text[i])))

		if i < n-1 {
			out.WriteString("  ")
		}
	}
	return out.String()
}

func clampByte(v float64) int {
	if v > 255 {
		return 255
	}
	if v < 0 {
		return 0
	}
	return int(v)
}

var (
	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e4e8f4")).
			Bold(true)

	normalStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c6d4"))

	metaStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505a6e"))

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#8890a0"))

	helpLabelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#505a6e"))

	accentStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3b9eff"))

	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#3b9eff")).
			Bold(true)

	okStyle = lipgloss.NewStyle().
		Foreground(lipgloss.Color("#34d399"))

	warnStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#f5b944"))

	errStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#e05d5d"))

	inputPromptStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#3b9eff")).
				Bold(true)

	inputPlaceholderStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#343c4e"))

	snippetStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#c0c6d4")).
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#1e2a44")).
			Padding(0, 1)

	selectedRowBg = lipgloss.NewStyle().Background(lipgloss.Color("#141c2e"))
)

// statusBadge renders a site's verification state.
func statusBadge(verified bool) string {
	if verified {
		return okStyle.Render("● verified")
	}
	return warnStyle.Render("○ pending")
}

// strengthStyle colors the password strength meter.
func strengthStyle(level string) lipgloss.Style {
	switch level {
	case "strong":
		return okStyle
	case "medium":
		return warnStyle
	case "weak":
		return errStyle
	default:
		return metaStyle
	}
}

// helpEntry renders a single "key label" pair for help bars.
func helpEntry(key, label string) string {
	return helpKeyStyle.Render(key) + " " + helpLabelStyle.Render(label)
}

// helpBar joins key/label pairs into one bar line.
func helpBar(pairs ...string) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		parts = append(parts, helpEntry(pairs[i], pairs[i+1]))
	}
	return " " + strings.Join(parts, "  ")
}

// helpView renders the help overlay.
func helpView() string {
	title := titleStyle.Render("A N A L Y T I Q")
	tagline := lipgloss.NewStyle().
		Foreground(lipgloss.Color("245")).
		Italic(true).
		Render("Analytics for the sites you own, from your terminal.")

	cmdStyle := lipgloss.NewStyle().Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	sectionStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Bold(true)

	commands := []struct{ cmd, desc string }{
		{"analytiq", "Open the dashboard (interactive TUI)"},
		{"analytiq login", "Log in with email and password"},
		{"analytiq signup", "Create an account"},
		{"analytiq logout", "Clear your session"},
		{"analytiq sites list", "List your sites"},
		{"analytiq sites show", "Summary, top pages and daily traffic"},
		{"analytiq version", "Show version"},
	}
	keys := []struct{ key, desc string }{
		{"j/k", "move"},
		{"a", "add a site"},
		{"d", "delete the selected site"},
		{"v", "verify the tracking snippet"},
		{"enter", "dashboard, top pages and daily traffic"},
		{"o", "open the site in a browser"},
		{"r", "reload"},
		{"L", "log out"},
	}

	var b strings.Builder
	fmt.Fprintf(&b, "\n  %s\n\n  %s\n\n", title, tagline)

	fmt.Fprintf(&b, "  %s\n", sectionStyle.Render("Commands"))
	for _, c := range commands {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", c.cmd)), descStyle.Render(c.desc))
	}

	fmt.Fprintf(&b, "\n  %s\n", sectionStyle.Render("Sites view"))
	for _, k := range keys {
		fmt.Fprintf(&b, "    %s  %s\n", cmdStyle.Render(fmt.Sprintf("%-20s", k.key)), descStyle.Render(k.desc))
	}
	return b.String()
}
