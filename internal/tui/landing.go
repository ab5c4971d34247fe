package tui

import (
	"strings"

	"github.com/analytiq/analytiq/internal/auth"
)

var landingFeatures = []struct{ title, desc string }{
	{"Drop-in tracking", "one script tag per site, no cookies banner needed"},
	{"Ownership checks", "verify the snippet is live before numbers count"},
	{"Plain-language summaries", "visitors, pageviews and what changed"},
	{"Private by default", "your data stays on your backend"},
}

// landingView renders the product pitch. Keys depend on whether a session
// is already active.
func landingView(s auth.Session, width int) string {
	var b strings.Builder

	pitch := "Understand your website traffic without the dashboards."
	b.WriteString("\n" + centered(selectedStyle.Render(pitch), width, len(pitch)) + "\n\n")

	for _, f := range landingFeatures {
		b.WriteString("   " + accentStyle.Render("▸ ") + normalStyle.Render(f.title) + "  " + dimStyle.Render(f.desc) + "\n")
	}
	b.WriteString("\n")

	switch {
	case s.IsLoading:
		b.WriteString("   " + dimStyle.Render("checking authentication...") + "\n")
	case s.IsAuthenticated:
		who := "signed in"
		if label := s.User.Label(); label != "" {
			who = "signed in as " + label
		}
		b.WriteString("   " + okStyle.Render(who) + "\n\n")
		b.WriteString("   " + helpEntry("enter", "open your sites") + "\n")
	default:
		b.WriteString("   " + helpEntry("l", "log in") + "   " + helpEntry("s", "create an account") + "\n")
	}
	return b.String()
}
