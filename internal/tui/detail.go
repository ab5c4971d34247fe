package tui

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/analytiq/analytiq/internal/browser"
	"github.com/analytiq/analytiq/internal/validate"
	"github.com/analytiq/analytiq/pkg/client"
	"github.com/analytiq/analytiq/pkg/domain"
)

const (
	detailTopPages  = 5
	detailTrendDays = 14
)

type dashboardLoadedMsg struct {
	siteID  string
	summary *domain.DashboardSummary
	err     error
}

type reportLoadedMsg struct {
	siteID string
	report *domain.Report
	err    error
}

type detailModel struct {
	api     SiteAPI
	site    domain.Site
	summary *domain.DashboardSummary
	report  *domain.Report
	loading bool
	err     string
	// reportNote replaces the report sections when there is nothing to show.
	reportNote string
	status     string
}

func newDetailModel(api SiteAPI, site domain.Site) detailModel {
	return detailModel{api: api, site: site, loading: true}
}

func (m detailModel) Init() tea.Cmd {
	api := m.api
	id := m.site.SiteID
	return tea.Batch(
		func() tea.Msg {
			summary, err := api.GetDashboard(context.Background(), id)
			return dashboardLoadedMsg{siteID: id, summary: summary, err: err}
		},
		func() tea.Msg {
			report, err := api.GetReport(context.Background(), id, domain.ReportRange{})
			return reportLoadedMsg{siteID: id, report: report, err: err}
		},
	)
}

func (m detailModel) Update(msg tea.Msg) (detailModel, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		if msg.siteID != m.site.SiteID {
			return m, nil
		}
		m.loading = false
		if msg.err != nil {
			m.err = validate.ErrorMessage(msg.err)
			return m, nil
		}
		m.err = ""
		m.summary = msg.summary

	case reportLoadedMsg:
		if msg.siteID != m.site.SiteID {
			return m, nil
		}
		switch {
		case client.IsStatus(msg.err, http.StatusNotFound):
			m.report = nil
			m.reportNote = "no report data for the last 30 days"
		case msg.err != nil:
			m.report = nil
			m.reportNote = "report unavailable: " + validate.ErrorMessage(msg.err)
		default:
			m.report = msg.report
			m.reportNote = ""
		}

	case openResultMsg:
		if msg.err != nil {
			m.status = errStyle.Render("could not open browser: " + msg.err.Error())
		}

	case tea.KeyMsg:
		switch msg.String() {
		case "r":
			m.loading = true
			return m, m.Init()
		case "o":
			u := m.site.URL
			return m, func() tea.Msg { return openResultMsg{err: browser.Open(u)} }
		}
	}
	return m, nil
}

func (m detailModel) View() string {
	var b strings.Builder

	b.WriteString("\n " + titleStyle.Render(m.site.Name) + "  " + statusBadge(m.site.Verified) + "\n")
	b.WriteString(" " + dimStyle.Render(m.site.URL) + "\n\n")

	switch {
	case m.loading && m.summary == nil:
		b.WriteString(" " + dimStyle.Render("loading dashboard...") + "\n")
	case m.err != "":
		b.WriteString(" " + errStyle.Render("error: "+m.err) + "\n")
	case m.summary != nil:
		s := m.summary
		row := func(k, v string) {
			fmt.Fprintf(&b, "   %s %s\n", metaStyle.Render(fmt.Sprintf("%-16s", k)), normalStyle.Render(v))
		}
		row("visitors", fmt.Sprintf("%d", s.TotalVisitors))
		row("pageviews", fmt.Sprintf("%d", s.TotalPageviews))
		if s.DateRange != "" {
			row("range", s.DateRange)
		}
		if s.ReportGeneratedAt != "" {
			row("generated", formatStamp(s.ReportGeneratedAt))
		}
		row("site id", m.site.SiteID)
		if s.Message != "" {
			b.WriteString("\n   " + accentStyle.Render(s.Message) + "\n")
		}
		m.viewReport(&b)
	}

	if m.status != "" {
		b.WriteString("\n " + m.status + "\n")
	}
	return b.String()
}

func (m detailModel) viewReport(b *strings.Builder) {
	if m.reportNote != "" {
		b.WriteString("\n   " + dimStyle.Render(m.reportNote) + "\n")
		return
	}
	if m.report == nil {
		return
	}

	if pages := m.report.TopPages(detailTopPages); len(pages) > 0 {
		b.WriteString("\n " + accentStyle.Render("top pages") + "\n")
		fmt.Fprintf(b, "   %s\n", metaStyle.Render(fmt.Sprintf("%-32s %8s %8s", "path", "views", "visitors")))
		for _, p := range pages {
			fmt.Fprintf(b, "   %s\n", normalStyle.Render(fmt.Sprintf("%-32s %8d %8d", truncStr(p.Path, 32), p.Views, p.UniqueVisitors)))
		}
	}

	trend := m.report.Trend()
	if len(trend) > detailTrendDays {
		trend = trend[len(trend)-detailTrendDays:]
	}
	if len(trend) == 0 {
		return
	}
	peak := 0
	for _, p := range trend {
		peak = max(peak, p.Visitors)
	}
	b.WriteString("\n " + accentStyle.Render("visitors by day") + "\n")
	for _, p := range trend {
		fmt.Fprintf(b, "   %s %s %s\n",
			metaStyle.Render(fmt.Sprintf("%-16s", p.Period)),
			accentStyle.Render(fmt.Sprintf("%-20s", trendBar(p.Visitors, peak, 20))),
			normalStyle.Render(fmt.Sprintf("%d / %d", p.Visitors, p.Pageviews)))
	}
}

// trendBar scales v against peak to at most width blocks. Non-zero values
// always get one block.
func trendBar(v, peak, width int) string {
	if v <= 0 || peak <= 0 {
		return ""
	}
	n := max(v*width/peak, 1)
	return strings.Repeat("█", n)
}
