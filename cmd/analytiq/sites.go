package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/analytiq/analytiq/internal/browser"
	"github.com/analytiq/analytiq/internal/output"
	"github.com/analytiq/analytiq/internal/validate"
	"github.com/analytiq/analytiq/pkg/client"
	"github.com/analytiq/analytiq/pkg/domain"
)

const showTopPages = 10

var (
	sitesJSON   bool
	addSiteName string
	addSiteURL  string
	rmSiteYes   bool
	showFrom    string
	showTo      string
)

var sitesCmd = &cobra.Command{
	Use:   "sites",
	Short: "Manage tracked sites",
	Long: `List, add, verify and remove the sites you track.

Examples:
  analytiq sites list
  analytiq sites add --name Blog --url https://blog.example.com
  analytiq sites verify <site-id>
  analytiq sites show <site-id>
  analytiq sites show <site-id> --from 2026-09-01 --to 2026-09-30`,
}

var sitesListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List your sites",
	Args:    cobra.NoArgs,
	RunE:    runSitesList,
}

var sitesAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a site and print its tracking snippet",
	Args:  cobra.NoArgs,
	RunE:  runSitesAdd,
}

var sitesRmCmd = &cobra.Command{
	Use:     "rm <site-id>",
	Aliases: []string{"delete"},
	Short:   "Delete a site and its collected data",
	Args:    cobra.ExactArgs(1),
	RunE:    runSitesRm,
}

var sitesVerifyCmd = &cobra.Command{
	Use:   "verify <site-id>",
	Short: "Check the site for the tracking snippet",
	Args:  cobra.ExactArgs(1),
	RunE:  runSitesVerify,
}

var sitesShowCmd = &cobra.Command{
	Use:   "show <site-id>",
	Short: "Show the dashboard summary, top pages and daily traffic for a site",
	Long: `Show the dashboard summary for a site, followed by its top pages and
daily traffic from the site report.

The report covers the last 30 days unless --from and --to are both given.`,
	Args: cobra.ExactArgs(1),
	RunE: runSitesShow,
}

var openCmd = &cobra.Command{
	Use:   "open <site-id>",
	Short: "Open a site in the browser",
	Args:  cobra.ExactArgs(1),
	RunE:  runOpen,
}

func init() {
	rootCmd.AddCommand(sitesCmd, openCmd)
	sitesCmd.AddCommand(sitesListCmd, sitesAddCmd, sitesRmCmd, sitesVerifyCmd, sitesShowCmd)

	sitesListCmd.Flags().BoolVar(&sitesJSON, "json", false, "output as JSON")
	sitesAddCmd.Flags().StringVar(&addSiteName, "name", "", "display name")
	sitesAddCmd.Flags().StringVar(&addSiteURL, "url", "", "site URL, starting with http:// or https://")
	sitesRmCmd.Flags().BoolVarP(&rmSiteYes, "yes", "y", false, "skip the confirmation prompt")
	sitesShowCmd.Flags().StringVar(&showFrom, "from", "", "report start date (YYYY-MM-DD)")
	sitesShowCmd.Flags().StringVar(&showTo, "to", "", "report end date (YYYY-MM-DD)")
}

func runSitesList(cmd *cobra.Command, args []string) error {
	s, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	sites, err := s.gw.GetSites(cmd.Context())
	if err != nil {
		return err
	}

	if sitesJSON {
		enc := json.NewEncoder(printer.Out())
		enc.SetIndent("", "  ")
		return enc.Encode(sites)
	}
	if len(sites) == 0 {
		printer.Info("No sites yet.")
		printer.PrintHints("sites list")
		return nil
	}

	t := printer.Table([]string{"ID", "Name", "URL", "Status", "Last updated"})
	if t == nil {
		for _, site := range sites {
			printer.Print("%s", site.SiteID)
		}
		return nil
	}
	for _, site := range sites {
		updated := site.LastUpdated
		if updated == "" {
			updated = "never"
		}
		t.AddRow(site.SiteID, site.Name, site.URL, printer.StatusBadge(site.Status()), updated)
	}
	if err := t.Render(); err != nil {
		return err
	}
	printer.PrintHints("sites list")
	return nil
}

func runSitesAdd(cmd *cobra.Command, args []string) error {
	p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	name, url := addSiteName, addSiteURL
	var err error
	if name == "" {
		if name, err = p.line("Site name"); err != nil {
			return err
		}
	}
	if url == "" {
		if url, err = p.line("Website URL"); err != nil {
			return err
		}
	}

	form := validate.SiteForm{Name: validate.Sanitize(name), URL: url}
	if err := form.Validate(); err != nil {
		return formError(err)
	}

	s, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	created, err := s.gw.CreateSite(cmd.Context(), domain.NewSite{Name: form.Name, URL: form.URL})
	if err != nil {
		return err
	}

	if printer.IsQuiet() {
		printer.Print("%s", created.Snippet)
		return nil
	}
	printer.Success("Added %s (%s)", created.Name, created.SiteID)
	printer.Info("\nPaste this into the <head> of every page on %s:\n", created.URL)
	printer.Print("%s", created.Snippet)
	printer.Warning("This snippet is only shown once.")
	printer.PrintHints("sites add")
	return nil
}

func runSitesRm(cmd *cobra.Command, args []string) error {
	id := args[0]
	if !rmSiteYes {
		p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
		answer, err := p.line(fmt.Sprintf("Delete site %s and all its data? [y/N]", id))
		if err != nil {
			return err
		}
		if answer != "y" && answer != "yes" {
			printer.Info("Cancelled.")
			return nil
		}
	}

	s, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	res, err := s.gw.DeleteSite(cmd.Context(), id)
	if err != nil {
		return err
	}
	msg := res.Message
	if msg == "" {
		msg = "Site deleted"
	}
	printer.Success("%s", msg)
	printer.PrintHints("sites rm")
	return nil
}

func runSitesVerify(cmd *cobra.Command, args []string) error {
	s, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	v, err := s.gw.VerifySite(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if !v.Verified {
		return &output.CLIError{
			Summary:    "site not verified",
			Detail:     v.Message,
			Suggestion: "deploy the tracking snippet, then run `analytiq sites verify " + args[0] + "` again",
			ExitCode:   output.ExitGeneral,
		}
	}
	printer.Success("%s", v.Message)
	if d := v.Details; d != nil && !printer.IsQuiet() {
		printer.KeyValue("checked url", d.CheckedURL)
		printer.KeyValue("script tag", strconv.FormatBool(d.HasScriptTag))
		printer.KeyValue("site id", strconv.FormatBool(d.HasSiteID))
		printer.KeyValue("site key", strconv.FormatBool(d.HasSiteKey))
		printer.KeyValue("sdk loader", strconv.FormatBool(d.HasSDKLoader))
	}
	printer.PrintHints("sites verify")
	return nil
}

func runSitesShow(cmd *cobra.Command, args []string) error {
	window, err := validate.ReportRangeForm{From: showFrom, To: showTo}.Range()
	if err != nil {
		return formError(err)
	}

	s, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	site, err := s.gw.GetSite(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	summary, err := s.gw.GetDashboard(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	printer.Header(site.Name)
	printer.KeyValue("url", site.URL)
	printer.KeyValue("status", printer.StatusBadge(site.Status()))
	printer.KeyValue("visitors", strconv.Itoa(summary.TotalVisitors))
	printer.KeyValue("pageviews", strconv.Itoa(summary.TotalPageviews))
	if summary.DateRange != "" {
		printer.KeyValue("range", summary.DateRange)
	}
	if summary.ReportGeneratedAt != "" {
		printer.KeyValue("generated", summary.ReportGeneratedAt)
	}
	if summary.Message != "" {
		printer.Info("\n%s", summary.Message)
	}

	report, err := s.gw.GetReport(cmd.Context(), args[0], window)
	switch {
	case client.IsStatus(err, http.StatusNotFound):
		printer.Info("\nNo report data for this range yet.")
		return nil
	case err != nil:
		return err
	}
	return printReport(report)
}

func printReport(report *domain.Report) error {
	if pages := report.TopPages(showTopPages); len(pages) > 0 {
		printer.Header("Top pages")
		t := printer.Table([]string{"Path", "Title", "Views", "Visitors", "Avg time"})
		for _, p := range pages {
			t.AddRow(p.Path, p.PageTitle, strconv.Itoa(p.Views), strconv.Itoa(p.UniqueVisitors), fmt.Sprintf("%ds", p.AvgTimeSpentSec))
		}
		if err := t.Render(); err != nil {
			return err
		}
	}

	if trend := report.Trend(); len(trend) > 0 {
		printer.Header("Daily traffic")
		t := printer.Table([]string{"Period", "Visitors", "Pageviews"})
		for _, p := range trend {
			t.AddRow(p.Period, strconv.Itoa(p.Visitors), strconv.Itoa(p.Pageviews))
		}
		if err := t.Render(); err != nil {
			return err
		}
	}
	return nil
}

func runOpen(cmd *cobra.Command, args []string) error {
	s, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	site, err := s.gw.GetSite(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if err := browser.Open(site.URL); err != nil {
		printer.Warning("Could not open browser. Visit %s", site.URL)
		return nil
	}
	printer.Info("Opened %s", site.URL)
	return nil
}
