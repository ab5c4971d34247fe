package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/analytiq/analytiq/internal/auth"
	"github.com/analytiq/analytiq/internal/config"
	"github.com/analytiq/analytiq/internal/credential"
	"github.com/analytiq/analytiq/internal/output"
	"github.com/analytiq/analytiq/internal/tui"
	"github.com/analytiq/analytiq/pkg/client"
)

var (
	cfgFile   string
	apiURL    string
	colorFlag string
	verbose   bool
	quiet     bool
	cfg       *config.Config
	logger    *slog.Logger
	printer   *output.Printer
)

var rootCmd = &cobra.Command{
	Use:   "analytiq",
	Short: "Web analytics for the sites you own",
	Long: `analytiq manages your Analytiq account and tracked sites.

Run it without a command to open the interactive dashboard.

Example usage:
  analytiq                         # Open the dashboard
  analytiq login                   # Log in with email and password
  analytiq sites list              # List your sites
  analytiq sites add --name Blog --url https://blog.example.com`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return initConfig(cmd)
	},
	RunE: runTUI,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .analytiq.yaml)")
	rootCmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (overrides config)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "auto", "color output: auto, always, or never")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress non-essential output")
}

// execute runs the root command and maps any error to an exit code.
func execute(ctx context.Context) int {
	err := rootCmd.ExecuteContext(ctx)
	if err == nil {
		return output.ExitSuccess
	}
	cliErr := asCLIError(err)
	p := printer
	if p == nil {
		p = output.NewPrinter(output.PrinterOptions{Err: rootCmd.ErrOrStderr()})
	}
	p.FormatError(cliErr)
	return cliErr.ExitCode
}

// initConfig loads configuration and sets up logging and output.
func initConfig(cmd *cobra.Command) error {
	mode, err := output.ParseColorMode(colorFlag)
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid --color value",
			Detail:     err.Error(),
			Suggestion: "use auto, always, or never",
			ExitCode:   output.ExitUsageError,
		}
	}

	cfg, err = config.Load(cfgFile)
	if err != nil {
		return &output.CLIError{
			Summary:  "loading config",
			Detail:   err.Error(),
			ExitCode: output.ExitConfigError,
			Err:      err,
		}
	}
	if apiURL != "" {
		cfg.APIURL = strings.TrimRight(apiURL, "/")
	}

	printer = output.NewPrinter(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: cfg.Output.Colors,
		Quiet:        quiet,
		Out:          cmd.OutOrStdout(),
		Err:          cmd.ErrOrStderr(),
	})
	logger = newLogger(cmd.ErrOrStderr())

	logger.Debug("configuration loaded",
		"api_url", cfg.APIURL,
		"state_dir", cfg.StateDir,
		"refresh_interval", cfg.RefreshInterval,
	)
	return nil
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case cfg != nil:
		_ = level.UnmarshalText([]byte(cfg.Logging.Level))
	}
	opts := &slog.HandlerOptions{Level: level}
	if cfg != nil && cfg.Logging.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// session bundles the pieces every command talks to.
type session struct {
	mgr *auth.Manager
	gw  *auth.Gateway
}

// newSession wires the API client, credential store, gateway and manager.
// An ANALYTIQ_TOKEN override is kept in memory and never written to disk.
func newSession(log *slog.Logger) *session {
	api := client.New(cfg.APIURL, "", client.WithTimeout(cfg.Timeout))

	var store credential.Store
	if cfg.Token != "" {
		store = credential.NewMemoryStore(cfg.Token)
	} else {
		store = credential.NewFileStore(cfg.StateDir)
	}

	gw := auth.NewGateway(api, store, log)
	mgr := auth.NewManager(gw,
		auth.WithLogger(log),
		auth.WithRefreshInterval(cfg.RefreshInterval),
	)
	gw.OnUnauthorized(mgr.Expire)
	return &session{mgr: mgr, gw: gw}
}

// close stops the refresh task.
func (s *session) close() {
	s.mgr.Close()
}

// requireSession restores the stored session and fails when there is none.
func requireSession(ctx context.Context) (*session, error) {
	s := newSession(logger)
	if snap := s.mgr.Init(ctx); !snap.IsAuthenticated {
		s.close()
		return nil, notLoggedIn()
	}
	return s, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	logFile, err := openLogFile(cfg.LogPath())
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close() //nolint:errcheck

	s := newSession(newLogger(logFile))
	defer s.close()

	feed := tui.NewSessionFeed()
	unsubscribe := s.mgr.Subscribe(feed.Publish)
	defer unsubscribe()

	p := tea.NewProgram(tui.NewApp(s.mgr, s.gw, feed),
		tea.WithAltScreen(),
		tea.WithContext(cmd.Context()),
	)
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui error: %w", err)
	}
	return nil
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
}
