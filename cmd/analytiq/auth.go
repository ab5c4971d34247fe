package main

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/analytiq/analytiq/internal/validate"
)

var (
	loginEmail     string
	loginPassword  string
	signupEmail    string
	signupPassword string
	signupConfirm  string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with email and password",
	Long: `Log in to Analytiq. Missing flags are prompted for.

Examples:
  analytiq login
  analytiq login --email you@example.com`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account and log in",
	Args:  cobra.NoArgs,
	RunE:  runSignup,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear the stored session",
	Args:  cobra.NoArgs,
	RunE:  runLogout,
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the logged in account",
	Args:  cobra.NoArgs,
	RunE:  runWhoami,
}

var refreshCmd = &cobra.Command{
	Use:   "refresh",
	Short: "Refresh the session token now",
	Args:  cobra.NoArgs,
	RunE:  runRefresh,
}

func init() {
	rootCmd.AddCommand(loginCmd, signupCmd, logoutCmd, whoamiCmd, refreshCmd)

	loginCmd.Flags().StringVar(&loginEmail, "email", "", "account email")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "account password (prompted when omitted)")

	signupCmd.Flags().StringVar(&signupEmail, "email", "", "account email")
	signupCmd.Flags().StringVar(&signupPassword, "password", "", "password (prompted when omitted)")
	signupCmd.Flags().StringVar(&signupConfirm, "confirm", "", "password confirmation (prompted when omitted)")
}

func runLogin(cmd *cobra.Command, args []string) error {
	p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	email, password := loginEmail, loginPassword
	var err error
	if email == "" {
		if email, err = p.line("Email"); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = p.secret("Password"); err != nil {
			return err
		}
	}

	form := validate.LoginForm{Email: email, Password: password}
	if err := form.Validate(); err != nil {
		return formError(err)
	}

	s := newSession(logger)
	defer s.close()

	user, err := s.mgr.Login(cmd.Context(), form.Email, form.Password)
	if err != nil {
		return err
	}
	printer.Success("Logged in as %s", user.Label())
	printer.PrintHints("login")
	return nil
}

func runSignup(cmd *cobra.Command, args []string) error {
	p := newPrompter(cmd.InOrStdin(), cmd.ErrOrStderr())
	email, password, confirm := signupEmail, signupPassword, signupConfirm
	var err error
	if email == "" {
		if email, err = p.line("Email"); err != nil {
			return err
		}
	}
	if password == "" {
		if password, err = p.secret("Password"); err != nil {
			return err
		}
	}
	if confirm == "" {
		if confirm, err = p.secret("Confirm password"); err != nil {
			return err
		}
	}

	form := validate.SignupForm{Email: email, Password: password, Confirm: confirm}
	if err := form.Validate(); err != nil {
		return formError(err)
	}

	s := newSession(logger)
	defer s.close()

	user, err := s.mgr.Signup(cmd.Context(), form.Email, form.Password)
	if err != nil {
		return err
	}
	printer.Success("Account created. Logged in as %s", user.Label())
	printer.PrintHints("signup")
	return nil
}

func runLogout(cmd *cobra.Command, args []string) error {
	s := newSession(logger)
	defer s.close()

	had := s.gw.IsAuthenticated()
	if err := s.mgr.Logout(); err != nil {
		return err
	}
	if had {
		printer.Print("Logged out.")
	} else {
		printer.Print("Already logged out.")
	}
	return nil
}

func runWhoami(cmd *cobra.Command, args []string) error {
	s, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	u := s.mgr.Snapshot().User
	if printer.IsQuiet() {
		printer.Print("%s", u.Label())
		return nil
	}
	printer.KeyValue("email", u.Email)
	if u.ID != uuid.Nil {
		printer.KeyValue("id", u.ID.String())
	}
	if u.CreatedAt != "" {
		printer.KeyValue("created", u.CreatedAt)
	}
	return nil
}

func runRefresh(cmd *cobra.Command, args []string) error {
	s, err := requireSession(cmd.Context())
	if err != nil {
		return err
	}
	defer s.close()

	user, err := s.mgr.Refresh(cmd.Context())
	if err != nil {
		return err
	}
	printer.Success("Session refreshed for %s", user.Label())
	return nil
}
