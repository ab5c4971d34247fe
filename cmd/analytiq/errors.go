package main

import (
	"errors"
	"net/http"

	"github.com/analytiq/analytiq/internal/auth"
	"github.com/analytiq/analytiq/internal/output"
	"github.com/analytiq/analytiq/internal/validate"
	"github.com/analytiq/analytiq/pkg/client"
)

func notLoggedIn() *output.CLIError {
	return &output.CLIError{
		Summary:    "not logged in, run `analytiq login`",
		Suggestion: "analytiq login",
		ExitCode:   output.ExitAuthError,
		Err:        auth.ErrNotAuthenticated,
	}
}

// asCLIError converts any command error into a CLIError with an exit code.
func asCLIError(err error) *output.CLIError {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var authErr *auth.AuthError
	switch {
	case errors.Is(err, client.ErrTimeout):
		return &output.CLIError{
			Summary:    validate.ErrorMessage(err),
			Suggestion: "check api_url or raise timeout in your config",
			ExitCode:   output.ExitTimeout,
			Err:        err,
		}
	case errors.As(err, &authErr):
		return &output.CLIError{
			Summary:  authErr.Message,
			Detail:   detail(authErr.Err),
			ExitCode: output.ExitAuthError,
			Err:      err,
		}
	case errors.Is(err, auth.ErrNotAuthenticated), client.IsStatus(err, http.StatusUnauthorized):
		return notLoggedIn()
	}

	var httpErr *client.HTTPError
	if errors.As(err, &httpErr) {
		return &output.CLIError{
			Summary:  validate.ErrorMessage(err),
			Detail:   httpErr.Error(),
			ExitCode: output.ExitAPIError,
			Err:      err,
		}
	}
	return &output.CLIError{
		Summary:  validate.ErrorMessage(err),
		Detail:   detail(err),
		ExitCode: output.ExitGeneral,
		Err:      err,
	}
}

// detail returns the raw error text when it adds something to the summary.
func detail(err error) string {
	if err == nil || validate.ErrorMessage(err) == err.Error() {
		return ""
	}
	return err.Error()
}

// formError turns a form validation failure into a usage error.
func formError(err error) *output.CLIError {
	fields := validate.FieldErrors(err)
	summary := "invalid input"
	for _, key := range []string{"email", "password", "confirm", "name", "url", "from", "to", ""} {
		if msg, ok := fields[key]; ok {
			summary = msg
			break
		}
	}
	return &output.CLIError{
		Summary:  summary,
		ExitCode: output.ExitUsageError,
		Err:      err,
	}
}
