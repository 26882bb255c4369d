package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/ihildy/weekhours/internal/api"
	"github.com/ihildy/weekhours/internal/authform"
	"github.com/ihildy/weekhours/internal/output"
	"github.com/ihildy/weekhours/internal/weeksync"

	"github.com/spf13/cobra"
)

func NewRootCmd() *cobra.Command {
	return newRootCmd(NewApp())
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "weekhours",
		Short:         "Track weekly check-in/check-out hours against the time tracker API",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := app.LoadConfig(); err != nil {
				return err
			}
			if app.Cfg.BaseURL == "" {
				return fmt.Errorf("base URL is not configured")
			}
			if !cmd.Flags().Changed("json") && app.Cfg.Output.JSONDefault {
				app.JSONOutput = true
			}
			return nil
		},
	}

	cmd.PersistentFlags().BoolVar(&app.JSONOutput, "json", false, "Emit machine-readable JSON output")
	cmd.PersistentFlags().BoolVar(&app.Verbose, "verbose", false, "Log every API call to stderr")
	cmd.PersistentFlags().StringVar(&app.BaseURLOverride, "base-url", "", "Override API base URL")

	cmd.AddCommand(newAuthCmd(app))
	cmd.AddCommand(newWeekCmd(app))
	cmd.AddCommand(newEditCmd(app))
	cmd.AddCommand(newConfigCmd(app))

	return cmd
}

// Execute runs the root command and reports a failure on stderr, as JSON when
// --json was requested. It returns the process exit code.
func Execute(args []string) int {
	app := NewApp()
	cmd := newRootCmd(app)
	cmd.SetArgs(args)
	err := cmd.Execute()
	if err == nil {
		return 0
	}
	reportError(app.Stderr, app.JSONOutput, err)
	return 1
}

func reportError(w io.Writer, asJSON bool, err error) {
	_ = output.WriteError(w, asJSON, errorCode(err), err)
}

func errorCode(err error) string {
	var validationErr *authform.ValidationError
	var authErr *authform.AuthError
	var statusErr *api.StatusError
	switch {
	case errors.Is(err, api.ErrNotLoggedIn):
		return "not_logged_in"
	case errors.Is(err, weeksync.ErrStaleDraft):
		return "stale_week"
	case errors.As(err, &validationErr):
		return "validation"
	case errors.As(err, &authErr):
		return "auth_failed"
	case errors.As(err, &statusErr):
		return "http_error"
	}
	return "error"
}
