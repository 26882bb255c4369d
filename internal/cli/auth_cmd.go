package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ihildy/weekhours/internal/api"
	"github.com/ihildy/weekhours/internal/authform"
	"github.com/ihildy/weekhours/internal/keyring"
	"github.com/ihildy/weekhours/internal/output"
	"github.com/ihildy/weekhours/internal/weeksync"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

func newAuthCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Sign in, sign up and sign out",
	}
	cmd.AddCommand(newAuthSubmitCmd(app, authform.SignIn))
	cmd.AddCommand(newAuthSubmitCmd(app, authform.SignUp))
	cmd.AddCommand(newAuthStatusCmd(app))
	cmd.AddCommand(newAuthLogoutCmd(app))
	return cmd
}

func newAuthSubmitCmd(app *App, mode authform.Mode) *cobra.Command {
	var username, email, password string
	var noPull bool

	use, short := "login", "Sign in and remember the user on this machine"
	if mode == authform.SignUp {
		use, short = "register", "Create an account and sign in"
	}

	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()

			passwordFlagSet := cmd.Flags().Changed("password")
			passwordFromStdin, err := cmd.Flags().GetBool("password-stdin")
			if err != nil {
				return err
			}

			form := &authform.Form{Mode: mode, Username: username, Email: email}
			missing := strings.TrimSpace(username) == "" || (!passwordFlagSet && !passwordFromStdin) ||
				(mode == authform.SignUp && strings.TrimSpace(email) == "")
			if missing && app.IsInteractive() && !passwordFromStdin {
				form.Password = password
				if err := promptAuthForm(app, form); err != nil {
					return err
				}
			} else {
				form.Password, err = resolvePassword(app, password, passwordFlagSet, passwordFromStdin)
				if err != nil {
					return err
				}
			}

			client, err := app.NewClient()
			if err != nil {
				return err
			}
			user, err := form.Submit(ctx, client)
			if err != nil {
				return err
			}
			if err := app.rememberIdentity(client, user); err != nil {
				return err
			}

			pulled := false
			if !noPull {
				pulled = pullAfterSignIn(ctx, app, client, user.ID)
			}

			human, payload := authResult(form.Mode, user, pulled)
			return output.Write(app.Stdout, app.JSONOutput, human, payload)
		},
	}
	cmd.Flags().StringVar(&username, "username", "", "Account username")
	if mode == authform.SignUp {
		cmd.Flags().StringVar(&email, "email", "", "Account email")
	}
	cmd.Flags().StringVar(&password, "password", "", "Account password (non-interactive; avoid shell history leaks)")
	cmd.Flags().Bool("password-stdin", false, "Read account password from stdin")
	cmd.Flags().BoolVar(&noPull, "no-pull", false, "Do not fetch the current week after signing in")
	return cmd
}

// authResult describes a successful submit. The mode is the one actually
// submitted, which the interactive form may have switched.
func authResult(mode authform.Mode, user api.User, pulled bool) (string, map[string]any) {
	op, human := "auth_login", fmt.Sprintf("Signed in as %s (id %d)", user.Username, user.ID)
	if mode == authform.SignUp {
		op, human = "auth_register", fmt.Sprintf("Account created for %s (id %d)", user.Username, user.ID)
	}
	return human, map[string]any{
		"ok":          true,
		"operation":   op,
		"user":        user,
		"week_pulled": pulled,
	}
}

// pullAfterSignIn loads the signed-in user's current week into the local
// draft. Failures only warn; signing in already succeeded.
func pullAfterSignIn(ctx context.Context, app *App, client weeksync.Remote, userID int64) bool {
	st, err := app.OpenStore()
	if err != nil {
		app.warnf("open local store: %v", err)
		return false
	}
	defer st.Close()

	svc := &weeksync.Service{Remote: client, Drafts: st, UserID: userID}
	_, replaced, err := svc.Pull(ctx)
	if err != nil {
		app.warnf("failed to load week data: %v", err)
		return false
	}
	return replaced
}

// promptAuthForm collects the form fields interactively. Choosing the other
// mode toggles the form, which drops any password typed so far.
func promptAuthForm(app *App, form *authform.Form) error {
	mode := form.Mode
	username, email, password := form.Username, form.Email, form.Password

	validate := func(field string) func(string) error {
		return func(v string) error {
			candidate := authform.Form{Mode: mode}
			return candidate.FieldValidator(field)(v)
		}
	}

	f := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[authform.Mode]().
				Title("Account").
				Options(
					huh.NewOption("Sign in", authform.SignIn),
					huh.NewOption("Sign up", authform.SignUp),
				).
				Value(&mode),
		),
		huh.NewGroup(
			huh.NewInput().Title("Username").Value(&username).Validate(validate("username")),
		),
		huh.NewGroup(
			huh.NewInput().Title("Email").Value(&email).Validate(validate("email")),
		).WithHideFunc(func() bool { return mode != authform.SignUp }),
		huh.NewGroup(
			huh.NewInput().Title("Password").EchoMode(huh.EchoModePassword).Value(&password).Validate(validate("password")),
		),
	).WithInput(app.Stdin).WithOutput(app.Stderr).WithShowHelp(false)

	if err := f.Run(); err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return fmt.Errorf("aborted by user")
		}
		return err
	}

	if mode != form.Mode {
		form.Toggle()
	}
	form.Username, form.Email, form.Password = username, email, password
	return nil
}

func newAuthStatusCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show the user remembered on this machine",
		RunE: func(cmd *cobra.Command, args []string) error {
			identity, err := keyring.LoadIdentity()
			if err != nil {
				if errors.Is(err, keyring.ErrNoIdentity) {
					payload := map[string]any{"ok": true, "operation": "auth_status", "authenticated": false}
					return output.Write(app.Stdout, app.JSONOutput, "Not signed in", payload)
				}
				return err
			}
			payload := map[string]any{
				"ok":            true,
				"operation":     "auth_status",
				"authenticated": true,
				"user": map[string]any{
					"id":       identity.ID,
					"username": identity.Username,
					"email":    identity.Email,
				},
			}
			human := fmt.Sprintf("Signed in as %s (id %d)", identity.Username, identity.ID)
			return output.Write(app.Stdout, app.JSONOutput, human, payload)
		},
	}
}

func newAuthLogoutCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Sign out and forget the local week draft",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := context.Background()
			client, identity, err := app.NewSignedInClient()
			if err != nil {
				return err
			}

			logoutErr := client.Logout(ctx)

			if err := keyring.DeleteIdentity(); err != nil {
				return err
			}
			st, err := app.OpenStore()
			if err != nil {
				return err
			}
			defer st.Close()
			if err := st.DeleteDraft(ctx, identity.ID); err != nil {
				return err
			}

			if logoutErr != nil {
				return fmt.Errorf("signed out locally, but %w", logoutErr)
			}
			payload := map[string]any{"ok": true, "operation": "auth_logout", "username": identity.Username}
			return output.Write(app.Stdout, app.JSONOutput, "Signed out", payload)
		},
	}
}

func resolvePassword(app *App, provided string, providedSet bool, fromStdin bool) (string, error) {
	if providedSet && fromStdin {
		return "", fmt.Errorf("use only one of --password or --password-stdin")
	}

	if fromStdin {
		password, err := io.ReadAll(app.Stdin)
		if err != nil {
			return "", fmt.Errorf("read password from stdin: %w", err)
		}
		return strings.TrimRight(string(password), "\r\n"), nil
	}

	if providedSet {
		return provided, nil
	}

	stdinFile, ok := app.Stdin.(*os.File)
	if !ok || !term.IsTerminal(int(stdinFile.Fd())) {
		return "", fmt.Errorf("password is required; pass --password or --password-stdin when non-interactive")
	}
	fmt.Fprint(app.Stderr, "Password: ")
	bytes, err := term.ReadPassword(int(stdinFile.Fd()))
	fmt.Fprintln(app.Stderr)
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	return string(bytes), nil
}
