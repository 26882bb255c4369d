package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/ihildy/weekhours/internal/api"
	"github.com/ihildy/weekhours/internal/auth"
	"github.com/ihildy/weekhours/internal/config"
	"github.com/ihildy/weekhours/internal/keyring"
	"github.com/ihildy/weekhours/internal/store"
	"github.com/ihildy/weekhours/internal/weeksync"

	"golang.org/x/term"
)

type App struct {
	Cfg             config.Config
	CfgPath         string
	JSONOutput      bool
	Verbose         bool
	BaseURLOverride string
	Stdout          io.Writer
	Stderr          io.Writer
	Stdin           io.Reader
}

func NewApp() *App {
	return &App{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Stdin:  os.Stdin,
	}
}

func (a *App) LoadConfig() error {
	cfg, path, err := config.Load()
	if err != nil {
		return err
	}
	a.Cfg = cfg
	a.CfgPath = path
	return nil
}

func (a *App) SaveConfig() error {
	return config.Save(a.Cfg, a.CfgPath)
}

func (a *App) BaseURL() string {
	if strings.TrimSpace(a.BaseURLOverride) != "" {
		return strings.TrimRight(strings.TrimSpace(a.BaseURLOverride), "/")
	}
	return strings.TrimRight(a.Cfg.BaseURL, "/")
}

// NewClient builds a signed-out backend client.
func (a *App) NewClient() (*api.Client, error) {
	httpClient, err := auth.NewHTTPClient()
	if err != nil {
		return nil, err
	}
	client := api.New(a.BaseURL(), httpClient, &auth.Session{})
	if a.Verbose {
		client.Observer = api.NewLogObserver(a.Stderr)
	}
	return client, nil
}

// NewSignedInClient restores the session of the last signed-in user.
func (a *App) NewSignedInClient() (*api.Client, keyring.Identity, error) {
	identity, err := keyring.LoadIdentity()
	if err != nil {
		if errors.Is(err, keyring.ErrNoIdentity) {
			return nil, keyring.Identity{}, fmt.Errorf("not signed in, run `weekhours auth login` first: %w", api.ErrNotLoggedIn)
		}
		return nil, keyring.Identity{}, err
	}
	client, err := a.NewClient()
	if err != nil {
		return nil, keyring.Identity{}, err
	}
	client.Session.SetUser(identity.ID)
	client.Session.SetCSRFToken(identity.CSRFToken)
	return client, identity, nil
}

func (a *App) OpenStore() (*store.Store, error) {
	return store.Open(a.databasePath())
}

func (a *App) databasePath() string {
	return config.ResolveDatabasePath(a.Cfg, a.CfgPath)
}

// weekEnv bundles what the week commands need. Close releases the store.
type weekEnv struct {
	Client   *api.Client
	Identity keyring.Identity
	Store    *store.Store
	Sync     *weeksync.Service
}

func (e *weekEnv) Close() error {
	return e.Store.Close()
}

func (a *App) newWeekEnv() (*weekEnv, error) {
	client, identity, err := a.NewSignedInClient()
	if err != nil {
		return nil, err
	}
	st, err := a.OpenStore()
	if err != nil {
		return nil, err
	}
	return &weekEnv{
		Client:   client,
		Identity: identity,
		Store:    st,
		Sync:     &weeksync.Service{Remote: client, Drafts: st, UserID: identity.ID},
	}, nil
}

// rememberIdentity stores the signed-in user together with the CSRF token
// the backend issued, so later runs can send it on mutating calls.
func (a *App) rememberIdentity(client *api.Client, user api.User) error {
	return keyring.SaveIdentity(keyring.Identity{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		CSRFToken: client.Session.CSRFToken(client.HTTP, client.BaseURL),
	})
}

func (a *App) IsInteractive() bool {
	stdinFile, stdinOK := a.Stdin.(*os.File)
	stdoutFile, stdoutOK := a.Stdout.(*os.File)
	if !stdinOK || !stdoutOK {
		return false
	}
	return term.IsTerminal(int(stdinFile.Fd())) && term.IsTerminal(int(stdoutFile.Fd()))
}

func (a *App) PromptConfirm(message string) (bool, error) {
	if !a.IsInteractive() {
		return false, errors.New("confirmation required but terminal is non-interactive; use --yes")
	}
	fmt.Fprintf(a.Stderr, "%s [y/N]: ", message)
	reader := bufio.NewReader(a.Stdin)
	line, err := reader.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false, err
	}
	answer := strings.ToLower(strings.TrimSpace(line))
	return answer == "y" || answer == "yes", nil
}

func (a *App) warnf(format string, args ...any) {
	fmt.Fprintf(a.Stderr, "warning: "+format+"\n", args...)
}
