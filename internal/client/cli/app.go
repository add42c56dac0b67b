// Package cli implements the interactive GeoAuth terminal client: a small
// REPL over the typed API wrappers, with protected commands gated on the
// session state.
package cli

import (
	"bufio"
	"context"
	"io"
	"os"

	"github.com/mbelkin/geoauth/internal/client/api"
	"github.com/mbelkin/geoauth/internal/client/config"
	"github.com/mbelkin/geoauth/internal/client/httpx"
	"github.com/mbelkin/geoauth/internal/client/session"
	"github.com/mbelkin/geoauth/internal/client/token"
)

type App struct {
	config  *config.Config
	api     *api.Client
	session *session.Manager
	reader  *bufio.Reader
	out     io.Writer
}

func NewApp(c *config.Config) *App {
	tokens := token.DefaultStore()
	if c.TokenFile != "" {
		tokens = token.NewStore(c.TokenFile)
	}

	gateway := httpx.New(c.BaseURL, tokens, c.Timeout.Duration)
	apiClient := api.New(gateway)

	return &App{
		config:  c,
		api:     apiClient,
		session: session.NewManager(tokens, apiClient),
		reader:  bufio.NewReader(os.Stdin),
		out:     os.Stdout,
	}
}

// Run bootstraps the session (resolving the persisted token into a user, if
// any) and enters the REPL.
func (a *App) Run(ctx context.Context) {
	a.session.Bootstrap(ctx)

	scanner := bufio.NewScanner(os.Stdin)
	runREPL(ctx, a, a.status, scanner)
}

func (a *App) state() session.State {
	return a.session.State()
}

// status renders the prompt segment describing the current session.
func (a *App) status() string {
	st := a.state()
	switch {
	case st.IsLoading:
		return "loading"
	case st.IsAuthenticated:
		return st.User.Email
	default:
		return "anonymous"
	}
}
