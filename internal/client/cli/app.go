package cli

import (
	"bufio"
	"context"
	"os"

	"github.com/pashield/pashield/internal/client/api"
	"github.com/pashield/pashield/internal/client/config"
)

type App struct {
	config *config.Config
	client *api.Client
	email  string
	reader *bufio.Reader
}

func NewApp(c *config.Config) *App {
	return &App{
		config: c,
		client: api.NewClient(c.ServerURL, c.RequestTimeout),
		reader: bufio.NewReader(os.Stdin),
	}
}

func (a *App) isLoggedIn() bool {
	return a.client.IsLoggedIn()
}

func (a *App) status() string {
	if a.isLoggedIn() {
		return a.email
	}
	return "not logged in"
}

func (a *App) Run(ctx context.Context) {
	printlnFn("Pashield CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, bufio.NewScanner(os.Stdin))
}
