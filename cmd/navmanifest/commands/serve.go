package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/MrSnakeDoc/navmanifest/internal/app"
	"github.com/MrSnakeDoc/navmanifest/internal/config"
)

// ServeCmd implements the 'serve' command. It is configured from the
// environment (NAV_*), see internal/config.
type ServeCmd struct{}

func (c *ServeCmd) Run(g *Global) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, config.Load(), g.Logger)
	if err != nil {
		return err
	}
	return a.Run(ctx)
}
