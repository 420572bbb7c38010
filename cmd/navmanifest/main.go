package main

import (
	"os"

	"github.com/alecthomas/kong"

	"github.com/MrSnakeDoc/navmanifest/cmd/navmanifest/commands"
	"github.com/MrSnakeDoc/navmanifest/internal/config"
	"github.com/MrSnakeDoc/navmanifest/internal/logger"
	"github.com/MrSnakeDoc/navmanifest/internal/version"
)

func main() {
	// .env must be loaded before kong reads env defaults.
	envFiles, envErr := config.LoadEnvFiles()

	var cli commands.CLI
	ctx := kong.Parse(&cli,
		kong.Name("navmanifest"),
		kong.Description("Build, validate and serve docs sidebar manifests."),
		kong.UsageOnError(),
		kong.Vars{"version": version.String()},
	)

	g := cli.NewGlobal()
	defer func() { _ = g.Logger.Sync() }()

	if envErr != nil {
		g.Logger.Warn("failed to load env file", logger.Error(envErr))
	}
	if len(envFiles) > 0 {
		g.Logger.Debug("loaded env files", logger.Strings("files", envFiles))
	}

	if err := ctx.Run(g); err != nil {
		g.Logger.Error("❌ command failed",
			logger.String("command", ctx.Command()),
			logger.Error(err))
		_ = g.Logger.Sync()
		os.Exit(1)
	}
}
