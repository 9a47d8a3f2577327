package main

import (
	"context"
	"errors"
	"os"

	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	configPath := os.Getenv(shared.EnvConfigPath)
	if configPath == "" {
		configPath = "config.toml"
	}

	config := shared.DefaultConfig()
	if _, err := os.Stat(configPath); err == nil {
		if loadedConfig, err := shared.LoadConfig(configPath); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config, using defaults", "path", configPath, "error", err)
		}
	}
	config.ApplyEnv(os.Getenv)

	var catalog services.Catalog
	if config.HasCredentials() {
		if svc, err := services.NewTMDBService(config.Credentials.TMDB, services.WithLogger(logger)); err == nil {
			catalog = svc
		} else {
			logger.Warn("failed to initialize TMDB client", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:     config,
		ConfigPath: configPath,
		Catalog:    catalog,
		Logger:     logger,
	})

	app := &cli.Command{
		Name:     "marquee",
		Usage:    "Browse what's playing in theatres from the terminal or the browser",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		if errors.Is(err, shared.ErrNotImplemented) {
			logger.Warn("not implemented")
			os.Exit(0)
		}
		if hint := services.Hint(err); hint != "" {
			logger.Error("application error", "error", err)
			logger.Fatal(hint)
		}
		logger.Fatalf("application error: %v", err)
	}
}
