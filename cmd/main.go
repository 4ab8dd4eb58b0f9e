package main

import (
	"context"
	"os"

	"github.com/desertthunder/moodlist/internal/services"
	"github.com/desertthunder/moodlist/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.toml"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.toml"); err == nil {
			config = loadedConfig
		}
	}

	var generator services.Generator
	if config.Credentials.HuggingFace.EndpointURL != "" {
		if svc, err := services.NewHuggingFaceService(config.Credentials.HuggingFace.EndpointURL, config.Credentials.HuggingFace.APIToken); err == nil {
			generator = svc
		}
	}

	var auth services.TokenProvider
	var catalog services.Catalog
	if config.Credentials.Spotify.ClientID != "" && config.Credentials.Spotify.ClientSecret != "" {
		if svc, err := services.NewSpotifyService(
			config.Credentials.Spotify.ClientID,
			config.Credentials.Spotify.ClientSecret,
			config.Credentials.Spotify.UserID,
			config.Catalog.RateLimit,
		); err == nil {
			auth = svc
			catalog = svc
		}
	}

	runner := NewRunner(RunnerOpts{
		Config:    config,
		Generator: generator,
		Auth:      auth,
		Catalog:   catalog,
		Logger:    logger,
	})

	app := &cli.Command{
		Name:     "moodlist",
		Usage:    "Turn a mood into a conversational reply and a Spotify playlist",
		Version:  "0.1.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
