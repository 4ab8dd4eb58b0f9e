// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles setup operations for configuration and the database.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Create a config.toml from the embedded template",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupConfig,
			},
			{
				Name:  "database",
				Usage: "Initialize database and run migrations",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "config",
						Aliases: []string{"c"},
						Usage:   "Path to configuration file",
						Value:   "config.toml",
					},
				},
				Action: r.SetupDatabase,
			},
		},
	}
}

// chatCommand handles one-shot chat turns
func chatCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "chat",
		Usage: "Chat operations",
		Commands: []*cli.Command{
			{
				Name:  "send",
				Usage: "Send one message through the mood-to-playlist pipeline",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "text",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "consent",
						Usage: "Consent to processing the message",
						Value: true,
					},
					&cli.FloatFlag{
						Name:  "temperature",
						Usage: "Reply sampling temperature",
					},
					&cli.FloatFlag{
						Name:  "top-p",
						Usage: "Reply nucleus sampling threshold",
					},
					&cli.IntFlag{
						Name:  "max-tokens",
						Usage: "Maximum reply length in tokens",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "no-history",
						Usage: "Skip recording the run in the local database",
					},
				},
				Action: r.ChatSend,
			},
		},
	}
}

// playlistCommand handles catalog-side operations
func playlistCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "playlist",
		Aliases: []string{"pl"},
		Usage:   "Playlist curation operations",
		Commands: []*cli.Command{
			{
				Name:  "curate",
				Usage: "Curate a playlist for an explicit mood label, skipping classification",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "mood",
					},
				},
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "markdown",
						Usage: "Output Markdown",
					},
				},
				Action: r.PlaylistCurate,
			},
			{
				Name:  "history",
				Usage: "Show recorded curation runs",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "csv",
						Usage: "Output CSV",
					},
				},
				Action: r.PlaylistHistory,
			},
		},
	}
}

// serveCommand exposes the chat pipeline over HTTP.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Run the chat HTTP API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "host",
				Usage: "Host to bind",
			},
			&cli.IntFlag{
				Name:  "port",
				Usage: "Port to bind",
			},
			&cli.BoolFlag{
				Name:  "no-history",
				Usage: "Skip recording runs in the local database",
			},
		},
		Action: r.Serve,
	}
}

// tuiCommand returns the top-level TUI command for interactive chat.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch interactive chat TUI",
		Action:  r.TUI,
	}
}
