// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

// setupCommand handles configuration and database setup.
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Setup and configuration commands",
		Commands: []*cli.Command{
			{
				Name:  "config",
				Usage: "Write a starter config.toml",
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
			{
				Name:   "rollback",
				Usage:  "Roll back the most recent migration",
				Action: r.SetupRollback,
			},
			{
				Name:  "status",
				Usage: "Show which migrations have been applied",
				Flags: []cli.Flag{
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.SetupStatus,
			},
		},
	}
}

// moviesCommand handles now-playing listing operations.
func moviesCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "movies",
		Aliases: []string{"m"},
		Usage:   "Now playing listing operations",
		Commands: []*cli.Command{
			{
				Name:    "now-playing",
				Aliases: []string{"ls"},
				Usage:   "List movies now playing in theatres",
				Flags: listingFlags(
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				),
				Action: r.MoviesNowPlaying,
			},
			{
				Name:  "show",
				Usage: "Show the detail of one movie",
				Arguments: []cli.Argument{
					&cli.StringArg{
						Name: "id",
					},
				},
				Flags: listingFlags(
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				),
				Action: r.MoviesShow,
			},
			{
				Name:  "slider",
				Usage: "Print the banner and the slider windows",
				Flags: listingFlags(
					&cli.IntFlag{
						Name:    "window",
						Aliases: []string{"w"},
						Usage:   "Only print this window (0-based); -1 prints every window",
						Value:   -1,
					},
					&cli.IntFlag{
						Name:  "size",
						Usage: "Tiles per window (default: carousel.window_size)",
					},
				),
				Action: r.MoviesSlider,
			},
			{
				Name:  "export",
				Usage: "Export the listing to csv, markdown, text or images",
				Flags: listingFlags(
					&cli.StringFlag{
						Name:    "format",
						Aliases: []string{"f"},
						Usage:   "Export format: csv, markdown, text, images",
						Value:   "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file, base path or directory depending on format",
					},
					&cli.BoolFlag{
						Name:  "posters",
						Usage: "Also download posters (images format)",
					},
					&cli.StringFlag{
						Name:  "size",
						Usage: "Image size token for downloads (images format)",
						Value: "w780",
					},
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Concurrent downloads (images format)",
						Value: 4,
					},
				),
				Action: r.MoviesExport,
			},
		},
	}
}

// cacheCommand handles the local snapshot cache.
func cacheCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "cache",
		Usage: "Inspect and prune cached listing snapshots",
		Commands: []*cli.Command{
			{
				Name:  "list",
				Usage: "List cached snapshots, newest first",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of snapshots to list",
						Value: 20,
					},
					&cli.BoolFlag{
						Name:  "all",
						Usage: "Include deleted snapshots",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
				},
				Action: r.CacheList,
			},
			{
				Name:  "show",
				Usage: "Show one snapshot (default: the newest)",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:    "sequence",
						Aliases: []string{"s"},
						Usage:   "Snapshot sequence number",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
						Value: true,
					},
				},
				Action: r.CacheShow,
			},
			{
				Name:  "prune",
				Usage: "Delete all but the newest snapshots",
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "keep",
						Usage: "Snapshots to keep; 0 removes all (default: database.keep_snapshots)",
						Value: -1,
					},
				},
				Action: r.CachePrune,
			},
		},
	}
}

// tuiCommand returns the top-level TUI command.
func tuiCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:    "tui",
		Aliases: []string{"interactive", "ui"},
		Usage:   "Launch the interactive terminal browser",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "log-file",
				Usage: "Where to write logs while the TUI owns the screen",
				Value: "./tmp/marquee-tui.log",
			},
		},
		Action: r.TUI,
	}
}

// serveCommand runs the web view.
func serveCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve the browser view",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:  "addr",
				Usage: "Listen address (default: server.host:server.port)",
			},
			&cli.BoolFlag{
				Name:  "open",
				Usage: "Open the page in the default browser once listening",
			},
		},
		Action: r.Serve,
	}
}
