package main

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/desertthunder/marquee/internal/server"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/tasks"
	"github.com/desertthunder/marquee/internal/web"
	"github.com/urfave/cli/v3"
)

// Serve runs the browser view until interrupted.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	if err := r.config.Validate(); err != nil {
		return err
	}

	addr := cmd.String("addr")
	if addr == "" {
		addr = r.config.Server.Addr()
	}

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	loader, closeDB := r.newLoader()
	defer closeDB()

	feed := tasks.NewFeed(loader, shared.WithLogger(r.logger, "component", "feed"))
	defer feed.Close()
	feed.Start()

	app, err := web.New(feed, web.Options{
		WindowSize:   r.config.Carousel.WindowSize,
		ImageBaseURL: r.config.Credentials.TMDB.ImageBaseURL,
		Logger:       shared.WithLogger(r.logger, "component", "web"),
	})
	if err != nil {
		return err
	}
	r.logger.Debug("routes registered", "routes", app.Routes())

	open := cmd.Bool("open")
	return server.Serve(ctx, addr, app, r.logger, func(a net.Addr) {
		url := fmt.Sprintf("http://%s/", a.String())
		r.writePlain("Serving on %s\n", url)
		if !open {
			return
		}
		if err := shared.OpenBrowser(url); err != nil {
			r.logger.Warn("failed to open browser", "error", err)
		}
	})
}
