package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal browser.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		r.logger.Warn("no TMDB credentials configured, only cached snapshots can be shown")
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(cmd.String("log-file"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	loader, closeDB := r.newLoader()
	defer closeDB()

	model, err := ui.NewModel(ctx, loader, ui.Options{
		WindowSize:    r.config.Carousel.WindowSize,
		SlideDuration: r.config.Carousel.SlideDuration(),
		HoverDelay:    r.config.Carousel.HoverDelay(),
		ImageBaseURL:  r.config.Credentials.TMDB.ImageBaseURL,
		Logger:        fileLogger,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidConfig, err)
	}

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
