package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/marquee/internal/carousel"
	"github.com/desertthunder/marquee/internal/formatter"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/overlay"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/tasks"
	"github.com/urfave/cli/v3"
)

// MoviesNowPlaying prints the current listing.
func (r *Runner) MoviesNowPlaying(ctx context.Context, cmd *cli.Command) error {
	result, err := r.loadListing(ctx, cmd.Bool("offline"))
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(result.Page, cmd.Bool("pretty"))
	}

	page := result.Page
	r.writePlainHeader("Now Playing")
	if page.Dates.Minimum != "" {
		r.writePlain("In theatres %s to %s\n", page.Dates.Minimum, page.Dates.Maximum)
	}
	if result.Stale {
		r.writePlain("Offline copy from %s\n", result.FetchedAt.Local().Format("Jan 2 15:04"))
	}

	banner, ok := page.Banner()
	if !ok {
		r.writePlainln("Nothing is playing right now.")
		return nil
	}

	r.writePlainln("Featured")
	r.writeMovieLine(1, banner)

	if rest := page.Rest(); len(rest) > 0 {
		r.writePlainln("Also showing")
		for i, m := range rest {
			r.writeMovieLine(i+2, m)
		}
	}
	return nil
}

// MoviesShow prints the detail of the movie with the given ID.
func (r *Runner) MoviesShow(ctx context.Context, cmd *cli.Command) error {
	id := strings.TrimSpace(cmd.StringArg("id"))
	if id == "" {
		return fmt.Errorf("%w: movie id", shared.ErrMissingArgument)
	}

	result, err := r.loadListing(ctx, cmd.Bool("offline"))
	if err != nil {
		return err
	}

	movie, ok := overlay.Resolve(result.Page, overlay.Selection{ID: id, Open: true})
	if !ok {
		return fmt.Errorf("%w: %s is not in the current listing", shared.ErrMovieNotFound, id)
	}

	if cmd.Bool("json") {
		return r.writeJSON(movie, true)
	}

	base := r.config.Credentials.TMDB.ImageBaseURL
	r.writePlainHeader(movie.Title)
	if y := movie.Year(); y != "" {
		r.writePlain("Released: %s\n", movie.ReleaseDate)
	}
	if movie.VoteAverage > 0 {
		r.writePlain("Rating:   %.1f\n", movie.VoteAverage)
	}
	if movie.OriginalLanguage != "" {
		r.writePlain("Language: %s\n", movie.OriginalLanguage)
	}
	if movie.Overview != "" {
		r.writePlainln("%s", movie.Overview)
	}
	if u := services.ImageURL(base, movie.BackdropPath, services.SizeOriginal); u != "" {
		r.writePlain("\nBackdrop: %s\n", u)
	}
	if u := services.ImageURL(base, movie.PosterPath, services.SizeW500); u != "" {
		r.writePlain("Poster:   %s\n", u)
	}
	return nil
}

// MoviesSlider prints the banner and then each slider window in cycle order.
func (r *Runner) MoviesSlider(ctx context.Context, cmd *cli.Command) error {
	size := int(cmd.Int("size"))
	if size == 0 {
		size = r.config.Carousel.WindowSize
	}
	slider, err := carousel.New(size)
	if err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidFlag, err)
	}

	result, err := r.loadListing(ctx, cmd.Bool("offline"))
	if err != nil {
		return err
	}
	page := result.Page

	banner, ok := page.Banner()
	if !ok {
		r.writePlain("Nothing is playing right now.\n")
		return nil
	}
	r.writePlainHeader("Banner: " + banner.Title)

	last := slider.Max(page)
	if w := int(cmd.Int("window")); w >= 0 {
		if w > last {
			return fmt.Errorf("%w: window %d out of range 0..%d", shared.ErrInvalidFlag, w, last)
		}
		r.writeWindow(w, last, carousel.VisibleSlice(page, carousel.State{WindowIndex: w}, size))
		return nil
	}

	for range carousel.WindowCount(page, size) {
		r.writeWindow(slider.State().WindowIndex, last, slider.Visible(page))
		slider.Advance(page)
		slider.CompleteTransition()
	}
	return nil
}

func (r *Runner) writeWindow(index, last int, movies []models.Movie) {
	r.writePlainln("Window %d/%d", index+1, last+1)
	if len(movies) == 0 {
		r.writePlain("  (empty)\n")
	}
	for i, m := range movies {
		r.writePlain("  %d. %s\n", i+1, m.Title)
	}
}

// MoviesExport writes the listing in the requested format.
func (r *Runner) MoviesExport(ctx context.Context, cmd *cli.Command) error {
	result, err := r.loadListing(ctx, cmd.Bool("offline"))
	if err != nil {
		return err
	}
	page := result.Page
	output := cmd.String("output")

	switch format := strings.ToLower(cmd.String("format")); format {
	case "csv":
		res, err := formatter.WriteCSVExport(page, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ Movies:   %s\n", res.MoviesFile)
		r.writePlain("✓ Metadata: %s\n", res.MetadataFile)
	case "markdown", "md":
		if output == "" {
			output = "now_playing"
		}
		var cover string
		if banner, ok := page.Banner(); ok {
			cover = services.ImageURL(r.config.Credentials.TMDB.ImageBaseURL, banner.BackdropPath, services.SizeW780)
		}
		res, err := formatter.WriteMarkdownExport(page, output, cover)
		if err != nil {
			return err
		}
		for _, f := range res.Files {
			r.writePlain("✓ %s\n", f)
		}
	case "text", "txt":
		path, err := formatter.WriteTextExport(page, output)
		if err != nil {
			return err
		}
		r.writePlain("✓ %s\n", path)
	case "images":
		return r.exportImages(ctx, cmd, page, output)
	default:
		return fmt.Errorf("%w: unknown format %q (csv, markdown, text, images)", shared.ErrInvalidFlag, format)
	}

	return nil
}

func (r *Runner) exportImages(ctx context.Context, cmd *cli.Command, page *models.ResultPage, output string) error {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			if update.Step == 0 {
				r.writePlain("🖼  %s\n", update.Message)
			} else {
				r.writePlain("   [%d/%d] %s\n", update.Step, update.Total, update.Message)
			}
		}
	}()

	result, err := tasks.ExportImages(ctx, progressCh, page, tasks.ExportImagesOpts{
		OutputDir:    output,
		ImageBaseURL: r.config.Credentials.TMDB.ImageBaseURL,
		Size:         cmd.String("size"),
		Posters:      cmd.Bool("posters"),
		NumWorkers:   int(cmd.Int("workers")),
		Client:       r.httpClient,
	})
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Export Complete")
	r.writePlain("Directory: %s\n", result.OutputDirectory)
	r.writePlain("Saved %d of %d images (%d failed, %d skipped)\n", result.Succeeded, result.Total, result.Failed, result.Skipped)

	for _, res := range result.Results {
		if !res.Success && res.Error != nil {
			r.writePlain("  - %s (%s): %v\n", res.Title, res.Kind, res.Error)
		}
	}
	return nil
}
