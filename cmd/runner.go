package main

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/repositories"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/tasks"
	"github.com/mattn/go-isatty"
	"github.com/urfave/cli/v3"
)

var headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#E51013"))

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	configPath string
	catalog    services.Catalog
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	styled     bool
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	ConfigPath string
	Catalog    services.Catalog
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = http.DefaultClient
	}

	return &Runner{
		config:     opts.Config,
		configPath: opts.ConfigPath,
		catalog:    opts.Catalog,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		styled:     isTerminal(opts.Output),
	}
}

// isTerminal reports whether w is a file attached to a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// SetLogger replaces the runner's logger.
func (r *Runner) SetLogger(l *log.Logger) {
	r.logger = l
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, moviesCommand, cacheCommand, tuiCommand, serveCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// openDatabase opens the configured snapshot database with migrations applied.
func (r *Runner) openDatabase() (*sql.DB, error) {
	db, err := shared.OpenDatabase(r.config.Database)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", shared.ErrDatabase, err)
	}
	return db, nil
}

// newLoader builds a Loader backed by the snapshot database when it can be opened.
//
// The returned close func is always safe to call.
func (r *Runner) newLoader() (*tasks.Loader, func()) {
	db, err := r.openDatabase()
	if err != nil {
		r.logger.Warn("snapshot cache unavailable", "error", err)
		return tasks.NewLoader(r.catalog, nil, r.logger), func() {}
	}

	store := repositories.NewSnapshotStoreAdapter(repositories.NewSnapshotRepository(db), r.config.Database.KeepSnapshots)
	return tasks.NewLoader(r.catalog, store, r.logger), func() { db.Close() }
}

// loadListing fetches the listing, or reads the newest snapshot when offline is set.
func (r *Runner) loadListing(ctx context.Context, offline bool) (*tasks.LoadResult, error) {
	if offline {
		db, err := r.openDatabase()
		if err != nil {
			return nil, err
		}
		defer db.Close()

		snapshot, err := repositories.NewSnapshotRepository(db).Latest()
		if err != nil {
			return nil, err
		}
		return &tasks.LoadResult{
			Page:       snapshot.Page(),
			FetchedAt:  snapshot.FetchedAt(),
			Stale:      true,
			SnapshotID: snapshot.ID(),
		}, nil
	}

	loader, closeDB := r.newLoader()
	defer closeDB()

	progressCh := make(chan tasks.ProgressUpdate, 8)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			r.logger.Info(update.Message, "phase", update.Phase)
		}
	}()

	result, err := loader.Load(ctx, progressCh)
	close(progressCh)
	<-done
	if err != nil {
		return nil, fmt.Errorf("failed to load now playing: %w", err)
	}
	if result.Stale {
		r.logger.Warn("showing offline copy", "fetched_at", result.FetchedAt.Format(time.RFC3339), "error", result.FetchErr)
	}
	return result, nil
}

// listingFlags are shared by commands that read the listing.
func listingFlags(extra ...cli.Flag) []cli.Flag {
	return append([]cli.Flag{
		&cli.BoolFlag{
			Name:  "offline",
			Usage: "Read the newest cached snapshot instead of fetching",
		},
	}, extra...)
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainln(format string, args ...any) error {
	text := "\n" + fmt.Sprintf(format, args...) + "\n"
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	if r.styled {
		r.writePlain("%s\n", headerStyle.Render(title))
		return
	}
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}

// writeMovieLine prints one numbered movie row.
func (r *Runner) writeMovieLine(n int, m models.Movie) {
	year := m.Year()
	if year == "" {
		year = "----"
	}
	r.writePlain("%3d. %-40s %s  ★ %.1f  (%d)\n", n, shared.Truncate(m.Title, 40), year, m.VoteAverage, m.ID)
}
