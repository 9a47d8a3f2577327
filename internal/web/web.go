package web

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"slices"
	"strconv"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/carousel"
	"github.com/desertthunder/marquee/internal/server"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/tasks"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Options configures an [App].
type Options struct {
	WindowSize   int
	ImageBaseURL string
	Logger       *log.Logger
}

// App serves the web view for a [tasks.Feed].
type App struct {
	feed       *tasks.Feed
	windowSize int
	imageBase  string
	logger     *log.Logger
	tmpl       *template.Template
	routes     *routes
	router     *server.BasicRouter
}

// routes collects the App's handlers so the outer router can mount them with one middleware chain.
type routes struct {
	*server.BasicRouter
	patterns []string
}

var _ server.Handler = (*routes)(nil)

func (rt *routes) Routes() []string {
	return rt.patterns
}

func (rt *routes) handle(method, path string, fn http.HandlerFunc) {
	rt.HandleFunc(method, path, fn)
	rt.patterns = append(rt.patterns, method+" "+path)
}

// New builds the App and its routes.
func New(feed *tasks.Feed, opts Options) (*App, error) {
	if feed == nil {
		return nil, fmt.Errorf("%w: feed is required", shared.ErrInvalidInput)
	}
	if opts.WindowSize == 0 {
		opts.WindowSize = carousel.DefaultWindowSize
	}
	if opts.WindowSize < 1 {
		return nil, fmt.Errorf("%w: window size must be at least 1, got %d", shared.ErrInvalidConfig, opts.WindowSize)
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	tmpl, err := template.ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	app := &App{
		feed:       feed,
		windowSize: opts.WindowSize,
		imageBase:  opts.ImageBaseURL,
		logger:     opts.Logger,
		tmpl:       tmpl,
		routes:     &routes{BasicRouter: server.NewBasicRouter()},
		router:     server.NewBasicRouter(),
	}

	app.routes.handle(http.MethodGet, "/{$}", app.handleIndex)
	app.routes.handle(http.MethodGet, "/movies/{id}", app.handleDetail)
	app.routes.handle(http.MethodPost, "/refresh", app.handleRefresh)
	app.routes.handle(http.MethodGet, "/api/listing", app.handleListing)
	app.routes.handle(http.MethodGet, "/healthz", app.handleHealth)

	app.router.Use(server.RequestID(), server.Logging(app.logger), server.Recover(app.logger))
	app.router.Handler(app.routes)

	return app, nil
}

// Routes lists the patterns the App serves.
func (a *App) Routes() []string {
	return slices.Clone(a.routes.Routes())
}

// ServeHTTP implements [http.Handler].
func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	a.router.ServeHTTP(w, r)
}

// windowParam reads ?window=N. Missing or malformed values select the first window.
func windowParam(r *http.Request) int {
	n, err := strconv.Atoi(r.URL.Query().Get("window"))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
