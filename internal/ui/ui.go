package ui

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/desertthunder/marquee/internal/carousel"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/overlay"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/shared"
	"github.com/desertthunder/marquee/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LoadingView ViewState = iota
	FailedView
	ReadyView
)

func (v ViewState) String() string {
	switch v {
	case LoadingView:
		return "loading"
	case FailedView:
		return "failed"
	case ReadyView:
		return "ready"
	default:
		return ""
	}
}

// Options configures a [Model].
type Options struct {
	WindowSize    int           // Tiles per slider window
	SlideDuration time.Duration // How long a window change blocks further advances
	HoverDelay    time.Duration // Focus dwell time before a tile expands
	ImageBaseURL  string        // CDN base for image links in the detail view
	Logger        *log.Logger
}

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	loader *tasks.Loader
	logger *log.Logger
	opts   Options

	view      ViewState
	page      *models.ResultPage
	fetchedAt time.Time
	stale     bool
	err       error
	status    string

	slider        *carousel.Controller
	history       *overlay.History
	focus         int
	expanded      bool
	hoverSeq      int
	transitionSeq int

	width    int
	height   int
	spinner  spinner.Model
	viewport viewport.Model
	help     help.Model
	keys     keyMap
}

// NewModel creates a new TUI model that loads listings through loader.
func NewModel(ctx context.Context, loader *tasks.Loader, opts Options) (*Model, error) {
	if opts.WindowSize == 0 {
		opts.WindowSize = carousel.DefaultWindowSize
	}
	slider, err := carousel.New(opts.WindowSize)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(io.Discard)
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = NewStyle(colorRed)

	return &Model{
		ctx:      ctx,
		loader:   loader,
		logger:   opts.Logger,
		opts:     opts,
		view:     LoadingView,
		slider:   slider,
		history:  overlay.NewHistory(overlay.BasePath),
		width:    80,
		height:   24,
		spinner:  sp,
		viewport: viewport.New(60, 12),
		help:     help.New(),
		keys:     newKeyMap(),
	}, nil
}

// Init starts the spinner and the first fetch.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.load())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.viewport.Width = max(msg.Width-8, 20)
		m.viewport.Height = max(msg.Height-10, 5)
		return m, nil

	case spinner.TickMsg:
		if m.view != LoadingView {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case Msg:
		return m.handleMsg(msg)

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.quit) {
			return m, tea.Quit
		}
		switch m.view {
		case FailedView:
			return m.handleFailedKeys(msg)
		case ReadyView:
			if m.history.Selection().Open {
				return m.handleOverlayKeys(msg)
			}
			return m.handleSliderKeys(msg)
		}
	}

	return m, nil
}

func (m *Model) handleMsg(msg Msg) (tea.Model, tea.Cmd) {
	switch msg.kind {
	case MsgListingLoaded:
		data := msg.data.(listingLoaded)
		if data.err != nil {
			m.logger.Error("failed to load listing", "error", data.err)
			m.view = FailedView
			m.err = data.err
			return m, nil
		}

		m.page = data.result.Page
		m.fetchedAt = data.result.FetchedAt
		m.stale = data.result.Stale
		m.err = data.result.FetchErr
		m.view = ReadyView
		m.slider.Reset()
		m.focus = 0
		m.refreshDetail()
		return m, m.startHover()

	case MsgTransitionDone:
		if seq := msg.data.(int); seq != m.transitionSeq {
			return m, nil
		}
		m.slider.CompleteTransition()
		m.clampFocus()
		return m, m.startHover()

	case MsgHoverElapsed:
		if seq := msg.data.(int); seq == m.hoverSeq && len(m.visible()) > 0 {
			m.expanded = true
		}
		return m, nil

	case MsgProgress:
		data := msg.data.(progressReceived)
		if m.view == LoadingView {
			m.status = data.update.Message
		}
		return m, waitForProgress(data.ch)
	}

	return m, nil
}

func (m *Model) handleFailedKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.keys.retry) && services.Retryable(m.err) {
		return m, m.refetch()
	}
	return m, nil
}

func (m *Model) handleSliderKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.advance):
		return m, m.advance()

	case key.Matches(msg, m.keys.left):
		if m.focus > 0 {
			m.focus--
			return m, m.startHover()
		}

	case key.Matches(msg, m.keys.right):
		if m.focus < len(m.visible())-1 {
			m.focus++
			return m, m.startHover()
		}

	case key.Matches(msg, m.keys.open):
		if movie, ok := m.focused(); ok {
			overlay.Open(m.history, movie.ID)
			m.refreshDetail()
		}

	case key.Matches(msg, m.keys.retry):
		return m, m.refetch()

	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
	}

	return m, nil
}

func (m *Model) handleOverlayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.back):
		overlay.Dismiss(m.history)
		m.refreshDetail()
		return m, nil
	case key.Matches(msg, m.keys.help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// advance starts a window change and schedules its completion. A change already in flight absorbs the request.
func (m *Model) advance() tea.Cmd {
	if !m.slider.Advance(m.page) {
		return nil
	}
	m.transitionSeq++
	m.expanded = false
	m.hoverSeq++
	seq := m.transitionSeq
	return tea.Tick(m.opts.SlideDuration, func(time.Time) tea.Msg {
		return transitionDoneMsg(seq)
	})
}

// startHover restarts the dwell timer for the focused tile.
func (m *Model) startHover() tea.Cmd {
	m.expanded = false
	m.hoverSeq++
	if len(m.visible()) == 0 {
		return nil
	}
	seq := m.hoverSeq
	return tea.Tick(m.opts.HoverDelay, func(time.Time) tea.Msg {
		return hoverElapsedMsg(seq)
	})
}

func (m *Model) refetch() tea.Cmd {
	m.view = LoadingView
	m.err = nil
	m.status = ""
	return tea.Batch(m.spinner.Tick, m.load())
}

// load fetches the listing while relaying the loader's progress to the loading view.
func (m *Model) load() tea.Cmd {
	progress := make(chan tasks.ProgressUpdate, 4)
	return tea.Batch(m.fetch(progress), waitForProgress(progress))
}

// fetch runs one load and closes progress when it returns. progress may be nil.
func (m *Model) fetch(progress chan tasks.ProgressUpdate) tea.Cmd {
	loader, ctx := m.loader, m.ctx
	return func() tea.Msg {
		if progress != nil {
			defer close(progress)
		}
		if loader == nil {
			return listingLoadedMsg(nil, fmt.Errorf("%w: no loader configured", shared.ErrServiceUnavailable))
		}
		result, err := loader.Load(ctx, progress)
		return listingLoadedMsg(result, err)
	}
}

// waitForProgress yields the next update on ch, or nothing once ch is closed.
func waitForProgress(ch <-chan tasks.ProgressUpdate) tea.Cmd {
	return func() tea.Msg {
		update, ok := <-ch
		if !ok {
			return nil
		}
		return progressMsg(update, ch)
	}
}

func (m *Model) visible() []models.Movie {
	return m.slider.Visible(m.page)
}

func (m *Model) clampFocus() {
	if n := len(m.visible()); m.focus >= n {
		m.focus = max(n-1, 0)
	}
}

// focused returns the movie under the cursor, or the banner when the slider is empty.
func (m *Model) focused() (models.Movie, bool) {
	if visible := m.visible(); len(visible) > 0 {
		return visible[min(m.focus, len(visible)-1)], true
	}
	return m.page.Banner()
}

// detail resolves the open overlay against the current page.
func (m *Model) detail() (models.Movie, bool) {
	return overlay.Resolve(m.page, m.history.Selection())
}

func (m *Model) refreshDetail() {
	movie, ok := m.detail()
	if !ok {
		m.viewport.SetContent("")
		return
	}
	m.viewport.SetContent(formatDetail(movie, m.imageURL(movie.BackdropPath, services.SizeOriginal), m.viewport.Width))
	m.viewport.GotoTop()
}

func (m *Model) imageURL(path, size string) string {
	return services.ImageURL(m.opts.ImageBaseURL, path, size)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	switch m.view {
	case LoadingView:
		return m.renderLoading()
	case FailedView:
		return m.renderFailed()
	case ReadyView:
		if m.history.Selection().Open {
			return m.renderOverlay()
		}
		return m.renderReady()
	default:
		return ""
	}
}
