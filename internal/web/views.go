package web

import (
	"fmt"
	"net/url"

	"github.com/desertthunder/marquee/internal/carousel"
	"github.com/desertthunder/marquee/internal/models"
	"github.com/desertthunder/marquee/internal/overlay"
	"github.com/desertthunder/marquee/internal/services"
	"github.com/desertthunder/marquee/internal/tasks"
)

// movieView is a movie prepared for the template.
type movieView struct {
	ID       int
	Title    string
	Overview string
	Year     string
	Rating   string
	Backdrop string
	Poster   string
	Href     string
}

type dotView struct {
	Href    string
	Current bool
}

// pageView is everything index.html needs.
type pageView struct {
	Loading   bool
	Failed    bool
	Ready     bool
	Error     string
	Stale     bool
	FetchedAt string

	Banner   *movieView
	Tiles    []movieView
	Window   int
	Dots     []dotView
	NextHref string

	OverlayOpen bool
	Overlay     *movieView
	CloseHref   string
}

func withWindow(path string, window int) string {
	if window == 0 {
		return path
	}
	return path + "?" + url.Values{"window": {fmt.Sprint(window)}}.Encode()
}

func (a *App) movie(m models.Movie, window int) movieView {
	v := movieView{
		ID:       m.ID,
		Title:    m.Title,
		Overview: m.Overview,
		Year:     m.Year(),
		Backdrop: services.ImageURL(a.imageBase, m.BackdropPath, services.SizeOriginal),
		Poster:   services.ImageURL(a.imageBase, m.PosterPath, services.SizeW300),
		Href:     withWindow(overlay.DetailPath(m.ID), window),
	}
	if m.VoteAverage > 0 {
		v.Rating = fmt.Sprintf("%.1f", m.VoteAverage)
	}
	return v
}

// buildView assembles the template data for state at the given window and location.
//
// Windows beyond the last one fall back to the first.
func (a *App) buildView(state tasks.FeedState, window int, location string) pageView {
	view := pageView{
		Loading:     state.Status == tasks.StatusLoading,
		Failed:      state.Status == tasks.StatusFailed,
		Ready:       state.Status == tasks.StatusReady,
		Stale:       state.Stale,
		OverlayOpen: overlay.FromLocation(location).Open,
	}
	if state.Err != nil {
		view.Error = state.Err.Error()
	}
	if !view.Ready {
		return view
	}

	page := state.Page
	view.FetchedAt = state.FetchedAt.Local().Format("Jan 2, 15:04")

	last := carousel.MaxWindowIndex(page, a.windowSize)
	if window > last {
		window = 0
	}
	current := carousel.State{WindowIndex: window}
	view.Window = window

	if banner, ok := page.Banner(); ok {
		b := a.movie(banner, window)
		view.Banner = &b
	}

	for _, m := range carousel.VisibleSlice(page, current, a.windowSize) {
		view.Tiles = append(view.Tiles, a.movie(m, window))
	}

	for i := 0; i <= last; i++ {
		view.Dots = append(view.Dots, dotView{Href: withWindow(overlay.BasePath, i), Current: i == window})
	}

	next := carousel.Advance(current, page, a.windowSize)
	view.NextHref = withWindow(overlay.BasePath, next.WindowIndex)
	view.CloseHref = withWindow(overlay.BasePath, window)

	if movie, ok := overlay.ResolveLocation(page, location); ok {
		m := a.movie(movie, window)
		view.Overlay = &m
	}

	return view
}
