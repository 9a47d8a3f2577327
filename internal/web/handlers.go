package web

import (
	"bytes"
	"net/http"
	"time"

	"github.com/desertthunder/marquee/internal/overlay"
	"github.com/desertthunder/marquee/internal/shared"
)

func (a *App) handleIndex(w http.ResponseWriter, r *http.Request) {
	view := a.buildView(a.feed.State(), windowParam(r), overlay.BasePath)
	a.render(w, http.StatusOK, view)
}

func (a *App) handleDetail(w http.ResponseWriter, r *http.Request) {
	view := a.buildView(a.feed.State(), windowParam(r), r.URL.Path)

	status := http.StatusOK
	if view.Ready && view.Overlay == nil {
		status = http.StatusNotFound
	}
	a.render(w, status, view)
}

func (a *App) handleRefresh(w http.ResponseWriter, r *http.Request) {
	state := a.feed.Refresh(r.Context())
	a.logger.Info("listing refreshed", "status", state.Status, "stale", state.Stale)
	http.Redirect(w, r, overlay.BasePath, http.StatusSeeOther)
}

func (a *App) handleHealth(w http.ResponseWriter, r *http.Request) {
	a.writeJSON(w, http.StatusOK, map[string]string{
		"status": "ok",
		"feed":   a.feed.State().Status.String(),
	})
}

// listingResponse is the JSON shape of /api/listing.
type listingResponse struct {
	Status    string `json:"status"`
	Stale     bool   `json:"stale"`
	FetchedAt string `json:"fetched_at,omitempty"`
	Error     string `json:"error,omitempty"`
	Page      any    `json:"page,omitempty"`
}

func (a *App) handleListing(w http.ResponseWriter, r *http.Request) {
	state := a.feed.State()
	resp := listingResponse{Status: state.Status.String(), Stale: state.Stale}
	if state.Err != nil {
		resp.Error = state.Err.Error()
	}
	if state.Page != nil {
		resp.Page = state.Page
		resp.FetchedAt = state.FetchedAt.Format(time.RFC3339)
	}
	a.writeJSON(w, http.StatusOK, resp)
}

func (a *App) render(w http.ResponseWriter, status int, view pageView) {
	var buf bytes.Buffer
	if err := a.tmpl.ExecuteTemplate(&buf, "index.html", view); err != nil {
		a.logger.Error("failed to render template", "error", err)
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

func (a *App) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := shared.MarshalJSON(v, false)
	if err != nil {
		http.Error(w, "Internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
