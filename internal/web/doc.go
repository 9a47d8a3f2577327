// Package web implements a server-rendered web view mirroring the TUI.
//
// # Routes
//
//	GET  /              → banner and slider; ?window=N selects the slider window
//	GET  /movies/{id}   → same page with the detail overlay open
//	POST /refresh       → refetch, then redirect back
//	GET  /api/listing   → current feed state as JSON
//	GET  /healthz       → liveness
//
// The overlay is driven entirely by the URL: the detail route is the open state and any other location is closed,
// so the browser's back button dismisses it. Dismiss links point back to / with the current window preserved.
//
// The carousel is stateless per request. The "next" link carries the advanced window index, computed with the same
// wrap rule as the TUI; there is no in-flight transition to guard against on the server.
//
// Listing state comes from a [tasks.Feed]: Loading renders a self-refreshing placeholder,
// Failed renders the error with a retry button.
package web
