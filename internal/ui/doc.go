// Package ui implements the terminal movie browser using bubbletea's Elm architecture.
//
// The [Model] moves through three views:
//  1. [LoadingView] : spinner while the listing is fetched
//  2. [FailedView] : the fetch error with a retry key
//  3. [ReadyView] : banner, windowed slider and the detail overlay
//
// The slider is driven by a [carousel.Controller]. Advancing starts a transition that a tea.Tick completes after
// the slide duration; ticks carry a sequence number so a stale tick never ends a newer transition.
// The detail overlay is a pure function of the [overlay.History] location: enter pushes /movies/{id}, esc dismisses.
//
// Keyboard navigation uses vim-style bindings with contextual help displayed via charmbracelet/bubbles/help.
package ui
