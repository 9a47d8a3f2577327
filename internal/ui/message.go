package ui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/marquee/internal/tasks"
)

// MsgKind enumerates all message types in the application.
type MsgKind int

// Msg represents all possible messages in the TUI (Elm-style message union).
type Msg struct {
	kind MsgKind
	data any
}

var (
	_ tea.Msg = Msg{}
)

const (
	MsgListingLoaded MsgKind = iota
	MsgTransitionDone
	MsgHoverElapsed
	MsgProgress
)

type listingLoaded struct {
	result *tasks.LoadResult
	err    error
}

// listingLoadedMsg is the constructor for [MsgListingLoaded]
func listingLoadedMsg(result *tasks.LoadResult, err error) Msg {
	return Msg{kind: MsgListingLoaded, data: listingLoaded{result, err}}
}

// transitionDoneMsg is the constructor for [MsgTransitionDone]. seq ties the tick to the transition that scheduled it.
func transitionDoneMsg(seq int) Msg {
	return Msg{kind: MsgTransitionDone, data: seq}
}

// hoverElapsedMsg is the constructor for [MsgHoverElapsed]
func hoverElapsedMsg(seq int) Msg {
	return Msg{kind: MsgHoverElapsed, data: seq}
}

type progressReceived struct {
	update tasks.ProgressUpdate
	ch     <-chan tasks.ProgressUpdate
}

// progressMsg is the constructor for [MsgProgress]. ch is the channel to keep listening on.
func progressMsg(update tasks.ProgressUpdate, ch <-chan tasks.ProgressUpdate) Msg {
	return Msg{kind: MsgProgress, data: progressReceived{update, ch}}
}
