// Package carousel implements the paginated slider shown under the banner.
//
// The slider is a fixed-size window over the post-banner items of a [models.ResultPage].
// [State] records which window is visible and whether a window change is in flight.
//
// # Transitions
//
// [Advance] starts a transition and moves to the next window, wrapping to the first after the last.
// While a transition is in flight further advances are ignored; the renderer must call
// [CompleteTransition] exactly once when the slide finishes, or the slider stays frozen.
//
// The last window index is recomputed from the page on every call, so a refetch that shrinks
// or grows the listing never leaves the slider pointing past the end for more than one advance.
//
// [Controller] wraps a State together with the configured window size for callers that
// want a stateful owner (the TUI); the package functions are pure and serve stateless callers (the web view).
package carousel
