// Package server provides HTTP routing, middleware and lifecycle for the web view.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method-and-path patterns ("GET /movies/{id}"),
// so path values are available through [http.Request.PathValue] and wrong methods get 405 responses.
//
// # Middleware
//
//   - [RequestID] : tags each request with an X-Request-ID header
//   - [Logging] : one structured log line per request with status and duration
//   - [Recover] : turns handler panics into 500 responses
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Lifecycle
//
// [Serve] runs an [http.Server] until its context is cancelled, then shuts down gracefully.
package server
