// Package server provides HTTP routing, middleware, and the listener lifecycle for the web gallery.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally and registers method-qualified patterns
// ("GET /detail/{id}"), so path wildcards are available through [http.Request.PathValue] and the mux answers
// 405 for a known path with the wrong method.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
//
// # Middleware
//
// [Logging] records method, path, status and duration for every request through charmbracelet/log.
// [Recover] converts a handler panic into a 500 response.
//
// # Lifecycle
//
// [Server.Run] serves until its context is cancelled, then shuts down gracefully.
package server
