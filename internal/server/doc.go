// Package server provides HTTP routing, middleware, and handlers for the recommendation service.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with per-method dispatch, so a
// path answers 405 with an Allow header for methods it does not serve.
//
// # Endpoints
//
//   - POST /recommendations : runs a [tasks.Pipeline] for {"input": "..."} and writes its outcome
//   - GET /health : liveness
//   - GET /metrics : Prometheus exposition of [Metrics]
//
// # Middleware
//
// [NewServer] installs [RequestID], [Logging], [CORS] and [Metrics.Middleware], in that order.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
