// Package httpserver provides the operator-facing HTTP surface for running
// pad-allocation experiments.
//
// BaseServer implements the common server plumbing: chi routing, request
// logging, liveness/readiness endpoints, drain/undrain control for load
// balancers, optional pprof, and graceful shutdown. Components plug their
// endpoints in through the RouteRegistrar interface.
//
// SimulationHandler exposes the experiment API:
//
//   - POST /api/v1/simulations runs a Monte-Carlo report from the request
//     parameters and persists the per-scenario results
//   - GET /api/v1/simulations lists stored results, newest first
//   - GET /api/v1/status reports the progress of an in-flight run
//
// Note this is an operator surface only. The allocator itself is an
// in-process library; parties never talk to each other over HTTP.
package httpserver
