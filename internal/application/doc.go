// Package application wires configuration into a running service: the
// rescaler, the optional result cache, the Prometheus registry, the solver,
// request validation, the API router, and the HTTP server. It keeps the main
// package focused on CLI parsing and shutdown orchestration.
package application
