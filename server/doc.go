// Package server is the relay's HTTP server: a Gin engine mounted on a
// ServeMux, served over HTTP/1.1 and h2c.
//
// Middleware from server/middleware wraps the whole mux, so it also covers
// requests Gin never routes (preflight, 404s). Routes are registered on
// Engine().
package server
