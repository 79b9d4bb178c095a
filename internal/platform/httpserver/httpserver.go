// Package httpserver constructs the process's HTTP listener. The server's
// lifecycle is owned by the caller: cmd/server starts it under an errgroup and
// gives it a bounded Shutdown window on SIGINT/SIGTERM.
package httpserver

import (
	"net/http"
	"time"
)

// New builds the server for the trust core boundary. ReadHeaderTimeout bounds
// slow-header clients before any handler runs; per-request deadlines beyond
// that belong to the handler stack, not the server.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
}
