// Package statusserver serves /healthz and /metrics for a running sync,
// behind the optional --metrics-addr flag. Purely observational: it never
// feeds back into the scheduler.
package statusserver

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/hemzaz/tugboat/pkg/metrics"
)

// Server is a minimal HTTP server exposing health and Prometheus metrics:
// a gorilla/mux router with one handler per concern.
type Server struct {
	httpServer *http.Server
	startedAt  time.Time
}

// New builds a Server bound to addr. It does not start listening until
// ListenAndServe is called.
func New(addr string, reg *metrics.Registry) *Server {
	router := mux.NewRouter()
	s := &Server{startedAt: time.Now()}

	router.HandleFunc("/healthz", s.handleHealthz).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.HandlerFor(reg.Gatherer(), promhttp.HandlerOpts{})).Methods(http.MethodGet)

	s.httpServer = &http.Server{Addr: addr, Handler: router}
	return s
}

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
		"uptime": time.Since(s.startedAt).String(),
	})
}

// ListenAndServe blocks serving requests until the server is shut down or
// fails to bind.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown stops the server immediately, closing its listener and any open
// connections without waiting for in-flight requests to finish.
func (s *Server) Shutdown() error {
	return s.httpServer.Close()
}
