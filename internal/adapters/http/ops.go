// Package http exposes the operational HTTP surface: liveness and metrics.
// The pipeline has no end-user API; all failure reporting happens in logs.
package http

import (
	"net/http"

	"github.com/okian/frontline/pkg/metrics"
)

// NewMux builds the operational mux.
func NewMux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	mux.Handle("/metrics", metrics.Handler())
	return mux
}
