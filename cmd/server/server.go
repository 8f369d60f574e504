// cmd/server/server.go
package main

import (
	"net/http"
	"strconv"
	"time"

	"github.com/codr1/footy/internal/api"
	pickerapi "github.com/codr1/footy/internal/api/picker"
	"github.com/codr1/footy/internal/config"
	"github.com/codr1/footy/internal/metrics"
	"github.com/codr1/footy/internal/ratelimit"
)

func newServer(cfg *config.Config, picker pickerapi.TeamPicker, limiter *ratelimit.Limiter, metricsManager *metrics.Manager) *http.Server {
	router := http.NewServeMux()

	// Setup middleware chain
	handler := api.ChainMiddleware(
		router,
		api.WithLogging,
		api.WithRecovery,
		api.WithRequestID,
		api.WithContentType,
	)

	pickerapi.InitHandlers(picker, limiter, cfg.App.TrustProxy)

	// Register routes
	registerRoutes(router, metricsManager)

	return &http.Server{
		Addr:         ":" + strconv.Itoa(cfg.App.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 90 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
}

func registerRoutes(mux *http.ServeMux, metricsManager *metrics.Manager) {
	// Health check
	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("OK"))
	})

	instrument := func(route string, h http.HandlerFunc) http.Handler {
		if metricsManager == nil {
			return h
		}
		return metricsManager.Instrument(route, h)
	}

	// Picker routes
	mux.Handle("POST /api/v1/picker", instrument("/api/v1/picker", pickerapi.HandleSubmitPicker))
	mux.Handle("GET /api/v1/picker/teams", instrument("/api/v1/picker/teams", pickerapi.HandleGetTeams))

	if metricsManager != nil {
		mux.Handle("GET /metrics", metricsManager.Handler())
	}
}
