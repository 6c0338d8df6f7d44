package handler

import (
	"context"
	"net/http"

	"github.com/Rrens/chatrooms/internal/api/response"
	"github.com/Rrens/chatrooms/internal/llm"
)

// Pinger is implemented by storage backends that hold a connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// HealthCheck returns a simple health check response
func HealthCheck(w http.ResponseWriter, r *http.Request) {
	response.OK(w, map[string]string{
		"status": "ok",
	})
}

// ReadyCheck returns readiness status including storage connectivity.
// Embedded stores without a Ping are always ready.
func ReadyCheck(storage any) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if p, ok := storage.(Pinger); ok {
			if err := p.Ping(r.Context()); err != nil {
				response.Error(w, http.StatusServiceUnavailable, "storage not ready")
				return
			}
		}

		response.OK(w, map[string]string{
			"status": "ready",
		})
	}
}

// ListProviders returns the configured reply providers
func ListProviders(router *llm.Router) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		response.OK(w, map[string]any{
			"providers":        router.ListProviders(),
			"default_provider": router.DefaultProvider(),
		})
	}
}
