// Package api provides the HTTP side channel of the mira server: health,
// session inspection and the WebSocket chat gateway.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/ashureev/mira-chat/internal/session"
	"github.com/go-chi/chi/v5"
)

// Pinger reports backend reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler provides common handler utilities.
type Handler struct {
	sessions    *session.Store
	db          Pinger
	connections *ConnectionRegistry
}

// NewHandler creates a new Handler with common dependencies. db and
// connections may be nil.
func NewHandler(sessions *session.Store, db Pinger, connections *ConnectionRegistry) *Handler {
	return &Handler{
		sessions:    sessions,
		db:          db,
		connections: connections,
	}
}

// RegisterRoutes registers the health route.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/health", h.Health)
}

// Health reports process and database health.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	}
	if h.connections != nil {
		body["websocket_connections"] = h.connections.Count()
	}
	if h.db != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := h.db.Ping(ctx); err != nil {
			body["status"] = "degraded"
			body["database"] = err.Error()
			JSON(w, http.StatusServiceUnavailable, body)
			return
		}
		body["database"] = "ok"
	}
	JSON(w, http.StatusOK, body)
}

// JSON writes a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		http.Error(w, `{"error": "failed to encode response"}`, http.StatusInternalServerError)
	}
}

// Error writes a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
