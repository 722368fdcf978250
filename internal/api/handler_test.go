//nolint:revive // "api" package name is intentionally concise for this layer.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ashureev/mira-chat/internal/session"
	"github.com/coder/websocket"
	"github.com/go-chi/chi/v5"
)

func TestJSON(t *testing.T) {
	w := httptest.NewRecorder()
	data := map[string]string{"foo": "bar"}

	JSON(w, http.StatusOK, data)

	resp := w.Result()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("Expected status 200, got %d", resp.StatusCode)
	}

	var got map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&got); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}

	if got["foo"] != "bar" {
		t.Errorf("Expected foo=bar, got %v", got["foo"])
	}
}

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func serveHealth(t *testing.T, db Pinger) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	store := session.NewStore(session.Config{})
	store.ResolveOrCreate("sess-1", "user-1")
	registry := NewConnectionRegistry()
	registry.Register("user-1", "c1", &websocket.Conn{})

	r := chi.NewRouter()
	NewHandler(store, db, registry).RegisterRoutes(r)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	var body map[string]any
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode health body: %v", err)
	}
	return w, body
}

func TestHealthOK(t *testing.T) {
	w, body := serveHealth(t, fakePinger{})
	if w.Code != http.StatusOK || body["status"] != "ok" || body["database"] != "ok" {
		t.Fatalf("unexpected health response %d %v", w.Code, body)
	}
	if body["sessions"] != float64(1) {
		t.Fatalf("expected 1 session, got %v", body["sessions"])
	}
	if body["websocket_connections"] != float64(1) {
		t.Fatalf("expected 1 websocket connection, got %v", body["websocket_connections"])
	}
}

func TestHealthDegraded(t *testing.T) {
	w, body := serveHealth(t, fakePinger{err: errors.New("disk gone")})
	if w.Code != http.StatusServiceUnavailable || body["status"] != "degraded" {
		t.Fatalf("unexpected health response %d %v", w.Code, body)
	}
}
