package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/mira-chat/internal/domain"
	"github.com/ashureev/mira-chat/internal/session"
	"github.com/go-chi/chi/v5"
)

// SessionArchive looks up sessions persisted beyond the in-memory store.
// GetChatSession returns nil, nil for unknown ids.
type SessionArchive interface {
	GetChatSession(ctx context.Context, sessionID string) (*domain.ChatSession, error)
}

// SessionHandler exposes read-only views of the session store.
type SessionHandler struct {
	*Handler
	archive  SessionArchive
	provider string
	idleTTL  time.Duration
	isDev    bool
}

// NewSessionHandler creates a session handler. archive may be nil.
func NewSessionHandler(base *Handler, archive SessionArchive, provider string, idleTTL time.Duration, isDev bool) *SessionHandler {
	return &SessionHandler{
		Handler:  base,
		archive:  archive,
		provider: provider,
		idleTTL:  idleTTL,
		isDev:    isDev,
	}
}

// sessionDetail is one session with its history and where it was found.
type sessionDetail struct {
	*domain.ChatSession
	Source string `json:"source"`
}

// RegisterRoutes registers session routes.
func (h *SessionHandler) RegisterRoutes(r chi.Router) {
	r.Route("/api", func(r chi.Router) {
		r.Get("/config", h.GetConfig)
		r.Get("/sessions", h.ListSessions)
		r.Get("/sessions/{id}", h.GetSession)
	})
}

type sessionSummary struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
	Turns        int       `json:"turns"`
	IdleSeconds  int64     `json:"idle_seconds"`
	// Expired sessions are still listed until the next sweep.
	Expired bool `json:"expired"`
}

func (h *SessionHandler) summarize(s *domain.ChatSession, now time.Time) sessionSummary {
	return sessionSummary{
		SessionID:    s.SessionID,
		UserID:       s.UserID,
		CreatedAt:    s.CreatedAt,
		LastActivity: s.LastActivity,
		MessageCount: s.MessageCount,
		Turns:        s.Turns(),
		IdleSeconds:  int64(s.IdleFor(now).Seconds()),
		Expired:      h.idleTTL > 0 && s.Expired(now, h.idleTTL),
	}
}

// GetConfig returns server settings useful to clients.
func (h *SessionHandler) GetConfig(w http.ResponseWriter, _ *http.Request) {
	JSON(w, http.StatusOK, map[string]interface{}{
		"provider":         h.provider,
		"history_cap":      h.sessions.HistoryCap(),
		"idle_ttl_seconds": int64(h.idleTTL.Seconds()),
		"development":      h.isDev,
	})
}

// ListSessions returns metadata for every live session.
func (h *SessionHandler) ListSessions(w http.ResponseWriter, r *http.Request) {
	userFilter := r.URL.Query().Get("user_id")

	now := time.Now()
	sessions := h.sessions.List()
	out := make([]sessionSummary, 0, len(sessions))
	for _, s := range sessions {
		if userFilter != "" && s.UserID != userFilter {
			continue
		}
		out = append(out, h.summarize(s, now))
	}
	JSON(w, http.StatusOK, map[string]interface{}{
		"sessions": out,
		"total":    len(out),
	})
}

// GetSession returns one session including its history.
func (h *SessionHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !session.ValidID(id) {
		Error(w, http.StatusBadRequest, "invalid session id")
		return
	}

	s, err := h.sessions.Get(id)
	if err == nil {
		JSON(w, http.StatusOK, sessionDetail{ChatSession: s, Source: "memory"})
		return
	}
	if !errors.Is(err, session.ErrSessionNotFound) {
		Error(w, http.StatusInternalServerError, "failed to load session")
		return
	}

	// Evicted from memory but possibly still archived.
	if h.archive != nil {
		archived, err := h.archive.GetChatSession(r.Context(), id)
		if err != nil {
			slog.Error("Archive lookup failed", "error", err, "session_id", id)
			Error(w, http.StatusInternalServerError, "failed to load session")
			return
		}
		if archived != nil {
			JSON(w, http.StatusOK, sessionDetail{ChatSession: archived, Source: "archive"})
			return
		}
	}
	Error(w, http.StatusNotFound, "session not found")
}
