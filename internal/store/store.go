// Package store persists chat sessions so they survive a server restart.
package store

import (
	"context"
	"time"

	"github.com/ashureev/mira-chat/internal/domain"
)

// Repository is the session archive.
type Repository interface {
	// SaveChatSession creates or replaces a session row.
	SaveChatSession(ctx context.Context, session *domain.ChatSession) error

	// GetChatSession returns nil, nil for unknown sessions.
	GetChatSession(ctx context.Context, sessionID string) (*domain.ChatSession, error)

	// LoadActiveSessions returns sessions active within ttl, oldest first.
	LoadActiveSessions(ctx context.Context, ttl time.Duration) ([]*domain.ChatSession, error)

	// DeleteChatSessions removes the given sessions.
	DeleteChatSessions(ctx context.Context, sessionIDs []string) (int64, error)

	// CleanupExpiredSessions removes sessions idle longer than ttl.
	CleanupExpiredSessions(ctx context.Context, ttl time.Duration) (int64, error)

	// Ping verifies database connectivity.
	Ping(ctx context.Context) error

	// Close closes the database connection.
	Close() error
}
