// Package domain contains core domain types for the mira chat service.
package domain

import (
	"time"
)

// ChatSession is the durable view of a server-held conversation.
type ChatSession struct {
	SessionID    string    `json:"session_id"`
	UserID       string    `json:"user_id"`
	CreatedAt    time.Time `json:"created_at"`
	LastActivity time.Time `json:"last_activity"`
	MessageCount int       `json:"message_count"`
	Messages     []Message `json:"messages,omitempty"`
}

// IdleFor returns how long the session has been inactive at now.
func (s *ChatSession) IdleFor(now time.Time) time.Duration {
	return now.Sub(s.LastActivity)
}

// Expired reports whether the session has been idle strictly longer than ttl.
func (s *ChatSession) Expired(now time.Time, ttl time.Duration) bool {
	return s.IdleFor(now) > ttl
}

// Turns returns the number of conversational entries, excluding the system
// directive. Metadata-only views fall back on MessageCount.
func (s *ChatSession) Turns() int {
	if s.Messages == nil {
		return max(s.MessageCount-1, 0)
	}
	if len(s.Messages) > 0 && s.Messages[0].Role == RoleSystem {
		return len(s.Messages) - 1
	}
	return len(s.Messages)
}
