// Package agent implements the mira assistant's server side: the gRPC
// ChatService handlers and the per-stream session protocol.
package agent

import (
	"context"
	"fmt"
	"time"

	"github.com/ashureev/mira-chat/internal/domain"
	"github.com/ashureev/mira-chat/internal/proto/chat"
)

// State is the lifecycle position of one duplex conversation stream.
type State int

const (
	// StateUnbound means the stream is open but no session is resolved yet.
	StateUnbound State = iota
	// StateBound means the first message resolved a session.
	StateBound
	// StateStreaming means at least one turn has been exchanged.
	StateStreaming
	// StateClosed means the client closed its send side.
	StateClosed
	// StateFailed means the transport failed.
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateUnbound:
		return "unbound"
	case StateBound:
		return "bound"
	case StateStreaming:
		return "streaming"
	case StateClosed:
		return "closed"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transitions are possible.
func (s State) Terminal() bool {
	return s == StateClosed || s == StateFailed
}

// User-visible texts sent in place of a completion.
const (
	// FallbackReply is returned by GetReply when the provider fails.
	FallbackReply = "Sorry, I encountered an error processing your request."
	// SummaryFailedText is recorded for a batch item whose provider call failed.
	SummaryFailedText = "summarization failed"
	// FallbackChatReply is emitted on a chat stream when the provider fails.
	FallbackChatReply = "Sorry, I couldn't generate a reply right now. Please try again."
	// RateLimitedReply is emitted on a chat stream when the user is throttled.
	RateLimitedReply = "You're sending messages too quickly. Please wait a moment and try again."
	// SessionStartedText accompanies a session announcement.
	SessionStartedText = "New session started."
)

// Config holds agent configuration.
type Config struct {
	IdleTTL            time.Duration
	RateLimitRequests  int
	RateLimitWindow    time.Duration
	SummaryConcurrency int
	SummaryWords       int
}

// DefaultConfig returns default agent configuration.
func DefaultConfig() Config {
	return Config{
		IdleTTL:            24 * time.Hour,
		RateLimitRequests:  30,
		RateLimitWindow:    time.Minute,
		SummaryConcurrency: 4,
		SummaryWords:       100,
	}
}

// MessageStream is one duplex conversation transport. The gRPC bidi server
// stream satisfies it directly; the WebSocket gateway adapts to it.
type MessageStream interface {
	Context() context.Context
	Recv() (*chat.ChatMessage, error)
	Send(*chat.ChatMessage) error
}

// Archive persists sessions beyond process lifetime.
type Archive interface {
	SaveChatSession(ctx context.Context, session *domain.ChatSession) error
	DeleteChatSessions(ctx context.Context, sessionIDs []string) (int64, error)
}
