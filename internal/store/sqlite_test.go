package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/ashureev/mira-chat/internal/domain"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLite(filepath.Join(t.TempDir(), "data", "mira.db"))
	if err != nil {
		t.Fatalf("NewSQLite failed: %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func chatSession(id string, lastActivity time.Time, turns ...string) *domain.ChatSession {
	msgs := []domain.Message{{Role: domain.RoleSystem, Content: "You are mira, a helpful assistant."}}
	for i, turn := range turns {
		role := domain.RoleUser
		if i%2 == 1 {
			role = domain.RoleAssistant
		}
		msgs = append(msgs, domain.Message{Role: role, Content: turn})
	}
	return &domain.ChatSession{
		SessionID:    id,
		UserID:       "user-1",
		CreatedAt:    lastActivity.Add(-time.Minute),
		LastActivity: lastActivity,
		Messages:     msgs,
	}
}

func TestSaveAndGetChatSession(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now().Truncate(time.Millisecond)

	if err := s.SaveChatSession(ctx, chatSession("sess-1", now, "hi", "hello")); err != nil {
		t.Fatalf("SaveChatSession failed: %v", err)
	}
	if err := s.SaveChatSession(ctx, chatSession("sess-1", now.Add(time.Second), "hi", "hello", "again", "sure")); err != nil {
		t.Fatalf("second SaveChatSession failed: %v", err)
	}

	got, err := s.GetChatSession(ctx, "sess-1")
	if err != nil {
		t.Fatalf("GetChatSession failed: %v", err)
	}
	if got == nil || len(got.Messages) != 5 || got.MessageCount != 5 {
		t.Fatalf("expected the upserted history, got %+v", got)
	}
	if got.Messages[4].Content != "sure" || got.Messages[4].Role != domain.RoleAssistant {
		t.Fatalf("unexpected last message %+v", got.Messages[4])
	}
	if !got.LastActivity.Equal(now.Add(time.Second)) {
		t.Fatalf("LastActivity = %v, want %v", got.LastActivity, now.Add(time.Second))
	}

	missing, err := s.GetChatSession(ctx, "nope")
	if err != nil || missing != nil {
		t.Fatalf("expected nil, nil for unknown session, got %v, %v", missing, err)
	}
}

func TestSaveChatSessionRequiresID(t *testing.T) {
	s := newTestStore(t)
	if err := s.SaveChatSession(context.Background(), &domain.ChatSession{}); err == nil {
		t.Fatal("expected error for empty session id")
	}
}

func TestLoadActiveSessions(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	_ = s.SaveChatSession(ctx, chatSession("old", now.Add(-48*time.Hour), "x"))
	_ = s.SaveChatSession(ctx, chatSession("recent", now.Add(-time.Hour), "y"))
	_ = s.SaveChatSession(ctx, chatSession("newest", now, "z"))

	sessions, err := s.LoadActiveSessions(ctx, 24*time.Hour)
	if err != nil {
		t.Fatalf("LoadActiveSessions failed: %v", err)
	}
	if len(sessions) != 2 || sessions[0].SessionID != "recent" || sessions[1].SessionID != "newest" {
		t.Fatalf("unexpected active sessions %+v", sessions)
	}
}

func TestDeleteAndCleanup(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"a", "b", "c"} {
		_ = s.SaveChatSession(ctx, chatSession(id, now))
	}
	_ = s.SaveChatSession(ctx, chatSession("stale", now.Add(-30*time.Hour)))

	n, err := s.DeleteChatSessions(ctx, []string{"a", "b", "missing"})
	if err != nil || n != 2 {
		t.Fatalf("DeleteChatSessions = %d, %v; want 2", n, err)
	}
	if n, err := s.DeleteChatSessions(ctx, nil); err != nil || n != 0 {
		t.Fatalf("empty delete = %d, %v", n, err)
	}

	n, err = s.CleanupExpiredSessions(ctx, 24*time.Hour)
	if err != nil || n != 1 {
		t.Fatalf("CleanupExpiredSessions = %d, %v; want 1", n, err)
	}
	if got, _ := s.GetChatSession(ctx, "c"); got == nil {
		t.Fatal("active session must survive cleanup")
	}
	if err := s.Ping(ctx); err != nil {
		t.Fatalf("Ping failed: %v", err)
	}
}
