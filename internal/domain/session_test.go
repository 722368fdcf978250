package domain

import (
	"testing"
	"time"
)

func TestChatSessionExpiry(t *testing.T) {
	last := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	s := &ChatSession{LastActivity: last}
	ttl := 24 * time.Hour

	if s.Expired(last.Add(ttl), ttl) {
		t.Fatal("age equal to ttl must not be expired")
	}
	if !s.Expired(last.Add(ttl+time.Nanosecond), ttl) {
		t.Fatal("age over ttl must be expired")
	}
	if got := s.IdleFor(last.Add(time.Minute)); got != time.Minute {
		t.Fatalf("unexpected idle duration %v", got)
	}
}

func TestChatSessionTurns(t *testing.T) {
	full := &ChatSession{Messages: []Message{
		{Role: RoleSystem, Content: "sys"},
		{Role: RoleUser, Content: "hi"},
		{Role: RoleAssistant, Content: "hello"},
	}}
	if full.Turns() != 2 {
		t.Fatalf("expected 2 turns, got %d", full.Turns())
	}

	meta := &ChatSession{MessageCount: 5}
	if meta.Turns() != 4 {
		t.Fatalf("expected 4 turns from metadata, got %d", meta.Turns())
	}
	if (&ChatSession{}).Turns() != 0 {
		t.Fatal("empty session should have no turns")
	}
}
