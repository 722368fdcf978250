package main

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ashureev/mira-chat/internal/identity"
	"github.com/ashureev/mira-chat/internal/proto/chat"
)

func TestLoadIdentityDefaultsToAnonymous(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")

	_, rec, err := loadIdentity(path, "")
	if err != nil {
		t.Fatalf("loadIdentity failed: %v", err)
	}
	if rec.UserID != identity.AnonymousUserID || rec.SessionID != "" {
		t.Fatalf("unexpected record %+v", rec)
	}
}

func TestLoadIdentitySwitchingUserForgetsSession(t *testing.T) {
	path := filepath.Join(t.TempDir(), "identity.yaml")
	store := identity.NewStore(path)
	if err := store.Save(identity.Record{UserID: "alice", SessionID: "sess-1"}); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	_, rec, err := loadIdentity(path, "alice")
	if err != nil {
		t.Fatalf("loadIdentity failed: %v", err)
	}
	if rec.SessionID != "sess-1" {
		t.Fatalf("same user should keep the session, got %+v", rec)
	}

	_, rec, err = loadIdentity(path, "bob")
	if err != nil {
		t.Fatalf("loadIdentity failed: %v", err)
	}
	if rec.UserID != "bob" || rec.SessionID != "" {
		t.Fatalf("unexpected record after switching user %+v", rec)
	}

	stored, err := store.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if stored.UserID != "bob" || stored.SessionID != "" {
		t.Fatalf("switch not persisted: %+v", stored)
	}
}

func TestWriteSummaries(t *testing.T) {
	var buf bytes.Buffer
	writeSummaries(&buf, &chat.SummarizeResponse{
		Summaries: []*chat.Summary{
			{Url: "https://a.com", Summary: "short", Success: true},
			{Url: "bad", ErrorMessage: "invalid url"},
		},
		TotalProcessed: 2,
	})

	out := buf.String()
	for _, want := range []string{"https://a.com\n  short", "bad\n  failed: invalid url", "Processed 2 URL(s)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteChunk(t *testing.T) {
	var buf bytes.Buffer
	writeChunk(&buf, &chat.StreamChunk{Content: "Hello."})
	writeChunk(&buf, &chat.StreamChunk{Content: "Bye.", IsFinal: true})
	if got := buf.String(); got != " Hello. Bye.\n" {
		t.Fatalf("unexpected output %q", got)
	}
}
