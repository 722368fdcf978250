package agent

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/ashureev/mira-chat/internal/session"
)

type cleaningArchive struct {
	*fakeArchive
	cleanups atomic.Int32
}

func (c *cleaningArchive) CleanupExpiredSessions(context.Context, time.Duration) (int64, error) {
	c.cleanups.Add(1)
	return 0, nil
}

func TestSweeperRemovesIdleSessions(t *testing.T) {
	clock := newTestClock()
	archive := &cleaningArchive{fakeArchive: newFakeArchive()}
	svc := newTestService(t, echoCompleter, clock, WithArchive(archive))
	svc.Sessions().ResolveOrCreate("idle", "user-1")
	clock.Advance(25 * time.Hour)

	ctx, cancel := context.WithCancel(context.Background())
	done := svc.StartSweeper(ctx, 5*time.Millisecond)

	deadline := time.Now().Add(2 * time.Second)
	for svc.Sessions().Len() != 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	cancel()
	<-done

	if _, err := svc.Sessions().Snapshot("idle"); !errors.Is(err, session.ErrSessionNotFound) {
		t.Fatalf("idle session must be swept, got %v", err)
	}
	if archive.cleanups.Load() == 0 {
		t.Fatal("expected archive cleanup to run")
	}
}
