package client

import (
	"context"
	"strings"
	"sync"
	"testing"

	"github.com/ashureev/mira-chat/internal/proto/chat"
	"go.uber.org/goleak"
)

type fakeChat struct {
	sessionID string
	done      chan struct{}

	mu       sync.Mutex
	enqueued []*chat.ChatMessage
	closed   int
}

func newFakeChat(sessionID string) *fakeChat {
	return &fakeChat{sessionID: sessionID, done: make(chan struct{})}
}

func (f *fakeChat) Enqueue(msg *chat.ChatMessage) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.enqueued = append(f.enqueued, msg)
	return nil
}

func (f *fakeChat) SessionID() string     { return f.sessionID }
func (f *fakeChat) Done() <-chan struct{} { return f.done }

func (f *fakeChat) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.closed++
	return nil
}

func (f *fakeChat) texts() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for _, m := range f.enqueued {
		out = append(out, m.GetText())
	}
	return out
}

type shellHarness struct {
	out    *syncBuffer
	ident  *recordingIdentity
	opened []string
	chats  []*fakeChat
	shell  *Shell
}

func newShellHarness(input string) *shellHarness {
	h := &shellHarness{out: &syncBuffer{}, ident: &recordingIdentity{}}
	h.shell = NewShell(ShellConfig{
		In:       strings.NewReader(input),
		Console:  NewConsole(h.out, DefaultPrompt),
		UserID:   "user-1",
		Identity: h.ident,
		Open: func(_ context.Context, sessionID string) (Chat, error) {
			h.opened = append(h.opened, sessionID)
			c := newFakeChat(sessionID)
			h.chats = append(h.chats, c)
			return c, nil
		},
	})
	return h
}

func TestShellSendsMessagesUntilQuit(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newShellHarness("hello\n\n   \nsecond\nBYE\nignored\n")
	if err := h.shell.Run(ctx, "sess-1"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(h.chats) != 1 || h.opened[0] != "sess-1" {
		t.Fatalf("expected one chat opened on sess-1, got %v", h.opened)
	}
	c := h.chats[0]
	if got := strings.Join(c.texts(), "|"); got != "|hello|second" {
		t.Fatalf("enqueued texts = %q, want bind then two turns", got)
	}
	for _, m := range c.enqueued {
		if m.GetUserId() != "user-1" || m.GetSessionId() != "sess-1" || m.GetMessageId() == "" || m.GetSender() != chat.SenderUser {
			t.Fatalf("unexpected message %+v", m)
		}
	}
	if c.closed != 1 {
		t.Fatalf("chat must be closed once, got %d", c.closed)
	}
	if !strings.Contains(h.out.String(), "Goodbye!") {
		t.Fatal("expected goodbye message")
	}
}

func TestShellClearStartsNewSession(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newShellHarness("first\n/clear\nafter\n/history\n/quit\n")
	if err := h.shell.Run(ctx, "old"); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if strings.Join(h.opened, ",") != "old," {
		t.Fatalf("expected reopen with empty session, got %q", h.opened)
	}
	if calls := h.ident.Calls(); len(calls) != 1 || calls[0] != "" {
		t.Fatalf("expected stored session to be reset once, got %v", calls)
	}
	if h.chats[0].closed != 1 {
		t.Fatal("old chat must be closed on /clear")
	}
	if got := strings.Join(h.chats[1].texts(), "|"); got != "|after" {
		t.Fatalf("new chat texts = %q", got)
	}
	out := h.out.String()
	if !strings.Contains(out, "  1  after") || strings.Contains(out, "  1  first") {
		t.Fatalf("history must only list messages since /clear:\n%s", out)
	}
}

func TestShellHelpAndUnknownCommand(t *testing.T) {
	defer goleak.VerifyNone(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newShellHarness("/help\n/nope\n")
	if err := h.shell.Run(ctx, ""); err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	out := h.out.String()
	if !strings.Contains(out, "/history") || !strings.Contains(out, "Unknown command /nope") {
		t.Fatalf("unexpected output:\n%s", out)
	}
	if got := strings.Join(h.chats[0].texts(), "|"); got != "" {
		t.Fatalf("commands must not be sent, got %q", got)
	}
}

func TestShellStopsWhenStreamEnds(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	h := newShellHarness("")
	h.shell.in = blockingReader{ctx: ctx}
	h.shell.open = func(_ context.Context, sessionID string) (Chat, error) {
		c := newFakeChat(sessionID)
		close(c.done)
		return c, nil
	}
	if err := h.shell.Run(ctx, ""); err == nil {
		t.Fatal("expected an error when the server ends the stream")
	}
}

// blockingReader blocks until ctx is done, like an idle terminal.
type blockingReader struct{ ctx context.Context }

func (b blockingReader) Read([]byte) (int, error) {
	<-b.ctx.Done()
	return 0, b.ctx.Err()
}
