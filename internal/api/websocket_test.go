package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/mira-chat/internal/agent"
	"github.com/ashureev/mira-chat/internal/domain"
	"github.com/ashureev/mira-chat/internal/proto/chat"
	"github.com/ashureev/mira-chat/internal/provider"
	"github.com/ashureev/mira-chat/internal/session"
	"github.com/coder/websocket"
)

func newGateway(t *testing.T, maxConns int64) (*httptest.Server, *ConnectionRegistry) {
	t.Helper()
	completer := provider.CompleterFunc(func(_ context.Context, msgs []domain.Message) (string, error) {
		return "ws: " + msgs[len(msgs)-1].Content, nil
	})
	cfg := agent.DefaultConfig()
	cfg.RateLimitRequests = 0
	svc := agent.NewService(session.NewStore(session.Config{}), completer, cfg)
	t.Cleanup(svc.Close)

	registry := NewConnectionRegistry()
	srv := httptest.NewServer(NewChatSocketHandler(svc, registry, maxConns, "", true))
	t.Cleanup(srv.Close)
	return srv, registry
}

func dial(t *testing.T, ctx context.Context, srv *httptest.Server) (*websocket.Conn, *http.Response, error) {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "?user_id=user-1"
	return websocket.Dial(ctx, url, nil)
}

func TestChatSocketConversation(t *testing.T) {
	srv, registry := newGateway(t, 4)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := dial(t, ctx, srv)
	if err != nil {
		t.Fatalf("dial failed: %v", err)
	}
	defer conn.CloseNow()

	// Browser clients send proto field names; the server must accept them.
	if err := conn.Write(ctx, websocket.MessageText, []byte(`{"text":"hello","sender":"user","message_id":"m1","user_id":"user-1"}`)); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	announce, err := readMessage(ctx, conn)
	if err != nil || !announce.IsAnnouncement() {
		t.Fatalf("expected announcement, got %v %v", announce, err)
	}
	reply, err := readMessage(ctx, conn)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if reply.GetText() != "ws: hello" || reply.GetReplyTo() != "m1" || reply.GetSessionId() != announce.GetSessionId() {
		t.Fatalf("unexpected reply %v", reply)
	}
	if registry.Count() != 1 {
		t.Fatalf("expected 1 registered connection, got %d", registry.Count())
	}

	if err := conn.Close(websocket.StatusNormalClosure, "bye"); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	deadline := time.Now().Add(2 * time.Second)
	for registry.Count() != 0 && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if registry.Count() != 0 {
		t.Fatal("connection must be unregistered after close")
	}
}

func TestChatSocketConnectionLimit(t *testing.T) {
	srv, _ := newGateway(t, 1)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	first, _, err := dial(t, ctx, srv)
	if err != nil {
		t.Fatalf("first dial failed: %v", err)
	}
	defer first.CloseNow()
	// Complete one exchange so the server is known to hold the slot.
	_ = writeMessage(ctx, first, &chat.ChatMessage{UserId: "user-1"})
	if _, err := readMessage(ctx, first); err != nil {
		t.Fatalf("read failed: %v", err)
	}

	_, resp, err := dial(t, ctx, srv)
	if err == nil {
		t.Fatal("second connection must be rejected")
	}
	if resp == nil || resp.StatusCode != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %v", resp)
	}
}

func TestConnectionRegistry(t *testing.T) {
	reg := NewConnectionRegistry()
	conn1 := &websocket.Conn{}
	conn2 := &websocket.Conn{}

	reg.Register("user", "c1", conn1)
	reg.Register("user", "c2", conn2)
	if reg.Count() != 2 {
		t.Fatal("expected both connections registered")
	}

	// A stale unregister must not remove another connection.
	reg.Unregister("user", "c2", conn1)
	if reg.Count() != 2 {
		t.Fatal("stale unregister removed the live connection")
	}

	reg.Unregister("user", "c1", conn1)
	reg.Unregister("user", "c2", conn2)
	if reg.Count() != 0 {
		t.Fatal("expected registry to be empty")
	}
}
