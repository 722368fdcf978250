package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/ashureev/mira-chat/internal/agent"
	"github.com/ashureev/mira-chat/internal/domain"
	"github.com/ashureev/mira-chat/internal/proto/chat"
	"github.com/ashureev/mira-chat/internal/provider"
	"github.com/ashureev/mira-chat/internal/session"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/test/bufconn"
)

var scripted = provider.CompleterFunc(func(_ context.Context, msgs []domain.Message) (string, error) {
	last := msgs[len(msgs)-1].Content
	switch {
	case last == "boom":
		return "", fmt.Errorf("%w: quota exceeded", provider.ErrProvider)
	case strings.Contains(last, "http://bad"):
		return "", errors.New("unreachable")
	case strings.HasPrefix(last, "Summarize"):
		return "a short summary", nil
	}
	return "Sure. " + last + "!", nil
})

func startServer(t *testing.T) *GrpcClient {
	t.Helper()
	store := session.NewStore(session.Config{})
	cfg := agent.DefaultConfig()
	cfg.RateLimitRequests = 0
	svc := agent.NewService(store, scripted, cfg)
	t.Cleanup(svc.Close)

	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	chat.RegisterChatServiceServer(srv, svc)
	hs := health.NewServer()
	hs.SetServingStatus(chat.ChatService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(srv, hs)
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	c, err := NewGrpcClient(GrpcClientConfig{Address: "passthrough:///bufnet"}, nil,
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
	)
	if err != nil {
		t.Fatalf("NewGrpcClient failed: %v", err)
	}
	t.Cleanup(c.Close)
	return c
}

func callContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestGrpcClientHealth(t *testing.T) {
	c := startServer(t)
	if err := c.Health(callContext(t)); err != nil {
		t.Fatalf("Health failed: %v", err)
	}
}

func TestGrpcClientAsk(t *testing.T) {
	c := startServer(t)

	reply, err := c.Ask(callContext(t), "user-1", "hello")
	if err != nil {
		t.Fatalf("Ask failed: %v", err)
	}
	if reply != "Sure. hello!" {
		t.Fatalf("unexpected reply %q", reply)
	}
}

func TestGrpcClientAskFallback(t *testing.T) {
	c := startServer(t)

	_, err := c.Ask(callContext(t), "user-1", "boom")
	if err == nil {
		t.Fatal("expected error")
	}
	text, ok := FallbackText(err)
	if !ok || text != agent.FallbackReply {
		t.Fatalf("FallbackText = %q, %v", text, ok)
	}
	if _, ok := FallbackText(errors.New("plain")); ok {
		t.Fatal("plain errors carry no fallback")
	}
}

func TestGrpcClientStream(t *testing.T) {
	c := startServer(t)

	var parts []string
	for chunk, err := range c.Stream(callContext(t), "user-1", "go") {
		if err != nil {
			t.Fatalf("stream error: %v", err)
		}
		parts = append(parts, chunk.GetContent())
	}
	if strings.Join(parts, "|") != "Sure.|go!" {
		t.Fatalf("unexpected chunks %q", parts)
	}
}

func TestGrpcClientSummarize(t *testing.T) {
	c := startServer(t)

	resp, err := c.Summarize(callContext(t), []*chat.SummarizeRequest{
		{Url: "http://a.com", MaxLength: 50},
		{Url: "http://bad", MaxLength: 10},
	})
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if resp.GetTotalProcessed() != 2 {
		t.Fatalf("total_processed = %d, want 2", resp.GetTotalProcessed())
	}
	first, second := resp.GetSummaries()[0], resp.GetSummaries()[1]
	if !first.GetSuccess() || first.GetSummary() == "" {
		t.Fatalf("first item must succeed, got %+v", first)
	}
	if second.GetSuccess() || second.GetErrorMessage() == "" {
		t.Fatalf("second item must fail with a message, got %+v", second)
	}
}

func TestGrpcClientOpenChatAdoptsSession(t *testing.T) {
	c := startServer(t)
	out := &syncBuffer{}
	ident := &recordingIdentity{}

	e, err := c.OpenChat(context.Background(), EngineConfig{
		PollInterval: 10 * time.Millisecond,
		Identity:     ident,
		Console:      NewConsole(out, DefaultPrompt),
	})
	if err != nil {
		t.Fatalf("OpenChat failed: %v", err)
	}
	if err := e.Enqueue(&chat.ChatMessage{Text: "hi", Sender: chat.SenderUser, MessageId: "m1", UserId: "user-1"}); err != nil {
		t.Fatalf("Enqueue failed: %v", err)
	}

	eventually(t, func() bool { return strings.Contains(out.String(), "AI: Sure. hi!") }, "reply")
	if err := e.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if e.SessionID() == "" {
		t.Fatal("engine must adopt the announced session")
	}
	if calls := ident.Calls(); len(calls) != 1 || calls[0] != e.SessionID() {
		t.Fatalf("identity writes = %v", calls)
	}
}
