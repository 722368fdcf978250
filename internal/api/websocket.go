package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/ashureev/mira-chat/internal/agent"
	"github.com/ashureev/mira-chat/internal/proto/chat"
	"github.com/coder/websocket"
	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"
)

const wsWriteTimeout = 10 * time.Second

// ChatSocketHandler runs the chat session protocol over WebSocket. Each
// text frame carries one JSON ChatMessage in either direction.
type ChatSocketHandler struct {
	svc           *agent.Service
	registry      *ConnectionRegistry
	slots         *semaphore.Weighted
	allowedOrigin string
	isDev         bool
}

// NewChatSocketHandler creates the gateway. maxConns bounds concurrent
// conversations.
func NewChatSocketHandler(svc *agent.Service, registry *ConnectionRegistry, maxConns int64, allowedOrigin string, isDev bool) *ChatSocketHandler {
	if maxConns <= 0 {
		maxConns = 1
	}
	return &ChatSocketHandler{
		svc:           svc,
		registry:      registry,
		slots:         semaphore.NewWeighted(maxConns),
		allowedOrigin: allowedOrigin,
		isDev:         isDev,
	}
}

// ServeHTTP implements http.Handler for WebSocket upgrade.
func (h *ChatSocketHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		userID = "anonymous"
	}
	connID := uuid.NewString()
	slog.Info("Chat socket request", "user_id", userID, "conn_id", connID, "ip", r.RemoteAddr)

	if !h.checkOrigin(r) {
		Error(w, http.StatusForbidden, "origin not allowed")
		return
	}
	if !h.slots.TryAcquire(1) {
		slog.Warn("Chat socket rejected, too many connections", "user_id", userID)
		Error(w, http.StatusServiceUnavailable, "too many connections")
		return
	}
	defer h.slots.Release(1)

	ws, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		OriginPatterns: []string{"*"},
	})
	if err != nil {
		slog.Error("Failed to accept WebSocket", "error", err, "user_id", userID)
		return
	}
	defer func() {
		if closeErr := ws.Close(websocket.StatusNormalClosure, "session ended"); closeErr != nil {
			slog.Debug("Failed to close websocket", "error", closeErr, "user_id", userID)
		}
	}()

	h.registry.Register(userID, connID, ws)
	defer h.registry.Unregister(userID, connID, ws)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	if err := h.svc.Converse(&wsStream{ctx: ctx, conn: ws}, agent.ChannelWebSocket); err != nil {
		slog.Debug("Chat socket ended with error", "error", err, "user_id", userID, "conn_id", connID)
	}
	slog.Info("Chat socket ended", "user_id", userID, "conn_id", connID)
}

func (h *ChatSocketHandler) checkOrigin(r *http.Request) bool {
	if h.isDev {
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" || h.allowedOrigin == "*" {
		return true
	}
	if origin == h.allowedOrigin {
		return true
	}
	slog.Warn("WebSocket origin rejected", "origin", origin, "allowed", h.allowedOrigin)
	return false
}

// wsStream adapts a WebSocket connection to agent.MessageStream. A normal
// close from the client reads as io.EOF.
type wsStream struct {
	ctx  context.Context
	conn *websocket.Conn
}

func (s *wsStream) Context() context.Context {
	return s.ctx
}

func (s *wsStream) Recv() (*chat.ChatMessage, error) {
	msg, err := readMessage(s.ctx, s.conn)
	if err != nil {
		switch websocket.CloseStatus(err) {
		case websocket.StatusNormalClosure, websocket.StatusGoingAway:
			return nil, io.EOF
		}
		if errors.Is(err, io.EOF) {
			return nil, io.EOF
		}
		return nil, err
	}
	return msg, nil
}

func (s *wsStream) Send(msg *chat.ChatMessage) error {
	ctx, cancel := context.WithTimeout(s.ctx, wsWriteTimeout)
	defer cancel()
	return writeMessage(ctx, s.conn, msg)
}

// readMessage reads one text frame holding a protojson ChatMessage.
func readMessage(ctx context.Context, conn *websocket.Conn) (*chat.ChatMessage, error) {
	typ, data, err := conn.Read(ctx)
	if err != nil {
		return nil, err
	}
	if typ != websocket.MessageText {
		return nil, fmt.Errorf("unexpected frame type %v", typ)
	}
	msg := &chat.ChatMessage{}
	if err := chat.UnmarshalJSON(data, msg); err != nil {
		return nil, fmt.Errorf("decode chat message: %w", err)
	}
	return msg, nil
}

func writeMessage(ctx context.Context, conn *websocket.Conn, msg *chat.ChatMessage) error {
	data, err := chat.MarshalJSON(msg)
	if err != nil {
		return fmt.Errorf("encode chat message: %w", err)
	}
	return conn.Write(ctx, websocket.MessageText, data)
}
