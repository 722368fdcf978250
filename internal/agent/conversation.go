package agent

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/mira-chat/internal/domain"
	"github.com/ashureev/mira-chat/internal/proto/chat"
	"github.com/ashureev/mira-chat/internal/session"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// Channels recorded in conversation logs.
const (
	ChannelGRPC      = "chat_grpc"
	ChannelWebSocket = "chat_ws"
)

// conversation drives one duplex stream. Turns are processed strictly in
// order: each reply depends on the history including the turn just appended.
type conversation struct {
	svc       *Service
	stream    MessageStream
	channel   string
	state     State
	sessionID string
	userID    string
	turns     int
	logger    *slog.Logger
}

// Converse runs the session protocol until the client closes its side or the
// transport fails, then triggers an idle sweep.
func (s *Service) Converse(stream MessageStream, channel string) error {
	c := &conversation{
		svc:     s,
		stream:  stream,
		channel: channel,
		state:   StateUnbound,
		logger:  s.logger.With("channel", channel),
	}

	err := c.run()

	// Sweep with a fresh context: the stream context is usually done by now.
	sweepCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.SweepIdle(sweepCtx)

	return err
}

func (c *conversation) run() error {
	for {
		in, err := c.stream.Recv()
		if errors.Is(err, io.EOF) {
			c.transition(StateClosed)
			c.logger.Info("Chat stream closed by client", "session_id", c.sessionID, "user_id", c.userID, "turns", c.turns)
			return nil
		}
		if err != nil {
			c.transition(StateFailed)
			if status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled) {
				c.logger.Info("Chat stream canceled", "session_id", c.sessionID, "user_id", c.userID)
			} else {
				c.logger.Warn("Chat stream receive failed", "error", err, "session_id", c.sessionID, "user_id", c.userID)
			}
			return err
		}

		if c.state == StateUnbound {
			if err := c.bind(in); err != nil {
				c.transition(StateFailed)
				return err
			}
			if strings.TrimSpace(in.GetText()) == "" {
				continue
			}
		} else if sid := in.GetSessionId(); sid != "" && sid != c.sessionID {
			c.logger.Warn("Ignoring session change on bound stream", "session_id", c.sessionID, "requested_session_id", sid)
		}

		if err := c.handleTurn(in); err != nil {
			c.transition(StateFailed)
			c.logger.Warn("Chat stream send failed", "error", err, "session_id", c.sessionID, "user_id", c.userID)
			return err
		}
	}
}

func (c *conversation) transition(next State) {
	if c.state.Terminal() {
		return
	}
	c.logger.Debug("Chat stream state change", "session_id", c.sessionID, "from", c.state.String(), "to", next.String())
	c.state = next
}

// bind resolves the stream's session from its first message and announces
// sessions that did not exist before.
func (c *conversation) bind(first *chat.ChatMessage) error {
	c.userID = normalizeUserID(first.GetUserId())
	id, created := c.svc.sessions.ResolveOrCreate(first.GetSessionId(), c.userID)
	c.sessionID = id
	c.transition(StateBound)

	c.logger.Info("Chat stream bound", "session_id", id, "user_id", c.userID, "created", created)
	if !created {
		return nil
	}
	return c.stream.Send(&chat.ChatMessage{
		Text:      SessionStartedText,
		Sender:    chat.SenderSystem,
		Timestamp: c.svc.now().Unix(),
		MessageId: newMessageID(),
		ReplyTo:   first.GetMessageId(),
		SessionId: id,
		UserId:    c.userID,
	})
}

// handleTurn returns only transport errors; provider failures become a
// fallback message.
func (c *conversation) handleTurn(in *chat.ChatMessage) error {
	text := strings.TrimSpace(in.GetText())
	if text == "" {
		return nil
	}
	c.transition(StateStreaming)
	c.turns++

	if !c.svc.allow(c.userID) {
		c.logger.Warn("Chat turn rate limited", "session_id", c.sessionID, "user_id", c.userID)
		return c.reply(in, RateLimitedReply)
	}

	c.svc.logEvent(c.channel, "outbound", "chat_user_message", c.sessionID, c.userID, text, map[string]any{
		"message_id": in.GetMessageId(),
	})

	if err := c.appendTurn(domain.RoleUser, text); err != nil {
		c.logger.Error("Failed to record user turn", "error", err, "session_id", c.sessionID)
		return c.reply(in, FallbackChatReply)
	}

	history, err := c.svc.sessions.Snapshot(c.sessionID)
	if err != nil {
		c.logger.Error("Failed to snapshot session", "error", err, "session_id", c.sessionID)
		return c.reply(in, FallbackChatReply)
	}

	start := time.Now()
	answer, err := c.svc.completer.Complete(c.stream.Context(), history)
	if err != nil {
		// The failed attempt is not recorded as an assistant turn so later
		// prompts never see error text.
		c.logger.Error("Provider call failed", "error", err, "session_id", c.sessionID, "user_id", c.userID, "message_id", in.GetMessageId())
		c.svc.logEvent(c.channel, "inbound", "chat_assistant_error", c.sessionID, c.userID, err.Error(), nil)
		return c.reply(in, FallbackChatReply)
	}

	if err := c.appendTurn(domain.RoleAssistant, answer); err != nil {
		c.logger.Error("Failed to record assistant turn", "error", err, "session_id", c.sessionID)
	}
	c.svc.logEvent(c.channel, "inbound", "chat_assistant_message", c.sessionID, c.userID, answer, map[string]any{
		"reply_to":   in.GetMessageId(),
		"latency_ms": time.Since(start).Milliseconds(),
	})
	c.svc.archiveSession(c.sessionID)

	return c.reply(in, answer)
}

// appendTurn re-creates the session under the same identifier if an idle
// sweep removed it since the last turn.
func (c *conversation) appendTurn(role, content string) error {
	err := c.svc.sessions.AppendAndTrim(c.sessionID, role, content)
	if !errors.Is(err, session.ErrSessionNotFound) {
		return err
	}
	c.logger.Warn("Session vanished mid-stream, recreating", "session_id", c.sessionID)
	c.sessionID, _ = c.svc.sessions.ResolveOrCreate(c.sessionID, c.userID)
	return c.svc.sessions.AppendAndTrim(c.sessionID, role, content)
}

func (c *conversation) reply(in *chat.ChatMessage, text string) error {
	return c.stream.Send(&chat.ChatMessage{
		Text:      text,
		Sender:    chat.SenderAI,
		Timestamp: c.svc.now().Unix(),
		MessageId: newMessageID(),
		ReplyTo:   in.GetMessageId(),
		SessionId: c.sessionID,
		UserId:    c.userID,
	})
}

func newMessageID() string {
	return uuid.Must(uuid.NewV7()).String()
}

func (s *Service) logEvent(channel, direction, eventType, sessionID, userID, content string, meta map[string]any) {
	s.log.Log(ConversationLogEvent{
		Timestamp:  s.now().UTC().Format(time.RFC3339Nano),
		UserID:     userID,
		SessionID:  sessionID,
		Channel:    channel,
		Direction:  direction,
		EventType:  eventType,
		ContentRaw: content,
		Meta:       meta,
	})
}

func (s *Service) archiveSession(sessionID string) {
	if s.archive == nil {
		return
	}
	snapshot, err := s.sessions.Get(sessionID)
	if err != nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.archive.SaveChatSession(ctx, snapshot); err != nil {
		s.logger.Warn("failed to archive session", "error", err, "session_id", sessionID)
	}
}
