package client

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/ashureev/mira-chat/internal/proto/chat"
	"github.com/google/uuid"
)

const helpText = `Commands:
  /help     show this help
  /clear    start a new session and clear the screen
  /history  list the messages you sent in this session
  /quit     leave (also: quit, exit, bye)`

// Chat is the part of Engine the shell drives.
type Chat interface {
	Enqueue(msg *chat.ChatMessage) error
	SessionID() string
	Done() <-chan struct{}
	Close() error
}

// Opener starts a chat bound to sessionID, or to a new session when empty.
type Opener func(ctx context.Context, sessionID string) (Chat, error)

// Shell is the foreground input loop of the interactive client.
type Shell struct {
	in       io.Reader
	console  *Console
	userID   string
	open     Opener
	identity SessionRecorder
	logger   *slog.Logger
	now      func() time.Time

	history []string
}

// ShellConfig configures a Shell.
type ShellConfig struct {
	In       io.Reader
	Console  *Console
	UserID   string
	Open     Opener
	Identity SessionRecorder
	Logger   *slog.Logger
}

// NewShell creates a shell.
func NewShell(cfg ShellConfig) *Shell {
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	return &Shell{
		in:       cfg.In,
		console:  cfg.Console,
		userID:   cfg.UserID,
		open:     cfg.Open,
		identity: cfg.Identity,
		logger:   cfg.Logger,
		now:      time.Now,
	}
}

// Run reads lines until a quit command, end of input, ctx cancellation or
// the server ending the stream.
func (s *Shell) Run(ctx context.Context, sessionID string) error {
	session, err := s.start(ctx, sessionID)
	if err != nil {
		return err
	}
	defer func() {
		if session != nil {
			_ = session.Close()
		}
	}()

	s.console.Println("Mira AI Assistant (type /help for commands, 'quit' to exit)")
	s.console.Println("-------------------------------------")
	s.console.Prompt()

	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(s.in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-session.Done():
			s.console.Println("\nConnection to server closed.")
			return errors.New("chat stream ended")
		case line, ok := <-lines:
			if !ok {
				s.console.Println("\nGoodbye!")
				return nil
			}
			next, quit, err := s.handleLine(ctx, session, line)
			session = next
			if err != nil {
				return err
			}
			if quit {
				s.console.Println("\nGoodbye!")
				return nil
			}
		}
	}
}

// start opens a chat and binds it with an empty message so the server
// announces the session before the first turn.
func (s *Shell) start(ctx context.Context, sessionID string) (Chat, error) {
	session, err := s.open(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := session.Enqueue(s.message(sessionID, "")); err != nil {
		_ = session.Close()
		return nil, fmt.Errorf("bind session: %w", err)
	}
	return session, nil
}

func (s *Shell) handleLine(ctx context.Context, session Chat, line string) (Chat, bool, error) {
	text := strings.TrimSpace(line)
	if text == "" {
		s.console.Prompt()
		return session, false, nil
	}

	switch strings.ToLower(text) {
	case "quit", "exit", "bye", "/quit":
		return session, true, nil
	case "/help":
		s.console.Println(helpText)
		s.console.Prompt()
		return session, false, nil
	case "/history":
		s.printHistory()
		return session, false, nil
	case "/clear":
		next, err := s.clear(ctx, session)
		return next, false, err
	}

	if strings.HasPrefix(text, "/") {
		s.console.Println(fmt.Sprintf("Unknown command %s. Type /help for commands.", text))
		s.console.Prompt()
		return session, false, nil
	}

	if err := session.Enqueue(s.message(session.SessionID(), text)); err != nil {
		s.logger.Warn("Failed to enqueue message", "error", err, "session_id", session.SessionID())
		s.console.Println(fmt.Sprintf("Message not sent: %v", err))
		s.console.Prompt()
		return session, false, nil
	}
	s.history = append(s.history, text)
	return session, false, nil
}

// clear forgets the local session reference and starts a new one. The old
// session stays on the server until it idles out.
func (s *Shell) clear(ctx context.Context, session Chat) (Chat, error) {
	_ = session.Close()
	s.history = nil
	if s.identity != nil {
		if err := s.identity.SetSession(""); err != nil {
			s.logger.Warn("failed to reset stored session", "error", err)
		}
	}
	s.console.Clear()

	next, err := s.start(ctx, "")
	if err != nil {
		return nil, fmt.Errorf("start new session: %w", err)
	}
	s.console.Prompt()
	return next, nil
}

func (s *Shell) printHistory() {
	if len(s.history) == 0 {
		s.console.Println("No messages yet.")
	}
	for i, text := range s.history {
		s.console.Println(fmt.Sprintf("%3d  %s", i+1, text))
	}
	s.console.Prompt()
}

func (s *Shell) message(sessionID, text string) *chat.ChatMessage {
	return &chat.ChatMessage{
		Text:      text,
		Sender:    chat.SenderUser,
		Timestamp: s.now().Unix(),
		MessageId: uuid.Must(uuid.NewV7()).String(),
		SessionId: sessionID,
		UserId:    s.userID,
	}
}
