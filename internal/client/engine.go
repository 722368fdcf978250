package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/ashureev/mira-chat/internal/proto/chat"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const (
	// DefaultPollInterval bounds how long the send loop waits on an empty
	// queue, and therefore how long cancellation takes to be observed.
	DefaultPollInterval = 100 * time.Millisecond
	// DefaultGracePeriod is how long Close waits for in-flight receives.
	DefaultGracePeriod = time.Second
	// DefaultQueueSize is the outbound queue capacity.
	DefaultQueueSize = 64
)

var (
	// ErrQueueFull is returned by Enqueue when the outbound queue is at capacity.
	ErrQueueFull = errors.New("outbound queue full")
	// ErrEngineClosed is returned by Enqueue after cancellation.
	ErrEngineClosed = errors.New("engine closed")
)

// Stream is the client half of a duplex chat stream.
type Stream interface {
	Send(*chat.ChatMessage) error
	Recv() (*chat.ChatMessage, error)
	CloseSend() error
}

// SessionRecorder persists an adopted session identifier.
type SessionRecorder interface {
	SetSession(sessionID string) error
}

// EngineConfig configures an Engine.
type EngineConfig struct {
	SessionID    string
	QueueSize    int
	PollInterval time.Duration
	GracePeriod  time.Duration
	Identity     SessionRecorder
	Console      *Console
	Logger       *slog.Logger
}

// Engine decouples input collection from network I/O. The foreground
// enqueues messages; a send loop and a receive loop run in the background.
type Engine struct {
	stream       Stream
	cancelStream context.CancelFunc
	queue        chan *chat.ChatMessage
	cancelled    atomic.Bool
	poll         time.Duration
	grace        time.Duration
	identity     SessionRecorder
	console      *Console
	logger       *slog.Logger

	mu        sync.Mutex
	sessionID string

	group     errgroup.Group
	startOnce sync.Once
	started   atomic.Bool
	sendDone  chan struct{}
	recvDone  chan struct{}
	closeOnce sync.Once
	closeErr  error
}

// NewEngine wraps stream. cancelStream tears the stream down after the grace
// period; it may be nil.
func NewEngine(stream Stream, cancelStream context.CancelFunc, cfg EngineConfig) *Engine {
	if cfg.QueueSize <= 0 {
		cfg.QueueSize = DefaultQueueSize
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultPollInterval
	}
	if cfg.GracePeriod <= 0 {
		cfg.GracePeriod = DefaultGracePeriod
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}
	if cfg.Console == nil {
		cfg.Console = NewConsole(io.Discard, "")
	}
	if cancelStream == nil {
		cancelStream = func() {}
	}
	return &Engine{
		stream:       stream,
		cancelStream: cancelStream,
		queue:        make(chan *chat.ChatMessage, cfg.QueueSize),
		poll:         cfg.PollInterval,
		grace:        cfg.GracePeriod,
		identity:     cfg.Identity,
		console:      cfg.Console,
		logger:       cfg.Logger,
		sessionID:    cfg.SessionID,
		sendDone:     make(chan struct{}),
		recvDone:     make(chan struct{}),
	}
}

// Start launches the send and receive loops. Calling it again is a no-op.
func (e *Engine) Start() {
	e.startOnce.Do(func() {
		e.started.Store(true)
		e.group.Go(e.sendLoop)
		e.group.Go(e.recvLoop)
	})
}

// SessionID returns the session the engine is bound to, or "" before the
// server announces one.
func (e *Engine) SessionID() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.sessionID
}

// Enqueue queues msg for transmission without blocking.
func (e *Engine) Enqueue(msg *chat.ChatMessage) error {
	if e.cancelled.Load() {
		return ErrEngineClosed
	}
	select {
	case e.queue <- msg:
		return nil
	default:
		return ErrQueueFull
	}
}

// Cancel stops further dequeuing. Messages still queued are dropped; a
// message already being sent completes.
func (e *Engine) Cancel() {
	e.cancelled.Store(true)
}

// Cancelled reports whether Cancel or Close was called.
func (e *Engine) Cancelled() bool {
	return e.cancelled.Load()
}

// Done is closed once the receive loop has exited.
func (e *Engine) Done() <-chan struct{} {
	return e.recvDone
}

// Close cancels the engine, half-closes the stream, waits up to the grace
// period for in-flight replies, then tears the stream down.
func (e *Engine) Close() error {
	e.closeOnce.Do(func() {
		e.Cancel()
		if !e.started.Load() {
			_ = e.stream.CloseSend()
			e.cancelStream()
			return
		}

		<-e.sendDone
		if err := e.stream.CloseSend(); err != nil {
			e.logger.Debug("CloseSend failed", "error", err)
		}

		timer := time.NewTimer(e.grace)
		select {
		case <-e.recvDone:
		case <-timer.C:
			e.logger.Debug("Grace period elapsed with receive in flight", "session_id", e.SessionID())
		}
		timer.Stop()

		e.cancelStream()
		e.closeErr = e.group.Wait()
	})
	return e.closeErr
}

// sendLoop checks the cancellation flag at least once per poll interval.
func (e *Engine) sendLoop() error {
	defer close(e.sendDone)

	timer := time.NewTimer(e.poll)
	defer timer.Stop()
	for {
		if e.cancelled.Load() {
			return nil
		}

		timer.Reset(e.poll)
		select {
		case msg := <-e.queue:
			if err := e.stream.Send(msg); err != nil {
				if errors.Is(err, io.EOF) {
					// The server ended the stream; the receive loop reports why.
					return nil
				}
				e.console.Errorf("Error sending message: %v", err)
				e.logger.Error("Chat send failed", "error", err, "message_id", msg.GetMessageId(), "session_id", e.SessionID())
				return fmt.Errorf("send: %w", err)
			}
		case <-timer.C:
		}
	}
}

func (e *Engine) recvLoop() error {
	defer close(e.recvDone)

	for {
		msg, err := e.stream.Recv()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if e.cancelled.Load() && (status.Code(err) == codes.Canceled || errors.Is(err, context.Canceled)) {
				return nil
			}
			e.console.Errorf("Error communicating with server: %s, %s", status.Code(err), status.Convert(err).Message())
			e.logger.Error("Chat receive failed", "error", err, "session_id", e.SessionID())
			return fmt.Errorf("receive: %w", err)
		}
		e.handleInbound(msg)
	}
}

func (e *Engine) handleInbound(msg *chat.ChatMessage) {
	if msg.IsAnnouncement() {
		e.adopt(msg.GetSessionId())
		return
	}
	e.console.Reply(msg.GetText())
}

// adopt binds the engine to an announced session when it has none yet and
// persists the identifier once.
func (e *Engine) adopt(sessionID string) {
	e.mu.Lock()
	current := e.sessionID
	if current == "" {
		e.sessionID = sessionID
	}
	e.mu.Unlock()

	if current != "" {
		if current != sessionID {
			e.logger.Warn("Ignoring announcement for another session", "session_id", current, "announced_session_id", sessionID)
		}
		return
	}

	e.logger.Debug("Adopted session", "session_id", sessionID)
	e.console.Noticef("Session %s started.", sessionID)
	if e.identity == nil {
		return
	}
	if err := e.identity.SetSession(sessionID); err != nil {
		e.logger.Warn("failed to persist session id", "error", err, "session_id", sessionID)
	}
}
