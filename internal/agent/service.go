package agent

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/ashureev/mira-chat/internal/domain"
	"github.com/ashureev/mira-chat/internal/proto/chat"
	"github.com/ashureev/mira-chat/internal/provider"
	"github.com/ashureev/mira-chat/internal/session"
	"golang.org/x/sync/errgroup"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

const summarySystemPrompt = "You are mira, a helpful assistant that writes concise, factual summaries."

// Service implements chat.ChatServiceServer on top of a session store and a
// completion provider.
type Service struct {
	chat.UnimplementedChatServiceServer

	sessions    *session.Store
	completer   provider.Completer
	archive     Archive
	log         ConversationLogger
	rateLimiter *RateLimiter
	cfg         Config
	logger      *slog.Logger
	now         func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithArchive persists sessions after each turn and deletes them on sweep.
func WithArchive(a Archive) Option {
	return func(s *Service) { s.archive = a }
}

// WithConversationLogger records every user and assistant message.
func WithConversationLogger(l ConversationLogger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithClock overrides the clock used for timestamps and sweeps.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates the chat service.
func NewService(sessions *session.Store, completer provider.Completer, cfg Config, opts ...Option) *Service {
	if cfg.IdleTTL <= 0 {
		cfg.IdleTTL = session.DefaultIdleTTL
	}
	if cfg.SummaryConcurrency <= 0 {
		cfg.SummaryConcurrency = 1
	}
	if cfg.SummaryWords <= 0 {
		cfg.SummaryWords = DefaultConfig().SummaryWords
	}

	s := &Service{
		sessions:  sessions,
		completer: completer,
		log:       noopConversationLogger{},
		cfg:       cfg,
		logger:    slog.Default(),
		now:       time.Now,
	}
	if cfg.RateLimitRequests > 0 && cfg.RateLimitWindow > 0 {
		s.rateLimiter = NewRateLimiter(cfg.RateLimitRequests, cfg.RateLimitWindow)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Sessions returns the underlying session store.
func (s *Service) Sessions() *session.Store {
	return s.sessions
}

// Close releases service resources.
func (s *Service) Close() {
	if s.rateLimiter != nil {
		s.rateLimiter.Stop()
	}
	if err := s.log.Close(); err != nil {
		s.logger.Warn("failed to close conversation logger", "error", err)
	}
}

func (s *Service) allow(userID string) bool {
	return s.rateLimiter == nil || s.rateLimiter.Allow(userID)
}

func normalizeUserID(userID string) string {
	if userID = strings.TrimSpace(userID); userID == "" {
		return session.AnonymousUserID
	}
	return userID
}

// GetReply answers one message without session state.
func (s *Service) GetReply(ctx context.Context, req *chat.ChatRequest) (*chat.ChatReply, error) {
	msg := strings.TrimSpace(req.GetUserMessage())
	if msg == "" {
		return nil, status.Error(codes.InvalidArgument, "user_message is required")
	}
	userID := normalizeUserID(req.GetUserId())
	if !s.allow(userID) {
		return nil, status.Error(codes.ResourceExhausted, "rate limit exceeded")
	}

	s.logger.Info("Received message", "user_id", userID, "message_length", len(msg))

	reply, err := s.completer.Complete(ctx, s.singleTurn(msg))
	if err != nil {
		s.logger.Error("GetReply provider call failed", "error", err, "user_id", userID)
		return nil, fallbackStatus(codes.Internal)
	}

	s.logger.Info("Generated response", "user_id", userID, "response_length", len(reply))
	return &chat.ChatReply{AiResponse: reply}, nil
}

// fallbackStatus carries FallbackReply as a LocalizedMessage detail so clients
// can show it even though the RPC failed. Provider detail stays in the log.
func fallbackStatus(code codes.Code) error {
	st := status.New(code, "Error processing request")
	detailed, err := st.WithDetails(&errdetails.LocalizedMessage{
		Locale:  "en-US",
		Message: FallbackReply,
	})
	if err != nil {
		return st.Err()
	}
	return detailed.Err()
}

// StreamResponse answers one message as a sequence of sentence-like chunks.
func (s *Service) StreamResponse(req *chat.ChatRequest, stream grpc.ServerStreamingServer[chat.StreamChunk]) error {
	msg := strings.TrimSpace(req.GetUserMessage())
	if msg == "" {
		return status.Error(codes.InvalidArgument, "user_message is required")
	}
	userID := normalizeUserID(req.GetUserId())
	if !s.allow(userID) {
		return status.Error(codes.ResourceExhausted, "rate limit exceeded")
	}

	reply, err := s.completer.Complete(stream.Context(), s.singleTurn(msg))
	if err != nil {
		s.logger.Error("StreamResponse provider call failed", "error", err, "user_id", userID)
		return stream.Send(&chat.StreamChunk{
			Content: FallbackReply,
			IsFinal: true,
		})
	}

	segments := SplitSentences(reply)
	if len(segments) == 0 {
		return stream.Send(&chat.StreamChunk{IsFinal: true})
	}
	for i, seg := range segments {
		if err := stream.Send(&chat.StreamChunk{Content: seg, IsFinal: i == len(segments)-1}); err != nil {
			s.logger.Warn("StreamResponse send failed", "error", err, "user_id", userID, "chunk", i)
			return err
		}
	}
	return nil
}

// BulkSummarize summarizes every uploaded URL independently; one failing item
// never aborts the batch.
func (s *Service) BulkSummarize(stream grpc.ClientStreamingServer[chat.SummarizeRequest, chat.SummarizeResponse]) error {
	g, ctx := errgroup.WithContext(stream.Context())
	g.SetLimit(s.cfg.SummaryConcurrency)

	var summaries []*chat.Summary
	for {
		req, err := stream.Recv()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			s.logger.Warn("BulkSummarize receive failed", "error", err, "received", len(summaries))
			_ = g.Wait()
			return err
		}

		sum := &chat.Summary{Url: req.GetUrl()}
		summaries = append(summaries, sum)
		maxLength := int(req.GetMaxLength())
		g.Go(func() error {
			s.summarize(ctx, sum, maxLength)
			return nil
		})
	}
	_ = g.Wait()

	s.logger.Info("BulkSummarize completed", "total", len(summaries))
	return stream.SendAndClose(&chat.SummarizeResponse{
		Summaries:      summaries,
		TotalProcessed: int32(len(summaries)),
	})
}

func (s *Service) summarize(ctx context.Context, sum *chat.Summary, maxLength int) {
	if err := validateURL(sum.Url); err != nil {
		sum.ErrorMessage = err.Error()
		return
	}
	if maxLength <= 0 {
		maxLength = s.cfg.SummaryWords
	}

	prompt := fmt.Sprintf("Summarize the content at %s in no more than %d words.", sum.Url, maxLength)
	reply, err := s.completer.Complete(ctx, []domain.Message{
		{Role: domain.RoleSystem, Content: summarySystemPrompt},
		{Role: domain.RoleUser, Content: prompt},
	})
	if err != nil {
		s.logger.Warn("Summarize item failed", "error", err, "url", sum.Url)
		sum.ErrorMessage = SummaryFailedText
		return
	}
	sum.Summary = reply
	sum.Success = true
}

func validateURL(raw string) error {
	if strings.TrimSpace(raw) == "" {
		return errors.New("url is required")
	}
	u, err := url.ParseRequestURI(raw)
	if err != nil {
		return fmt.Errorf("invalid url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("unsupported url scheme %q", u.Scheme)
	}
	return nil
}

func (s *Service) singleTurn(msg string) []domain.Message {
	return []domain.Message{
		{Role: domain.RoleSystem, Content: s.sessions.SystemPrompt()},
		{Role: domain.RoleUser, Content: msg},
	}
}

// ChatSession runs the session protocol over a gRPC bidirectional stream.
func (s *Service) ChatSession(stream grpc.BidiStreamingServer[chat.ChatMessage, chat.ChatMessage]) error {
	return s.Converse(stream, ChannelGRPC)
}

// SweepIdle removes sessions idle longer than the configured TTL from the
// store and the archive.
func (s *Service) SweepIdle(ctx context.Context) []string {
	removed := s.sessions.Sweep(s.now(), s.cfg.IdleTTL)
	if len(removed) == 0 {
		return nil
	}
	s.logger.Info("Swept idle sessions", "count", len(removed), "idle_ttl", s.cfg.IdleTTL)
	if s.archive != nil {
		if _, err := s.archive.DeleteChatSessions(ctx, removed); err != nil {
			s.logger.Warn("failed to delete swept sessions from archive", "error", err, "count", len(removed))
		}
	}
	return removed
}
