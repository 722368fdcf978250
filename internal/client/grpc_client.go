// Package client is the initiating side of the mira chat service: a gRPC
// connection wrapper, the duplex chat engine, and the interactive shell.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"time"

	"github.com/ashureev/mira-chat/internal/proto/chat"
	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	"google.golang.org/grpc/connectivity"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
	"google.golang.org/grpc/status"
)

// DefaultAddress is where the server listens unless configured otherwise.
const DefaultAddress = "localhost:50051"

var (
	errConnectionShutdown       = errors.New("connection shutdown")
	errConnectionStateUnchanged = errors.New("connection state did not change")
	errNotServing               = errors.New("service not serving")
)

// GrpcClient wraps one connection to the chat service.
type GrpcClient struct {
	conn   *grpc.ClientConn
	client chat.ChatServiceClient
	health healthpb.HealthClient
	addr   string
	logger *slog.Logger
}

// GrpcClientConfig holds configuration for the gRPC client.
type GrpcClientConfig struct {
	Address          string
	ConnectTimeout   time.Duration
	KeepaliveTime    time.Duration
	KeepaliveTimeout time.Duration
}

// DefaultGrpcClientConfig returns default configuration.
func DefaultGrpcClientConfig() GrpcClientConfig {
	return GrpcClientConfig{
		Address:          DefaultAddress,
		ConnectTimeout:   5 * time.Second,
		KeepaliveTime:    2 * time.Minute,
		KeepaliveTimeout: 10 * time.Second,
	}
}

// NewGrpcClient connects to the chat service and waits until the connection
// is ready. Extra dial options are appended after the defaults.
func NewGrpcClient(cfg GrpcClientConfig, logger *slog.Logger, opts ...grpc.DialOption) (*GrpcClient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	def := DefaultGrpcClientConfig()
	if cfg.Address == "" {
		cfg.Address = def.Address
	}
	if cfg.ConnectTimeout <= 0 {
		cfg.ConnectTimeout = def.ConnectTimeout
	}
	if cfg.KeepaliveTime <= 0 {
		cfg.KeepaliveTime = def.KeepaliveTime
	}
	if cfg.KeepaliveTimeout <= 0 {
		cfg.KeepaliveTimeout = def.KeepaliveTimeout
	}

	kacp := keepalive.ClientParameters{
		Time:                cfg.KeepaliveTime,
		Timeout:             cfg.KeepaliveTimeout,
		PermitWithoutStream: false,
	}

	dialOpts := append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithKeepaliveParams(kacp),
	}, opts...)

	// Build client connection (no network I/O yet).
	conn, err := grpc.NewClient(cfg.Address, dialOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create client for %s: %w", cfg.Address, err)
	}

	// Force a connection attempt so a wrong address fails fast.
	connectCtx, cancel := context.WithTimeout(context.Background(), cfg.ConnectTimeout)
	defer cancel()
	if err := waitForReady(connectCtx, conn); err != nil {
		if closeErr := conn.Close(); closeErr != nil {
			logger.Warn("failed to close gRPC connection after readiness failure", "error", closeErr)
		}
		return nil, fmt.Errorf("chat service at %s not ready: %w", cfg.Address, err)
	}

	logger.Debug("Connected to chat service", "address", cfg.Address)

	return &GrpcClient{
		conn:   conn,
		client: chat.NewChatServiceClient(conn),
		health: healthpb.NewHealthClient(conn),
		addr:   cfg.Address,
		logger: logger,
	}, nil
}

func waitForReady(ctx context.Context, conn *grpc.ClientConn) error {
	for {
		state := conn.GetState()
		switch state {
		case connectivity.Ready:
			return nil
		case connectivity.Idle:
			conn.Connect()
		case connectivity.Shutdown:
			return errConnectionShutdown
		}

		if !conn.WaitForStateChange(ctx, state) {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w from %s", errConnectionStateUnchanged, state)
		}
	}
}

// Address returns the dialed server address.
func (c *GrpcClient) Address() string {
	return c.addr
}

// Close closes the gRPC connection.
func (c *GrpcClient) Close() {
	if c.conn != nil {
		if err := c.conn.Close(); err != nil {
			c.logger.Warn("failed to close gRPC connection", "error", err)
		}
	}
}

// Health checks that the chat service reports SERVING.
func (c *GrpcClient) Health(ctx context.Context) error {
	resp, err := c.health.Check(ctx, &healthpb.HealthCheckRequest{
		Service: chat.ChatService_ServiceDesc.ServiceName,
	})
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}
	if resp.GetStatus() != healthpb.HealthCheckResponse_SERVING {
		return fmt.Errorf("%w: %s", errNotServing, resp.GetStatus())
	}
	return nil
}

// Ask sends one message through GetReply.
func (c *GrpcClient) Ask(ctx context.Context, userID, message string) (string, error) {
	resp, err := c.client.GetReply(ctx, &chat.ChatRequest{UserMessage: message, UserId: userID})
	if err != nil {
		return "", fmt.Errorf("get reply: %w", err)
	}
	return resp.GetAiResponse(), nil
}

// FallbackText extracts the user-facing text the server attaches to a failed
// call, if any.
func FallbackText(err error) (string, bool) {
	st, ok := status.FromError(err)
	if !ok || err == nil {
		return "", false
	}
	for _, d := range st.Details() {
		if lm, ok := d.(*errdetails.LocalizedMessage); ok && lm.GetMessage() != "" {
			return lm.GetMessage(), true
		}
	}
	return "", false
}

// Stream yields the chunks of a StreamResponse call.
func (c *GrpcClient) Stream(ctx context.Context, userID, message string) iter.Seq2[*chat.StreamChunk, error] {
	return func(yield func(*chat.StreamChunk, error) bool) {
		stream, err := c.client.StreamResponse(ctx, &chat.ChatRequest{UserMessage: message, UserId: userID})
		if err != nil {
			yield(nil, fmt.Errorf("stream request failed: %w", err))
			return
		}

		for {
			chunk, err := stream.Recv()
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				yield(nil, fmt.Errorf("stream error: %w", err))
				return
			}
			if !yield(chunk, nil) {
				return
			}
			if chunk.GetIsFinal() {
				return
			}
		}
	}
}

// Summarize uploads every request over one BulkSummarize call.
func (c *GrpcClient) Summarize(ctx context.Context, reqs []*chat.SummarizeRequest) (*chat.SummarizeResponse, error) {
	stream, err := c.client.BulkSummarize(ctx)
	if err != nil {
		return nil, fmt.Errorf("bulk summarize failed: %w", err)
	}
	for _, req := range reqs {
		if err := stream.Send(req); err != nil {
			c.logger.Warn("BulkSummarize send failed", "error", err, "url", req.GetUrl())
			break
		}
	}
	resp, err := stream.CloseAndRecv()
	if err != nil {
		return nil, fmt.Errorf("bulk summarize failed: %w", err)
	}
	return resp, nil
}

// OpenChat opens a ChatSession stream and starts a duplex engine on it. The
// engine owns the stream until Close.
func (c *GrpcClient) OpenChat(ctx context.Context, cfg EngineConfig) (*Engine, error) {
	streamCtx, cancel := context.WithCancel(ctx)
	stream, err := c.client.ChatSession(streamCtx)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("open chat session: %w", err)
	}
	if cfg.Logger == nil {
		cfg.Logger = c.logger
	}
	e := NewEngine(stream, cancel, cfg)
	e.Start()
	return e, nil
}
