package agent

import (
	"context"
	"log/slog"
	"strings"

	"github.com/ashureev/mira-chat/internal/proto/chat"
	"golang.org/x/sync/semaphore"
	"google.golang.org/grpc"
	"google.golang.org/grpc/status"
)

// DefaultWorkers is the number of ChatService calls served at once.
const DefaultWorkers = 10

var chatMethodPrefix = "/" + chat.ChatService_ServiceDesc.ServiceName + "/"

// WorkerPool bounds how many ChatService calls run at the same time. A call
// holds one worker for its whole lifetime, so a duplex chat occupies a worker
// until the stream ends. Calls beyond the bound wait for a free worker or for
// their context to end. Other services (health) are not counted.
type WorkerPool struct {
	slots  *semaphore.Weighted
	size   int
	logger *slog.Logger
}

// NewWorkerPool creates a pool of size workers.
func NewWorkerPool(size int, logger *slog.Logger) *WorkerPool {
	if size <= 0 {
		size = DefaultWorkers
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkerPool{
		slots:  semaphore.NewWeighted(int64(size)),
		size:   size,
		logger: logger,
	}
}

// Size returns the number of workers.
func (p *WorkerPool) Size() int {
	return p.size
}

func (p *WorkerPool) acquire(ctx context.Context, method string) (func(), error) {
	if !strings.HasPrefix(method, chatMethodPrefix) {
		return func() {}, nil
	}
	if !p.slots.TryAcquire(1) {
		p.logger.Debug("All workers busy, waiting", "method", method, "workers", p.size)
		if err := p.slots.Acquire(ctx, 1); err != nil {
			return nil, status.FromContextError(err).Err()
		}
	}
	return func() { p.slots.Release(1) }, nil
}

// UnaryInterceptor runs each unary call on a worker.
func (p *WorkerPool) UnaryInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		release, err := p.acquire(ctx, info.FullMethod)
		if err != nil {
			return nil, err
		}
		defer release()
		return handler(ctx, req)
	}
}

// StreamInterceptor runs each stream on a worker until the handler returns.
func (p *WorkerPool) StreamInterceptor() grpc.StreamServerInterceptor {
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		release, err := p.acquire(ss.Context(), info.FullMethod)
		if err != nil {
			return err
		}
		defer release()
		return handler(srv, ss)
	}
}
