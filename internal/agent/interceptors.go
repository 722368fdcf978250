package agent

import (
	"context"
	"log/slog"
	"runtime/debug"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// UnaryLoggingInterceptor logs each unary call and turns handler panics into
// codes.Internal.
func UnaryLoggingInterceptor(logger *slog.Logger) grpc.UnaryServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (resp any, err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic in unary handler", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Error(codes.Internal, "internal error")
			}
			logCall(ctx, logger, info.FullMethod, start, err)
		}()
		return handler(ctx, req)
	}
}

// StreamLoggingInterceptor is the streaming counterpart of UnaryLoggingInterceptor.
func StreamLoggingInterceptor(logger *slog.Logger) grpc.StreamServerInterceptor {
	if logger == nil {
		logger = slog.Default()
	}
	return func(srv any, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) (err error) {
		start := time.Now()
		defer func() {
			if r := recover(); r != nil {
				logger.Error("Panic in stream handler", "method", info.FullMethod, "panic", r, "stack", string(debug.Stack()))
				err = status.Error(codes.Internal, "internal error")
			}
			logCall(ss.Context(), logger, info.FullMethod, start, err)
		}()
		return handler(srv, ss)
	}
}

func logCall(ctx context.Context, logger *slog.Logger, method string, start time.Time, err error) {
	code := status.Code(err)
	attrs := []any{
		"method", method,
		"code", code.String(),
		"duration_ms", time.Since(start).Milliseconds(),
	}
	switch code {
	case codes.OK, codes.Canceled:
		logger.DebugContext(ctx, "gRPC call finished", attrs...)
	case codes.Internal, codes.Unknown, codes.Unavailable:
		logger.ErrorContext(ctx, "gRPC call failed", append(attrs, "error", err)...)
	default:
		logger.WarnContext(ctx, "gRPC call rejected", append(attrs, "error", err)...)
	}
}
