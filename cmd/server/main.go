// mira - conversational assistant server
package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ashureev/mira-chat/internal/agent"
	"github.com/ashureev/mira-chat/internal/api"
	"github.com/ashureev/mira-chat/internal/config"
	"github.com/ashureev/mira-chat/internal/middleware"
	"github.com/ashureev/mira-chat/internal/proto/chat"
	"github.com/ashureev/mira-chat/internal/provider"
	"github.com/ashureev/mira-chat/internal/session"
	"github.com/ashureev/mira-chat/internal/store"
	"github.com/ashureev/mira-chat/web"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"
	"google.golang.org/grpc"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/keepalive"
)

func main() {
	level := new(slog.LevelVar)
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	if err := godotenv.Load(); err != nil {
		slog.Info("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}
	level.Set(cfg.LogLevel)

	slog.Info("Starting server",
		"grpc_port", cfg.GRPCPort,
		"http_port", cfg.HTTPPort,
		"provider", cfg.Provider.Name,
		"dev", cfg.IsDevelopment(),
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize dependencies.
	repo, err := store.NewSQLite(cfg.DBPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := repo.Close(); closeErr != nil {
			slog.Error("Failed to close repository", "error", closeErr)
		}
	}()

	if err := repo.Ping(ctx); err != nil {
		slog.Error("Database health check failed", "error", err)
		os.Exit(1)
	}
	slog.Info("Database connected")

	sessions := session.NewStore(session.Config{
		HistoryCap:   cfg.Session.HistoryCap,
		SystemPrompt: cfg.Session.SystemPrompt,
	})
	archived, err := repo.LoadActiveSessions(ctx, cfg.Session.IdleTTL)
	if err != nil {
		slog.Warn("Failed to load archived sessions, starting empty", "error", err)
	}
	slog.Info("Sessions restored", "count", sessions.Restore(archived))

	completer, err := provider.New(ctx, provider.Config{
		Name:    cfg.Provider.Name,
		APIKey:  cfg.Provider.APIKey(),
		Model:   cfg.Provider.Model,
		BaseURL: cfg.Provider.BaseURL,
		Timeout: cfg.Provider.Timeout,
	})
	if err != nil {
		slog.Error("Failed to initialize completion provider", "error", err)
		os.Exit(1)
	}

	conversationLogger, err := agent.NewConversationLogger(agent.ConversationLogConfig{
		Enabled:       cfg.ConversationLog.Enabled,
		Dir:           cfg.ConversationLog.Dir,
		GlobalEnabled: cfg.ConversationLog.GlobalEnabled,
		GlobalPath:    cfg.ConversationLog.GlobalPath,
		QueueSize:     cfg.ConversationLog.QueueSize,
	}, logger)
	if err != nil {
		slog.Error("Failed to initialize conversation logger", "error", err)
		os.Exit(1)
	}

	agentCfg := agent.DefaultConfig()
	agentCfg.IdleTTL = cfg.Session.IdleTTL
	agentCfg.RateLimitRequests = cfg.RateLimit.Requests
	agentCfg.RateLimitWindow = cfg.RateLimit.Window
	svc := agent.NewService(sessions, completer, agentCfg,
		agent.WithArchive(repo),
		agent.WithConversationLogger(conversationLogger),
		agent.WithLogger(logger),
	)
	defer svc.Close()

	// gRPC server. The pool bounds concurrent ChatService calls across all
	// connections; NumStreamWorkers only reuses goroutines.
	workers := agent.NewWorkerPool(cfg.GRPCWorkers, logger)
	grpcServer := grpc.NewServer(
		grpc.NumStreamWorkers(uint32(cfg.GRPCWorkers)),
		grpc.MaxConcurrentStreams(uint32(cfg.MaxStreams)),
		grpc.KeepaliveEnforcementPolicy(keepalive.EnforcementPolicy{
			MinTime:             time.Minute,
			PermitWithoutStream: false,
		}),
		grpc.KeepaliveParams(keepalive.ServerParameters{
			Time:    2 * time.Minute,
			Timeout: 20 * time.Second,
		}),
		grpc.ChainUnaryInterceptor(agent.UnaryLoggingInterceptor(logger), workers.UnaryInterceptor()),
		grpc.ChainStreamInterceptor(agent.StreamLoggingInterceptor(logger), workers.StreamInterceptor()),
	)
	chat.RegisterChatServiceServer(grpcServer, svc)

	healthServer := health.NewServer()
	healthServer.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	healthServer.SetServingStatus(chat.ChatService_ServiceDesc.ServiceName, healthpb.HealthCheckResponse_SERVING)
	healthpb.RegisterHealthServer(grpcServer, healthServer)

	lis, err := net.Listen("tcp", ":"+cfg.GRPCPort)
	if err != nil {
		slog.Error("Failed to listen", "error", err, "port", cfg.GRPCPort)
		os.Exit(1)
	}

	// HTTP side channel.
	registry := api.NewConnectionRegistry()
	baseHandler := api.NewHandler(sessions, repo, registry)
	sessionHandler := api.NewSessionHandler(baseHandler, repo, cfg.Provider.Name, cfg.Session.IdleTTL, cfg.IsDevelopment())
	wsHandler := api.NewChatSocketHandler(svc, registry, int64(cfg.WSMaxConns), cfg.FrontendURL, cfg.IsDevelopment())

	r := chi.NewRouter()
	r.Use(chiMiddleware.RequestID)
	r.Use(chiMiddleware.RealIP)
	r.Use(chiMiddleware.Logger)
	r.Use(chiMiddleware.Recoverer)
	r.Use(middleware.CORS(middleware.Origins(cfg.FrontendURL)))

	baseHandler.RegisterRoutes(r)
	sessionHandler.RegisterRoutes(r)
	r.Get("/ws/chat", wsHandler.ServeHTTP)
	r.Handle("/*", web.Handler())

	// No WriteTimeout: chat sockets are long-lived.
	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      r,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 0,
		IdleTimeout:  120 * time.Second,
	}

	sweeperDone := svc.StartSweeper(ctx, cfg.Session.SweepInterval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("gRPC server listening", "addr", lis.Addr().String(), "workers", cfg.GRPCWorkers)
		return grpcServer.Serve(lis)
	})
	g.Go(func() error {
		slog.Info("HTTP server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		stop()
		slog.Info("Shutting down gracefully...")

		healthServer.Shutdown()
		registry.CloseAll()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("HTTP server forced to shutdown", "error", err)
		}

		stopped := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(stopped)
		}()
		select {
		case <-stopped:
		case <-shutdownCtx.Done():
			slog.Warn("gRPC graceful stop timed out, forcing")
			grpcServer.Stop()
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
	<-sweeperDone

	slog.Info("Server stopped successfully")
}
