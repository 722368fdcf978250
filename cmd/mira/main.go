// mira - command-line client for the mira chat service
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/ashureev/mira-chat/internal/client"
	"github.com/ashureev/mira-chat/internal/identity"
	"github.com/spf13/cobra"
)

var (
	// Global flags
	addr         string
	userFlag     string
	identityPath string
	verbose      bool

	logger *slog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "mira",
	Short: "mira - conversational assistant client",
	Long: `mira talks to the mira chat service over gRPC.

Run without arguments to start an interactive chat. The session is remembered
in the identity file so the next run resumes the same conversation.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelError
		if verbose {
			level = slog.LevelDebug
		}
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
		slog.SetDefault(logger)
		return nil
	},
	RunE: runChat,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&addr, "addr", client.DefaultAddress, "chat server address")
	rootCmd.PersistentFlags().StringVar(&userFlag, "user", "", "user id (defaults to the stored identity)")
	rootCmd.PersistentFlags().StringVar(&identityPath, "identity", "", "identity file (default ~/.mira/identity.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	rootCmd.AddCommand(chatCmd, askCmd, streamCmd, summarizeCmd)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loadIdentity opens the identity file and applies --user. Switching users
// forgets the stored session.
func loadIdentity(path, user string) (*identity.Store, identity.Record, error) {
	if path == "" {
		p, err := identity.DefaultPath()
		if err != nil {
			return nil, identity.Record{}, err
		}
		path = p
	}
	store := identity.NewStore(path)
	rec, err := store.Load()
	if err != nil {
		return nil, identity.Record{}, err
	}
	if user != "" && user != rec.UserID {
		if err := store.SetUser(user); err != nil {
			return nil, identity.Record{}, err
		}
		return store, identity.Record{UserID: user}, nil
	}
	return store, rec, nil
}

func dial() (*client.GrpcClient, error) {
	cfg := client.DefaultGrpcClientConfig()
	cfg.Address = addr
	c, err := client.NewGrpcClient(cfg, logger)
	if err != nil {
		return nil, fmt.Errorf("could not connect to server at %s: %w", addr, err)
	}
	return c, nil
}
