package main

import (
	"context"
	"os"

	"github.com/ashureev/mira-chat/internal/client"
	"github.com/spf13/cobra"
)

var newSession bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat (default command)",
	Long: `Starts a duplex chat session. Messages are queued locally and sent in the
background while replies are printed as they arrive.

Commands inside the chat:
  /help     show commands
  /history  show messages sent in this run
  /clear    start a new session
  /quit     leave (also quit, exit, bye)`,
	RunE: runChat,
}

func init() {
	chatCmd.Flags().BoolVar(&newSession, "new", false, "ignore the stored session and start a new one")
}

func runChat(cmd *cobra.Command, _ []string) error {
	store, rec, err := loadIdentity(identityPath, userFlag)
	if err != nil {
		return err
	}
	sessionID := rec.SessionID
	if newSession {
		sessionID = ""
	}

	c, err := dial()
	if err != nil {
		return err
	}
	defer c.Close()

	console := client.NewConsole(os.Stdout, client.DefaultPrompt)
	shell := client.NewShell(client.ShellConfig{
		In:       cmd.InOrStdin(),
		Console:  console,
		UserID:   rec.UserID,
		Identity: store,
		Logger:   logger,
		Open: func(ctx context.Context, sessionID string) (client.Chat, error) {
			e, err := c.OpenChat(ctx, client.EngineConfig{
				SessionID: sessionID,
				Identity:  store,
				Console:   console,
				Logger:    logger,
			})
			if err != nil {
				return nil, err
			}
			return e, nil
		},
	})
	return shell.Run(cmd.Context(), sessionID)
}
