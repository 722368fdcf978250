package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/ashureev/mira-chat/internal/client"
	"github.com/ashureev/mira-chat/internal/proto/chat"
	"github.com/spf13/cobra"
)

var maxLength int32

var askCmd = &cobra.Command{
	Use:   "ask [message]",
	Short: "Send one message and print the reply",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rec, err := loadIdentity(identityPath, userFlag)
		if err != nil {
			return err
		}
		c, err := dial()
		if err != nil {
			return err
		}
		defer c.Close()

		reply, err := c.Ask(cmd.Context(), rec.UserID, strings.Join(args, " "))
		if err != nil {
			text, ok := client.FallbackText(err)
			if !ok {
				return err
			}
			logger.Error("GetReply failed", "error", err)
			reply = text
		}
		fmt.Fprintf(cmd.OutOrStdout(), "AI: %s\n", reply)
		return nil
	},
}

var streamCmd = &cobra.Command{
	Use:   "stream [message]",
	Short: "Send one message and print the reply as it streams",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, rec, err := loadIdentity(identityPath, userFlag)
		if err != nil {
			return err
		}
		c, err := dial()
		if err != nil {
			return err
		}
		defer c.Close()

		out := cmd.OutOrStdout()
		fmt.Fprint(out, "AI:")
		for chunk, err := range c.Stream(cmd.Context(), rec.UserID, strings.Join(args, " ")) {
			if err != nil {
				fmt.Fprintln(out)
				return err
			}
			writeChunk(out, chunk)
		}
		return nil
	},
}

func writeChunk(w io.Writer, chunk *chat.StreamChunk) {
	fmt.Fprintf(w, " %s", chunk.GetContent())
	if chunk.GetIsFinal() {
		fmt.Fprintln(w)
	}
}

var summarizeCmd = &cobra.Command{
	Use:   "summarize [url...]",
	Short: "Summarize one or more web pages in a single batch",
	Long: `Streams every URL to the server and prints one summary per URL. A failing
URL is reported next to its entry and does not stop the batch.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		c, err := dial()
		if err != nil {
			return err
		}
		defer c.Close()

		reqs := make([]*chat.SummarizeRequest, 0, len(args))
		for _, u := range args {
			reqs = append(reqs, &chat.SummarizeRequest{Url: u, MaxLength: maxLength})
		}
		resp, err := c.Summarize(cmd.Context(), reqs)
		if err != nil {
			return err
		}
		writeSummaries(cmd.OutOrStdout(), resp)
		return nil
	},
}

func init() {
	summarizeCmd.Flags().Int32Var(&maxLength, "max-length", 100, "maximum summary length in words")
}

func writeSummaries(w io.Writer, resp *chat.SummarizeResponse) {
	for _, s := range resp.GetSummaries() {
		if s.GetSuccess() {
			fmt.Fprintf(w, "%s\n  %s\n", s.GetUrl(), s.GetSummary())
			continue
		}
		fmt.Fprintf(w, "%s\n  failed: %s\n", s.GetUrl(), s.GetErrorMessage())
	}
	fmt.Fprintf(w, "Processed %d URL(s)\n", resp.GetTotalProcessed())
}
