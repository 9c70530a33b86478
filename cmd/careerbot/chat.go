package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/careerbot/internal/tui"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Open the interactive chat window (TUI)",
	RunE:  runChat,
}

var askCmd = &cobra.Command{
	Use:   "ask <message>",
	Short: "Send one chat message and print the reply",
	Long:  "Routes a single message exactly like the chat window, including STAR mode and resume context.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runAsk,
}

func init() {
	rootCmd.AddCommand(chatCmd)
	rootCmd.AddCommand(askCmd)
}

func runChat(cmd *cobra.Command, args []string) error {
	// Logs would corrupt the alt screen; only show them with --debug.
	var logOut io.Writer = io.Discard
	if debug {
		logOut = os.Stderr
	}

	a, err := newApp(cmd.Context(), setupLogger(debug, logOut))
	if err != nil {
		return err
	}
	defer a.Close()

	handler := func(ctx context.Context, text string) (string, error) {
		return a.router.Route(ctx, a.user, text)
	}
	return tui.RunChat(handler, a.user, tui.DefaultSuggestions)
}

func runAsk(cmd *cobra.Command, args []string) error {
	a, err := openApp(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	message := strings.Join(args, " ")
	reply, err := withSpinner(cmd.Context(), "Thinking", func(ctx context.Context) (string, error) {
		reply, err := a.router.Route(ctx, a.user, message)
		if err != nil {
			// The reply is still worth showing.
			a.logger.Error("session not updated", "user", a.user, "error", err)
		}
		return reply, nil
	})
	if err != nil {
		return err
	}
	fmt.Println(reply)
	return nil
}
