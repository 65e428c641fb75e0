package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/Chative-support-poc/server/internal/agent/graph"
	"github.com/Chative-support-poc/server/internal/agent/model"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the agent in the terminal",
	Long: `Reads one message per line and prints the agent's reply.
Type the exit keyword (CHAT_EXIT_KEYWORD, "quit" by default) to leave.`,
	Args: cobra.NoArgs,
	RunE: runChatCmd,
}

func runChatCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	initLogger(cfg)
	// keep debug lines from interleaving with the conversation
	zerolog.SetGlobalLevel(zerolog.WarnLevel)

	a, err := newApp(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer a.close()

	loop := chatLoop{
		runner:      a.runner,
		sessionID:   uuid.NewString(),
		exitKeyword: cfg.Chat.ExitKeyword,
		farewell:    a.engine.Farewell(),
	}
	return loop.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout())
}

type chatLoop struct {
	runner      graph.Runner
	sessionID   string
	exitKeyword string
	farewell    string
}

func (l chatLoop) run(ctx context.Context, in io.Reader, out io.Writer) error {
	exit := l.exitKeyword
	if exit == "" {
		exit = "quit"
	}

	fmt.Fprintln(out, "Customer Support Chatbot")
	fmt.Fprintf(out, "Type '%s' to exit\n", exit)
	fmt.Fprintln(out, strings.Repeat("-", 30))

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "You: ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.EqualFold(line, exit) {
			fmt.Fprintf(out, "Bot: %s\n", l.farewell)
			return nil
		}

		reply, err := l.runner.Invoke(ctx, model.QueryInput{
			ConversationID: l.sessionID,
			Query:          line,
		})
		if err != nil {
			return fmt.Errorf("chat turn: %w", err)
		}
		fmt.Fprintf(out, "Bot: %s\n", reply)
	}
}
