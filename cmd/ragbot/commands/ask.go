// ABOUTME: CLI command to ask a one-shot question against the knowledge base
// ABOUTME: Uses a fresh session so CLI questions never share server memory
package commands

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var askSession string

// NewAskCmd creates the ask command
func NewAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask <question>",
		Short: "Ask a question from the command line",
		Long: `Ask a single question against the indexed knowledge base.

Each invocation uses a fresh session id unless --session is given, so
one-shot questions do not inherit conversational memory.

Examples:
  ragbot ask "Where is the head office?"
  ragbot ask --session support-42 "Is that correct?"`,
		Args: cobra.MinimumNArgs(1),
		RunE: runAsk,
	}

	cmd.Flags().StringVar(&askSession, "session", "", "Session id for conversational memory")

	return cmd
}

func runAsk(cmd *cobra.Command, args []string) error {
	_ = godotenv.Load()

	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	engine, _, err := buildEngine(logger)
	if err != nil {
		return err
	}

	session := askSession
	if session == "" {
		session = uuid.NewString()
	}

	answer, err := engine.Answer(cmd.Context(), session, strings.Join(args, " "))
	if err != nil {
		return fmt.Errorf("answering question: %w", err)
	}

	fmt.Fprintln(cmd.OutOrStdout(), answer)
	return nil
}
