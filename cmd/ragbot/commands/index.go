// ABOUTME: CLI command to rebuild the vector index from the knowledge corpus
// ABOUTME: Chunks, embeds, and upserts every configured knowledge file
package commands

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// NewIndexCmd creates the index command
func NewIndexCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "index",
		Short: "Rebuild the vector index",
		Long: `Rebuild the entire vector index from the configured knowledge files.

The corpus is always rebuilt in full: the collection is reset, every
knowledge file is chunked and embedded, and all chunks are upserted.

Examples:
  ragbot index
  KNOWLEDGE_DIR=./docs ragbot index`,
		RunE: runIndex,
	}
}

func runIndex(cmd *cobra.Command, args []string) error {
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

	if err := engine.Reindex(cmd.Context()); err != nil {
		return fmt.Errorf("rebuilding index: %w", err)
	}

	if !quiet {
		fmt.Fprintln(cmd.OutOrStdout(), "Vector index rebuilt.")
	}
	return nil
}
