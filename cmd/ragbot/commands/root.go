// ABOUTME: Root CLI command with global flags and subcommand wiring
// ABOUTME: Builds the engine dependency graph shared by all subcommands
package commands

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/uniqlabs/ragbot/internal/config"
	"github.com/uniqlabs/ragbot/internal/llm"
	"github.com/uniqlabs/ragbot/internal/memory"
	"github.com/uniqlabs/ragbot/internal/rag"
	"github.com/uniqlabs/ragbot/internal/vectorstore"
)

var (
	verbose bool
	quiet   bool
)

// NewRootCmd creates the root command with all subcommands attached
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ragbot",
		Short: "RAG chatbot over the UNIQ knowledge base",
		Long: `ragbot answers questions strictly from an indexed knowledge corpus.

It chunks the configured knowledge files, embeds them through an
OpenAI-compatible endpoint, stores the vectors in a local chromem-go
collection, and serves a chat API with sliding-window conversation
memory per session.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Suppress non-essential output")
	cmd.MarkFlagsMutuallyExclusive("verbose", "quiet")

	cmd.AddCommand(
		NewServeCmd(),
		NewIndexCmd(),
		NewAskCmd(),
		NewMCPCmd(),
		NewVersionCmd(),
	)

	return cmd
}

// Execute runs the root command
func Execute() error {
	return NewRootCmd().Execute()
}

// newLogger builds the process logger according to the verbosity flags
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	if quiet {
		return zap.NewNop(), nil
	}
	return zap.NewProduction()
}

// buildEngine wires the engine with its real gateways: the OpenAI-compatible
// language model client and the persistent chromem vector store
func buildEngine(logger *zap.Logger) (*rag.Engine, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("loading config: %w", err)
	}

	client, err := llm.NewClient(llm.ClientConfig{
		BaseURL:    cfg.LMURL,
		APIKey:     cfg.LMAPIKey,
		ChatModel:  cfg.ChatModel,
		EmbedModel: cfg.EmbedModel,
		Timeout:    cfg.Timeout,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("creating language model client: %w", err)
	}

	store, err := vectorstore.New(cfg.StorageDir, cfg.Collection, logger)
	if err != nil {
		return nil, nil, fmt.Errorf("opening vector store: %w", err)
	}

	mem := memory.NewSlidingWindow(cfg.MaxTurns)
	engine := rag.NewEngine(cfg, client, client, store, mem, logger)
	return engine, cfg, nil
}
