// ABOUTME: RAG engine orchestrating retrieval, intent routing, and answer generation
// ABOUTME: Lazily rebuilds the vector index once, then answers strictly from retrieved context
package rag

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"

	"github.com/uniqlabs/ragbot/internal/chunker"
	"github.com/uniqlabs/ragbot/internal/config"
	"github.com/uniqlabs/ragbot/internal/knowledge"
	"github.com/uniqlabs/ragbot/internal/memory"
	"github.com/uniqlabs/ragbot/internal/models"
)

// DefaultSessionID is used when the caller supplies no session id.
const DefaultSessionID = "default"

const (
	restrictedMaxTokens = 80
	answerMaxTokens     = 220
	answerTemperature   = 0.2
)

const (
	clarifyVerifyText = "I don't have a previous answer to verify. Could you repeat the statement you want me to check?"
	vagueVerifyText   = "I couldn't match that to anything in my knowledge base. Please give me a more specific statement or question to verify."
)

// Engine composes the chunker, embedding and completion gateways, vector
// index, and conversation memory into the answer-generation flow. All
// dependencies are injected; there is no ambient global state.
type Engine struct {
	cfg       *config.Config
	embedder  Embedder
	completer Completer
	index     Index
	memory    *memory.SlidingWindow
	logger    *zap.Logger

	// initOnce gates the one-time index rebuild so concurrent first
	// requests block on, rather than duplicate, the build.
	initOnce sync.Once
	initErr  error
	botRules string
}

// NewEngine creates an engine with its dependencies injected.
func NewEngine(cfg *config.Config, embedder Embedder, completer Completer, index Index, mem *memory.SlidingWindow, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{
		cfg:       cfg,
		embedder:  embedder,
		completer: completer,
		index:     index,
		memory:    mem,
		logger:    logger,
	}
}

// Answer handles one question for a session and returns the final answer.
// Gateway failures propagate as errors; every locally handled condition
// resolves to either a grounded answer or the canonical fallback text.
func (e *Engine) Answer(ctx context.Context, sessionID, question string) (string, error) {
	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		sessionID = DefaultSessionID
	}

	q := strings.TrimSpace(question)
	if q == "" {
		// No backend calls for a blank question, but the turn is still recorded.
		e.memory.AddUser(sessionID, question)
		e.memory.AddAssistant(sessionID, e.cfg.FallbackText)
		return e.cfg.FallbackText, nil
	}

	e.memory.AddUser(sessionID, q)
	history := e.memory.Get(sessionID)

	if err := e.ensureIndex(ctx); err != nil {
		e.logger.Error("vector index unavailable", zap.Error(err))
		e.memory.AddAssistant(sessionID, e.cfg.FallbackText)
		return e.cfg.FallbackText, nil
	}

	// The classifier sees a short tail of history, not the question it is
	// labeling, which sits at the tail after the append above.
	intent, err := e.classifyIntent(ctx, q, history[:len(history)-1])
	if err != nil {
		return "", err
	}

	var answer string
	switch intent {
	case IntentVerification:
		answer, err = e.verifyPriorAnswer(ctx, history)
	default:
		answer, err = e.answerFromContext(ctx, q, history)
	}
	if err != nil {
		return "", err
	}

	answer = e.normalize(answer)
	e.memory.AddAssistant(sessionID, answer)
	return answer, nil
}

// Reindex forces the one-time index build, returning its result. Used by
// the index CLI command; in a serving process the build runs lazily on
// the first question instead.
func (e *Engine) Reindex(ctx context.Context) error {
	return e.ensureIndex(ctx)
}

func (e *Engine) ensureIndex(ctx context.Context) error {
	e.initOnce.Do(func() {
		e.initErr = e.buildIndex(ctx)
	})
	return e.initErr
}

// buildIndex rebuilds the whole knowledge corpus: load, chunk, embed in
// batches, reset the collection, upsert everything.
func (e *Engine) buildIndex(ctx context.Context) error {
	rules := knowledge.LoadBotRules(e.cfg.KnowledgeDir, e.cfg.BotRulesFile)
	if rules == "" {
		generated, err := BuildPolicyPrompt(ctx, e.completer, e.cfg.FallbackText)
		if err != nil {
			e.logger.Warn("policy prompt generation failed, continuing without persona", zap.Error(err))
		} else {
			rules = generated
		}
	}
	e.botRules = rules

	var chunks []models.Chunk
	for _, doc := range knowledge.LoadFiles(e.cfg.KnowledgeDir, e.cfg.KnowledgeFiles) {
		chunks = append(chunks, chunker.Chunk(doc.Source, doc.Text, e.cfg.ChunkSize, e.cfg.ChunkOverlap)...)
	}
	e.logger.Info("chunked knowledge corpus",
		zap.Int("sources", len(e.cfg.KnowledgeFiles)),
		zap.Int("total_chunks", len(chunks)),
	)

	if err := e.index.Reset(ctx); err != nil {
		return fmt.Errorf("resetting vector index: %w", err)
	}
	if len(chunks) == 0 {
		return nil
	}

	embeddings := make([][]float32, 0, len(chunks))
	for start := 0; start < len(chunks); start += e.cfg.EmbedBatchSize {
		end := start + e.cfg.EmbedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		texts := make([]string, 0, end-start)
		for _, c := range chunks[start:end] {
			texts = append(texts, c.Text)
		}
		vecs, err := e.embedder.EmbedTexts(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding chunks %d-%d: %w", start, end, err)
		}
		embeddings = append(embeddings, vecs...)
	}

	if err := e.index.Upsert(ctx, chunks, embeddings); err != nil {
		return fmt.Errorf("indexing chunks: %w", err)
	}

	e.logger.Info("vector index built", zap.Int("chunks", len(chunks)))
	return nil
}

// answerFromContext is the default flow: retrieve by question similarity
// and answer strictly from the retrieved context, or fall back to the
// restricted persona-only reply when nothing relevant was found.
func (e *Engine) answerFromContext(ctx context.Context, question string, history []models.Message) (string, error) {
	vecs, err := e.embedder.EmbedTexts(ctx, []string{question})
	if err != nil {
		return "", fmt.Errorf("embedding question: %w", err)
	}

	hits, err := e.index.Query(ctx, vecs[0], e.cfg.TopK)
	if err != nil {
		return "", fmt.Errorf("querying vector index: %w", err)
	}

	best := 0.0
	if len(hits) > 0 {
		best = hits[0].Similarity
	}

	if best < e.cfg.MinSimilarity {
		e.logger.Debug("similarity below threshold, restricted reply",
			zap.Float64("best", best),
			zap.Float64("threshold", e.cfg.MinSimilarity),
		)
		return e.completer.ChatComplete(ctx, e.botRules,
			restrictedPrompt(question, e.cfg.FallbackText),
			history, restrictedMaxTokens, answerTemperature)
	}

	return e.completer.ChatComplete(ctx, e.botRules,
		contextPrompt(buildContext(hits), question, e.cfg.FallbackText),
		history, answerMaxTokens, answerTemperature)
}

// verifyPriorAnswer re-checks the most recent assistant answer against
// freshly retrieved context instead of answering a new question.
func (e *Engine) verifyPriorAnswer(ctx context.Context, history []models.Message) (string, error) {
	prior := ""
	for i := len(history) - 1; i >= 0; i-- {
		if history[i].Role == models.RoleAssistant && strings.TrimSpace(history[i].Content) != "" {
			prior = strings.TrimSpace(history[i].Content)
			break
		}
	}
	if prior == "" {
		return clarifyVerifyText, nil
	}

	// Retrieval is keyed on the prior answer itself, not the question.
	vecs, err := e.embedder.EmbedTexts(ctx, []string{prior})
	if err != nil {
		return "", fmt.Errorf("embedding prior answer: %w", err)
	}

	hits, err := e.index.Query(ctx, vecs[0], e.cfg.TopK)
	if err != nil {
		return "", fmt.Errorf("querying vector index: %w", err)
	}

	best := 0.0
	if len(hits) > 0 {
		best = hits[0].Similarity
	}
	if best < e.cfg.MinSimilarity {
		return vagueVerifyText, nil
	}

	return e.completer.ChatComplete(ctx, e.botRules,
		verifyPrompt(buildContext(hits), prior, e.cfg.FallbackText),
		history, answerMaxTokens, answerTemperature)
}

// normalize collapses empty output and any output containing the fallback
// phrase to the exact canonical fallback text, so a hedge never leaks
// alongside a partially hallucinated answer.
func (e *Engine) normalize(out string) string {
	out = strings.TrimSpace(out)
	if out == "" {
		return e.cfg.FallbackText
	}
	if strings.Contains(strings.ToLower(out), strings.ToLower(e.cfg.FallbackText)) {
		return e.cfg.FallbackText
	}
	return out
}
