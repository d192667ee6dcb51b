// ABOUTME: Centralized configuration for the RAG chat service
// ABOUTME: Loads from environment variables with validation and defaults
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all configuration for the RAG service
type Config struct {
	// HTTP server settings
	Host      string
	Port      int
	StaticDir string

	// Language model endpoint settings (OpenAI-compatible, e.g. LM Studio)
	LMURL      string
	LMAPIKey   string
	ChatModel  string
	EmbedModel string
	Timeout    time.Duration

	// Knowledge corpus settings
	KnowledgeDir   string
	KnowledgeFiles []string
	BotRulesFile   string
	StorageDir     string
	Collection     string

	// Retrieval settings
	ChunkSize      int
	ChunkOverlap   int
	TopK           int
	MinSimilarity  float64
	EmbedBatchSize int

	// Conversation settings
	MaxTurns     int
	FallbackText string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		// Defaults
		Host:           getEnv("HOST", "127.0.0.1"),
		Port:           getEnvInt("PORT", 8000),
		StaticDir:      getEnv("STATIC_DIR", "static"),
		LMURL:          getEnv("LM_URL", "http://127.0.0.1:1234/v1"),
		LMAPIKey:       getEnv("LM_API_KEY", "lm-studio"),
		ChatModel:      getEnv("MODEL_NAME", "qwen2.5-1.5b-instruct"),
		EmbedModel:     getEnv("EMBED_MODEL", "text-embedding-nomic-embed-text-v1.5"),
		Timeout:        getEnvDuration("LM_TIMEOUT", 120*time.Second),
		KnowledgeDir:   getEnv("KNOWLEDGE_DIR", "knowledge"),
		KnowledgeFiles: getEnvList("KNOWLEDGE_FILES", "uniq1.txt,uniq2.txt,uniq3.txt"),
		BotRulesFile:   getEnv("BOT_RULES_FILE", "bot_rules.txt"),
		StorageDir:     getEnv("STORAGE_DIR", "storage"),
		Collection:     getEnv("COLLECTION_NAME", "uniq_kb"),
		ChunkSize:      getEnvInt("CHUNK_SIZE", 900),
		ChunkOverlap:   getEnvInt("CHUNK_OVERLAP", 140),
		TopK:           getEnvInt("TOP_K", 8),
		MinSimilarity:  getEnvFloat("MIN_SIMILARITY", 0.35),
		EmbedBatchSize: getEnvInt("EMBED_BATCH_SIZE", 64),
		MaxTurns:       getEnvInt("MAX_TURNS", 10),
		FallbackText:   getEnv("FALLBACK_TEXT", "Information not available."),
	}

	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	if c.ChunkSize <= 0 {
		return fmt.Errorf("CHUNK_SIZE must be positive, got %d", c.ChunkSize)
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("CHUNK_OVERLAP must be in [0, CHUNK_SIZE), got %d", c.ChunkOverlap)
	}
	if c.TopK <= 0 {
		return fmt.Errorf("TOP_K must be positive, got %d", c.TopK)
	}
	if c.MinSimilarity < 0 || c.MinSimilarity > 1 {
		return fmt.Errorf("MIN_SIMILARITY must be 0-1, got %f", c.MinSimilarity)
	}
	if c.MaxTurns <= 0 {
		return fmt.Errorf("MAX_TURNS must be positive, got %d", c.MaxTurns)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("EMBED_BATCH_SIZE must be positive, got %d", c.EmbedBatchSize)
	}
	if c.FallbackText == "" {
		return fmt.Errorf("FALLBACK_TEXT must not be empty")
	}
	return nil
}

// Addr returns the host:port the HTTP server listens on
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// Helper functions
func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getEnvDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}

func getEnvList(key, defaultVal string) []string {
	raw := getEnv(key, defaultVal)
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
