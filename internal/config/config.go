package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Search modes understood by the retrieval gateway.
const (
	SearchModeFiltered = "filtered"
	SearchModeRaw      = "raw"
)

// Config holds all configuration for the application.
type Config struct {
	APIPort   string
	LogLevel  slog.Level
	LogFormat string

	EmbeddingBaseURL   string
	EmbeddingAPIKey    string
	EmbeddingModelName string
	EmbeddingBatchSize int

	QdrantURL        string
	QdrantCollection string
	QdrantVectorSize int

	Namespace  string
	SearchMode string
	SearchTopK int

	SourcePath     string
	ChunkDumpPath  string
	ChunkMinWords  int
	ChunkPlainText bool
	VocabularyPath string

	DBPath string
}

// Load reads configuration from environment variables and returns a Config struct.
// It applies defaults for optional fields and validates the rest.
// If a .env file exists in the current directory or one of its parents, it is loaded first.
// Environment variables already set take precedence over .env file values.
func Load() (*Config, error) {
	loadDotEnv()

	cfg := &Config{
		APIPort:            getEnv("API_PORT", "5000"),
		LogFormat:          strings.ToLower(getEnv("LOG_FORMAT", "text")),
		EmbeddingBaseURL:   strings.TrimRight(getEnv("EMBEDDING_BASE_URL", "https://api.openai.com"), "/"),
		EmbeddingAPIKey:    getEnv("EMBEDDING_API_KEY", os.Getenv("OPENAI_API_KEY")),
		EmbeddingModelName: getEnv("EMBEDDING_MODEL_NAME", "text-embedding-3-small"),
		QdrantURL:          getEnv("QDRANT_URL", "http://localhost:6333"),
		QdrantCollection:   getEnv("QDRANT_COLLECTION", "vrmt-docs"),
		Namespace:          getEnv("SEARCH_NAMESPACE", "vrmt"),
		SearchMode:         strings.ToLower(getEnv("SEARCH_MODE", SearchModeFiltered)),
		SourcePath:         getEnv("SOURCE_PATH", "vr-system.md"),
		ChunkDumpPath:      getEnv("CHUNK_DUMP_PATH", ""),
		VocabularyPath:     getEnv("VOCABULARY_PATH", ""),
		DBPath:             getEnv("DB_PATH", "./data/vrmt-search.db"),
	}

	level, err := parseLogLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	if cfg.LogFormat != "text" && cfg.LogFormat != "json" {
		return nil, fmt.Errorf("LOG_FORMAT must be text or json, got %q", cfg.LogFormat)
	}

	// The vector size must match the embedding model output.
	// text-embedding-3-small produces 1536 dimensions.
	if cfg.QdrantVectorSize, err = getPositiveInt("QDRANT_VECTOR_SIZE", 1536); err != nil {
		return nil, err
	}
	if cfg.EmbeddingBatchSize, err = getPositiveInt("EMBEDDING_BATCH_SIZE", 64); err != nil {
		return nil, err
	}
	if cfg.SearchTopK, err = getPositiveInt("SEARCH_TOP_K", 5); err != nil {
		return nil, err
	}

	minWords, err := strconv.Atoi(getEnv("CHUNK_MIN_WORDS", "50"))
	if err != nil {
		return nil, fmt.Errorf("CHUNK_MIN_WORDS must be a valid integer: %w", err)
	}
	if minWords < 0 {
		return nil, fmt.Errorf("CHUNK_MIN_WORDS must not be negative")
	}
	cfg.ChunkMinWords = minWords

	plain, err := strconv.ParseBool(getEnv("CHUNK_PLAIN_TEXT", "false"))
	if err != nil {
		return nil, fmt.Errorf("CHUNK_PLAIN_TEXT must be a boolean: %w", err)
	}
	cfg.ChunkPlainText = plain

	if cfg.SearchMode != SearchModeFiltered && cfg.SearchMode != SearchModeRaw {
		return nil, fmt.Errorf("SEARCH_MODE must be %q or %q, got %q", SearchModeFiltered, SearchModeRaw, cfg.SearchMode)
	}
	if cfg.Namespace == "" {
		return nil, fmt.Errorf("SEARCH_NAMESPACE must not be empty")
	}

	// Create the data directory for the run ledger
	dataDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads the first .env file found in the working directory or up to
// five of its parents. Missing files are ignored.
func loadDotEnv() {
	wd, err := os.Getwd()
	if err != nil {
		return
	}
	dir := wd
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		if _, err := os.Stat(envPath); err == nil {
			_ = godotenv.Load(envPath)
			return
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return
		}
		dir = parent
	}
}

// getEnv gets an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getPositiveInt(key string, defaultValue int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%s must be a valid integer: %w", key, err)
	}
	if v <= 0 {
		return 0, fmt.Errorf("%s must be greater than 0", key)
	}
	return v, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return 0, fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	return level, nil
}
