package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all runtime settings, loaded from the environment.
type Config struct {
	ServerAddr string

	// Document corpus and index location
	DataDir      string
	IndexBackend string // "sqlite" or "qdrant"
	IndexPath    string

	// Qdrant connection (only used when IndexBackend == "qdrant")
	QdrantURL        string
	QdrantAPIKey     string
	QdrantCollection string

	// OpenAI
	OpenAIAPIKey  string
	OpenAIBaseURL string
	EmbedModel    string
	// EmbedDimensions must match the embedding model's output size; the
	// qdrant backend needs it to create the collection.
	EmbedDimensions int
	ChatModel       string

	// Chunking defaults
	ChunkTokens   int
	OverlapTokens int

	// Retrieval
	RetrieveK int

	// Guardrail: refuse when the best distance exceeds the ceiling.
	StrictDistance  bool
	DistanceCeiling float64

	// Debug enables verbose pipeline logging in the answer assembler.
	Debug bool
}

func Load() Config {
	return Config{
		ServerAddr: envOr("SERVER_ADDR", ":8000"),

		DataDir:      envOr("DATA_DIR", "data/policies"),
		IndexBackend: envOr("INDEX_BACKEND", "sqlite"),
		IndexPath:    envOr("INDEX_PATH", "data/index/policies.db"),

		QdrantURL:        envOr("QDRANT_URL", "http://localhost:6333"),
		QdrantAPIKey:     os.Getenv("QDRANT_API_KEY"),
		QdrantCollection: envOr("QDRANT_COLLECTION", "policies"),

		OpenAIAPIKey:    os.Getenv("OPENAI_API_KEY"),
		OpenAIBaseURL:   os.Getenv("OPENAI_BASE_URL"),
		EmbedModel:      envOr("EMBED_MODEL", "text-embedding-3-small"),
		EmbedDimensions: envInt("EMBED_DIMENSIONS", 1536),
		ChatModel:       envOr("CHAT_MODEL", "gpt-4o-mini"),

		ChunkTokens:   envInt("CHUNK_TOKENS", 300),
		OverlapTokens: envInt("OVERLAP_TOKENS", 60),

		RetrieveK: envInt("RETRIEVE_K", 6),

		StrictDistance:  envBool("STRICT_DISTANCE", true),
		DistanceCeiling: envFloat("DISTANCE_CEILING", 1.2),

		Debug: envBool("DEBUG", false),
	}
}

// Validate checks settings every command depends on.
func (c Config) Validate() error {
	if c.OpenAIAPIKey == "" {
		return &ConfigurationError{Setting: "OPENAI_API_KEY", Reason: "must be set (in the environment or .env)"}
	}
	if c.IndexBackend != "sqlite" && c.IndexBackend != "qdrant" {
		return &ConfigurationError{Setting: "INDEX_BACKEND", Reason: fmt.Sprintf("unknown backend %q (want sqlite or qdrant)", c.IndexBackend)}
	}
	return nil
}

// ConfigurationError is a missing or invalid required setting.
// It is fatal at startup, never recovered mid-request.
type ConfigurationError struct {
	Setting string
	Reason  string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s %s", e.Setting, e.Reason)
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
