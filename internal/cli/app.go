package cli

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/quantic-msse0726/policy-rag-app/internal/answer"
	"github.com/quantic-msse0726/policy-rag-app/internal/config"
	"github.com/quantic-msse0726/policy-rag-app/internal/embedding"
	"github.com/quantic-msse0726/policy-rag-app/internal/retriever"
	"github.com/quantic-msse0726/policy-rag-app/internal/vectorindex"
	"github.com/quantic-msse0726/policy-rag-app/internal/vectorindex/qdrant"
	"github.com/quantic-msse0726/policy-rag-app/internal/vectorindex/sqlitevec"
)

func newLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stdout, nil))
}

func loadConfig() (config.Config, error) {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

func newIndex(cfg config.Config) (vectorindex.Index, error) {
	switch cfg.IndexBackend {
	case "sqlite":
		if dir := filepath.Dir(cfg.IndexPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("create index dir: %w", err)
			}
		}
		return sqlitevec.Open(cfg.IndexPath)
	case "qdrant":
		return qdrant.New(cfg.QdrantURL, cfg.QdrantAPIKey, cfg.QdrantCollection, cfg.EmbedDimensions), nil
	}
	return nil, fmt.Errorf("unknown index backend %q", cfg.IndexBackend)
}

func newEmbedder(cfg config.Config) *embedding.Client {
	return embedding.NewClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.EmbedModel)
}

func newRetriever(cfg config.Config, index vectorindex.Index, log *slog.Logger) *retriever.Retriever {
	return retriever.New(newEmbedder(cfg), index, cfg.RetrieveK, log)
}

func newAssembler(cfg config.Config, index vectorindex.Index, log *slog.Logger) *answer.Assembler {
	guard := retriever.Guardrail{
		StrictDistance:  cfg.StrictDistance,
		DistanceCeiling: cfg.DistanceCeiling,
	}
	gen := answer.NewOpenAIGenerator(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL, cfg.ChatModel)
	return answer.NewAssembler(newRetriever(cfg, index, log), guard, gen, cfg.Debug, log)
}
