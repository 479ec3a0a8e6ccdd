package cli

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/quantic-msse0726/policy-rag-app/internal/chunker"
	"github.com/quantic-msse0726/policy-rag-app/internal/ingest"
	"github.com/quantic-msse0726/policy-rag-app/internal/tokenizer"
)

var (
	ingestRebuild bool
	ingestChunk   int
	ingestOverlap int
)

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Build the vector index from the document directory",
	Long: `Loads every supported document from the data directory, splits them
into overlapping token windows, embeds each window and writes the
result to the vector index. Must not run while another ingestion is
writing to the same index.`,
	RunE: runIngest,
}

func init() {
	ingestCmd.Flags().BoolVar(&ingestRebuild, "rebuild", false, "drop and recreate the index before ingesting")
	ingestCmd.Flags().IntVar(&ingestChunk, "chunk-tokens", 0, "override chunk window size in tokens")
	ingestCmd.Flags().IntVar(&ingestOverlap, "overlap-tokens", 0, "override window overlap in tokens")
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	codec, err := tokenizer.NewCL100K()
	if err != nil {
		return err
	}

	index, err := newIndex(cfg)
	if err != nil {
		return err
	}
	defer index.Close()

	if ingestChunk > 0 {
		cfg.ChunkTokens = ingestChunk
	}
	if ingestOverlap > 0 {
		cfg.OverlapTokens = ingestOverlap
	}

	pipeline := ingest.New(codec, newEmbedder(cfg), index, chunker.Config{
		ChunkTokens:   cfg.ChunkTokens,
		OverlapTokens: cfg.OverlapTokens,
	}, log)

	summary, err := pipeline.Run(cmd.Context(), cfg.DataDir, ingestRebuild)
	if err != nil {
		return err
	}

	cmd.Printf("Ingested %d documents (%d discovered) into %d chunks in %s\n",
		summary.DocumentsLoaded, summary.DocumentsFound, summary.Chunks,
		summary.Elapsed.Round(time.Millisecond))
	return nil
}
