package cli

import (
	"github.com/spf13/cobra"

	"github.com/quantic-msse0726/policy-rag-app/internal/eval"
)

var (
	reviewResults    string
	reviewOut        string
	reviewSampleSize int
	reviewSeed       int64
)

var exportReviewCmd = &cobra.Command{
	Use:   "export-review",
	Short: "Export a manual-adjudication CSV from eval results",
	RunE:  runExportReview,
}

func init() {
	exportReviewCmd.Flags().StringVar(&reviewResults, "results", "eval/results.jsonl", "eval results file")
	exportReviewCmd.Flags().StringVar(&reviewOut, "out", "eval/manual_review_sample.csv", "output CSV path")
	exportReviewCmd.Flags().IntVar(&reviewSampleSize, "sample-size", 10, "number of rows to sample")
	exportReviewCmd.Flags().Int64Var(&reviewSeed, "seed", 42, "random seed")
	rootCmd.AddCommand(exportReviewCmd)
}

func runExportReview(cmd *cobra.Command, args []string) error {
	n, err := eval.ExportReview(reviewResults, reviewOut, reviewSampleSize, reviewSeed)
	if err != nil {
		return err
	}
	cmd.Printf("Wrote %d rows to %s\n", n, reviewOut)
	return nil
}
