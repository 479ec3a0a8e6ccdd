package cli

import (
	"github.com/spf13/cobra"

	"github.com/quantic-msse0726/policy-rag-app/internal/eval"
)

var (
	evalChatURL   string
	evalQuestions string
	evalResults   string
)

var evalCmd = &cobra.Command{
	Use:   "eval",
	Short: "Evaluate the chat endpoint against the question set",
	Long: `Sends every question in the question file to a running server,
scores groundedness and citation accuracy, and appends one record per
question to the results file.`,
	RunE: runEval,
}

func init() {
	evalCmd.Flags().StringVar(&evalChatURL, "url", "http://127.0.0.1:8000/chat", "chat endpoint to evaluate")
	evalCmd.Flags().StringVar(&evalQuestions, "questions", "eval/questions.jsonl", "question set (JSONL)")
	evalCmd.Flags().StringVar(&evalResults, "results", "eval/results.jsonl", "results file to append to")
	rootCmd.AddCommand(evalCmd)
}

func runEval(cmd *cobra.Command, args []string) error {
	log := newLogger()

	runner := eval.NewRunner(evalChatURL, log)
	report, err := runner.Run(cmd.Context(), evalQuestions, evalResults)
	if err != nil {
		return err
	}

	cmd.Println("--- Report ---")
	cmd.Printf("Total questions: %d\n", report.Total)
	cmd.Printf("Groundedness: %.1f%%\n", report.GroundednessPct)
	cmd.Printf("Citation accuracy: %.1f%%\n", report.CitationAccuracyPct)
	cmd.Printf("Latency p50: %.0f ms\n", report.LatencyP50Ms)
	cmd.Printf("Latency p95: %.0f ms\n", report.LatencyP95Ms)
	cmd.Printf("\nResults appended to %s\n", evalResults)
	return nil
}
