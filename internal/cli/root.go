// Package cli wires the policyrag commands: serving the HTTP API,
// building the index, and running retrieval checks and evals.
package cli

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:          "policyrag",
	Short:        "Grounded question answering over policy documents",
	SilenceUsage: true,
}

func init() {
	cobra.OnInitialize(func() {
		// A missing .env is fine; the environment may carry everything.
		_ = godotenv.Load()
	})
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
