package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

const queryPreviewChars = 200

var queryK int

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Run retrieval for a question without calling the chat model",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runQuery,
}

func init() {
	queryCmd.Flags().IntVarP(&queryK, "k", "k", 5, "number of chunks to retrieve")
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	log := newLogger()
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	index, err := newIndex(cfg)
	if err != nil {
		return err
	}
	defer index.Close()

	cfg.RetrieveK = queryK
	question := strings.Join(args, " ")
	results, err := newRetriever(cfg, index, log).Retrieve(cmd.Context(), question)
	if err != nil {
		return err
	}

	cmd.Printf("Query: %s\n\n", question)
	if len(results) == 0 {
		cmd.Println("Retrieved 0 chunks")
		return nil
	}

	best := results[0].Distance
	for _, r := range results[1:] {
		if r.Distance < best {
			best = r.Distance
		}
	}
	cmd.Printf("Retrieved %d chunks (best distance: %.4f)\n\n", len(results), best)

	for i, r := range results {
		section := r.Section
		if section == "" {
			section = "(no section)"
		}
		preview := r.Text
		if len(preview) > queryPreviewChars {
			preview = preview[:queryPreviewChars] + "..."
		}
		preview = strings.TrimSpace(strings.ReplaceAll(preview, "\n", " "))

		cmd.Printf("--- Result %d (distance=%.4f) ---\n", i+1, r.Distance)
		cmd.Printf("Title: %s\n", r.Title)
		cmd.Printf("Section: %s\n", section)
		cmd.Printf("Preview: %s\n\n", preview)
	}
	return nil
}
