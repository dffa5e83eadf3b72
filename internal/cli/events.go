package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"
	"vigil/config"
	"vigil/internal/adapter/store"
	"vigil/internal/usecase"
)

var (
	eventsPhrase string
	eventsTopK   int
	eventsJSON   bool
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Find health events matching a phrase",
	Long: `Search event records for a free-text phrase. Results are kept when
they share a word with the phrase or score clearly above the noise
floor; otherwise the closest few are shown as low-confidence guesses.

Examples:
  vigil events -q "disk full"
  vigil events -q "unplanned reboot" --top-k 3`,
	RunE: runEvents,
}

func init() {
	rootCmd.AddCommand(eventsCmd)
	eventsCmd.Flags().StringVarP(&eventsPhrase, "query", "q", "", "phrase to match (required)")
	eventsCmd.Flags().IntVarP(&eventsTopK, "top-k", "k", 0, "number of results (default from config)")
	eventsCmd.Flags().BoolVar(&eventsJSON, "json", false, "output as JSON")
	eventsCmd.MarkFlagRequired("query")
}

func runEvents(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	st := store.NewIndexStore(config.IndexFilePath(rootDir))
	search := usecase.NewSearchUseCase(st)

	topK := cfg.Search.TopK
	if eventsTopK > 0 {
		topK = eventsTopK
	}

	matches, err := search.FindEvents(eventsPhrase, topK)
	if errors.Is(err, usecase.ErrIndexNotLoaded) {
		return fmt.Errorf("no index found. Run 'vigil build' first")
	}
	if err != nil {
		return fmt.Errorf("event search failed: %w", err)
	}

	if eventsJSON {
		output, _ := json.MarshalIndent(matches, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(matches.Results) == 0 {
		fmt.Println("No events found.")
		return nil
	}
	if matches.LowConfidence {
		fmt.Println("No close matches; showing nearest events (low confidence):")
	}
	for i, r := range matches.Results {
		fmt.Printf("[%d] %s (score: %.3f)\n", i+1, r.ID, r.Score)
		if title := r.Meta["title"]; title != "" {
			fmt.Printf("    %s\n", title)
		}
		if reason := r.Meta["reasonType"]; reason != "" {
			fmt.Printf("    reason: %s\n", reason)
		}
	}

	return nil
}
