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
	searchQuery    string
	searchTopK     int
	searchKinds    []string
	searchResource string
	searchJSON     bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search indexed records by similarity",
	Long: `Rank indexed policies, events and document chunks against a query
by cosine similarity.

Examples:
  vigil search -q "disk pressure"
  vigil search -q "cpu throttle" --kind event --resource VirtualMachine
  vigil search -q "failover" --top-k 3 --json`,
	RunE: runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)
	searchCmd.Flags().StringVarP(&searchQuery, "query", "q", "", "search query (required)")
	searchCmd.Flags().IntVarP(&searchTopK, "top-k", "k", 0, "number of results (default from config)")
	searchCmd.Flags().StringSliceVar(&searchKinds, "kind", nil, "restrict to record kinds (policy, event, doc)")
	searchCmd.Flags().StringVar(&searchResource, "resource", "", "resource type hint")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output as JSON")
	searchCmd.MarkFlagRequired("query")
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	rootDir := GetRootDir()

	st := store.NewIndexStore(config.IndexFilePath(rootDir))
	search := usecase.NewSearchUseCase(st)

	topK := cfg.Search.TopK
	if searchTopK > 0 {
		topK = searchTopK
	}

	results, err := search.Search(searchQuery, topK, usecase.SearchOptions{
		Kinds:        searchKinds,
		ResourceType: searchResource,
	})
	if errors.Is(err, usecase.ErrIndexNotLoaded) {
		return fmt.Errorf("no index found. Run 'vigil build' first")
	}
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		output, _ := json.MarshalIndent(results, "", "  ")
		fmt.Println(string(output))
		return nil
	}

	if len(results) == 0 {
		fmt.Println("No results found.")
		return nil
	}
	fmt.Printf("Found %d results for: %s\n\n", len(results), searchQuery)
	for i, r := range results {
		fmt.Printf("--- [%d] %s (score: %.3f) ---\n", i+1, r.ID, r.Score)
		text := r.Text
		if len(text) > 200 {
			text = text[:200] + "..."
		}
		fmt.Println(text)
		fmt.Println()
	}

	return nil
}
