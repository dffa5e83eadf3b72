package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"vigil/config"
	"vigil/internal/adapter/store"
	"vigil/internal/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show embedding index status",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	rootDir := GetRootDir()

	st := store.NewIndexStore(config.IndexFilePath(rootDir))
	if !st.LoadIfAbsent() {
		fmt.Printf("No usable index at %s (missing, corrupt or stale format). Run 'vigil build'.\n", st.Path())
		return nil
	}

	idx := st.Index()
	counts := make(map[string]int)
	for _, rec := range idx.Records {
		counts[rec.Kind]++
	}

	fmt.Printf("Index:    %s\n", st.Path())
	fmt.Printf("Version:  %d\n", idx.Version)
	fmt.Printf("Created:  %s\n", idx.Created.Format("2006-01-02 15:04:05"))
	fmt.Printf("Dims:     %d\n", idx.Dims)
	fmt.Printf("Records:  %d (policies: %d, events: %d, docs: %d)\n",
		len(idx.Records), counts[domain.KindPolicy], counts[domain.KindEvent], counts[domain.KindDoc])

	return nil
}
