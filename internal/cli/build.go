package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"vigil/config"
	"vigil/internal/adapter/catalog"
	"vigil/internal/adapter/embedding"
	"vigil/internal/adapter/store"
	"vigil/internal/usecase"
)

var (
	buildDocs   bool
	buildNoDocs bool
)

var buildCmd = &cobra.Command{
	Use:   "build [path]",
	Short: "Build the embedding index from workspace policies",
	Long: `Scan the workspace for policy definition files, embed their
policies and events, and persist the index to .vigil/index.json.
Every build is a full recompute that replaces the previous index.

Examples:
  vigil build .                # Index the current workspace
  vigil build /path/to/configs # Index a specific workspace
  vigil build --docs           # Also ingest the document corpus`,
	Args: cobra.MaximumNArgs(1),
	RunE: runBuild,
}

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVar(&buildDocs, "docs", false, "ingest the document corpus regardless of config")
	buildCmd.Flags().BoolVar(&buildNoDocs, "no-docs", false, "skip the document corpus regardless of config")
}

func runBuild(cmd *cobra.Command, args []string) error {
	path := GetRootDir()
	if len(args) > 0 {
		var err error
		path, err = filepath.Abs(args[0])
		if err != nil {
			return fmt.Errorf("invalid path: %w", err)
		}
	}

	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("path does not exist: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("path is not a directory: %s", path)
	}

	cfg := GetConfig()

	embedder, err := embedding.New(cfg.Embedding.Provider)
	if err != nil {
		return err
	}

	fmt.Printf("Scanning %s...\n", path)
	loader := catalog.NewLoader(cfg.Catalog.Includes, cfg.Catalog.Excludes)
	scan, err := loader.Load(path)
	if err != nil {
		return fmt.Errorf("failed to scan workspace: %w", err)
	}

	includeDocs := cfg.Docs.Enabled
	if buildDocs {
		includeDocs = true
	}
	if buildNoDocs {
		includeDocs = false
	}

	var bar *progressbar.ProgressBar
	progress := func(processed, total int, current string) {
		if bar == nil {
			bar = progressbar.NewOptions(total,
				progressbar.OptionEnableColorCodes(true),
				progressbar.OptionShowBytes(false),
				progressbar.OptionSetWidth(40),
				progressbar.OptionShowCount(),
				progressbar.OptionSetDescription("[cyan]Embedding[reset]"),
				progressbar.OptionOnCompletion(func() {
					fmt.Println()
				}),
			)
		}
		bar.Set(processed)
	}

	builder := usecase.NewBuildUseCase(embedder)
	result, err := builder.Build(scan.Policies, usecase.BuildOptions{
		IncludeDocs: includeDocs,
		DocsDir:     cfg.DocsPath(path),
		Progress:    progress,
	})
	if err != nil {
		return fmt.Errorf("build failed: %w", err)
	}

	st := store.NewIndexStore(config.IndexFilePath(path))
	if err := st.Persist(result.Index); err != nil {
		return fmt.Errorf("failed to persist index: %w", err)
	}
	st.SetIndex(result.Index)

	fmt.Printf("\nBuild complete:\n")
	fmt.Printf("  Model:      %s (%d dims)\n", embedder.ModelName(), embedder.Dimension())
	fmt.Printf("  Policies:   %d\n", result.Policies)
	fmt.Printf("  Events:     %d\n", result.Events)
	fmt.Printf("  Doc chunks: %d\n", result.DocChunks)

	if len(scan.Skipped) > 0 {
		fmt.Printf("\nWarnings:\n")
		for _, f := range scan.Skipped {
			fmt.Printf("  - could not parse %s\n", f)
		}
	}
	for _, f := range result.DocsSkipped {
		fmt.Printf("  - could not read %s\n", f)
	}

	fmt.Printf("\nIndex stored at: %s\n", st.Path())
	return nil
}
