package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"vigil/config"
)

var (
	cfgFile string
	cfg     *config.Config
	rootDir string
)

var rootCmd = &cobra.Command{
	Use:   "vigil",
	Short: "Semantic search over health-monitoring policy and config assets",
	Long: `vigil indexes health-monitoring policy definitions and resource
configuration files into a lightweight semantic index, and answers
similarity queries against it offline.

Example usage:
  vigil build .             # Scan policies and build the index
  vigil search -q "disk"    # Search indexed records
  vigil events -q "cpu"     # Find health events for a phrase`,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error

		if rootDir == "" {
			rootDir, err = os.Getwd()
			if err != nil {
				return fmt.Errorf("failed to get working directory: %w", err)
			}
		}

		if cfgFile != "" {
			cfg, err = config.Load(cfgFile)
		} else {
			cfg, err = config.LoadFromDir(rootDir)
		}
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./vigil.yaml)")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "d", "", "workspace directory (default is current directory)")
}

func GetConfig() *config.Config {
	return cfg
}

func GetRootDir() string {
	return rootDir
}
