// Command defprof reconciles defence-system predictions from two annotation
// tools and a bidirectional similarity search into per-genome consensus
// profiles, and extracts unresolved patterns for manual curation.
package main

import (
	"log"
	"os"

	"github.com/spf13/cobra"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:           "defprof",
	Short:         "Build defence-system consensus profiles from raw tool outputs",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	log.SetFlags(0)
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "defprof.yaml", "optional YAML config file")
	rootCmd.AddCommand(profileCmd)
	rootCmd.AddCommand(patternsCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("ERROR: %v", err)
		os.Exit(1)
	}
}
