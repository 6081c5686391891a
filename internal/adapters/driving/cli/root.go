// Package cli wires the ingestion services behind a cobra command
// tree. Commands stay thin: flag parsing and wiring here, all
// behavior in the core services.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/custodia-labs/kgpipe/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

var (
	verboseFlag bool
	configFlag  string
	dataDirFlag string
)

var rootCmd = &cobra.Command{
	Use:   "kgpipe",
	Short: "Chunk documents and canonicalize entities for a knowledge graph",
	Long: `kgpipe ingests long-form HTML documents and produces the two
artifacts a knowledge-graph loader needs: a hierarchical, token-bounded
chunk tree per document, and a canonicalized, deduplicated entity set
built from extractor mentions.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verboseFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to kgpipe.toml (defaults apply when omitted)")
	rootCmd.PersistentFlags().StringVar(&dataDirFlag, "data-dir", "", "Data directory for the SQLite store (default ~/.kgpipe/data)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
