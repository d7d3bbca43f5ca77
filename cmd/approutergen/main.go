package main

import (
	"os"

	"github.com/danmuck/approuter/internal/logging"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var debug bool

	cmd := &cobra.Command{
		Use:          "approutergen",
		Short:        "Generate statically routed AppRouter types from a routing table",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			logging.ConfigureRuntime()
			logging.SetDebug(debug)
		},
	}

	cmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	cmd.AddCommand(generateCmd(), validateCmd(), initCmd(), watchCmd())
	return cmd
}
