package main

import (
	"os/signal"
	"syscall"

	"github.com/danmuck/approuter/internal/config"
	"github.com/danmuck/approuter/internal/watch"
	"github.com/spf13/cobra"
)

func watchCmd() *cobra.Command {
	var opts generateOptions

	c := &cobra.Command{
		Use:   "watch",
		Short: "Regenerate the router whenever the routing table changes",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			w := watch.New(opts.input, func(string) (*config.Spec, error) {
				return opts.load()
			}, func(spec *config.Spec) error {
				return writeRouter(cmd.OutOrStdout(), spec, opts)
			})
			return w.Run(ctx)
		},
	}

	addTableFlags(c, &opts)
	c.Flags().BoolVar(&opts.force, "force", false, "overwrite the output even if it is not a generated file")
	return c
}
