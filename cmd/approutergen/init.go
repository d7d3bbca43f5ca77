package main

import (
	"path/filepath"
	"strings"

	"github.com/danmuck/approuter/internal/config"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

func initCmd() *cobra.Command {
	var output string
	var format string
	var force bool

	c := &cobra.Command{
		Use:   "init",
		Short: "Write a starter routing table",
		RunE: func(_ *cobra.Command, _ []string) error {
			if format == "" {
				format = strings.TrimPrefix(filepath.Ext(output), ".")
			}
			if err := config.WriteTemplate(output, format, force); err != nil {
				return err
			}
			log.Info().Str("output", output).Str("format", format).Msg("routing table template written")
			return nil
		},
	}

	c.Flags().StringVarP(&output, "output", "o", "routes.toml", "path of the new routing table")
	c.Flags().StringVar(&format, "format", "", "toml or yaml (default: from the output extension)")
	c.Flags().BoolVar(&force, "force", false, "overwrite an existing table")
	return c
}
