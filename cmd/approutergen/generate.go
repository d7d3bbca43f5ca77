package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/danmuck/approuter/internal/config"
	"github.com/danmuck/approuter/internal/gen"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type generateOptions struct {
	input  string
	output string
	pkg    string
	router string
	force  bool
}

func (o generateOptions) outputPath() string {
	if o.output != "" {
		return o.output
	}
	return filepath.Join(filepath.Dir(o.input), gen.DefaultOutput)
}

func (o generateOptions) load() (*config.Spec, error) {
	return config.Load(o.input,
		config.WithPackage(o.pkg),
		config.WithDefaultPackage(os.Getenv("GOPACKAGE")),
		config.WithRouter(o.router),
	)
}

func generateCmd() *cobra.Command {
	var opts generateOptions

	c := &cobra.Command{
		Use:   "generate",
		Short: "Write the router for a routing table",
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := opts.load()
			if err != nil {
				return err
			}
			return writeRouter(cmd.OutOrStdout(), spec, opts)
		},
	}

	addTableFlags(c, &opts)
	c.Flags().BoolVar(&opts.force, "force", false, "overwrite the output even if it is not a generated file")
	return c
}

func addTableFlags(c *cobra.Command, opts *generateOptions) {
	c.Flags().StringVarP(&opts.input, "input", "i", "routes.toml", "routing table (.toml, .yaml, .yml)")
	c.Flags().StringVarP(&opts.output, "output", "o", "", "output file, - for stdout (default: approuter_gen.go next to the table)")
	c.Flags().StringVar(&opts.pkg, "package", "", "package clause (default: table value, then $GOPACKAGE)")
	c.Flags().StringVar(&opts.router, "router", "", "router type name (default: table value, then AppRouter)")
}

func writeRouter(stdout io.Writer, spec *config.Spec, opts generateOptions) error {
	target := opts.outputPath()
	src, err := gen.Generate(spec, gen.Options{
		Source:   filepath.Base(opts.input),
		Filename: target,
	})
	if err != nil {
		return err
	}
	if opts.output == "-" {
		_, err := stdout.Write(src)
		return err
	}
	if err := gen.WriteFile(target, src, opts.force); err != nil {
		return err
	}
	log.Info().
		Str("table", opts.input).
		Str("output", target).
		Str("router", spec.Router).
		Int("routes", len(spec.Routes)).
		Msg("router written")
	return nil
}

func validateCmd() *cobra.Command {
	var opts generateOptions

	c := &cobra.Command{
		Use:   "validate",
		Short: "Check a routing table without writing anything",
		RunE: func(cmd *cobra.Command, _ []string) error {
			spec, err := opts.load()
			if err != nil {
				return err
			}
			// Generating catches name collisions the table check cannot see.
			if _, err := gen.Generate(spec, gen.Options{Source: filepath.Base(opts.input)}); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "OK")
			return nil
		},
	}

	c.Flags().StringVarP(&opts.input, "input", "i", "routes.toml", "routing table (.toml, .yaml, .yml)")
	c.Flags().StringVar(&opts.pkg, "package", "", "package clause override")
	c.Flags().StringVar(&opts.router, "router", "", "router type name override")
	return c
}
