package gen

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/danmuck/approuter/internal/config"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/tools/imports"
)

// Header marks files written by the generator.
const Header = "// Code generated by approutergen. DO NOT EDIT."

const DefaultOutput = "approuter_gen.go"

type Options struct {
	// Source is the table path recorded in the file header.
	Source string
	// Filename is used when formatting; defaults to DefaultOutput.
	Filename string
	Logger   *zerolog.Logger
}

var routerTemplate = template.Must(template.New("router").Parse(routerSource))

// Generate renders the router described by spec. spec must be normalized.
func Generate(spec *config.Spec, opts Options) ([]byte, error) {
	logger := log.Logger
	if opts.Logger != nil {
		logger = *opts.Logger
	}
	if err := config.Validate(spec); err != nil {
		return nil, err
	}
	view, err := buildView(spec, filepath.ToSlash(opts.Source))
	if err != nil {
		return nil, err
	}

	var buf bytes.Buffer
	if err := routerTemplate.Execute(&buf, view); err != nil {
		return nil, fmt.Errorf("gen: render %s: %w", spec.Router, err)
	}

	filename := opts.Filename
	if filename == "" {
		filename = DefaultOutput
	}
	src, err := imports.Process(filename, buf.Bytes(), &imports.Options{
		Comments:  true,
		TabIndent: true,
		TabWidth:  8,
	})
	if err != nil {
		return nil, fmt.Errorf("gen: format %s: %w", filename, err)
	}

	logger.Debug().
		Str("router", spec.Router).
		Str("package", spec.Package).
		Int("handlers", len(view.Fields)).
		Int("routes", len(view.Routes)).
		Msg("router generated")
	return src, nil
}

// IsGenerated reports whether data carries the generator header.
func IsGenerated(data []byte) bool {
	return bytes.HasPrefix(data, []byte(Header)) || bytes.Contains(data, []byte("\n"+Header+"\n"))
}

// WriteFile writes src to path. An existing file is only replaced when it was
// generated or overwrite is set.
func WriteFile(path string, src []byte, overwrite bool) error {
	if !overwrite {
		existing, err := os.ReadFile(path)
		if err == nil && !IsGenerated(existing) {
			return fmt.Errorf("%w: %s", ErrNotGenerated, path)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, src, 0o644)
}
