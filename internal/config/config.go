package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

const (
	DefaultPackage = "main"
	DefaultRouter  = "AppRouter"
	DefaultMethod  = "Handle"

	// UnitType is the response of rules that omit one.
	UnitType = "approuter.Unit"
)

type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// Spec is a routing table: the handlers owned by the router and the rules
// that route (source, message, response) triples to them.
type Spec struct {
	Package  string        `toml:"package" yaml:"package"`
	Router   string        `toml:"router" yaml:"router"`
	Imports  []string      `toml:"imports" yaml:"imports"`
	Handlers []HandlerDecl `toml:"handlers" yaml:"handlers"`
	Routes   []RouteRule   `toml:"routes" yaml:"routes"`
	Rules    []string      `toml:"rules" yaml:"rules"`
}

type HandlerDecl struct {
	Name string `toml:"name" yaml:"name"`
	Type string `toml:"type" yaml:"type"`
}

type RouteRule struct {
	Source    string   `toml:"source" yaml:"source"`
	Message   string   `toml:"message" yaml:"message"`
	Response  string   `toml:"response" yaml:"response"`
	Receivers []string `toml:"receivers" yaml:"receivers"`
	Name      string   `toml:"name" yaml:"name"`

	// NoSend suppresses the Send method on a local source, e.g. an interface.
	NoSend bool `toml:"no_send" yaml:"no_send"`
}

type Option func(*Spec)

// WithPackage overrides the package clause of the generated file.
func WithPackage(name string) Option {
	return func(s *Spec) {
		if strings.TrimSpace(name) != "" {
			s.Package = strings.TrimSpace(name)
		}
	}
}

// WithRouter overrides the generated router type name.
func WithRouter(name string) Option {
	return func(s *Spec) {
		if strings.TrimSpace(name) != "" {
			s.Router = strings.TrimSpace(name)
		}
	}
}

// WithDefaultPackage fills the package clause only when the table leaves it
// empty, e.g. from $GOPACKAGE under go generate.
func WithDefaultPackage(name string) Option {
	return func(s *Spec) {
		if strings.TrimSpace(s.Package) == "" {
			s.Package = strings.TrimSpace(name)
		}
	}
}

// Load reads, normalizes and validates the table at path.
func Load(path string, opts ...Option) (*Spec, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("table load failed (%s): %w", path, err)
	}
	spec, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("table parse failed (%s): %w", path, err)
	}
	for _, opt := range opts {
		opt(spec)
	}
	if err := spec.Normalize(); err != nil {
		return nil, fmt.Errorf("table %s: %w", path, err)
	}
	if err := Validate(spec); err != nil {
		return nil, fmt.Errorf("table %s: %w", path, err)
	}
	return spec, nil
}

// FormatOf picks the table format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Ext(path))
	}
}

// Parse decodes a table without normalizing it. Unknown keys are errors.
func Parse(data []byte, format Format) (*Spec, error) {
	var spec Spec
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), &spec)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, 0, len(undecoded))
			for _, key := range undecoded {
				keys = append(keys, key.String())
			}
			return nil, fmt.Errorf("unknown keys: %s", strings.Join(keys, ", "))
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(&spec); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	return &spec, nil
}

// Normalize applies defaults, folds compact rules into Routes and rewrites
// every type expression into canonical form. It is idempotent.
func (s *Spec) Normalize() error {
	s.Package = strings.TrimSpace(s.Package)
	if s.Package == "" {
		s.Package = DefaultPackage
	}
	s.Router = strings.TrimSpace(s.Router)
	if s.Router == "" {
		s.Router = DefaultRouter
	}

	for i, raw := range s.Rules {
		rule, err := ParseRule(raw)
		if err != nil {
			return fmt.Errorf("rules[%d]: %w", i, err)
		}
		s.Routes = append(s.Routes, rule)
	}
	s.Rules = nil

	for i := range s.Handlers {
		h := &s.Handlers[i]
		h.Name = strings.TrimSpace(h.Name)
		h.Type = canonicalType(h.Type)
	}
	for i := range s.Routes {
		r := &s.Routes[i]
		r.Source = canonicalType(r.Source)
		r.Message = canonicalType(r.Message)
		r.Response = canonicalType(r.Response)
		if r.Response == "" {
			r.Response = UnitType
		}
		r.Name = strings.TrimSpace(r.Name)
		for j := range r.Receivers {
			r.Receivers[j] = strings.TrimSpace(r.Receivers[j])
		}
	}
	return nil
}
