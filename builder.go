// File: lixenwraith/iniconf/builder.go
package config

import (
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog"
)

// ValidatorFunc defines the signature for a function that can validate a Config instance.
// It receives the fully parsed *Config object and should return an error if validation fails.
type ValidatorFunc func(c *Config) error

// Builder provides a fluent interface for building configurations
type Builder struct {
	opts       Options
	args       []string
	imports    []string
	discovered Discovery
	err        error
	validators []ValidatorFunc
}

// NewBuilder creates a new configuration builder
func NewBuilder() *Builder {
	return &Builder{
		opts:       DefaultOptions(),
		args:       os.Args[1:],
		validators: make([]ValidatorFunc, 0),
	}
}

// WithFile sets the INI file path
func (b *Builder) WithFile(path string) *Builder {
	b.opts.Path = path
	b.discovered = Discovery{}
	return b
}

// WithDefaultSection sets the section used for pairs outside any header
func (b *Builder) WithDefaultSection(name string) *Builder {
	if !validDefaultSection(name) {
		b.err = fmt.Errorf("%w: %q is not a valid default section name", ErrInvalidArgument, name)
		return b
	}
	b.opts.DefaultSection = name
	return b
}

// WithCulture sets the BCP 47 tag used for number formatting
func (b *Builder) WithCulture(tag string) *Builder {
	if _, err := LookupCulture(tag); err != nil {
		b.err = err
		return b
	}
	b.opts.CultureTag = tag
	return b
}

// WithMaxFileSize caps how many bytes are read from configuration files
func (b *Builder) WithMaxFileSize(size int64) *Builder {
	b.opts.MaxFileSize = size
	return b
}

// WithLogger sets the logger for parse and write events
func (b *Builder) WithLogger(logger zerolog.Logger) *Builder {
	b.opts.Logger = &logger
	return b
}

// WithArgs sets the command-line arguments searched by WithFileDiscovery
func (b *Builder) WithArgs(args []string) *Builder {
	b.args = args
	return b
}

// WithImport merges a TOML, JSON, YAML or INI file over the parsed document.
// Imports are applied in the order they are added.
func (b *Builder) WithImport(path string) *Builder {
	b.imports = append(b.imports, path)
	return b
}

// WithValidator adds a validation function that runs at the end of the build process
// Multiple validators can be added and are executed in the order they are added
func (b *Builder) WithValidator(fn ValidatorFunc) *Builder {
	if fn != nil {
		b.validators = append(b.validators, fn)
	}
	return b
}

// Build creates the Config instance with all specified options
func (b *Builder) Build() (*Config, error) {
	if b.err != nil {
		return nil, b.err
	}

	cfg, err := NewWithOptions(b.opts)
	if err != nil {
		return nil, err
	}

	if b.discovered.Source != DiscoveredNone {
		cfg.logger.Debug().
			Str("path", b.discovered.Path).
			Stringer("source", b.discovered.Source).
			Msg("Discovered configuration file")
	}

	// Parse configuration
	var loadErr error
	if cfg.Path() != "" {
		loadErr = cfg.Parse()
		if loadErr != nil && !errors.Is(loadErr, ErrConfigNotFound) {
			// Return on fatal parse errors. ErrConfigNotFound is not fatal.
			return nil, loadErr
		}
	}

	for _, path := range b.imports {
		if err := cfg.Import(path); err != nil {
			return nil, err
		}
	}

	// Run validators
	for _, validator := range b.validators {
		if err := validator(cfg); err != nil {
			return nil, fmt.Errorf("configuration validation failed: %w", err)
		}
	}

	// ErrConfigNotFound or nil
	return cfg, loadErr
}

// MustBuild is like Build but panics on error
func (b *Builder) MustBuild() *Config {
	cfg, err := b.Build()
	if err != nil {
		// Ignore ErrConfigNotFound as it is not a fatal error for MustBuild.
		// The application can proceed with an empty document.
		if !errors.Is(err, ErrConfigNotFound) {
			panic(fmt.Sprintf("config build failed: %v", err))
		}
	}
	return cfg
}

// BuildAndScan builds and decodes section into the provided target struct pointer
func (b *Builder) BuildAndScan(section string, target any) error {
	cfg, err := b.Build()
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		return err
	}

	if err := cfg.Scan(section, target); err != nil {
		return fmt.Errorf("failed to scan final config into target: %w", err)
	}

	// ErrConfigNotFound or nil
	return err
}
