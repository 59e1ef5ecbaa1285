// FILE: lixenwraith/iniconf/config.go
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// DefaultSectionName holds pairs that appear before any section header.
const DefaultSectionName = "General"

// Options configures a Config instance.
type Options struct {
	// Path is the INI file used by Parse and Save; may be empty
	Path string
	// DefaultSection receives pairs that precede any header; a single word
	DefaultSection string
	// CultureTag is a BCP 47 tag for number formatting; empty means invariant
	CultureTag string
	// MaxFileSize caps how many bytes are read from a file; 0 disables the cap
	MaxFileSize int64
	// Logger receives debug and warning events; nil disables logging
	Logger *zerolog.Logger
}

// DefaultOptions returns the options used by New.
func DefaultOptions() Options {
	return Options{
		DefaultSection: DefaultSectionName,
	}
}

// Config manages one INI document bound to an optional file path.
type Config struct {
	path           string
	defaultSection string
	maxFileSize    int64
	doc            *Document
	conv           *Converter
	logger         zerolog.Logger
	mutex          sync.RWMutex // Protects concurrent access
}

// New creates a Config with DefaultOptions and an empty document.
func New() *Config {
	cfg, _ := NewWithOptions(DefaultOptions())
	return cfg
}

// NewWithOptions creates a Config with an empty document. It rejects an invalid
// default section name or culture tag.
func NewWithOptions(opts Options) (*Config, error) {
	if strings.TrimSpace(opts.DefaultSection) == "" {
		opts.DefaultSection = DefaultSectionName
	}
	if !validDefaultSection(opts.DefaultSection) {
		return nil, fmt.Errorf("%w: %q is not a valid default section name", ErrInvalidArgument, opts.DefaultSection)
	}
	if opts.MaxFileSize < 0 {
		return nil, fmt.Errorf("%w: negative max file size %d", ErrInvalidArgument, opts.MaxFileSize)
	}

	culture, err := LookupCulture(opts.CultureTag)
	if err != nil {
		return nil, err
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = opts.Logger.With().Str("component", "iniconf").Logger()
	}

	defaultSection := strings.TrimSpace(opts.DefaultSection)
	return &Config{
		path:           strings.TrimSpace(opts.Path),
		defaultSection: defaultSection,
		maxFileSize:    opts.MaxFileSize,
		doc:            NewDocument(defaultSection),
		conv:           NewConverter(culture),
		logger:         logger,
	}, nil
}

// Path returns the bound file path.
func (c *Config) Path() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.path
}

// SetPath rebinds the file used by Parse and Save.
func (c *Config) SetPath(path string) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.path = strings.TrimSpace(path)
}

// DefaultSection returns the section used for keys given without a section.
func (c *Config) DefaultSection() string {
	return c.defaultSection
}

// Culture returns the number formatting culture.
func (c *Config) Culture() Culture {
	return c.conv.Culture()
}

// Document returns a deep copy of the current document.
func (c *Config) Document() *Document {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.doc.Clone()
}

// Sections returns the section names in serialization order.
func (c *Config) Sections() []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	sections := c.doc.Sections()
	names := make([]string, len(sections))
	for i, s := range sections {
		names[i] = s.name
	}
	return names
}

// Keys returns the keys of section in serialization order, or nil when the
// section does not exist.
func (c *Config) Keys(section string) []string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	s, ok := c.doc.Section(section)
	if !ok {
		return nil
	}
	return s.Keys()
}

// Value returns the raw stored string for section/key.
func (c *Config) Value(section, key string) (string, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return c.lookup(section, key)
}

// Has reports whether section/key exists.
func (c *Config) Has(section, key string) bool {
	_, ok := c.Value(section, key)
	return ok
}

// Set stores value under section/key, creating the section when needed. The
// value is formatted with the Config's culture. Arguments are validated before
// the document is touched; a non-empty comment replaces the existing one.
func (c *Config) Set(section, key string, value any, comment ...string) error {
	if err := requireNames(section, key); err != nil {
		return err
	}
	if value == nil {
		return fmt.Errorf("%w: value for %s.%s cannot be nil", ErrInvalidArgument, section, key)
	}

	formatted, err := c.conv.Format(value)
	if err != nil {
		return fmt.Errorf("failed to format value for %s.%s: %w", section, key, err)
	}
	return c.setRaw(section, key, formatted, strings.Join(comment, " "))
}

// SetKey is Set on the default section.
func (c *Config) SetKey(key string, value any, comment ...string) error {
	return c.Set(c.defaultSection, key, value, comment...)
}

// Unset removes section/key. It reports whether the pair existed.
func (c *Config) Unset(section, key string) bool {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	s, ok := c.doc.Section(section)
	if !ok {
		return false
	}
	removed := s.remove(key)
	if removed {
		c.logger.Debug().Str("section", section).Str("key", key).Msg("Removed pair")
	}
	return removed
}

// setRaw validates and merges an already formatted value.
func (c *Config) setRaw(section, key, value, comment string) error {
	if !ValidSectionName(section) {
		return fmt.Errorf("%w: %q is not a valid section name", ErrInvalidArgument, section)
	}
	if !ValidPair(key, value) {
		return fmt.Errorf("%w: %q = %q is not a valid key-value pair", ErrInvalidArgument, key, value)
	}
	if !validComment(comment) {
		return fmt.Errorf("%w: comment for %s.%s spans multiple lines", ErrInvalidArgument, section, key)
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()

	c.doc.mergeSection(section, "").merge(key, value, strings.TrimSpace(comment))
	return nil
}

// lookup must be called with the mutex held.
func (c *Config) lookup(section, key string) (string, bool) {
	s, ok := c.doc.Section(section)
	if !ok {
		return "", false
	}
	p, ok := s.Pair(key)
	if !ok {
		return "", false
	}
	return p.value, true
}

func requireNames(section, key string) error {
	if strings.TrimSpace(section) == "" {
		return fmt.Errorf("%w: section cannot be empty", ErrInvalidArgument)
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("%w: key cannot be empty", ErrInvalidArgument)
	}
	return nil
}
