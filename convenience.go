// File: lixenwraith/iniconf/convenience.go
package config

import (
	"errors"
	"fmt"
	"strings"
)

// Quick creates a Config bound to path and parses it with a single call.
// A missing file yields an empty Config together with ErrConfigNotFound.
func Quick(path string) (*Config, error) {
	opts := DefaultOptions()
	opts.Path = path

	cfg, err := NewWithOptions(opts)
	if err != nil {
		return nil, err
	}
	return cfg, cfg.Parse()
}

// MustQuick is like Quick but panics on error. A missing file is not an error.
func MustQuick(path string) *Config {
	cfg, err := Quick(path)
	if err != nil && !errors.Is(err, ErrConfigNotFound) {
		panic(fmt.Sprintf("config initialization failed: %v", err))
	}
	return cfg
}

// Validate checks that every required "section.key" path holds a non-empty
// value. A path without a dot refers to the default section.
func (c *Config) Validate(required ...string) error {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var missing []string

	for _, path := range required {
		section, key := c.splitPath(path)
		value, exists := c.lookup(section, key)
		if !exists {
			missing = append(missing, path+" (not set)")
			continue
		}
		if value == "" {
			missing = append(missing, path)
		}
	}

	if len(missing) > 0 {
		return fmt.Errorf("missing required configuration: %s", strings.Join(missing, ", "))
	}

	return nil
}

// Debug returns a formatted string showing every section, pair and comment
// in serialization order
func (c *Config) Debug() string {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	var b strings.Builder
	b.WriteString("Configuration Debug Info:\n")
	b.WriteString(fmt.Sprintf("Path: %q\n", c.path))
	b.WriteString(fmt.Sprintf("Default section: %s\n", c.defaultSection))
	b.WriteString(fmt.Sprintf("Culture: %q\n", c.conv.Culture().Name))
	if dropped := c.doc.DroppedLines(); len(dropped) > 0 {
		b.WriteString(fmt.Sprintf("Dropped lines: %v\n", dropped))
	}
	b.WriteString("Current values:\n")

	for _, e := range c.doc.Elements() {
		switch v := e.(type) {
		case *Comment:
			b.WriteString(fmt.Sprintf("  #%d comment: %q\n", v.position, v.text))
		case *Section:
			b.WriteString(fmt.Sprintf("  #%d [%s]", v.position, v.name))
			if v.comment != "" {
				b.WriteString(fmt.Sprintf(" comment=%q", v.comment))
			}
			b.WriteString("\n")
			for _, p := range v.Pairs() {
				b.WriteString(fmt.Sprintf("    #%d %s: %q", p.position, p.key, p.value))
				if p.comment != "" {
					b.WriteString(fmt.Sprintf(" comment=%q", p.comment))
				}
				b.WriteString("\n")
			}
		}
	}

	return b.String()
}

// Clone creates a deep copy of the configuration
func (c *Config) Clone() *Config {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	return &Config{
		path:           c.path,
		defaultSection: c.defaultSection,
		maxFileSize:    c.maxFileSize,
		doc:            c.doc.Clone(),
		conv:           c.conv,
		logger:         c.logger,
	}
}

// splitPath resolves "section.key"; a bare key uses the default section.
func (c *Config) splitPath(path string) (string, string) {
	if i := strings.LastIndex(path, "."); i >= 0 {
		return path[:i], path[i+1:]
	}
	return c.defaultSection, path
}
