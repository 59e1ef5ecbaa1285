// FILE: lixenwraith/iniconf/export.go
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Supported interchange formats.
const (
	FormatINI  = "ini"
	FormatTOML = "toml"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Export writes the document in format. Sections become tables (TOML),
// objects (JSON) or mappings (YAML) and every value is exported as its raw
// string. YAML keeps document order and comments; TOML and JSON sort keys.
func (c *Config) Export(w io.Writer, format string) error {
	c.mutex.RLock()
	doc := c.doc.Clone()
	c.mutex.RUnlock()

	switch strings.ToLower(strings.TrimSpace(format)) {
	case FormatINI:
		if _, err := doc.WriteTo(w); err != nil {
			return fmt.Errorf("%w: %w", ErrWrite, err)
		}
	case FormatTOML:
		if err := toml.NewEncoder(w).Encode(sectionMaps(doc)); err != nil {
			return fmt.Errorf("failed to marshal config data to TOML: %w", err)
		}
	case FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")
		if err := encoder.Encode(sectionMaps(doc)); err != nil {
			return fmt.Errorf("failed to marshal config data to JSON: %w", err)
		}
	case FormatYAML:
		encoder := yaml.NewEncoder(w)
		encoder.SetIndent(2)
		if err := encoder.Encode(yamlNode(doc)); err != nil {
			return fmt.Errorf("failed to marshal config data to YAML: %w", err)
		}
		if err := encoder.Close(); err != nil {
			return fmt.Errorf("failed to marshal config data to YAML: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
	return nil
}

// ExportFile writes the document to path atomically. An empty format is
// detected from the file extension.
func (c *Config) ExportFile(path, format string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%w: file path cannot be empty", ErrInvalidArgument)
	}
	if format == "" {
		format = detectFileFormat(path)
		if format == "" {
			return fmt.Errorf("%w: cannot detect format of '%s'", ErrUnknownFormat, filepath.Base(path))
		}
	}

	var buf bytes.Buffer
	if err := c.Export(&buf, format); err != nil {
		return err
	}
	if err := atomicWriteFile(path, buf.Bytes()); err != nil {
		return err
	}

	c.logger.Debug().Str("path", path).Str("format", format).Msg("Exported configuration")
	return nil
}

// sectionMaps flattens the document into section -> key -> raw value.
func sectionMaps(doc *Document) map[string]map[string]string {
	out := make(map[string]map[string]string, len(doc.sections))
	for _, s := range doc.Sections() {
		values := make(map[string]string, s.Len())
		for _, p := range s.Pairs() {
			values[p.key] = p.value
		}
		out[s.name] = values
	}
	return out
}

// yamlNode builds an ordered mapping node carrying section and pair comments.
func yamlNode(doc *Document) *yaml.Node {
	root := &yaml.Node{Kind: yaml.MappingNode}
	for _, s := range doc.Sections() {
		body := &yaml.Node{Kind: yaml.MappingNode}
		for _, p := range s.Pairs() {
			body.Content = append(body.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Value: p.key},
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: p.value, LineComment: yamlComment(p.comment)},
			)
		}
		root.Content = append(root.Content,
			&yaml.Node{Kind: yaml.ScalarNode, Value: s.name, HeadComment: yamlComment(s.comment)},
			body,
		)
	}
	return &yaml.Node{Kind: yaml.DocumentNode, Content: []*yaml.Node{root}}
}

func yamlComment(text string) string {
	if text == "" {
		return ""
	}
	return "# " + text
}

// detectFileFormat determines format from file extension
func detectFileFormat(path string) string {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case ".ini", ".cfg", ".conf":
		return FormatINI
	case ".toml", ".tml":
		return FormatTOML
	case ".json":
		return FormatJSON
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return ""
	}
}
