// FILE: lixenwraith/iniconf/import.go
package config

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// Import merges the values of a TOML, JSON, YAML or INI file into the document.
// The format comes from the extension, falling back to content detection.
func (c *Config) Import(path string) error {
	path = strings.TrimSpace(path)
	if path == "" {
		return fmt.Errorf("%w: file path cannot be empty", ErrInvalidArgument)
	}

	fileInfo, err := os.Stat(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return fmt.Errorf("failed to stat import file '%s': %w", path, err)
	}
	if c.maxFileSize > 0 && fileInfo.Size() > c.maxFileSize {
		return fmt.Errorf("import file '%s' exceeds maximum size %d bytes", path, c.maxFileSize)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read import file '%s': %w", path, err)
	}

	format := detectFileFormat(path)
	if format == "" {
		format = detectFormatFromContent(data)
	}
	if format == "" {
		return fmt.Errorf("%w: unable to determine format of '%s'", ErrUnknownFormat, path)
	}

	if err := c.ImportBytes(data, format); err != nil {
		return fmt.Errorf("failed to import '%s': %w", path, err)
	}
	return nil
}

// ImportBytes merges data in format into the document. Top-level scalars go to
// the default section and one-level tables become sections; deeper nesting and
// arrays are skipped. Every name and value is validated before the document
// is touched.
func (c *Config) ImportBytes(data []byte, format string) error {
	if strings.EqualFold(format, FormatINI) {
		return c.importDocument(ParseDocument(splitLines(string(data)), c.defaultSection))
	}

	tree := make(map[string]any)
	switch strings.ToLower(format) {
	case FormatTOML:
		if err := toml.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("failed to parse TOML: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(data))
		decoder.UseNumber() // Preserve number precision
		if err := decoder.Decode(&tree); err != nil {
			return fmt.Errorf("failed to parse JSON: %w", err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &tree); err != nil {
			return fmt.Errorf("failed to parse YAML: %w", err)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}

	doc := NewDocument(c.defaultSection)
	var errs []error
	for _, name := range sortedKeys(tree) {
		switch v := tree[name].(type) {
		case map[string]any:
			if !ValidSectionName(name) {
				errs = append(errs, fmt.Errorf("%w: %q is not a valid section name", ErrInvalidArgument, name))
				continue
			}
			section := doc.mergeSection(name, "")
			for _, key := range sortedKeys(v) {
				c.importValue(section, key, v[key], &errs)
			}
		default:
			c.importValue(doc.mergeSection(c.defaultSection, ""), name, v, &errs)
		}
	}
	if len(errs) > 0 {
		return errors.Join(errs...)
	}
	return c.importDocument(doc)
}

// importValue stages one scalar into section, skipping nested values.
func (c *Config) importValue(section *Section, key string, value any, errs *[]error) {
	str, ok := c.scalarString(value)
	if !ok {
		c.logger.Warn().Str("section", section.name).Str("key", key).Msgf("Skipping non-scalar value of type %T", value)
		return
	}
	if !ValidPair(key, str) {
		*errs = append(*errs, fmt.Errorf("%w: %q = %q is not a valid key-value pair", ErrInvalidArgument, key, str))
		return
	}
	section.merge(key, str, "")
}

// importDocument merges a staged document into the live one.
func (c *Config) importDocument(staged *Document) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	pairs := 0
	for _, s := range staged.Sections() {
		target := c.doc.mergeSection(s.name, s.comment)
		for _, p := range s.Pairs() {
			target.merge(p.key, p.value, p.comment)
			pairs++
		}
	}

	c.logger.Debug().Int("sections", len(staged.sections)).Int("pairs", pairs).Msg("Imported configuration")
	return nil
}

// scalarString renders decoded scalars the way Set would store them.
func (c *Config) scalarString(value any) (string, bool) {
	switch v := value.(type) {
	case nil:
		return "", true
	case string:
		return strings.TrimSpace(v), true
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return strconv.FormatInt(n, 10), true
		}
		if f, err := v.Float64(); err == nil {
			s, _ := c.conv.Format(f)
			return s, true
		}
		return v.String(), true
	case int64:
		return strconv.FormatInt(v, 10), true
	case uint64:
		return strconv.FormatUint(v, 10), true
	case bool, int, float64:
		s, err := c.conv.Format(v)
		return s, err == nil
	}
	return "", false
}

// detectFormatFromContent attempts to detect format by parsing
func detectFormatFromContent(data []byte) string {
	// Try JSON first (strict format)
	var jsonTest any
	if err := json.Unmarshal(data, &jsonTest); err == nil {
		return FormatJSON
	}

	// Try TOML before YAML, since INI-like tables are not valid YAML mappings
	var tomlTest map[string]any
	if err := toml.Unmarshal(data, &tomlTest); err == nil {
		return FormatTOML
	}

	if looksLikeINI(data) {
		return FormatINI
	}

	// YAML accepts almost any text, so it is tried last
	var yamlTest map[string]any
	if err := yaml.Unmarshal(data, &yamlTest); err == nil {
		return FormatYAML
	}

	return ""
}

// looksLikeINI reports whether every non-blank line is a valid INI line and at
// least one of them is a section or a pair.
func looksLikeINI(data []byte) bool {
	content := false
	for _, line := range splitLines(string(data)) {
		switch ClassifyLine(line) {
		case LineInvalid:
			return false
		case LineSection, LinePair:
			content = true
		}
	}
	return content
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
