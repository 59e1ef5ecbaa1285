// FILE: lixenwraith/iniconf/line.go
package config

import (
	"regexp"
	"strings"
)

// LineKind classifies a single raw line of an INI document.
type LineKind int

const (
	// LineBlank is an empty or whitespace-only line
	LineBlank LineKind = iota
	// LineComment is a standalone full-line comment starting with ';'
	LineComment
	// LineSection is a section header, e.g. "[mailer] ; comment"
	LineSection
	// LinePair is a key/value pair, e.g. "sender = MailKit ; comment"
	LinePair
	// LineInvalid is a non-blank line matching no rule; it is dropped during parsing
	LineInvalid
)

// String returns the lowercase name of the line kind.
func (k LineKind) String() string {
	switch k {
	case LineBlank:
		return "blank"
	case LineComment:
		return "comment"
	case LineSection:
		return "section"
	case LinePair:
		return "pair"
	default:
		return "invalid"
	}
}

// Names and keys share one charset: ASCII letters, digits, underscore and space.
// The pair rule is deliberately not anchored at the end: the value stops at the
// first ';' and whatever follows is the trailing comment.
var (
	sectionPattern = regexp.MustCompile(`^\s*\[\s*([A-Za-z0-9_ ]+)\s*\]\s*(?:;\s*(.*))?$`)
	pairPattern    = regexp.MustCompile(`^\s*([A-Za-z0-9_ ]+)\s*=\s*([^;\n]*)(?:;\s*(.*))?`)
	commentPattern = regexp.MustCompile(`^\s*;\s*(.*)`)
	defaultPattern = regexp.MustCompile(`^\w+$`)
)

// ParseComment reports whether line is a standalone comment and returns it.
// The comment text is everything after the first ';', trimmed.
func ParseComment(line string) (*Comment, bool) {
	if strings.TrimSpace(line) == "" {
		return nil, false
	}
	m := commentPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	return &Comment{text: strings.TrimSpace(m[1])}, true
}

// ParseSection reports whether line is a section header and returns the section.
// An empty name, an unterminated bracket or a ';' inside the brackets fail to match.
func ParseSection(line string) (*Section, bool) {
	if line == "" {
		return nil, false
	}
	m := sectionPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	name := strings.TrimSpace(m[1])
	if name == "" {
		return nil, false
	}
	section := newSection(name)
	section.comment = strings.TrimSpace(m[2])
	return section, true
}

// ParsePair reports whether line is a key/value pair and returns the pair.
// Key and value are trimmed; there is no escape for ';' inside a value.
func ParsePair(line string) (*Pair, bool) {
	if line == "" {
		return nil, false
	}
	m := pairPattern.FindStringSubmatch(line)
	if m == nil {
		return nil, false
	}
	key := strings.TrimSpace(m[1])
	if key == "" {
		return nil, false
	}
	return &Pair{
		key:     key,
		value:   strings.TrimSpace(m[2]),
		comment: strings.TrimSpace(m[3]),
	}, true
}

// ClassifyLine applies the line rules in precedence order: comment, section, pair.
func ClassifyLine(line string) LineKind {
	if strings.TrimSpace(line) == "" {
		return LineBlank
	}
	if _, ok := ParseComment(line); ok {
		return LineComment
	}
	if _, ok := ParseSection(line); ok {
		return LineSection
	}
	if _, ok := ParsePair(line); ok {
		return LinePair
	}
	return LineInvalid
}

// ValidSectionName reports whether name can be written as a section header
// that parses back to the same (trimmed) name.
func ValidSectionName(name string) bool {
	section, ok := ParseSection("[" + name + "]")
	return ok && section.name == strings.TrimSpace(name) && section.comment == ""
}

// ValidPair reports whether "{key} = {value}" is a pair line that parses back
// to exactly the trimmed key and value, with no trailing comment.
func ValidPair(key, value string) bool {
	if strings.ContainsAny(value, "\n\r") {
		return false
	}
	pair, ok := ParsePair(key + " = " + value)
	if !ok {
		return false
	}
	return pair.key == strings.TrimSpace(key) &&
		pair.value == strings.TrimSpace(value) &&
		pair.comment == "" &&
		!strings.Contains(value, ";")
}

// validDefaultSection checks the stricter rule for the implicit section name:
// a single word of letters, digits and underscores.
func validDefaultSection(name string) bool {
	return defaultPattern.MatchString(strings.TrimSpace(name))
}
