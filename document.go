// FILE: lixenwraith/iniconf/document.go
package config

import (
	"bytes"
	"fmt"
	"io"
	"sort"
	"strings"

	"golang.org/x/text/cases"
)

// Element is a top-level constituent of a Document: a Section or a standalone Comment.
type Element interface {
	// Position orders serialization; it starts at the source line number.
	Position() int
	// String renders the element's own line, without pairs.
	String() string
}

// Comment is a standalone full-line comment, kept for round-trip fidelity.
type Comment struct {
	text     string
	position int
}

// Text returns the comment text without the leading ';'.
func (c *Comment) Text() string { return c.text }

// Position returns the serialization ordinal.
func (c *Comment) Position() int { return c.position }

func (c *Comment) String() string {
	if c.text == "" {
		return ";"
	}
	return "; " + c.text
}

// Pair is one key/value entry of a section. Value is stored trimmed and is never
// coerced until a typed read.
type Pair struct {
	key      string
	value    string
	comment  string
	position int
}

// Key returns the canonical (most recently written) casing of the key.
func (p *Pair) Key() string { return p.key }

// Value returns the raw string value.
func (p *Pair) Value() string { return p.value }

// Comment returns the trailing comment, if any.
func (p *Pair) Comment() string { return p.comment }

// Position returns the serialization ordinal within the owning section.
func (p *Pair) Position() int { return p.position }

func (p *Pair) String() string {
	line := p.key + " ="
	if p.value != "" {
		line += " " + p.value
	}
	if p.comment != "" {
		line += " ; " + p.comment
	}
	return line
}

// Section is a named group of pairs. Keys are unique case-insensitively.
type Section struct {
	name     string
	comment  string
	position int
	pairs    []*Pair
	index    map[string]*Pair
}

func newSection(name string) *Section {
	return &Section{
		name:  strings.TrimSpace(name),
		index: make(map[string]*Pair),
	}
}

// Name returns the section name as first written.
func (s *Section) Name() string { return s.name }

// Comment returns the header comment, if any.
func (s *Section) Comment() string { return s.comment }

// Position returns the serialization ordinal among top-level elements.
func (s *Section) Position() int { return s.position }

// Len returns the number of pairs.
func (s *Section) Len() int { return len(s.pairs) }

func (s *Section) String() string {
	if s.comment != "" {
		return "[" + s.name + "] ; " + s.comment
	}
	return "[" + s.name + "]"
}

// Pair looks up a pair by key, case-insensitively.
func (s *Section) Pair(key string) (*Pair, bool) {
	p, ok := s.index[foldName(key)]
	return p, ok
}

// Pairs returns the section's pairs ordered by Position.
func (s *Section) Pairs() []*Pair {
	out := make([]*Pair, len(s.pairs))
	copy(out, s.pairs)
	sort.SliceStable(out, func(i, j int) bool { return out[i].position < out[j].position })
	return out
}

// Keys returns the canonical keys ordered by Position.
func (s *Section) Keys() []string {
	pairs := s.Pairs()
	keys := make([]string, len(pairs))
	for i, p := range pairs {
		keys[i] = p.key
	}
	return keys
}

// mergeParsed applies a pair read from line position. An existing key takes the
// new value, key casing and position; its comment is left alone.
func (s *Section) mergeParsed(p *Pair, position int) {
	if existing, ok := s.index[foldName(p.key)]; ok {
		existing.key = p.key
		existing.value = p.value
		existing.position = position
		return
	}
	p.position = position
	s.append(p)
}

// Merge updates a pair in place or appends it after the highest position.
// A non-empty comment replaces the existing one. The key and value must form a
// pair line that parses back unchanged.
func (s *Section) Merge(key, value, comment string) (*Pair, error) {
	if strings.TrimSpace(key) == "" {
		return nil, fmt.Errorf("%w: key cannot be empty", ErrInvalidArgument)
	}
	if !ValidPair(key, value) {
		return nil, fmt.Errorf("%w: %q = %q is not a valid key-value pair", ErrInvalidArgument, key, value)
	}
	if !validComment(comment) {
		return nil, fmt.Errorf("%w: comment for key %q spans multiple lines", ErrInvalidArgument, key)
	}
	return s.merge(key, value, strings.TrimSpace(comment)), nil
}

func (s *Section) merge(key, value, comment string) *Pair {
	key = strings.TrimSpace(key)
	value = strings.TrimSpace(value)
	if existing, ok := s.index[foldName(key)]; ok {
		existing.key = key
		existing.value = value
		if comment != "" {
			existing.comment = comment
		}
		return existing
	}
	p := &Pair{key: key, value: value, comment: comment, position: s.maxPosition() + 1}
	s.append(p)
	return p
}

func (s *Section) remove(key string) bool {
	folded := foldName(key)
	p, ok := s.index[folded]
	if !ok {
		return false
	}
	delete(s.index, folded)
	for i, candidate := range s.pairs {
		if candidate == p {
			s.pairs = append(s.pairs[:i], s.pairs[i+1:]...)
			break
		}
	}
	return true
}

func (s *Section) append(p *Pair) {
	s.pairs = append(s.pairs, p)
	s.index[foldName(p.key)] = p
}

func (s *Section) maxPosition() int {
	highest := 0
	for _, p := range s.pairs {
		if p.position > highest {
			highest = p.position
		}
	}
	return highest
}

func (s *Section) clone() *Section {
	c := newSection(s.name)
	c.comment = s.comment
	c.position = s.position
	for _, p := range s.pairs {
		cp := *p
		c.append(&cp)
	}
	return c
}

// Document is the ordered in-memory model of an INI file. Sections are unique
// case-insensitively; Position drives serialization order.
type Document struct {
	defaultSection string
	elements       []Element
	sections       map[string]*Section
	dropped        []int
}

// NewDocument creates an empty document. Pairs that precede any header are
// placed in defaultSection.
func NewDocument(defaultSection string) *Document {
	return &Document{
		defaultSection: defaultSection,
		sections:       make(map[string]*Section),
	}
}

// ParseDocument builds a document from raw lines, numbering them from 1.
// Malformed lines are dropped; their numbers are kept in DroppedLines.
func ParseDocument(lines []string, defaultSection string) *Document {
	doc := NewDocument(defaultSection)
	var current *Section

	for i, line := range lines {
		position := i + 1
		if strings.TrimSpace(line) == "" {
			continue
		}

		if comment, ok := ParseComment(line); ok {
			comment.position = position
			doc.elements = append(doc.elements, comment)
			continue
		}

		if section, ok := ParseSection(line); ok {
			if existing, found := doc.Section(section.name); found {
				current = existing
				continue
			}
			section.position = position
			doc.add(section)
			current = section
			continue
		}

		if pair, ok := ParsePair(line); ok {
			if current == nil {
				current = newSection(defaultSection)
				current.position = 1
				doc.add(current)
			}
			current.mergeParsed(pair, position)
			continue
		}

		doc.dropped = append(doc.dropped, position)
	}

	return doc
}

// DefaultSection returns the name used for pairs outside any section.
func (d *Document) DefaultSection() string { return d.defaultSection }

// DroppedLines returns the 1-based numbers of the lines ParseDocument could not classify.
func (d *Document) DroppedLines() []int {
	out := make([]int, len(d.dropped))
	copy(out, d.dropped)
	return out
}

// Len returns the number of top-level elements.
func (d *Document) Len() int { return len(d.elements) }

// Section looks up a section by name, case-insensitively.
func (d *Document) Section(name string) (*Section, bool) {
	s, ok := d.sections[foldName(name)]
	return s, ok
}

// MergeSection returns the named section, creating it after the highest
// position if absent. A non-empty comment replaces the existing one.
func (d *Document) MergeSection(name, comment string) (*Section, error) {
	if strings.TrimSpace(name) == "" {
		return nil, fmt.Errorf("%w: section name cannot be empty", ErrInvalidArgument)
	}
	if !ValidSectionName(name) {
		return nil, fmt.Errorf("%w: %q is not a valid section name", ErrInvalidArgument, name)
	}
	if !validComment(comment) {
		return nil, fmt.Errorf("%w: comment for section %q spans multiple lines", ErrInvalidArgument, name)
	}
	return d.mergeSection(name, strings.TrimSpace(comment)), nil
}

func (d *Document) mergeSection(name, comment string) *Section {
	section, ok := d.Section(name)
	if !ok {
		section = newSection(name)
		section.position = d.maxPosition() + 1
		d.add(section)
	}
	if comment != "" {
		section.comment = comment
	}
	return section
}

// Elements returns the top-level elements ordered by Position. Equal positions
// keep insertion order.
func (d *Document) Elements() []Element {
	out := make([]Element, len(d.elements))
	copy(out, d.elements)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position() < out[j].Position() })
	return out
}

// Sections returns the sections ordered by Position.
func (d *Document) Sections() []*Section {
	var out []*Section
	for _, e := range d.Elements() {
		if s, ok := e.(*Section); ok {
			out = append(out, s)
		}
	}
	return out
}

// WriteTo serializes the whole document: each section header, its pairs and one
// blank separator line; standalone comments as "; text".
func (d *Document) WriteTo(w io.Writer) (int64, error) {
	var buf bytes.Buffer
	for _, e := range d.Elements() {
		buf.WriteString(e.String())
		buf.WriteByte('\n')
		section, ok := e.(*Section)
		if !ok {
			continue
		}
		for _, p := range section.Pairs() {
			buf.WriteString(p.String())
			buf.WriteByte('\n')
		}
		buf.WriteByte('\n')
	}
	return buf.WriteTo(w)
}

// String renders the document as WriteTo would.
func (d *Document) String() string {
	var sb strings.Builder
	_, _ = d.WriteTo(&sb)
	return sb.String()
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	c := NewDocument(d.defaultSection)
	c.dropped = append(c.dropped, d.dropped...)
	for _, e := range d.elements {
		switch v := e.(type) {
		case *Section:
			c.add(v.clone())
		case *Comment:
			cp := *v
			c.elements = append(c.elements, &cp)
		}
	}
	return c
}

func (d *Document) add(s *Section) {
	d.elements = append(d.elements, s)
	d.sections[foldName(s.name)] = s
}

func (d *Document) maxPosition() int {
	highest := 0
	for _, e := range d.elements {
		if e.Position() > highest {
			highest = e.Position()
		}
	}
	return highest
}

// validComment rejects comments that would break the line structure.
func validComment(comment string) bool {
	return !strings.ContainsAny(comment, "\n\r")
}

// foldName is the case-insensitive identity of section names and keys.
func foldName(s string) string {
	return cases.Fold().String(strings.TrimSpace(s))
}
