// FILE: lixenwraith/iniconf/culture.go
package config

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
)

// Culture holds the number formatting conventions used when converting values.
type Culture struct {
	// Name is the canonical BCP 47 tag; empty for the invariant culture
	Name string
	// DecimalSeparator separates integral and fractional digits
	DecimalSeparator string
	// GroupSeparator separates thousands; it is stripped before numeric parsing
	GroupSeparator string
}

// InvariantCulture uses '.' for decimals and ',' for thousands.
var InvariantCulture = Culture{
	DecimalSeparator: ".",
	GroupSeparator:   ",",
}

// Languages writing decimals with a comma, mapped to their thousands separator.
var commaDecimalGroups = map[language.Base]string{
	language.MustParseBase("de"): ".",
	language.MustParseBase("es"): ".",
	language.MustParseBase("it"): ".",
	language.MustParseBase("nl"): ".",
	language.MustParseBase("pt"): ".",
	language.MustParseBase("id"): ".",
	language.MustParseBase("tr"): ".",
	language.MustParseBase("da"): ".",
	language.MustParseBase("el"): ".",
	language.MustParseBase("fr"): " ",
	language.MustParseBase("ru"): " ",
	language.MustParseBase("uk"): " ",
	language.MustParseBase("pl"): " ",
	language.MustParseBase("cs"): " ",
	language.MustParseBase("sv"): " ",
	language.MustParseBase("fi"): " ",
	language.MustParseBase("nb"): " ",
}

// LookupCulture resolves a BCP 47 tag such as "en-US" or "de-DE".
// An empty tag yields InvariantCulture.
func LookupCulture(tag string) (Culture, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" {
		return InvariantCulture, nil
	}

	t, err := language.Parse(tag)
	if err != nil {
		return Culture{}, fmt.Errorf("%w %q: %w", ErrUnknownCulture, tag, err)
	}

	culture := Culture{
		Name:             t.String(),
		DecimalSeparator: InvariantCulture.DecimalSeparator,
		GroupSeparator:   InvariantCulture.GroupSeparator,
	}
	base, _ := t.Base()
	if group, ok := commaDecimalGroups[base]; ok {
		culture.DecimalSeparator = ","
		culture.GroupSeparator = group
	}
	return culture, nil
}

// MustLookupCulture is like LookupCulture but panics on error.
func MustLookupCulture(tag string) Culture {
	c, err := LookupCulture(tag)
	if err != nil {
		panic(err)
	}
	return c
}

// stripGroups removes thousands separators.
func (c Culture) stripGroups(s string) string {
	if c.GroupSeparator == "" {
		return s
	}
	return strings.ReplaceAll(s, c.GroupSeparator, "")
}

// normalize turns a culture-formatted number into the '.'-decimal form the
// parsers expect. A '.' is rejected when it is not this culture's separator.
func (c Culture) normalize(s string) (string, bool) {
	s = c.stripGroups(s)
	sep := c.decimalSeparator()
	if sep == "." {
		return s, true
	}
	if strings.Contains(s, ".") {
		return "", false
	}
	return strings.ReplaceAll(s, sep, "."), true
}

// localize rewrites a '.'-decimal number with this culture's separator.
func (c Culture) localize(s string) string {
	sep := c.decimalSeparator()
	if sep == "." {
		return s
	}
	return strings.ReplaceAll(s, ".", sep)
}

func (c Culture) decimalSeparator() string {
	if c.DecimalSeparator == "" {
		return "."
	}
	return c.DecimalSeparator
}
