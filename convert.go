// FILE: lixenwraith/iniconf/convert.go
package config

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Kind enumerates the value kinds the conversion engine supports.
type Kind uint8

const (
	// KindUnsupported marks any type outside the closed set below
	KindUnsupported Kind = iota
	KindBool
	KindInt
	KindDecimal
	KindDouble
	KindEnum
	KindString
)

func (k Kind) String() string {
	switch k {
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindDecimal:
		return "decimal"
	case KindDouble:
		return "double"
	case KindEnum:
		return "enum"
	case KindString:
		return "string"
	default:
		return "unsupported"
	}
}

// KindOf resolves the kind of T and whether T is the nullable (pointer) form.
// Enums are resolved through EnumSet, not here.
func KindOf[T any]() (Kind, bool) {
	var zero T
	switch any(zero).(type) {
	case string:
		return KindString, false
	case bool:
		return KindBool, false
	case *bool:
		return KindBool, true
	case int:
		return KindInt, false
	case *int:
		return KindInt, true
	case decimal.Decimal:
		return KindDecimal, false
	case *decimal.Decimal:
		return KindDecimal, true
	case float64:
		return KindDouble, false
	case *float64:
		return KindDouble, true
	}
	return KindUnsupported, false
}

// Converter performs culture-aware conversion between strings and the
// supported kinds. Every method takes a fallback used for empty or unparsable input.
type Converter struct {
	culture Culture
}

// NewConverter creates a converter for the given culture.
func NewConverter(culture Culture) *Converter {
	return &Converter{culture: culture}
}

// Culture returns the converter's culture.
func (c *Converter) Culture() Culture {
	return c.culture
}

// Bool parses "1"/"0" or a case-insensitive "true"/"false".
func (c *Converter) Bool(s string, def *bool) *bool {
	s = strings.TrimSpace(s)
	switch {
	case s == "":
		return copyPtr(def)
	case s == "1" || strings.EqualFold(s, "true"):
		return Ptr(true)
	case s == "0" || strings.EqualFold(s, "false"):
		return Ptr(false)
	}
	return copyPtr(def)
}

// Int strips thousands separators and parses a strict integer. A value carrying
// the decimal separator is parsed as a decimal and rounded half away from zero,
// so "1234.56" yields 1235.
func (c *Converter) Int(s string, def *int) *int {
	s = strings.TrimSpace(s)
	if s == "" {
		return copyPtr(def)
	}

	cleaned := c.culture.stripGroups(s)
	if n, err := strconv.Atoi(cleaned); err == nil {
		return &n
	}

	if !strings.Contains(cleaned, c.culture.decimalSeparator()) {
		return copyPtr(def)
	}
	d := c.Decimal(cleaned, nil)
	if d == nil {
		return copyPtr(def)
	}
	rounded := d.Round(0)
	if rounded.GreaterThan(decimal.NewFromInt(math.MaxInt)) || rounded.LessThan(decimal.NewFromInt(math.MinInt)) {
		return copyPtr(def)
	}
	n := int(rounded.IntPart())
	return &n
}

// Decimal parses a culture-formatted fixed-point number.
func (c *Converter) Decimal(s string, def *decimal.Decimal) *decimal.Decimal {
	normalized, ok := c.culture.normalize(strings.TrimSpace(s))
	if !ok || normalized == "" {
		return copyPtr(def)
	}
	d, err := decimal.NewFromString(normalized)
	if err != nil {
		return copyPtr(def)
	}
	return &d
}

// Double parses a culture-formatted floating point number.
func (c *Converter) Double(s string, def *float64) *float64 {
	normalized, ok := c.culture.normalize(strings.TrimSpace(s))
	if !ok || normalized == "" {
		return copyPtr(def)
	}
	f, err := strconv.ParseFloat(normalized, 64)
	if err != nil {
		return copyPtr(def)
	}
	return &f
}

// String trims the value.
func (c *Converter) String(s string) string {
	return strings.TrimSpace(s)
}

// Format renders a supported value the way the parsers read it back. Nil
// pointers render as the empty string.
func (c *Converter) Format(v any) (string, error) {
	switch x := v.(type) {
	case nil:
		return "", nil
	case string:
		return x, nil
	case bool:
		return strconv.FormatBool(x), nil
	case *bool:
		if x == nil {
			return "", nil
		}
		return strconv.FormatBool(*x), nil
	case int:
		return strconv.Itoa(x), nil
	case *int:
		if x == nil {
			return "", nil
		}
		return strconv.Itoa(*x), nil
	case decimal.Decimal:
		return c.culture.localize(x.String()), nil
	case *decimal.Decimal:
		if x == nil {
			return "", nil
		}
		return c.culture.localize(x.String()), nil
	case float64:
		return c.culture.localize(strconv.FormatFloat(x, 'g', -1, 64)), nil
	case *float64:
		if x == nil {
			return "", nil
		}
		return c.culture.localize(strconv.FormatFloat(*x, 'g', -1, 64)), nil
	}
	return "", fmt.Errorf("%w: %T", ErrUnsupportedType, v)
}

// To converts s into T. Non-nullable targets fall back to def; nullable targets
// return def, which may be nil. Types outside the supported kinds fail with
// ErrUnsupportedType.
func To[T any](c *Converter, s string, def T) (T, error) {
	var out any
	switch d := any(def).(type) {
	case string:
		out = c.String(s)
	case bool:
		out = *c.Bool(s, &d)
	case *bool:
		out = c.Bool(s, d)
	case int:
		out = *c.Int(s, &d)
	case *int:
		out = c.Int(s, d)
	case decimal.Decimal:
		out = *c.Decimal(s, &d)
	case *decimal.Decimal:
		out = c.Decimal(s, d)
	case float64:
		out = *c.Double(s, &d)
	case *float64:
		out = c.Double(s, d)
	default:
		var zero T
		return zero, fmt.Errorf("%w: %T", ErrUnsupportedType, def)
	}
	return out.(T), nil
}

// Ptr returns a pointer to v, for nullable defaults.
func Ptr[T any](v T) *T {
	return &v
}

func copyPtr[T any](p *T) *T {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
