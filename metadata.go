// FILE: lixenwraith/iniconf/metadata.go
package config

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/shopspring/decimal"
)

// FieldInfo is the resolved metadata of one mapped property.
type FieldInfo struct {
	Property   string // property name, used when no key override is given
	Key        string // INI key the property maps to
	Comment    string // written as the pair's trailing comment
	Default    any    // explicit default, nil when HasDefault is false
	HasDefault bool   // distinguishes "no default" from a zero-valued default
	Kind       Kind
	Nullable   bool
}

// FieldOption customises a binding.
type FieldOption func(*fieldOptions)

type fieldOptions struct {
	key        string
	comment    string
	def        any
	hasDefault bool
}

// WithKey overrides the key name; the property name is used otherwise.
func WithKey(name string) FieldOption {
	return func(o *fieldOptions) { o.key = name }
}

// WithDefault sets the value used when the key is absent or unparsable. Its type
// must match the property type; nullable properties also accept the element type.
func WithDefault(value any) FieldOption {
	return func(o *fieldOptions) {
		o.def = value
		o.hasDefault = true
	}
}

// WithComment sets the comment written after the pair.
func WithComment(text string) FieldOption {
	return func(o *fieldOptions) { o.comment = text }
}

// Binding maps one property of T to one key of T's section. Bindings are
// built with Bind, BindEnum and BindNullableEnum.
type Binding[T any] struct {
	info  FieldInfo
	err   error
	read  func(conv *Converter, dst *T, raw string, found bool)
	write func(conv *Converter, src *T) (string, error)
	reset func(dst *T)
}

// Info returns the binding's resolved metadata.
func (b Binding[T]) Info() FieldInfo { return b.info }

func newBinding[T any](property string, kind Kind, nullable bool, opts []FieldOption) (Binding[T], fieldOptions) {
	var o fieldOptions
	for _, opt := range opts {
		opt(&o)
	}
	b := Binding[T]{info: FieldInfo{
		Property: property,
		Key:      property,
		Comment:  strings.TrimSpace(o.comment),
		Kind:     kind,
		Nullable: nullable,
	}}
	if o.key != "" {
		b.info.Key = strings.TrimSpace(o.key)
	}
	if o.hasDefault {
		b.info.Default = o.def
		b.info.HasDefault = true
	}
	return b, o
}

// Bind maps the property reached through ref. V must be one of the supported
// kinds: string, bool, int, decimal.Decimal, float64 or a pointer to the
// non-string ones for nullable values.
func Bind[T, V any](property string, ref func(*T) *V, opts ...FieldOption) Binding[T] {
	kind, nullable := KindOf[V]()
	b, o := newBinding[T](property, kind, nullable, opts)
	if kind == KindUnsupported {
		var zero V
		b.err = fmt.Errorf("%w: property %s has type %T", ErrUnsupportedType, property, zero)
		return b
	}

	var def V
	if o.hasDefault {
		d, ok := defaultAs[V](o.def)
		if !ok {
			b.err = fmt.Errorf("%w: default for property %s has type %T, want %T", ErrInvalidArgument, property, o.def, def)
			return b
		}
		def = d
	}

	// fallback yields a fresh copy of the default so pointer defaults are never shared
	fallback := func(conv *Converter) V {
		if kind == KindString {
			return def
		}
		v, _ := To(conv, "", def)
		return v
	}

	b.read = func(conv *Converter, dst *T, raw string, found bool) {
		if !found {
			*ref(dst) = fallback(conv)
			return
		}
		v, _ := To(conv, raw, def)
		*ref(dst) = v
	}
	b.write = func(conv *Converter, src *T) (string, error) {
		return conv.Format(*ref(src))
	}
	if o.hasDefault {
		b.reset = func(dst *T) { *ref(dst) = fallback(NewConverter(InvariantCulture)) }
	}
	return b
}

// defaultAs converts a declared default to V. Nullable kinds also accept
// their element type, so WithDefault(true) works for a *bool property.
func defaultAs[V any](v any) (V, bool) {
	if d, ok := v.(V); ok {
		return d, true
	}
	var zero V
	if _, nullable := KindOf[V](); nullable && v == nil {
		return zero, true
	}
	var out any
	switch any(zero).(type) {
	case *bool:
		if x, ok := v.(bool); ok {
			out = &x
		}
	case *int:
		if x, ok := v.(int); ok {
			out = &x
		}
	case *decimal.Decimal:
		if x, ok := v.(decimal.Decimal); ok {
			out = &x
		}
	case *float64:
		if x, ok := v.(float64); ok {
			out = &x
		}
	}
	if out == nil {
		return zero, false
	}
	return out.(V), true
}

// BindEnum maps an enum property. Unparsable values fall back to the default
// when it is a defined member, otherwise to the zero value.
func BindEnum[T any, E ~int](property string, ref func(*T) *E, set *EnumSet[E], opts ...FieldOption) Binding[T] {
	b, o := newBinding[T](property, KindEnum, false, opts)
	if set == nil {
		b.err = fmt.Errorf("%w: enum set for property %s is nil", ErrInvalidArgument, property)
		return b
	}

	var def E
	if o.hasDefault {
		d, ok := o.def.(E)
		if !ok {
			b.err = fmt.Errorf("%w: default for property %s has type %T, want %T", ErrInvalidArgument, property, o.def, def)
			return b
		}
		def = d
	}

	b.read = func(_ *Converter, dst *T, raw string, found bool) {
		if !found {
			*ref(dst) = def
			return
		}
		*ref(dst) = ToEnum(set, raw, def)
	}
	b.write = func(_ *Converter, src *T) (string, error) {
		return set.Name(*ref(src)), nil
	}
	if o.hasDefault {
		b.reset = func(dst *T) { *ref(dst) = def }
	}
	return b
}

// BindNullableEnum maps an optional enum property. Unparsable values yield nil
// unless a defined default is given.
func BindNullableEnum[T any, E ~int](property string, ref func(*T) **E, set *EnumSet[E], opts ...FieldOption) Binding[T] {
	b, o := newBinding[T](property, KindEnum, true, opts)
	if set == nil {
		b.err = fmt.Errorf("%w: enum set for property %s is nil", ErrInvalidArgument, property)
		return b
	}

	var def *E
	if o.hasDefault {
		switch d := o.def.(type) {
		case E:
			def = &d
		case *E:
			def = d
		default:
			b.err = fmt.Errorf("%w: default for property %s has type %T, want %T", ErrInvalidArgument, property, o.def, def)
			return b
		}
	}

	b.read = func(_ *Converter, dst *T, raw string, found bool) {
		if !found {
			*ref(dst) = copyPtr(def)
			return
		}
		*ref(dst) = ToNullableEnum(set, raw, def)
	}
	b.write = func(_ *Converter, src *T) (string, error) {
		v := *ref(src)
		if v == nil {
			return "", nil
		}
		return set.Name(*v), nil
	}
	if o.hasDefault {
		b.reset = func(dst *T) { *ref(dst) = copyPtr(def) }
	}
	return b
}

// Descriptor is the resolved mapping between a structured type and one section.
// It is built once per type and is safe for concurrent use.
type Descriptor[T any] struct {
	section  string
	comment  string
	bindings []Binding[T]
}

// Describe builds a descriptor for T. An empty section name falls back to T's
// type name. Binding errors, duplicate keys and invalid names are reported together.
func Describe[T any](section string, bindings ...Binding[T]) (*Descriptor[T], error) {
	section = strings.TrimSpace(section)
	if section == "" {
		section = reflect.TypeOf((*T)(nil)).Elem().Name()
	}
	if !ValidSectionName(section) {
		return nil, fmt.Errorf("%w: %q is not a valid section name for %T", ErrInvalidArgument, section, *new(T))
	}

	var errs []error
	seen := make(map[string]string, len(bindings))
	for _, b := range bindings {
		if b.err != nil {
			errs = append(errs, b.err)
			continue
		}
		if b.read == nil {
			errs = append(errs, fmt.Errorf("%w: binding for property %q was not built with Bind", ErrInvalidArgument, b.info.Property))
			continue
		}
		if !ValidPair(b.info.Key, "") {
			errs = append(errs, fmt.Errorf("%w: %q is not a valid key", ErrInvalidArgument, b.info.Key))
			continue
		}
		if !validComment(b.info.Comment) {
			errs = append(errs, fmt.Errorf("%w: comment for key %q spans multiple lines", ErrInvalidArgument, b.info.Key))
			continue
		}
		folded := foldName(b.info.Key)
		if prev, dup := seen[folded]; dup {
			errs = append(errs, fmt.Errorf("%w: properties %s and %s both map to key %q", ErrInvalidArgument, prev, b.info.Property, b.info.Key))
			continue
		}
		seen[folded] = b.info.Property
	}
	if len(errs) > 0 {
		return nil, fmt.Errorf("failed to describe section %q: %w", section, errors.Join(errs...))
	}

	return &Descriptor[T]{
		section:  section,
		bindings: bindings,
	}, nil
}

// MustDescribe is like Describe but panics on error. It is meant for
// package-level descriptor variables.
func MustDescribe[T any](section string, bindings ...Binding[T]) *Descriptor[T] {
	d, err := Describe(section, bindings...)
	if err != nil {
		panic(err)
	}
	return d
}

// WithComment returns a copy of the descriptor whose section header carries comment.
func (d *Descriptor[T]) WithComment(comment string) *Descriptor[T] {
	c := *d
	c.comment = strings.TrimSpace(comment)
	return &c
}

// Section returns the resolved section name.
func (d *Descriptor[T]) Section() string { return d.section }

// Comment returns the section header comment.
func (d *Descriptor[T]) Comment() string { return d.comment }

// Fields returns the per-property metadata in declaration order.
func (d *Descriptor[T]) Fields() []FieldInfo {
	out := make([]FieldInfo, len(d.bindings))
	for i, b := range d.bindings {
		out[i] = b.info
	}
	return out
}

// Read builds a new T from doc. Missing sections or keys take the binding's
// default, or the zero value when no default was declared.
func (d *Descriptor[T]) Read(doc *Document, conv *Converter) T {
	var out T
	d.ReadInto(doc, conv, &out)
	return out
}

// ReadInto assigns every bound property of dst from doc.
func (d *Descriptor[T]) ReadInto(doc *Document, conv *Converter, dst *T) {
	section, hasSection := doc.Section(d.section)
	for _, b := range d.bindings {
		var raw string
		var found bool
		if hasSection {
			if p, ok := section.Pair(b.info.Key); ok {
				raw, found = p.value, true
			}
		}
		b.read(conv, dst, raw, found)
	}
}

// Write merges every bound property of src into doc. All values are formatted
// and validated before the document is touched.
func (d *Descriptor[T]) Write(doc *Document, conv *Converter, src *T) error {
	if src == nil {
		return fmt.Errorf("%w: nil %T", ErrInvalidArgument, src)
	}

	values := make([]string, len(d.bindings))
	for i, b := range d.bindings {
		v, err := b.write(conv, src)
		if err != nil {
			return fmt.Errorf("failed to format property %s: %w", b.info.Property, err)
		}
		if !ValidPair(b.info.Key, v) {
			return fmt.Errorf("%w: value %q of property %s cannot be written", ErrInvalidArgument, v, b.info.Property)
		}
		values[i] = v
	}

	section := doc.mergeSection(d.section, d.comment)
	for i, b := range d.bindings {
		section.merge(b.info.Key, values[i], b.info.Comment)
	}
	return nil
}

// ApplyDefaults assigns only the properties that declare an explicit default.
func (d *Descriptor[T]) ApplyDefaults(dst *T) error {
	if dst == nil {
		return fmt.Errorf("%w: nil %T", ErrInvalidArgument, dst)
	}
	for _, b := range d.bindings {
		if b.reset != nil {
			b.reset(dst)
		}
	}
	return nil
}
