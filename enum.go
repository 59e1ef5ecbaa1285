// FILE: lixenwraith/iniconf/enum.go
package config

import (
	"strconv"
	"strings"
)

// EnumMember names one value of an integer-backed enumeration.
type EnumMember[E ~int] struct {
	Name  string
	Value E
}

// Member declares an enumeration member.
func Member[E ~int](name string, value E) EnumMember[E] {
	return EnumMember[E]{Name: name, Value: value}
}

// EnumSet is the closed member list of an integer-backed enumeration. Parsing
// matches member names case-insensitively or any integer literal.
type EnumSet[E ~int] struct {
	name    string
	members []EnumMember[E]
	byName  map[string]E
	byValue map[E]string
}

// NewEnum declares an enumeration. The first member declared for a value is
// the name written back to files.
func NewEnum[E ~int](name string, members ...EnumMember[E]) *EnumSet[E] {
	s := &EnumSet[E]{
		name:    name,
		members: members,
		byName:  make(map[string]E, len(members)),
		byValue: make(map[E]string, len(members)),
	}
	for _, m := range members {
		s.byName[foldName(m.Name)] = m.Value
		if _, exists := s.byValue[m.Value]; !exists {
			s.byValue[m.Value] = m.Name
		}
	}
	return s
}

// TypeName returns the enumeration's declared name.
func (s *EnumSet[E]) TypeName() string { return s.name }

// Members returns the declared members in declaration order.
func (s *EnumSet[E]) Members() []EnumMember[E] {
	out := make([]EnumMember[E], len(s.members))
	copy(out, s.members)
	return out
}

// Defined reports whether v is a declared member value.
func (s *EnumSet[E]) Defined(v E) bool {
	_, ok := s.byValue[v]
	return ok
}

// Name returns the member name for v, or its decimal value when undefined.
func (s *EnumSet[E]) Name(v E) string {
	if name, ok := s.byValue[v]; ok {
		return name
	}
	return strconv.Itoa(int(v))
}

// Parse matches a trimmed member name (case-insensitive) or any integer
// literal, declared or not, so values written by Name parse back unchanged.
func (s *EnumSet[E]) Parse(str string) (E, bool) {
	str = strings.TrimSpace(str)
	if str == "" {
		return 0, false
	}
	if v, ok := s.byName[foldName(str)]; ok {
		return v, true
	}
	if n, err := strconv.Atoi(str); err == nil {
		return E(n), true
	}
	return 0, false
}

// ToEnum converts s to a member of set. On failure it returns def when def is a
// defined member, otherwise the zero value.
func ToEnum[E ~int](set *EnumSet[E], s string, def E) E {
	if v, ok := set.Parse(s); ok {
		return v
	}
	if set.Defined(def) {
		return def
	}
	var zero E
	return zero
}

// ToNullableEnum converts s to a member of set. On failure it returns nil
// unless def is non-nil and a defined member.
func ToNullableEnum[E ~int](set *EnumSet[E], s string, def *E) *E {
	if v, ok := set.Parse(s); ok {
		return &v
	}
	if def != nil && set.Defined(*def) {
		return copyPtr(def)
	}
	return nil
}
