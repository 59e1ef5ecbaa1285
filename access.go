// FILE: lixenwraith/iniconf/access.go
package config

import (
	"fmt"
)

// Get converts the value stored under section/key to T. A missing section or
// key yields T's zero value (nil for nullable kinds). Types outside the
// supported kinds fail with ErrUnsupportedType even when the key is absent.
func Get[T any](c *Config, section, key string) (T, error) {
	var zero T
	if err := requireNames(section, key); err != nil {
		return zero, err
	}

	c.mutex.RLock()
	raw, _ := c.lookup(section, key)
	c.mutex.RUnlock()

	v, err := To(c.conv, raw, zero)
	if err != nil {
		return zero, fmt.Errorf("failed to convert %s.%s: %w", section, key, err)
	}
	return v, nil
}

// GetKey is Get on the default section.
func GetKey[T any](c *Config, key string) (T, error) {
	return Get[T](c, c.defaultSection, key)
}

// GetOr is like Get but falls back to def when the value is missing or
// cannot be parsed.
func GetOr[T any](c *Config, section, key string, def T) (T, error) {
	if err := requireNames(section, key); err != nil {
		return def, err
	}

	c.mutex.RLock()
	raw, _ := c.lookup(section, key)
	c.mutex.RUnlock()

	v, err := To(c.conv, raw, def)
	if err != nil {
		return def, fmt.Errorf("failed to convert %s.%s: %w", section, key, err)
	}
	return v, nil
}

// GetEnum converts section/key to a member of set. Missing or unknown values
// yield the zero member.
func GetEnum[E ~int](c *Config, set *EnumSet[E], section, key string) (E, error) {
	if err := requireNames(section, key); err != nil {
		return 0, err
	}
	if set == nil {
		return 0, fmt.Errorf("%w: enum set cannot be nil", ErrInvalidArgument)
	}

	c.mutex.RLock()
	raw, _ := c.lookup(section, key)
	c.mutex.RUnlock()

	return ToEnum(set, raw, 0), nil
}

// GetNullableEnum converts section/key to a member of set, or nil when the
// value is missing or unknown.
func GetNullableEnum[E ~int](c *Config, set *EnumSet[E], section, key string) (*E, error) {
	if err := requireNames(section, key); err != nil {
		return nil, err
	}
	if set == nil {
		return nil, fmt.Errorf("%w: enum set cannot be nil", ErrInvalidArgument)
	}

	c.mutex.RLock()
	raw, _ := c.lookup(section, key)
	c.mutex.RUnlock()

	return ToNullableEnum(set, raw, nil), nil
}

// SetEnum stores the member name of v under section/key.
func SetEnum[E ~int](c *Config, set *EnumSet[E], section, key string, v E, comment ...string) error {
	if set == nil {
		return fmt.Errorf("%w: enum set cannot be nil", ErrInvalidArgument)
	}
	return c.Set(section, key, set.Name(v), comment...)
}

// ReadSection builds a T from the document using d.
func ReadSection[T any](c *Config, d *Descriptor[T]) T {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return d.Read(c.doc, c.conv)
}

// WriteSection merges every bound property of src into the document using d.
func WriteSection[T any](c *Config, d *Descriptor[T], src *T) error {
	c.mutex.Lock()
	defer c.mutex.Unlock()

	if err := d.Write(c.doc, c.conv, src); err != nil {
		return err
	}
	c.logger.Debug().Str("section", d.Section()).Int("fields", len(d.bindings)).Msg("Wrote section")
	return nil
}

// GetSection reads the section registered for T. The result is a snapshot;
// changes reach the document only through SetSection.
func GetSection[T any](c *Config) (T, error) {
	d, err := Lookup[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return ReadSection(c, d), nil
}

// SetSection writes src through the descriptor registered for T.
func SetSection[T any](c *Config, src *T) error {
	d, err := Lookup[T]()
	if err != nil {
		return err
	}
	return WriteSection(c, d, src)
}

// SetDefault assigns the declared defaults of the descriptor registered for T.
// It does not touch any document.
func SetDefault[T any](dst *T) error {
	d, err := Lookup[T]()
	if err != nil {
		return err
	}
	return d.ApplyDefaults(dst)
}
