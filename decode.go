// FILE: lixenwraith/iniconf/decode.go
package config

import (
	"fmt"
	"net"
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/shopspring/decimal"
)

// ScanTagName is the struct tag Scan reads key names from.
const ScanTagName = "ini"

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	decimalType  = reflect.TypeOf(decimal.Decimal{})
)

// Scan decodes the pairs of section into target, a non-nil struct pointer,
// matching `ini` tags or field names case-insensitively. Values are converted
// with the Config's culture. Fields without a pair, or whose pair has an empty
// value, keep their current value. An empty section selects the default section.
func (c *Config) Scan(section string, target any) error {
	rv := reflect.ValueOf(target)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return fmt.Errorf("%w: scan target must be non-nil pointer, got %T", ErrInvalidArgument, target)
	}
	if err := checkScanFields(rv.Elem().Type()); err != nil {
		return err
	}
	if strings.TrimSpace(section) == "" {
		section = c.defaultSection
	}

	c.mutex.RLock()
	sectionMap := make(map[string]any)
	if s, ok := c.doc.Section(section); ok {
		for _, p := range s.Pairs() {
			if p.value != "" {
				sectionMap[p.key] = p.value
			}
		}
	}
	c.mutex.RUnlock()

	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           target,
		TagName:          ScanTagName,
		WeaklyTypedInput: true,
		DecodeHook:       c.getDecodeHook(),
		Metadata:         nil,
	})
	if err != nil {
		return fmt.Errorf("decoder creation failed: %w", err)
	}

	if err := decoder.Decode(sectionMap); err != nil {
		return fmt.Errorf("decode failed for section %q: %w", section, err)
	}

	return nil
}

// getDecodeHook returns the composite decode hook for all type conversions
func (c *Config) getDecodeHook() mapstructure.DecodeHookFunc {
	return mapstructure.ComposeDecodeHookFunc(
		unsupportedTypeHookFunc(),

		// Network types
		stringToNetIPHookFunc(),
		stringToURLHookFunc(),

		c.converterHookFunc(),
	)
}

// unsupportedTypeHookFunc rejects temporal targets instead of letting weak
// typing coerce them
func unsupportedTypeHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		target := t
		if target.Kind() == reflect.Ptr {
			target = target.Elem()
		}
		if target == timeType || target == durationType {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedType, t)
		}
		return data, nil
	}
}

// checkScanFields rejects temporal fields of a struct target whether or not
// the section holds a pair for them. Embedded structs are walked as well.
func checkScanFields(t reflect.Type) error {
	if t.Kind() != reflect.Struct {
		return nil
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Tag.Get(ScanTagName) == "-" {
			continue
		}
		ft := field.Type
		if ft.Kind() == reflect.Ptr {
			ft = ft.Elem()
		}
		if field.Anonymous && ft.Kind() == reflect.Struct && ft != timeType {
			if err := checkScanFields(ft); err != nil {
				return err
			}
			continue
		}
		if !field.IsExported() {
			continue
		}
		if ft == timeType || ft == durationType {
			return fmt.Errorf("%w: field %s is %s", ErrUnsupportedType, field.Name, field.Type)
		}
	}
	return nil
}

// converterHookFunc routes string values through the culture-aware converter
func (c *Config) converterHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		str := strings.TrimSpace(data.(string))

		target := t
		if target.Kind() == reflect.Ptr {
			target = target.Elem()
		}

		if target == decimalType {
			d := c.conv.Decimal(str, nil)
			if d == nil {
				return nil, fmt.Errorf("cannot parse %q as decimal", str)
			}
			return *d, nil
		}

		switch target.Kind() {
		case reflect.Bool:
			b := c.conv.Bool(str, nil)
			if b == nil {
				return nil, fmt.Errorf("cannot parse %q as bool", str)
			}
			return *b, nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n := c.conv.Int(str, nil)
			if n == nil {
				return nil, fmt.Errorf("cannot parse %q as integer", str)
			}
			if reflect.Zero(target).OverflowInt(int64(*n)) {
				return nil, fmt.Errorf("value %d overflows %s", *n, target)
			}
			return reflect.ValueOf(*n).Convert(target).Interface(), nil
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			n := c.conv.Int(str, nil)
			if n == nil {
				return nil, fmt.Errorf("cannot parse %q as integer", str)
			}
			if *n < 0 || reflect.Zero(target).OverflowUint(uint64(*n)) {
				return nil, fmt.Errorf("value %d overflows %s", *n, target)
			}
			return reflect.ValueOf(*n).Convert(target).Interface(), nil
		case reflect.Float32, reflect.Float64:
			d := c.conv.Double(str, nil)
			if d == nil {
				return nil, fmt.Errorf("cannot parse %q as number", str)
			}
			return *d, nil
		case reflect.String:
			return str, nil
		}
		return data, nil
	}
}

// stringToNetIPHookFunc handles net.IP conversion
func stringToNetIPHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}

		if t != reflect.TypeOf(net.IP{}) {
			return data, nil
		}

		str := strings.TrimSpace(data.(string))
		if len(str) > 45 { // Max IPv6 length
			return nil, fmt.Errorf("invalid IP length: %d", len(str))
		}

		ip := net.ParseIP(str)
		if ip == nil {
			return nil, fmt.Errorf("invalid IP address: %s", str)
		}

		return ip, nil
	}
}

// stringToURLHookFunc handles url.URL conversion
func stringToURLHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data any) (any, error) {
		if f.Kind() != reflect.String {
			return data, nil
		}
		isPtr := t.Kind() == reflect.Ptr
		targetType := t
		if isPtr {
			targetType = t.Elem()
		}
		if targetType != reflect.TypeOf(url.URL{}) {
			return data, nil
		}

		str := strings.TrimSpace(data.(string))
		if len(str) > 2048 {
			return nil, fmt.Errorf("URL too long: %d bytes", len(str))
		}
		u, err := url.Parse(str)
		if err != nil {
			return nil, fmt.Errorf("invalid URL: %w", err)
		}
		if isPtr {
			return u, nil
		}
		return *u, nil
	}
}
