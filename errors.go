// FILE: lixenwraith/iniconf/errors.go
package config

import "errors"

var (
	// ErrConfigNotFound is returned when the INI file does not exist. It is not
	// fatal: the Config keeps an empty document and can still be written.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidArgument rejects empty or malformed paths, section names, keys and
	// values before any mutation happens.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrUnsupportedType is returned when a conversion targets a type outside the
	// supported kinds. It signals a mapping mistake and is never masked by a default.
	ErrUnsupportedType = errors.New("unsupported conversion type")

	// ErrWrite wraps I/O failures while writing the document.
	ErrWrite = errors.New("failed to write configuration")

	// ErrFileExists is returned by Write without overwrite when the target exists.
	ErrFileExists = errors.New("configuration file already exists")

	// ErrUnknownFormat is returned by Import/Export for unrecognised formats.
	ErrUnknownFormat = errors.New("unknown configuration format")

	// ErrUnknownCulture is returned when a culture tag cannot be parsed.
	ErrUnknownCulture = errors.New("unknown culture")

	// ErrNotRegistered is returned when no descriptor is registered for a section type.
	ErrNotRegistered = errors.New("section type not registered")
)
