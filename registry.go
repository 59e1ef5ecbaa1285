// FILE: lixenwraith/iniconf/registry.go
package config

import (
	"fmt"
	"sync"
)

// typeKey identifies a section type in the registry without reflection.
type typeKey[T any] struct{}

var registry = struct {
	mutex       sync.RWMutex
	descriptors map[any]any
}{
	descriptors: make(map[any]any),
}

// Register makes d the descriptor used by GetSection, SetSection and SetDefault
// for T. Registering T again replaces the previous descriptor.
func Register[T any](d *Descriptor[T]) error {
	if d == nil {
		return fmt.Errorf("%w: nil descriptor for %T", ErrInvalidArgument, *new(T))
	}

	registry.mutex.Lock()
	defer registry.mutex.Unlock()

	registry.descriptors[typeKey[T]{}] = d
	return nil
}

// MustRegister is like Register but panics on error.
func MustRegister[T any](d *Descriptor[T]) *Descriptor[T] {
	if err := Register(d); err != nil {
		panic(err)
	}
	return d
}

// Lookup returns the descriptor registered for T.
func Lookup[T any]() (*Descriptor[T], error) {
	registry.mutex.RLock()
	defer registry.mutex.RUnlock()

	d, ok := registry.descriptors[typeKey[T]{}]
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotRegistered, *new(T))
	}
	return d.(*Descriptor[T]), nil
}
