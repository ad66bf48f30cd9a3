// Package registry holds the named singletons an application run produces.
//
// A Map is owned by exactly one application context. There is no package-level
// state, so independent application instances never observe each other's entries.
package registry

import (
	"reflect"
	"sort"
	"strconv"
	"sync"
)

// MissingKeyError is returned when no value is registered under Key.
type MissingKeyError struct{ Key string }

// Error implements the error interface.
func (e *MissingKeyError) Error() string {
	// Example: registry: "startupBanner" not registered
	return "registry: " + strconv.Quote(e.Key) + " not registered"
}

// WrongTypeError is returned when a value exists under Key but has another type.
type WrongTypeError struct {
	Key string

	// GotType is reflect.TypeOf(value).String() for the stored value.
	GotType string
}

// Error implements the error interface.
func (e *WrongTypeError) Error() string {
	// Example: registry: "startupBanner" has wrong type (string)
	return "registry: " + strconv.Quote(e.Key) + " has wrong type (" + e.GotType + ")"
}

// Map is an in-memory registry safe for concurrent use.
type Map struct {
	mu    sync.RWMutex
	items map[string]any
}

// New returns an empty Map.
func New() *Map {
	return &Map{items: map[string]any{}}
}

// Register stores value under name. A later Register with the same name
// replaces the earlier value.
func (m *Map) Register(name string, value any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[name] = value
}

// Lookup returns the value registered under name.
func (m *Map) Lookup(name string) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[name]
	return v, ok
}

// Contains reports whether a value is registered under name.
func (m *Map) Contains(name string) bool {
	_, ok := m.Lookup(name)
	return ok
}

// Names returns the registered names in sorted order.
func (m *Map) Names() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, 0, len(m.items))
	for k := range m.items {
		names = append(names, k)
	}
	sort.Strings(names)
	return names
}

// Lookuper is the read side of a registry.
type Lookuper interface {
	Lookup(name string) (any, bool)
}

// LookupAs returns the value registered under name typed as T.
//
// It returns:
//   - *MissingKeyError if nothing is registered under name (or the value is nil)
//   - *WrongTypeError if the value is not a T
func LookupAs[T any](r Lookuper, name string) (T, error) {
	var zero T
	raw, ok := r.Lookup(name)
	if !ok || raw == nil {
		return zero, &MissingKeyError{Key: name}
	}
	v, ok := raw.(T)
	if !ok {
		return zero, &WrongTypeError{Key: name, GotType: reflect.TypeOf(raw).String()}
	}
	return v, nil
}
