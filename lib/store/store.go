// Package store implements the observable key-value container behind a
// component's data.
//
// A Store only knows the fields it was created with. Writes go through Set,
// which compares the new value with the current one and calls the notify
// hook only when something actually changed.
package store

import (
	"bytes"
	"reflect"
	"sort"

	"github.com/pthm/rhtml/lib/encoding"
)

// Store is an observable map of named fields. It is not safe for
// concurrent use; components only touch it from the loop goroutine.
type Store struct {
	values map[string]any
	notify func(key string)
}

// New wraps initial. The map is copied; later writes to initial are not
// observed. notify may be nil.
func New(initial map[string]any, notify func(key string)) *Store {
	s := &Store{
		values: make(map[string]any, len(initial)),
		notify: notify,
	}
	for k, v := range initial {
		s.values[k] = v
	}
	return s
}

// Get returns the field value, or nil for unknown keys.
func (s *Store) Get(key string) any {
	return s.values[key]
}

// Has reports whether key is a known field.
func (s *Store) Has(key string) bool {
	_, ok := s.values[key]
	return ok
}

// Keys returns the field names in sorted order.
func (s *Store) Keys() []string {
	keys := make([]string, 0, len(s.values))
	for k := range s.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Snapshot returns a shallow copy of every field.
func (s *Store) Snapshot() map[string]any {
	out := make(map[string]any, len(s.values))
	for k, v := range s.values {
		out[k] = v
	}
	return out
}

// Set writes value to key and reports whether the store changed.
//
// Writes to unknown keys, nil values and functions are ignored. Structured
// values (maps, slices, arrays, structs, pointers) are compared with the
// current value by serialized form. Maps and slices alias, so mutating the
// stored value in place and setting the same reference again is a no-op;
// write a copy to trigger a change. Everything else is compared with ==.
func (s *Store) Set(key string, value any) bool {
	current, known := s.values[key]
	if !known || value == nil || reflect.ValueOf(value).Kind() == reflect.Func {
		return false
	}

	if s.same(current, value) {
		return false
	}
	s.values[key] = value
	s.changed(key)
	return true
}

// same reports whether value serializes like current. Values that cannot
// be fingerprinted are always treated as changed.
func (s *Store) same(current, value any) bool {
	if !isStructured(value) || !isStructured(current) {
		return canCompare(current, value) && current == value
	}
	a, err := encoding.Fingerprint(current)
	if err != nil {
		return false
	}
	b, err := encoding.Fingerprint(value)
	return err == nil && bytes.Equal(a, b)
}

func (s *Store) changed(key string) {
	if s.notify != nil {
		s.notify(key)
	}
}

func isStructured(v any) bool {
	if v == nil {
		return false
	}
	switch reflect.ValueOf(v).Kind() {
	case reflect.Map, reflect.Slice, reflect.Array, reflect.Struct, reflect.Pointer:
		return true
	}
	return false
}

// canCompare guards == against dynamic types that would panic.
func canCompare(a, b any) bool {
	if a == nil || b == nil {
		return true
	}
	return reflect.TypeOf(a).Comparable() && reflect.TypeOf(b).Comparable()
}
