package smap

import (
	"errors"
	"io"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
)

// HashMap is a mutable key-value store.
//
// Implementations decide where the pairs live; see [Memory] and [LevelStore].
type HashMap[Key comparable, Value any] interface {
	io.Closer

	// Set stores value under key, replacing an existing value.
	Set(key Key, value Value) error

	// Get returns the value stored under key, and whether one exists.
	Get(key Key) (Value, bool, error)

	// GetZero returns the value stored under key, or the zero value when there is none.
	GetZero(key Key) (Value, error)

	// Has reports whether a value is stored under key.
	Has(key Key) (bool, error)

	// Delete removes the value stored under key, if any.
	Delete(key Key) error

	// Iterate calls f once for every pair, in no particular order.
	// The first error returned by f stops the iteration and is passed on.
	Iterate(f func(Key, Value) error) error

	// Count returns the number of pairs in the store.
	Count() (uint64, error)

	// Compact reorganizes the internal layout to favor reads.
	Compact() error

	// Finalize marks the store read-only after a final compaction.
	Finalize() error
}

// MemoryMap creates storages backed by plain Go maps.
// It implements Map.
type MemoryMap struct{}

var (
	_ Map = (*MemoryMap)(nil)
)

func (MemoryMap) Forward() (HashMap[impl.Label, impl.ID], error) {
	return NewMemory[impl.Label, impl.ID](0), nil
}

func (MemoryMap) Reverse() (HashMap[impl.ID, impl.Label], error) {
	return NewMemory[impl.ID, impl.Label](0), nil
}

// Memory is a HashMap holding all pairs in a Go map.
type Memory[Key comparable, Value any] struct {
	entries map[Key]Value
}

// NewMemory creates a Memory storage with room for size pairs.
func NewMemory[Key comparable, Value any](size int) *Memory[Key, Value] {
	return &Memory[Key, Value]{
		entries: make(map[Key]Value, size),
	}
}

var errMemoryClosed = errors.New("Memory storage is closed")

func (m *Memory[Key, Value]) Set(key Key, value Value) error {
	if m.entries == nil {
		return errMemoryClosed
	}
	m.entries[key] = value
	return nil
}

func (m *Memory[Key, Value]) Get(key Key) (Value, bool, error) {
	value, ok := m.entries[key]
	return value, ok, nil
}

func (m *Memory[Key, Value]) GetZero(key Key) (Value, error) {
	return m.entries[key], nil
}

func (m *Memory[Key, Value]) Has(key Key) (bool, error) {
	_, ok := m.entries[key]
	return ok, nil
}

func (m *Memory[Key, Value]) Delete(key Key) error {
	delete(m.entries, key)
	return nil
}

func (m *Memory[Key, Value]) Iterate(f func(Key, Value) error) error {
	for key, value := range m.entries {
		if err := f(key, value); err != nil {
			return err
		}
	}
	return nil
}

func (m *Memory[Key, Value]) Count() (uint64, error) {
	return uint64(len(m.entries)), nil
}

// Compact is a no-op; a Go map needs no maintenance.
func (*Memory[Key, Value]) Compact() error {
	return nil
}

// Finalize is a no-op; the map simply stays mutable.
func (*Memory[Key, Value]) Finalize() error {
	return nil
}

// Close drops all pairs.
func (m *Memory[Key, Value]) Close() error {
	m.entries = nil
	return nil
}
