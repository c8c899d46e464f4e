// Package smap interns statement labels, handing out dense numeric ids.
//
// It also provides the key-value storages the rest of the triplestore is
// built on, held either in memory or on disk.
package smap

import (
	"errors"
	"sync/atomic"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
)

// Map creates the forward and reverse storages an SMap runs on.
type Map interface {
	Forward() (HashMap[impl.Label, impl.ID], error)
	Reverse() (HashMap[impl.ID, impl.Label], error)
}

// SMap assigns ids to labels, starting at 1 in insertion order.
// Lookups work in both directions.
//
// The zero value is not ready for use; it first needs to be [SMap.Reset].
// An SMap may be read concurrently, but not modified concurrently.
type SMap struct {
	forward HashMap[impl.Label, impl.ID]
	reverse HashMap[impl.ID, impl.Label]

	finalized atomic.Bool
	last      impl.ID // highest id handed out so far
}

var ErrFinalized = errors.New("SMap is finalized")

// Reset prepares this SMap for use, closing any storages still open.
func (mp *SMap) Reset(engine Map) error {
	if err := mp.Close(); err != nil {
		return err
	}

	forward, err := engine.Forward()
	if err != nil {
		return err
	}
	reverse, err := engine.Reverse()
	if err != nil {
		return errors.Join(err, forward.Close())
	}

	mp.forward = forward
	mp.reverse = reverse
	mp.last.Reset()
	mp.finalized.Store(false)
	return nil
}

// Add interns label and returns its id.
// A label that is already known keeps the id it was first given.
func (mp *SMap) Add(label impl.Label) (impl.ID, error) {
	id, _, err := mp.AddNew(label)
	return id, err
}

// AddNew behaves like Add and additionally reports whether the label was known before.
func (mp *SMap) AddNew(label impl.Label) (id impl.ID, old bool, err error) {
	if mp.finalized.Load() {
		return id, false, ErrFinalized
	}

	id, old, err = mp.forward.Get(label)
	if err != nil || old {
		return
	}

	id = mp.last.Inc()
	if err = mp.forward.Set(label, id); err != nil {
		return
	}
	err = mp.reverse.Set(id, label)
	return
}

// Get returns the id label was interned under, without modifying state.
// When the label is not known, returns ok = false.
func (mp *SMap) Get(label impl.Label) (id impl.ID, ok bool, err error) {
	return mp.forward.Get(label)
}

// Forward returns the id label was interned under.
//
// When the label is not known, the zero ID is returned.
// The zero ID is never handed out for a known label.
func (mp *SMap) Forward(label impl.Label) (impl.ID, error) {
	return mp.forward.GetZero(label)
}

// Reverse returns the label interned under id.
// When no label is interned under id, the empty label is returned.
func (mp *SMap) Reverse(id impl.ID) (impl.Label, error) {
	return mp.reverse.GetZero(id)
}

// Count returns the number of labels interned in this SMap.
func (mp *SMap) Count() (uint64, error) {
	return mp.forward.Count()
}

// Compact asks the underlying storages to optimize their internal layout.
func (mp *SMap) Compact() error {
	if mp.finalized.Load() {
		return ErrFinalized
	}
	return errors.Join(mp.forward.Compact(), mp.reverse.Compact())
}

// Finalize marks this SMap read-only.
// After Finalize, neither Add nor Compact may be called again.
func (mp *SMap) Finalize() error {
	if mp.finalized.Swap(true) {
		return ErrFinalized
	}
	return errors.Join(mp.forward.Finalize(), mp.reverse.Finalize())
}

// Close releases the storages of this SMap.
// A closed SMap may be Reset again; closing twice is allowed.
func (mp *SMap) Close() error {
	var forwardErr, reverseErr error
	if mp.forward != nil {
		forwardErr = mp.forward.Close()
		mp.forward = nil
	}
	if mp.reverse != nil {
		reverseErr = mp.reverse.Close()
		mp.reverse = nil
	}
	return errors.Join(forwardErr, reverseErr)
}
