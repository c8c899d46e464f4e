package sgraph

import (
	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/smap"
)

// MemoryEngine holds all storages in memory.
// It implements Engine.
type MemoryEngine struct {
	smap.MemoryMap
}

var (
	_ Engine = (*MemoryEngine)(nil)
)

func (MemoryEngine) Records() (smap.HashMap[impl.ID, Record], error) {
	return smap.NewMemory[impl.ID, Record](0), nil
}

func (MemoryEngine) Keys() (smap.HashMap[Key, impl.ID], error) {
	return smap.NewMemory[Key, impl.ID](0), nil
}

func (MemoryEngine) Data() (smap.HashMap[impl.ID, impl.Datum], error) {
	return smap.NewMemory[impl.ID, impl.Datum](0), nil
}
