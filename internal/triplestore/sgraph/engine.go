package sgraph

import (
	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/smap"
)

// Engine creates the storages a Graph is built on.
type Engine interface {
	smap.Map

	Records() (smap.HashMap[impl.ID, Record], error)
	Keys() (smap.HashMap[Key, impl.ID], error)
	Data() (smap.HashMap[impl.ID, impl.Datum], error)
}
