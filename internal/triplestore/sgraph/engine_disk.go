package sgraph

import (
	"path/filepath"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/smap"
)

// DiskEngine holds all storages on disk, inside the directory at Path.
// It implements Engine.
type DiskEngine struct {
	smap.DiskMap
}

var (
	_ Engine = (*DiskEngine)(nil)
)

// Codecs for the types stored by a graph beyond what smap provides.
var (
	recordCodec = smap.Codec[Record]{
		Marshal:   MarshalRecord,
		Unmarshal: UnmarshalRecord,
	}

	keyCodec = smap.Codec[Key]{
		Marshal:   MarshalKey,
		Unmarshal: UnmarshalKey,
	}

	datumCodec = smap.Codec[impl.Datum]{
		Marshal:   impl.DatumAsByte,
		Unmarshal: impl.ByteAsDatum,
	}
)

func (de DiskEngine) Records() (smap.HashMap[impl.ID, Record], error) {
	store, err := smap.OpenLevel[impl.ID, Record](filepath.Join(de.Path, "statements.leveldb"))
	if err != nil {
		return nil, err
	}

	store.Keys = smap.IDCodec
	store.Values = recordCodec
	return store, nil
}

func (de DiskEngine) Keys() (smap.HashMap[Key, impl.ID], error) {
	store, err := smap.OpenLevel[Key, impl.ID](filepath.Join(de.Path, "keys.leveldb"))
	if err != nil {
		return nil, err
	}

	store.Keys = keyCodec
	store.Values = smap.IDCodec
	return store, nil
}

func (de DiskEngine) Data() (smap.HashMap[impl.ID, impl.Datum], error) {
	store, err := smap.OpenLevel[impl.ID, impl.Datum](filepath.Join(de.Path, "data.leveldb"))
	if err != nil {
		return nil, err
	}

	store.Keys = smap.IDCodec
	store.Values = datumCodec
	return store, nil
}
