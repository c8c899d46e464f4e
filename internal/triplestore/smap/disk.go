package smap

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// DiskMap creates storages persisted inside the directory at Path.
// It implements Map.
type DiskMap struct {
	Path string
}

var (
	_ Map = (*DiskMap)(nil)
)

func (dm DiskMap) Forward() (HashMap[impl.Label, impl.ID], error) {
	store, err := OpenLevel[impl.Label, impl.ID](filepath.Join(dm.Path, "forward.leveldb"))
	if err != nil {
		return nil, err
	}

	store.Keys = LabelCodec
	store.Values = IDCodec
	return store, nil
}

func (dm DiskMap) Reverse() (HashMap[impl.ID, impl.Label], error) {
	store, err := OpenLevel[impl.ID, impl.Label](filepath.Join(dm.Path, "reverse.leveldb"))
	if err != nil {
		return nil, err
	}

	store.Keys = IDCodec
	store.Values = LabelCodec
	return store, nil
}

// Codec converts values of some type to and from their stored byte form.
type Codec[T any] struct {
	Marshal   func(T) ([]byte, error)
	Unmarshal func(*T, []byte) error
}

// JSONCodec encodes values as JSON.
// It is the fallback for types without a hand-written encoding.
func JSONCodec[T any]() Codec[T] {
	return Codec[T]{
		Marshal: func(value T) ([]byte, error) {
			return json.Marshal(value)
		},
		Unmarshal: func(dest *T, src []byte) error {
			return json.Unmarshal(src, dest)
		},
	}
}

// Codecs for the types shared by every graph storage.
var (
	IDCodec = Codec[impl.ID]{
		Marshal:   impl.MarshalID,
		Unmarshal: impl.UnmarshalID,
	}

	LabelCodec = Codec[impl.Label]{
		Marshal: func(label impl.Label) ([]byte, error) {
			return impl.LabelAsByte(label), nil
		},
		Unmarshal: func(dest *impl.Label, src []byte) error {
			*dest = impl.ByteAsLabel(src)
			return nil
		},
	}
)

// OpenLevel opens a leveldb database at path for use as a HashMap.
// Data left behind at path by a previous run is wiped first.
//
// Keys and Values default to [JSONCodec] and should be replaced by the
// caller whenever a hand-written encoding exists.
func OpenLevel[Key comparable, Value any](path string) (*LevelStore[Key, Value], error) {
	if err := os.RemoveAll(path); err != nil {
		return nil, fmt.Errorf("failed to clear stale storage: %w", err)
	}

	db, err := leveldb.OpenFile(path, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open leveldb: %w", err)
	}

	return &LevelStore[Key, Value]{
		DB:     db,
		Keys:   JSONCodec[Key](),
		Values: JSONCodec[Value](),
	}, nil
}

// LevelStore is a HashMap backed by a leveldb database.
type LevelStore[Key comparable, Value any] struct {
	DB *leveldb.DB

	Keys   Codec[Key]
	Values Codec[Value]
}

func (store *LevelStore[Key, Value]) Set(key Key, value Value) error {
	keyBytes, err := store.Keys.Marshal(key)
	if err != nil {
		return fmt.Errorf("failed to encode key: %w", err)
	}
	valueBytes, err := store.Values.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode value: %w", err)
	}

	if err := store.DB.Put(keyBytes, valueBytes, nil); err != nil {
		return fmt.Errorf("failed to store entry: %w", err)
	}
	return nil
}

func (store *LevelStore[Key, Value]) Get(key Key) (value Value, ok bool, err error) {
	keyBytes, err := store.Keys.Marshal(key)
	if err != nil {
		return value, false, fmt.Errorf("failed to encode key: %w", err)
	}

	valueBytes, err := store.DB.Get(keyBytes, nil)
	switch {
	case errors.Is(err, leveldb.ErrNotFound):
		return value, false, nil
	case err != nil:
		return value, false, fmt.Errorf("failed to load entry: %w", err)
	}

	if err := store.Values.Unmarshal(&value, valueBytes); err != nil {
		return value, false, fmt.Errorf("failed to decode value: %w", err)
	}
	return value, true, nil
}

func (store *LevelStore[Key, Value]) GetZero(key Key) (Value, error) {
	value, _, err := store.Get(key)
	return value, err
}

func (store *LevelStore[Key, Value]) Has(key Key) (bool, error) {
	keyBytes, err := store.Keys.Marshal(key)
	if err != nil {
		return false, fmt.Errorf("failed to encode key: %w", err)
	}

	ok, err := store.DB.Has(keyBytes, nil)
	if err != nil {
		return false, fmt.Errorf("failed to probe entry: %w", err)
	}
	return ok, nil
}

func (store *LevelStore[Key, Value]) Delete(key Key) error {
	keyBytes, err := store.Keys.Marshal(key)
	if err != nil {
		return fmt.Errorf("failed to encode key: %w", err)
	}

	if err := store.DB.Delete(keyBytes, nil); err != nil {
		return fmt.Errorf("failed to remove entry: %w", err)
	}
	return nil
}

func (store *LevelStore[Key, Value]) Iterate(f func(Key, Value) error) error {
	iter := store.DB.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
		var key Key
		if err := store.Keys.Unmarshal(&key, iter.Key()); err != nil {
			return fmt.Errorf("failed to decode key: %w", err)
		}
		var value Value
		if err := store.Values.Unmarshal(&value, iter.Value()); err != nil {
			return fmt.Errorf("failed to decode value: %w", err)
		}
		if err := f(key, value); err != nil {
			return err
		}
	}

	if err := iter.Error(); err != nil {
		return fmt.Errorf("failed to walk entries: %w", err)
	}
	return nil
}

func (store *LevelStore[Key, Value]) Count() (count uint64, err error) {
	iter := store.DB.NewIterator(nil, nil)
	defer iter.Release()

	for iter.Next() {
		count++
	}
	if err := iter.Error(); err != nil {
		return 0, fmt.Errorf("failed to walk entries: %w", err)
	}
	return count, nil
}

func (store *LevelStore[Key, Value]) Compact() error {
	if err := store.DB.CompactRange(util.Range{}); err != nil {
		return fmt.Errorf("failed to compact store: %w", err)
	}
	return nil
}

func (store *LevelStore[Key, Value]) Finalize() error {
	if err := store.Compact(); err != nil {
		return err
	}
	return store.DB.SetReadOnly()
}

func (store *LevelStore[Key, Value]) Close() error {
	if store.DB == nil {
		return nil
	}

	err := store.DB.Close()
	store.DB = nil
	if err != nil {
		return fmt.Errorf("failed to close store: %w", err)
	}
	return nil
}
