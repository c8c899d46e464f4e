package impl

import (
	"cmp"
	"encoding/binary"
	"errors"
	"strconv"
)

// ID identifies an interned label, literal value, source or statement.
//
// The zero ID is invalid; [ID.Inc] hands out valid ids starting at 1.
type ID uint64

// IDLen is the size of an encoded ID in bytes.
const IDLen = 8

// Valid checks if this ID has been handed out by some counter.
func (id ID) Valid() bool {
	return id != 0
}

// Reset resets this id to the invalid zero value.
func (id *ID) Reset() {
	*id = 0
}

// Inc advances this id by one and returns the new value.
// It panics when the counter wraps around to zero.
func (id *ID) Inc() ID {
	*id++
	if *id == 0 {
		panic("ID.Inc: counter exhausted")
	}
	return *id
}

// Compare orders ids by the sequence [ID.Inc] handed them out in.
// The result is 0 when id == other, -1 when id came first, and 1 otherwise.
func (id ID) Compare(other ID) int {
	return cmp.Compare(id, other)
}

// String formats this id for debugging output.
func (id ID) String() string {
	return "ID(" + strconv.FormatUint(uint64(id), 10) + ")"
}

// Encode writes the big endian encoding of this id into dest.
// dest must hold at least [IDLen] bytes.
//
// Big endian keeps the byte order of encoded ids aligned with their
// numeric order, so ordered key-value stores keep ids sorted.
func (id ID) Encode(dest []byte) {
	binary.BigEndian.PutUint64(dest, uint64(id))
}

// Decode sets this id from the bytes written by [ID.Encode].
// src must hold at least [IDLen] bytes, or a runtime panic occurs.
func (id *ID) Decode(src []byte) {
	*id = ID(binary.BigEndian.Uint64(src))
}

var errIDLength = errors.New("encoded ID: invalid length")

// MarshalID encodes a single id into a fresh slice of bytes.
func MarshalID(id ID) ([]byte, error) {
	dest := make([]byte, IDLen)
	id.Encode(dest)
	return dest, nil
}

// UnmarshalID decodes a single id, reporting an error when src is too short.
func UnmarshalID(dest *ID, src []byte) error {
	if len(src) < IDLen {
		return errIDLength
	}
	dest.Decode(src)
	return nil
}

// MarshalIDs encodes the given ids sequentially into dst.
// dst must hold at least len(ids) * [IDLen] bytes.
func MarshalIDs(dst []byte, ids ...ID) error {
	if len(dst) < len(ids)*IDLen {
		return errIDLength
	}
	for i, id := range ids {
		id.Encode(dst[i*IDLen:])
	}
	return nil
}

// EncodeIDs encodes the given ids into a fresh slice of bytes.
func EncodeIDs(ids ...ID) []byte {
	dest := make([]byte, len(ids)*IDLen)
	for i, id := range ids {
		id.Encode(dest[i*IDLen:])
	}
	return dest
}

// UnmarshalIDs decodes one id from src into every destination passed, in order.
func UnmarshalIDs(src []byte, dests ...*ID) error {
	if len(src) < len(dests)*IDLen {
		return errIDLength
	}
	for i, dest := range dests {
		dest.Decode(src[i*IDLen:])
	}
	return nil
}
