package sgraph

import (
	"errors"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
)

// Role describes why a statement is part of a graph.
type Role uint8

const (
	// Direct marks a statement taken from a merged input file.
	Direct Role = iota

	// Imported marks a statement copied into the graph while resolving a reference.
	Imported
)

// Statement is a single subject-predicate-object statement together with its provenance.
//
// The object is either a resource, in which case Object holds its label,
// or a literal, in which case HasDatum is set and Datum holds its value.
type Statement struct {
	Subject   impl.Label
	Predicate impl.Label
	Object    impl.Label
	Datum     impl.Datum
	HasDatum  bool

	// Role records why the statement was inserted, Source where it came from.
	Role   Role
	Source impl.Source

	// ID uniquely identifies this statement within its graph.
	// Two statements of the same graph are identical iff their IDs are identical.
	ID impl.ID
}

// Resource creates a statement whose object is a resource.
func Resource(subject, predicate, object impl.Label) Statement {
	return Statement{Subject: subject, Predicate: predicate, Object: object}
}

// Literal creates a statement whose object is a literal.
func Literal(subject, predicate impl.Label, datum impl.Datum) Statement {
	return Statement{Subject: subject, Predicate: predicate, Datum: datum, HasDatum: true}
}

// objectLabel returns the label the object of this statement is interned under.
//
// Resources are interned under their own label.
// Literals are interned under their N-Triples form, which cannot collide with
// an IRI or a blank node label.
func (statement Statement) objectLabel() impl.Label {
	if !statement.HasDatum {
		return statement.Object
	}
	return impl.Label(statement.Datum.Serialize())
}

// Compare compares this statement to another statement based on its id.
func (statement Statement) Compare(other Statement) int {
	return statement.ID.Compare(other.ID)
}

// Record is the persisted form of a statement.
// Labels, the literal value and the source are held in side tables and referenced by id.
type Record struct {
	Role     Role
	HasDatum bool
	Items    [3]impl.ID // subject, predicate, object
	Source   impl.ID
}

const recordLen = 2 + 4*impl.IDLen

// MarshalRecord encodes a record into a []byte.
func MarshalRecord(record Record) ([]byte, error) {
	result := make([]byte, recordLen)
	result[0] = byte(record.Role)
	if record.HasDatum {
		result[1] = 1
	}
	impl.MarshalIDs(result[2:], record.Items[0], record.Items[1], record.Items[2], record.Source)
	return result, nil
}

var errUnmarshalRecord = errors.New("UnmarshalRecord: src too short")

// UnmarshalRecord decodes a record encoded with [MarshalRecord].
func UnmarshalRecord(dest *Record, src []byte) error {
	if len(src) < recordLen {
		return errUnmarshalRecord
	}
	dest.Role = Role(src[0])
	dest.HasDatum = src[1] != 0
	return impl.UnmarshalIDs(src[2:], &dest.Items[0], &dest.Items[1], &dest.Items[2], &dest.Source)
}

// Key identifies a statement by its structure, ignoring provenance.
// Two statements represent the same triple iff their keys are equal.
type Key struct {
	Subject   impl.ID
	Predicate impl.ID
	Object    impl.ID
}

// MarshalKey encodes a key into a []byte.
func MarshalKey(key Key) ([]byte, error) {
	return impl.EncodeIDs(key.Subject, key.Predicate, key.Object), nil
}

// UnmarshalKey decodes a key encoded with [MarshalKey].
func UnmarshalKey(dest *Key, src []byte) error {
	return impl.UnmarshalIDs(src, &dest.Subject, &dest.Predicate, &dest.Object)
}
