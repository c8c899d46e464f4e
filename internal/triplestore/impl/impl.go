package impl

import (
	"encoding/json"
	"strings"
)

// Label represents a single node of a statement.
// A label is either an absolute IRI or a blank node identifier of the form "_:name".
type Label string

// BlankPrefix is the prefix of every blank node label.
const BlankPrefix = "_:"

// IsBlank checks if this label names a blank node.
func (label Label) IsBlank() bool {
	return strings.HasPrefix(string(label), BlankPrefix)
}

// LocalName returns the short name of the resource named by this label.
//
// Everything up to and including the last "#" is removed, provided at least
// one character follows it. The same is then done for the last "/".
// A label without either separator is returned unchanged.
func (label Label) LocalName() string {
	name := string(label)
	if i := strings.LastIndexByte(name, '#'); i >= 0 && i+1 < len(name) {
		name = name[i+1:]
	}
	if i := strings.LastIndexByte(name, '/'); i >= 0 && i+1 < len(name) {
		name = name[i+1:]
	}
	return name
}

// LabelAsByte returns the raw bytes of a label.
func LabelAsByte(label Label) []byte {
	return []byte(label)
}

// ByteAsLabel turns raw bytes back into a label.
func ByteAsLabel(label []byte) Label {
	return Label(label)
}

// Datum is the value of a literal object.
// Language and Datatype are mutually exclusive; both may be empty.
type Datum struct {
	Value    string
	Language string
	Datatype Label
}

// Serialize returns this datum in its N-Triples form.
func (datum Datum) Serialize() string {
	var builder strings.Builder
	builder.Grow(len(datum.Value) + 2)

	builder.WriteByte('"')
	for _, r := range datum.Value {
		switch r {
		case '"':
			builder.WriteString(`\"`)
		case '\\':
			builder.WriteString(`\\`)
		case '\n':
			builder.WriteString(`\n`)
		case '\r':
			builder.WriteString(`\r`)
		case '\t':
			builder.WriteString(`\t`)
		default:
			builder.WriteRune(r)
		}
	}
	builder.WriteByte('"')

	switch {
	case datum.Language != "":
		builder.WriteByte('@')
		builder.WriteString(datum.Language)
	case datum.Datatype != "":
		builder.WriteString("^^<")
		builder.WriteString(string(datum.Datatype))
		builder.WriteByte('>')
	}

	return builder.String()
}

// DatumAsByte encodes a datum for storage.
func DatumAsByte(datum Datum) ([]byte, error) {
	return json.Marshal(&datum)
}

// ByteAsDatum decodes a datum from its stored form.
func ByteAsDatum(dest *Datum, src []byte) error {
	return json.Unmarshal(src, dest)
}

// Source records where a statement came from.
type Source struct {
	// File is the path of the file the statement was loaded from.
	File string

	// Ref is the reference whose resolution imported the statement.
	// It is zero for statements contributed by a primary input.
	Ref Label
}

// SourceAsByte encodes a source for storage.
func SourceAsByte(source Source) ([]byte, error) {
	return json.Marshal(&source)
}

// ByteAsSource decodes a source from its stored form.
func ByteAsSource(dest *Source, src []byte) error {
	return json.Unmarshal(src, dest)
}
