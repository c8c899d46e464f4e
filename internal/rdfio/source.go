package rdfio

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/anglo-korean/rdf"
	"github.com/cayleygraph/quad"
	"github.com/cayleygraph/quad/jsonld"
	"github.com/cayleygraph/quad/nquads"
	"github.com/essepuntato/dimm/internal/triplestore/impl"
)

// Source yields the statements of a single mapping file, one Token at a time.
type Source interface {
	// Open prepares the source for reading.
	//
	// Once Next has returned a token with Err = io.EOF, Open may be called
	// again to rewind the source back to its first statement.
	Open() error

	// Close releases the underlying reader.
	Close() error

	// Next returns the next statement.
	Next() Token
}

// Token is a single parse result, in one of three shapes:
// an error (Err != nil), a statement with a resource object
// (HasDatum is false), or a statement with a literal object
// (HasDatum is true and Datum holds the literal).
type Token struct {
	Datum     impl.Datum
	Err       error
	Subject   impl.Label
	Predicate impl.Label
	Object    impl.Label
	HasDatum  bool
}

var errUnsupportedFormat = errors.New("unsupported format")

// NewSource returns a source reading statements in the given format from r.
func NewSource(r io.ReadSeeker, format Format) (Source, error) {
	switch format {
	case FormatJSONLD:
		return &quadSource{Reader: r, opener: func(r io.Reader) quadReader {
			return jsonld.NewReader(r)
		}}, nil
	case FormatNQuads:
		return &quadSource{Reader: r, opener: func(r io.Reader) quadReader {
			return nquads.NewReader(r, false)
		}}, nil
	case FormatRDFXML:
		return &tripleSource{Reader: r, Format: rdf.RDFXML}, nil
	case FormatTurtle:
		return &tripleSource{Reader: r, Format: rdf.Turtle}, nil
	default:
		return nil, fmt.Errorf("%w: %s", errUnsupportedFormat, format)
	}
}

// quadReader is the common shape of the cayley format readers.
type quadReader interface {
	ReadQuad() (quad.Quad, error)
	Close() error
}

// quadSource reads statements from a quad based reader.
type quadSource struct {
	Reader io.ReadSeeker
	opener func(io.Reader) quadReader
	reader quadReader
}

func (qs *quadSource) Open() error {
	// a reader from an earlier pass means this is a rewind
	if qs.reader != nil {
		if err := qs.reader.Close(); err != nil {
			return err
		}
		if _, err := qs.Reader.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}

	qs.reader = qs.opener(qs.Reader)
	return nil
}

func (qs *quadSource) Next() Token {
	for {
		value, err := qs.reader.ReadQuad()
		if err != nil {
			return Token{Err: err}
		}

		subject, sOK := asLabel(value.Subject)
		predicate, pOK := asLabel(value.Predicate)
		if !sOK || !pOK {
			continue
		}

		if object, ok := asLabel(value.Object); ok {
			return Token{
				Subject:   subject,
				Predicate: predicate,
				Object:    object,
			}
		}

		return Token{
			Subject:   subject,
			Predicate: predicate,
			HasDatum:  true,
			Datum:     asDatum(value.Object),
		}
	}
}

func (qs *quadSource) Close() error {
	if qs.reader != nil {
		return qs.reader.Close()
	}
	return nil
}

// tripleSource reads statements from a triple decoder.
type tripleSource struct {
	Reader io.ReadSeeker
	Format rdf.Format

	decoder rdf.TripleDecoder
}

func (ts *tripleSource) Open() error {
	if ts.decoder != nil {
		if _, err := ts.Reader.Seek(0, io.SeekStart); err != nil {
			return err
		}
	}

	ts.decoder = rdf.NewTripleDecoder(ts.Reader, ts.Format)
	return nil
}

func (ts *tripleSource) Next() Token {
	for {
		triple, err := ts.decoder.Decode()
		if err != nil {
			return Token{Err: err}
		}

		subject, ok := termAsLabel(triple.Subj)
		if !ok {
			continue
		}
		predicate, ok := termAsLabel(triple.Pred)
		if !ok {
			continue
		}

		if triple.Obj.Type() == rdf.TermLiteral {
			literal, ok := triple.Obj.(rdf.Literal)
			if !ok {
				continue
			}
			return Token{
				Subject:   subject,
				Predicate: predicate,
				HasDatum:  true,
				Datum:     literalAsDatum(literal),
			}
		}

		object, ok := termAsLabel(triple.Obj)
		if !ok {
			continue
		}
		return Token{
			Subject:   subject,
			Predicate: predicate,
			Object:    object,
		}
	}
}

func (ts *tripleSource) Close() error {
	return nil
}

const (
	xsdString     impl.Label = "http://www.w3.org/2001/XMLSchema#string"
	rdfLangString impl.Label = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// normalizeDatatype drops the implicit string datatypes, which plain literals
// carry in some syntaxes.
func normalizeDatatype(datatype impl.Label) impl.Label {
	if datatype == xsdString || datatype == rdfLangString {
		return ""
	}
	return datatype
}

func asLabel(value quad.Value) (impl.Label, bool) {
	switch node := value.(type) {
	case quad.IRI:
		return impl.Label(node), true
	case quad.BNode:
		// some readers keep the "_:" prefix on blank node names, some strip it
		name := strings.TrimPrefix(string(node), impl.BlankPrefix)
		return impl.Label(impl.BlankPrefix + name), true
	}
	return "", false
}

func asDatum(value quad.Value) impl.Datum {
	switch datum := value.(type) {
	case quad.String:
		return impl.Datum{Value: string(datum)}
	case quad.LangString:
		return impl.Datum{Value: string(datum.Value), Language: datum.Lang}
	case quad.TypedString:
		return impl.Datum{Value: string(datum.Value), Datatype: normalizeDatatype(impl.Label(datum.Type))}
	default:
		return impl.Datum{Value: fmt.Sprint(value.Native())}
	}
}

func termAsLabel(term rdf.Term) (impl.Label, bool) {
	switch term.Type() {
	case rdf.TermIRI, rdf.TermBlank:
		// String keeps the "_:" prefix on blank nodes
		return impl.Label(term.String()), true
	default:
		return "", false
	}
}

func literalAsDatum(literal rdf.Literal) impl.Datum {
	datum := impl.Datum{Value: literal.String()}
	if lang := literal.Lang(); lang != "" {
		datum.Language = lang
		return datum
	}
	datum.Datatype = normalizeDatatype(impl.Label(literal.DataType.String()))
	return datum
}
