// Package rdfio reads and writes mapping files in multiple RDF syntaxes.
package rdfio

import "fmt"

// Format identifies a supported RDF serialization.
type Format int

const (
	FormatJSONLD Format = iota // JSON-LD
	FormatRDFXML               // RDF/XML
	FormatTurtle               // Turtle, and as a subset N-Triples
	FormatNQuads               // N-Quads
)

// DefaultFormats lists all supported formats in the order a [Loader] tries them.
var DefaultFormats = []Format{FormatJSONLD, FormatRDFXML, FormatTurtle, FormatNQuads}

func (format Format) String() string {
	switch format {
	case FormatJSONLD:
		return "json-ld"
	case FormatRDFXML:
		return "rdfxml"
	case FormatTurtle:
		return "turtle"
	case FormatNQuads:
		return "nquads"
	default:
		return fmt.Sprintf("Format(%d)", int(format))
	}
}
