package rdfio

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
)

// ScanPrefixes extracts the namespace declarations of a mapping file.
//
// The statement decoders do not surface prefix bindings, so they are read
// from the raw bytes instead, with a scanner per syntax. N-Quads has no
// prefix mechanism; scanning it returns nothing.
func ScanPrefixes(data []byte, format Format) map[string]impl.Label {
	switch format {
	case FormatTurtle:
		return turtlePrefixes(data)
	case FormatRDFXML:
		return xmlPrefixes(data)
	case FormatJSONLD:
		return jsonldPrefixes(data)
	default:
		return nil
	}
}

var turtlePrefix = regexp.MustCompile(`(?m)^[ \t]*(?i:@prefix|prefix)[ \t]+([A-Za-z][\w.-]*)?:[ \t]*<([^>]*)>`)

func turtlePrefixes(data []byte) map[string]impl.Label {
	prefixes := make(map[string]impl.Label)
	for _, match := range turtlePrefix.FindAllSubmatch(data, -1) {
		prefixes[string(match[1])] = impl.Label(match[2])
	}
	return prefixes
}

var (
	xmlPrefixDouble = regexp.MustCompile(`xmlns:([A-Za-z_][\w.-]*)\s*=\s*"([^"]*)"`)
	xmlPrefixSingle = regexp.MustCompile(`xmlns:([A-Za-z_][\w.-]*)\s*=\s*'([^']*)'`)
)

func xmlPrefixes(data []byte) map[string]impl.Label {
	prefixes := make(map[string]impl.Label)
	for _, re := range []*regexp.Regexp{xmlPrefixDouble, xmlPrefixSingle} {
		for _, match := range re.FindAllSubmatch(data, -1) {
			prefixes[string(match[1])] = impl.Label(match[2])
		}
	}
	return prefixes
}

func jsonldPrefixes(data []byte) map[string]impl.Label {
	var document struct {
		Context map[string]any `json:"@context"`
	}
	if err := json.Unmarshal(data, &document); err != nil {
		return nil
	}

	prefixes := make(map[string]impl.Label)
	for term, value := range document.Context {
		iri, ok := value.(string)
		if !ok || strings.HasPrefix(term, "@") {
			continue
		}
		// only terms naming a namespace act as prefixes
		if strings.HasSuffix(iri, "#") || strings.HasSuffix(iri, "/") {
			prefixes[term] = impl.Label(iri)
		}
	}
	return prefixes
}
