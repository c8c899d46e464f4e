package rdfio_test

import (
	"reflect"
	"testing"

	"github.com/essepuntato/dimm/internal/rdfio"
	"github.com/essepuntato/dimm/internal/triplestore/impl"
)

func TestScanPrefixes(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		name   string
		data   string
		format rdfio.Format
		want   map[string]impl.Label
	}{
		{
			name: "turtle",
			data: "@prefix d2rq: <http://a#> .\nPREFIX map: <http://b#>\n@prefix : <http://c#> .\n# @prefix hidden: <http://d#> .\n",
			format: rdfio.FormatTurtle,
			want: map[string]impl.Label{
				"d2rq": "http://a#",
				"map":  "http://b#",
				"":     "http://c#",
			},
		},
		{
			name: "rdfxml",
			data: `<rdf:RDF xmlns:rdf="http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	xmlns:d2rq='http://a#'>`,
			format: rdfio.FormatRDFXML,
			want: map[string]impl.Label{
				"rdf":  "http://www.w3.org/1999/02/22-rdf-syntax-ns#",
				"d2rq": "http://a#",
			},
		},
		{
			name: "jsonld",
			data: `{"@context": {"d2rq": "http://a#", "label": "http://b#label", "@vocab": "http://c#"}}`,
			format: rdfio.FormatJSONLD,
			want: map[string]impl.Label{
				"d2rq": "http://a#",
			},
		},
		{
			name:   "nquads",
			data:   "<http://s> <http://p> <http://o> <http://g> .\n",
			format: rdfio.FormatNQuads,
			want:   nil,
		},
	} {
		t.Run(tt.name, func(t *testing.T) {
			got := rdfio.ScanPrefixes([]byte(tt.data), tt.format)
			if len(got) == 0 && len(tt.want) == 0 {
				return
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ScanPrefixes() = %v, want %v", got, tt.want)
			}
		})
	}
}
