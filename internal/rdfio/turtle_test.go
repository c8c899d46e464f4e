package rdfio_test

import (
	"strings"
	"testing"

	"github.com/essepuntato/dimm/internal/rdfio"
	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
)

// buildGraph creates an in-memory graph from the given statements.
func buildGraph(t *testing.T, statements ...sgraph.Statement) *sgraph.Graph {
	t.Helper()

	g := new(sgraph.Graph)
	if err := g.Reset(&sgraph.MemoryEngine{}); err != nil {
		t.Fatalf("Reset() error = %s", err)
	}
	t.Cleanup(func() { g.Close() })

	for _, statement := range statements {
		if _, _, err := g.Add(statement); err != nil {
			t.Fatalf("Add() error = %s", err)
		}
	}
	return g
}

func TestSave(t *testing.T) {
	t.Parallel()

	const (
		d2rq = "http://www.wiwiss.fu-berlin.de/suhl/bizer/D2RQ/0.1#"
		mapp = "http://example.com/mapping#"
	)

	g := buildGraph(t,
		sgraph.Resource(mapp+"Recipe", testType, d2rq+"ClassMap"),
		sgraph.Resource(mapp+"Recipe", d2rq+"dataStorage", mapp+"Database1"),
		sgraph.Literal(mapp+"Recipe", d2rq+"uriPattern", impl.Datum{Value: "recipe/@@Recipe.ID@@"}),
		sgraph.Resource(mapp+"Database1", testType, d2rq+"Database"),
		sgraph.Literal(mapp+"Database1", d2rq+"jdbcDSN", impl.Datum{Value: "jdbc:mysql://localhost/recipes"}),
		sgraph.Literal("_:b0", d2rq+"databaseValue", impl.Datum{Value: "1"}),
	)
	g.Namespaces().Bind("d2rq", d2rq)
	g.Namespaces().Bind("map", mapp)
	g.Namespaces().Bind("unused", "http://unused.example/")

	var builder strings.Builder
	if err := rdfio.Save(g, &builder); err != nil {
		t.Fatalf("Save() error = %s", err)
	}

	want := `@prefix d2rq: <http://www.wiwiss.fu-berlin.de/suhl/bizer/D2RQ/0.1#> .
@prefix map: <http://example.com/mapping#> .

map:Recipe a d2rq:ClassMap ;
    d2rq:dataStorage map:Database1 ;
    d2rq:uriPattern "recipe/@@Recipe.ID@@" .

map:Database1 a d2rq:Database ;
    d2rq:jdbcDSN "jdbc:mysql://localhost/recipes" .

_:b0 d2rq:databaseValue "1" .
`
	if got := builder.String(); got != want {
		t.Errorf("Save() = %s, want %s", got, want)
	}
}

func TestSave_empty(t *testing.T) {
	t.Parallel()

	g := buildGraph(t)

	var builder strings.Builder
	if err := rdfio.Save(g, &builder); err != nil {
		t.Fatalf("Save() error = %s", err)
	}
	if got := builder.String(); got != "" {
		t.Errorf("Save() = %q, want %q", got, "")
	}
}

func TestSave_roundTrip(t *testing.T) {
	t.Parallel()

	const (
		d2rq = "http://www.wiwiss.fu-berlin.de/suhl/bizer/D2RQ/0.1#"
		xsd  = "http://www.w3.org/2001/XMLSchema#"
	)

	statements := []sgraph.Statement{
		sgraph.Resource(testRecipe, testType, testClass),
		sgraph.Literal(testRecipe, d2rq+"pattern", impl.Datum{Value: "a \"quoted\"\nvalue"}),
		sgraph.Literal(testRecipe, d2rq+"property", impl.Datum{Value: "Gericht", Language: "de"}),
		sgraph.Literal(testRecipe, d2rq+"column", impl.Datum{Value: "42", Datatype: xsd + "integer"}),
		sgraph.Literal("_:b0", d2rq+"databaseValue", impl.Datum{Value: "1"}),
	}

	g := buildGraph(t, statements...)
	g.Namespaces().Bind("d2rq", d2rq)
	g.Namespaces().Bind("xsd", xsd)

	var builder strings.Builder
	if err := rdfio.Save(g, &builder); err != nil {
		t.Fatalf("Save() error = %s", err)
	}

	path := writeFile(t, t.TempDir(), "Recipe.ttl", builder.String())

	var loader rdfio.Loader
	loaded, format, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load() error = %s", err)
	}
	defer loaded.Close()

	if format != rdfio.FormatTurtle {
		t.Errorf("Load() format = %s, want %s", format, rdfio.FormatTurtle)
	}
	if count, err := loaded.Count(); err != nil || count != uint64(len(statements)) {
		t.Errorf("Count() = (%d, %v), want (%d, nil)", count, err, len(statements))
	}

	// everything except the blank node statement survives by name
	for _, statement := range statements[:4] {
		if ok, err := loaded.Has(statement); err != nil || !ok {
			t.Errorf("Has(%v) = (%v, %v), want (true, nil)", statement, ok, err)
		}
	}

	// the blank node statement survives in structure, under a fresh label
	blanks, err := loaded.StatementsWithPredicate(impl.Label(d2rq + "databaseValue"))
	if err != nil || len(blanks) != 1 {
		t.Fatalf("StatementsWithPredicate() = (%d statements, %v), want (1, nil)", len(blanks), err)
	}
	if !blanks[0].Subject.IsBlank() || blanks[0].Datum != (impl.Datum{Value: "1"}) {
		t.Errorf("blank statement = %v, want a blank subject with value 1", blanks[0])
	}
}
