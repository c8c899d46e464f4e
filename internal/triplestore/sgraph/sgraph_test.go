package sgraph_test

import (
	"fmt"
	"strconv"
	"testing"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
)

// label converts i into a short label.
func label(i int) impl.Label {
	return impl.Label(strconv.Itoa(i))
}

// datum converts i into a plain literal value.
func datum(i int) impl.Datum {
	return impl.Datum{
		Value: strconv.Itoa(i),
	}
}

// graphTest exercises a Graph backed by the given engine.
//
// It inserts n resource statements and n literal statements, then checks that
// duplicates are not stored twice and that statements resolve, list and delete
// correctly.
func graphTest(t *testing.T, engine sgraph.Engine, n int) {
	t.Helper()

	var g sgraph.Graph
	defer g.Close()

	if err := g.Reset(engine); err != nil {
		t.Fatalf("Reset() error = %s", err)
	}

	direct := impl.Source{File: "direct.ttl"}
	imported := impl.Source{File: "import.ttl", Ref: label(-1)}

	ids := make([]impl.ID, 0, 2*n)

	for i := range n {
		id, fresh, err := g.Add(sgraph.Statement{
			Subject:   label(3 * i),
			Predicate: label(3*i + 1),
			Object:    label(3*i + 2),
			Source:    direct,
		})
		if err != nil {
			t.Fatalf("Add() error = %s", err)
		}
		if !fresh {
			t.Errorf("Add() fresh = false, want true")
		}
		ids = append(ids, id)

		id, fresh, err = g.Add(sgraph.Statement{
			Subject:   label(3 * i),
			Predicate: label(3*i + 1),
			Datum:     datum(i),
			HasDatum:  true,
			Source:    direct,
		})
		if err != nil {
			t.Fatalf("Add() error = %s", err)
		}
		if !fresh {
			t.Errorf("Add() fresh = false, want true")
		}
		ids = append(ids, id)
	}

	if err := g.Compact(); err != nil {
		t.Fatalf("Compact() error = %s", err)
	}

	// re-adding the same triples stores nothing new
	for i := range n {
		id, fresh, err := g.Add(sgraph.Statement{
			Subject:   label(3 * i),
			Predicate: label(3*i + 1),
			Object:    label(3*i + 2),
			Role:      sgraph.Imported,
			Source:    imported,
		})
		if err != nil {
			t.Fatalf("Add() error = %s", err)
		}
		if fresh {
			t.Errorf("Add() fresh = true, want false")
		}
		if id != ids[2*i] {
			t.Errorf("Add() id = %v, want %v", id, ids[2*i])
		}
	}

	// a statement first imported and later directly stated is re-tagged
	first, _, err := g.Add(sgraph.Statement{
		Subject:   label(-1),
		Predicate: label(-2),
		Object:    label(-3),
		Role:      sgraph.Imported,
		Source:    imported,
	})
	if err != nil {
		t.Fatalf("Add() error = %s", err)
	}
	second, fresh, err := g.Add(sgraph.Statement{
		Subject:   label(-1),
		Predicate: label(-2),
		Object:    label(-3),
		Source:    direct,
	})
	if err != nil {
		t.Fatalf("Add() error = %s", err)
	}
	if fresh || second != first {
		t.Errorf("Add() = (%v, %v), want (%v, false)", second, fresh, first)
	}
	{
		statement, err := g.Statement(first)
		if err != nil {
			t.Fatalf("Statement() error = %s", err)
		}
		if statement.Role != sgraph.Direct {
			t.Errorf("Statement() role = %v, want %v", statement.Role, sgraph.Direct)
		}
		if statement.Source != direct {
			t.Errorf("Statement() source = %v, want %v", statement.Source, direct)
		}
	}

	// a duplicate never overwrites the provenance of a direct statement
	{
		statement, err := g.Statement(ids[0])
		if err != nil {
			t.Fatalf("Statement() error = %s", err)
		}
		if statement.Subject != label(0) || statement.Predicate != label(1) || statement.Object != label(2) {
			t.Errorf("Statement() = %v, want (%v, %v, %v)", statement, label(0), label(1), label(2))
		}
		if statement.HasDatum {
			t.Errorf("Statement() HasDatum = true, want false")
		}
		if statement.Role != sgraph.Direct {
			t.Errorf("Statement() role = %v, want %v", statement.Role, sgraph.Direct)
		}
		if statement.Source != direct {
			t.Errorf("Statement() source = %v, want %v", statement.Source, direct)
		}
	}

	// literal statements resolve their datum
	{
		statement, err := g.Statement(ids[1])
		if err != nil {
			t.Fatalf("Statement() error = %s", err)
		}
		if !statement.HasDatum || statement.Datum != datum(0) {
			t.Errorf("Statement() datum = %v, want %v", statement.Datum, datum(0))
		}
	}

	if ok, err := g.Has(sgraph.Resource(label(0), label(1), label(2))); err != nil || !ok {
		t.Errorf("Has() = (%v, %v), want (true, nil)", ok, err)
	}
	if ok, err := g.Has(sgraph.Resource(label(-4), label(-5), label(-6))); err != nil || ok {
		t.Errorf("Has() = (%v, %v), want (false, nil)", ok, err)
	}

	total := uint64(2*n + 1)
	if count, err := g.Count(); err != nil || count != total {
		t.Errorf("Count() = (%v, %v), want (%v, nil)", count, err, total)
	}

	// iteration visits all statements in insertion order
	{
		var visited uint64
		var previous impl.ID
		if err := g.Iterate(func(statement sgraph.Statement) error {
			visited++
			if previous.Valid() && statement.ID.Compare(previous) <= 0 {
				t.Errorf("Iterate() out of order: %v after %v", statement.ID, previous)
			}
			previous = statement.ID
			return nil
		}); err != nil {
			t.Fatalf("Iterate() error = %s", err)
		}
		if visited != total {
			t.Errorf("Iterate() visited %d statements, want %d", visited, total)
		}
	}

	if statements, err := g.StatementsWithSubject(label(0)); err != nil || len(statements) != 2 {
		t.Errorf("StatementsWithSubject() = (%d statements, %v), want (2, nil)", len(statements), err)
	}
	if statements, err := g.StatementsWithPredicate(label(1)); err != nil || len(statements) != 2 {
		t.Errorf("StatementsWithPredicate() = (%d statements, %v), want (2, nil)", len(statements), err)
	}

	// deleted statements are gone, deleting twice has no effect
	if err := g.Delete(ids[0]); err != nil {
		t.Fatalf("Delete() error = %s", err)
	}
	if ok, err := g.Has(sgraph.Resource(label(0), label(1), label(2))); err != nil || ok {
		t.Errorf("Has() after Delete = (%v, %v), want (false, nil)", ok, err)
	}
	if count, err := g.Count(); err != nil || count != total-1 {
		t.Errorf("Count() after Delete = (%v, %v), want (%v, nil)", count, err, total-1)
	}
	if err := g.Delete(ids[0]); err != nil {
		t.Errorf("Delete() again error = %s", err)
	}
	if statements, err := g.StatementsWithSubject(label(0)); err != nil || len(statements) != 1 {
		t.Errorf("StatementsWithSubject() after Delete = (%d statements, %v), want (1, nil)", len(statements), err)
	}

	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %s", err)
	}
	if _, _, err := g.Add(sgraph.Resource(label(-7), label(-8), label(-9))); err == nil {
		t.Errorf("Add() after Finalize error = nil, want non-nil")
	}
}

func ExampleGraph() {
	var g sgraph.Graph
	defer g.Close()

	if err := g.Reset(&sgraph.MemoryEngine{}); err != nil {
		fmt.Println(err)
		return
	}

	source := impl.Source{File: "recipes.ttl"}

	var (
		dish    = impl.Label("http://example.com/kitchen#Dish")
		name    = impl.Label("http://example.com/kitchen#name")
		rdfType = impl.Label("http://www.w3.org/1999/02/22-rdf-syntax-ns#type")
		pasta   = impl.Label("http://example.com/kitchen#Pasta")
	)

	add := func(statement sgraph.Statement) {
		statement.Source = source
		_, fresh, err := g.Add(statement)
		if err != nil {
			fmt.Println(err)
			return
		}
		fmt.Println("fresh:", fresh)
	}

	add(sgraph.Resource(pasta, rdfType, dish))
	add(sgraph.Literal(pasta, name, impl.Datum{Value: "Pasta", Language: "en"}))
	add(sgraph.Resource(pasta, rdfType, dish))

	count, _ := g.Count()
	fmt.Println("count:", count)

	_ = g.Iterate(func(statement sgraph.Statement) error {
		if statement.HasDatum {
			fmt.Println(statement.Subject.LocalName(), statement.Predicate.LocalName(), statement.Datum.Serialize())
		} else {
			fmt.Println(statement.Subject.LocalName(), statement.Predicate.LocalName(), statement.Object.LocalName())
		}
		return nil
	})

	// Output:
	// fresh: true
	// fresh: true
	// fresh: false
	// count: 2
	// Pasta type Dish
	// Pasta name "Pasta"@en
}
