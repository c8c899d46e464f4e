// Package sgraph provides Graph, a deduplicated statement store with provenance.
package sgraph

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/smap"
)

// Graph holds a set of statements, deduplicated by their structure.
//
// Statement ids are handed out monotonically and [Graph.IDs] returns them in
// sorted order, so iteration visits statements in the order they were first
// added.
//
// The zero value is not ready for use; it first needs to be [Graph.Reset].
// A Graph may not be modified concurrently.
type Graph struct {
	labels  smap.SMap                         // mapping between labels and their ids
	records smap.HashMap[impl.ID, Record]     // statement id to record
	keys    smap.HashMap[Key, impl.ID]        // structural key to statement id
	data    smap.HashMap[impl.ID, impl.Datum] // object label id to literal value

	sourceIDs map[impl.Source]impl.ID
	sourceOf  map[impl.ID]impl.Source

	ns Namespaces

	finalized atomic.Bool
	statement impl.ID // last id handed out
}

var ErrFinalized = errors.New("Graph: Finalized")

// Reset resets this graph and prepares all internal structures for use.
func (g *Graph) Reset(engine Engine) (err error) {
	if err := g.Close(); err != nil {
		return fmt.Errorf("failed to close graph: %w", err)
	}

	// abort closes the storages opened so far
	var closers []io.Closer
	abort := func(err error) error {
		for _, closer := range closers {
			if cerr := closer.Close(); cerr != nil {
				err = errors.Join(err, cerr)
			}
		}
		return err
	}

	if err := g.labels.Reset(engine); err != nil {
		return fmt.Errorf("failed to reset labels: %w", err)
	}
	closers = append(closers, &g.labels)

	g.records, err = engine.Records()
	if err != nil {
		return abort(fmt.Errorf("failed to initialize records: %w", err))
	}
	closers = append(closers, g.records)

	g.keys, err = engine.Keys()
	if err != nil {
		return abort(fmt.Errorf("failed to initialize keys: %w", err))
	}
	closers = append(closers, g.keys)

	g.data, err = engine.Data()
	if err != nil {
		return abort(fmt.Errorf("failed to initialize data: %w", err))
	}

	g.statement.Reset()
	g.finalized.Store(false)

	g.sourceIDs = make(map[impl.Source]impl.ID)
	g.sourceOf = make(map[impl.ID]impl.Source)

	g.ns = Namespaces{}

	return nil
}

// Namespaces returns the namespace bindings of this graph.
func (g *Graph) Namespaces() *Namespaces {
	return &g.ns
}

// Add inserts a statement into this graph.
//
// When the same triple already exists, no new statement is created and the id
// of the existing one is returned with fresh = false. An existing statement is
// re-tagged when the duplicate carries the smaller role, so that a directly
// stated triple never remains marked as imported.
func (g *Graph) Add(statement Statement) (id impl.ID, fresh bool, err error) {
	if g.finalized.Load() {
		return id, false, ErrFinalized
	}

	s, err := g.labels.Add(statement.Subject)
	if err != nil {
		return id, false, fmt.Errorf("failed to add subject label: %w", err)
	}
	p, err := g.labels.Add(statement.Predicate)
	if err != nil {
		return id, false, fmt.Errorf("failed to add predicate label: %w", err)
	}
	o, err := g.labels.Add(statement.objectLabel())
	if err != nil {
		return id, false, fmt.Errorf("failed to add object label: %w", err)
	}

	if statement.HasDatum {
		if err := g.data.Set(o, statement.Datum); err != nil {
			return id, false, fmt.Errorf("failed to add object data: %w", err)
		}
	}

	key := Key{Subject: s, Predicate: p, Object: o}
	old, ok, err := g.keys.Get(key)
	if err != nil {
		return id, false, fmt.Errorf("failed to check for existing statement: %w", err)
	}
	if ok {
		if err := g.resolveRoleConflict(old, statement); err != nil {
			return old, false, err
		}
		return old, false, nil
	}

	id = g.statement.Inc()
	if err := g.records.Set(id, Record{
		Role:     statement.Role,
		HasDatum: statement.HasDatum,
		Items:    [3]impl.ID{s, p, o},
		Source:   g.addSource(statement.Source),
	}); err != nil {
		return id, false, fmt.Errorf("failed to add record: %w", err)
	}
	if err := g.keys.Set(key, id); err != nil {
		return id, false, fmt.Errorf("failed to add key: %w", err)
	}

	return id, true, nil
}

// resolveRoleConflict re-tags the statement with the given id when the
// duplicate carries a smaller role.
func (g *Graph) resolveRoleConflict(id impl.ID, statement Statement) error {
	record, ok, err := g.records.Get(id)
	if err != nil {
		return fmt.Errorf("failed to resolve existing statement: %w", err)
	}
	if !ok || statement.Role >= record.Role {
		return nil
	}

	record.Role = statement.Role
	record.Source = g.addSource(statement.Source)
	if err := g.records.Set(id, record); err != nil {
		return fmt.Errorf("failed to re-tag statement: %w", err)
	}
	return nil
}

// addSource interns the given source, handing out an id on first sight.
func (g *Graph) addSource(source impl.Source) impl.ID {
	if id, ok := g.sourceIDs[source]; ok {
		return id
	}

	next := g.statement.Inc()
	g.sourceIDs[source] = next
	g.sourceOf[next] = source
	return next
}

var errUnknownSource = errors.New("no such source")

func (g *Graph) getSource(id impl.ID) (impl.Source, error) {
	source, ok := g.sourceOf[id]
	if !ok {
		return impl.Source{}, errUnknownSource
	}
	return source, nil
}

// Has checks if this graph contains the given triple, without modifying state.
// Provenance fields of the statement are ignored.
func (g *Graph) Has(statement Statement) (bool, error) {
	s, ok, err := g.labels.Get(statement.Subject)
	if err != nil || !ok {
		return false, err
	}
	p, ok, err := g.labels.Get(statement.Predicate)
	if err != nil || !ok {
		return false, err
	}
	o, ok, err := g.labels.Get(statement.objectLabel())
	if err != nil || !ok {
		return false, err
	}

	ok, err = g.keys.Has(Key{Subject: s, Predicate: p, Object: o})
	if err != nil {
		return false, fmt.Errorf("failed to check for key: %w", err)
	}
	return ok, nil
}

// Delete removes the statement with the given id from this graph.
// Deleting a statement that does not exist has no effect.
//
// Labels and literal values possibly left unreferenced are not reclaimed.
func (g *Graph) Delete(id impl.ID) error {
	if g.finalized.Load() {
		return ErrFinalized
	}

	record, ok, err := g.records.Get(id)
	if err != nil {
		return fmt.Errorf("failed to resolve statement: %w", err)
	}
	if !ok {
		return nil
	}

	key := Key{Subject: record.Items[0], Predicate: record.Items[1], Object: record.Items[2]}
	if err := g.keys.Delete(key); err != nil {
		return fmt.Errorf("failed to delete key: %w", err)
	}
	if err := g.records.Delete(id); err != nil {
		return fmt.Errorf("failed to delete record: %w", err)
	}
	return nil
}

var errStatementNotFound = errors.New("statement not found")

// Statement returns the statement with the given id.
func (g *Graph) Statement(id impl.ID) (statement Statement, err error) {
	record, ok, err := g.records.Get(id)
	if err != nil {
		return statement, fmt.Errorf("failed to resolve id: %w", err)
	}
	if !ok {
		return statement, errStatementNotFound
	}

	statement.Role = record.Role

	statement.Subject, err = g.labels.Reverse(record.Items[0])
	if err != nil {
		return statement, fmt.Errorf("failed to reverse subject: %w", err)
	}
	statement.Predicate, err = g.labels.Reverse(record.Items[1])
	if err != nil {
		return statement, fmt.Errorf("failed to reverse predicate: %w", err)
	}

	if record.HasDatum {
		statement.HasDatum = true
		statement.Datum, err = g.data.GetZero(record.Items[2])
		if err != nil {
			return statement, fmt.Errorf("failed to resolve datum: %w", err)
		}
	} else {
		statement.Object, err = g.labels.Reverse(record.Items[2])
		if err != nil {
			return statement, fmt.Errorf("failed to reverse object: %w", err)
		}
	}

	statement.Source, err = g.getSource(record.Source)
	if err != nil {
		return statement, fmt.Errorf("failed to get source: %w", err)
	}

	statement.ID = id
	return statement, nil
}

// Count returns the number of statements in this graph.
func (g *Graph) Count() (uint64, error) {
	count, err := g.records.Count()
	if err != nil {
		return 0, fmt.Errorf("failed to count statements: %w", err)
	}
	return count, nil
}

// IDs returns the ids of all statements in this graph, in insertion order.
func (g *Graph) IDs() ([]impl.ID, error) {
	count, err := g.records.Count()
	if err != nil {
		return nil, fmt.Errorf("failed to count statements: %w", err)
	}

	ids := make([]impl.ID, 0, count)
	if err := g.records.Iterate(func(id impl.ID, record Record) error {
		ids = append(ids, id)
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	slices.SortFunc(ids, impl.ID.Compare)
	return ids, nil
}

// Iterate calls f for every statement in this graph, in insertion order.
// When f returns a non-nil error, iteration stops and the error is returned.
func (g *Graph) Iterate(f func(Statement) error) error {
	ids, err := g.IDs()
	if err != nil {
		return err
	}

	for _, id := range ids {
		statement, err := g.Statement(id)
		if err != nil {
			return err
		}
		if err := f(statement); err != nil {
			return err
		}
	}
	return nil
}

// StatementsWithSubject returns all statements with the given subject, in insertion order.
func (g *Graph) StatementsWithSubject(subject impl.Label) ([]Statement, error) {
	s, ok, err := g.labels.Get(subject)
	if err != nil || !ok {
		return nil, err
	}
	return g.matching(func(record Record) bool {
		return record.Items[0] == s
	})
}

// StatementsWithPredicate returns all statements with the given predicate, in insertion order.
func (g *Graph) StatementsWithPredicate(predicate impl.Label) ([]Statement, error) {
	p, ok, err := g.labels.Get(predicate)
	if err != nil || !ok {
		return nil, err
	}
	return g.matching(func(record Record) bool {
		return record.Items[1] == p
	})
}

func (g *Graph) matching(include func(Record) bool) ([]Statement, error) {
	var ids []impl.ID
	if err := g.records.Iterate(func(id impl.ID, record Record) error {
		if include(record) {
			ids = append(ids, id)
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("failed to iterate records: %w", err)
	}

	slices.SortFunc(ids, impl.ID.Compare)

	statements := make([]Statement, len(ids))
	for i, id := range ids {
		statement, err := g.Statement(id)
		if err != nil {
			return nil, err
		}
		statements[i] = statement
	}
	return statements, nil
}

// parallel runs every task concurrently and joins their errors.
func parallel(tasks ...func() error) error {
	errs := make([]error, len(tasks))

	var wg sync.WaitGroup
	wg.Add(len(tasks))
	for i, task := range tasks {
		go func() {
			defer wg.Done()
			errs[i] = task()
		}()
	}
	wg.Wait()

	return errors.Join(errs...)
}

// Compact gives the storages a chance to optimize their layout.
func (g *Graph) Compact() error {
	if g.finalized.Load() {
		return ErrFinalized
	}
	return parallel(g.labels.Compact, g.records.Compact, g.keys.Compact, g.data.Compact)
}

// Finalize marks this graph read-only; no more mutating calls may be made.
// A second Finalize returns ErrFinalized.
func (g *Graph) Finalize() error {
	if g.finalized.Swap(true) {
		return ErrFinalized
	}
	return parallel(g.labels.Finalize, g.records.Finalize, g.keys.Finalize, g.data.Finalize)
}

// Close closes any storages attached to this graph.
// Closing an already closed graph returns nil.
func (g *Graph) Close() error {
	errs := make([]error, 0, 4)
	errs = append(errs, g.labels.Close())

	if g.records != nil {
		errs = append(errs, g.records.Close())
		g.records = nil
	}
	if g.keys != nil {
		errs = append(errs, g.keys.Close())
		g.keys = nil
	}
	if g.data != nil {
		errs = append(errs, g.data.Close())
		g.data = nil
	}

	return errors.Join(errs...)
}
