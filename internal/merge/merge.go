// Package merge accumulates partial D2RQ mapping files into a single
// consistent mapping document.
//
// Mapping fragments commonly reference class maps, translation tables and
// data storages that live in sibling files named after the referenced
// resource. Merging a file therefore resolves such references against the
// file's directory and selectively imports the statements of the referenced
// resource, keeping track of which resources have been imported already so
// that later files repeating them do not duplicate their statements.
package merge

import (
	"fmt"

	"github.com/essepuntato/dimm/internal/d2rq"
	"github.com/essepuntato/dimm/internal/rdfio"
	"github.com/essepuntato/dimm/internal/stats"
	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
)

// Merger accumulates mapping files into a final mapping document.
//
// The zero value is not ready for use, use [New] to create one.
// A Merger may not be used concurrently.
type Merger struct {
	stats  *stats.Stats
	loader *rdfio.Loader

	mapping sgraph.Graph

	// resolved tracks, per d2rq kind, the resources already imported
	// selectively. Resources are added before their files are read, so a
	// reference cycle cannot trigger a second resolution.
	resolved map[impl.Label]map[impl.Label]struct{}

	totals stats.Totals
}

// New creates an empty final mapping backed by the given engine.
// When loader is nil, a default loader reporting to st is used.
func New(engine sgraph.Engine, loader *rdfio.Loader, st *stats.Stats) (*Merger, error) {
	if loader == nil {
		loader = &rdfio.Loader{Stats: st}
	}

	merger := &Merger{
		stats:  st,
		loader: loader,
		resolved: map[impl.Label]map[impl.Label]struct{}{
			d2rq.ClassMap:         make(map[impl.Label]struct{}),
			d2rq.TranslationTable: make(map[impl.Label]struct{}),
			d2rq.Database:         make(map[impl.Label]struct{}),
		},
	}
	if err := merger.mapping.Reset(engine); err != nil {
		return nil, fmt.Errorf("failed to create mapping: %w", err)
	}
	return merger, nil
}

// Mapping returns the final mapping under construction.
// It stays owned by the merger and is closed by [Merger.Close].
func (merger *Merger) Mapping() *sgraph.Graph {
	return &merger.mapping
}

// Totals reports counters describing the merge run so far.
func (merger *Merger) Totals() stats.Totals {
	totals := merger.totals
	if count, err := merger.mapping.Count(); err == nil {
		totals.Statements = count
	}
	return totals
}

// Close closes the final mapping and any storages attached to it.
func (merger *Merger) Close() error {
	return merger.mapping.Close()
}

// MergeFile merges a single mapping file into the final mapping.
//
// The file is validated first and skipped with a warning when it does not
// declare a resource named like itself. Statements whose subject was already
// imported by resolving a reference are dropped, and references to class
// maps, translation tables and data storages are resolved against sibling
// files in the directory of path.
//
// Orphaned blank nodes are swept after every file, valid or not, because a
// partial import can strand blank nodes of an earlier file.
func (merger *Merger) MergeFile(path string) error {
	source, ok, err := Validate(merger.loader, merger.stats, path)
	if err != nil {
		return err
	}

	if ok {
		merger.totals.Files++
		err = merger.accumulate(path, source)
	}
	if cerr := source.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return err
	}

	return merger.clearOrphanBlankNodes()
}

// MergePaths merges the given mapping files in order, publishing per-file
// progress. It stops at the first load error.
func (merger *Merger) MergePaths(paths ...string) error {
	merger.stats.SetCT(0, len(paths))
	for i, path := range paths {
		if err := merger.MergeFile(path); err != nil {
			return err
		}
		merger.stats.SetCT(i+1, len(paths))
	}
	return nil
}

// accumulate copies the statements of a validated file into the final
// mapping and resolves the references it makes.
func (merger *Merger) accumulate(path string, source *sgraph.Graph) error {
	err := source.Iterate(func(statement sgraph.Statement) error {
		if merger.isResolved(d2rq.TranslationTable, statement.Subject) || merger.isResolved(d2rq.Database, statement.Subject) {
			merger.totals.Suppressed++
			return nil
		}

		statement.Role = sgraph.Direct
		statement.Source = impl.Source{File: path}
		if _, _, err := merger.mapping.Add(statement); err != nil {
			return err
		}

		// A file typing a resource as a class map settles that reference
		// for every later file, whatever the predicate used.
		if !statement.HasDatum && statement.Object == d2rq.ClassMap {
			merger.mark(d2rq.ClassMap, statement.Subject)
		}
		return nil
	})
	if err != nil {
		return err
	}

	merger.mapping.Namespaces().Merge(source.Namespaces())

	for _, reference := range d2rq.References {
		statements, err := source.StatementsWithPredicate(reference.Predicate)
		if err != nil {
			return err
		}
		for _, statement := range statements {
			if statement.HasDatum {
				continue
			}
			target := statement.Object
			if !merger.mark(reference.Type, target) {
				continue
			}
			if err := merger.resolve(path, reference, target); err != nil {
				return err
			}
		}
	}
	return nil
}

// isResolved reports whether a resource of the given kind has been imported.
func (merger *Merger) isResolved(kind, resource impl.Label) bool {
	_, ok := merger.resolved[kind][resource]
	return ok
}

// mark records that the given resource of the given kind has been imported.
// It returns false when the resource was marked before.
func (merger *Merger) mark(kind, resource impl.Label) bool {
	set, ok := merger.resolved[kind]
	if !ok {
		set = make(map[impl.Label]struct{})
		merger.resolved[kind] = set
	}
	if _, ok := set[resource]; ok {
		return false
	}
	set[resource] = struct{}{}
	return true
}
