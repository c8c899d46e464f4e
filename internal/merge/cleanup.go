package merge

import (
	"github.com/essepuntato/dimm/internal/d2rq"
	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
)

// clearOrphanBlankNodes removes every statement whose subject is a blank
// node that no statement in the final mapping references as an object.
//
// Removing the statements of one blank node can strand a blank node it
// pointed at, so the sweep repeats until nothing is removed.
func (merger *Merger) clearOrphanBlankNodes() error {
	for {
		removed, err := merger.sweepOrphanBlankNodes()
		if err != nil || removed == 0 {
			return err
		}
	}
}

func (merger *Merger) sweepOrphanBlankNodes() (removed int, err error) {
	referenced := make(map[impl.Label]struct{})
	subjects := make(map[impl.Label][]impl.ID)

	err = merger.mapping.Iterate(func(statement sgraph.Statement) error {
		if !statement.HasDatum && statement.Object.IsBlank() {
			referenced[statement.Object] = struct{}{}
		}
		if statement.Subject.IsBlank() {
			subjects[statement.Subject] = append(subjects[statement.Subject], statement.ID)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	for subject, ids := range subjects {
		if _, ok := referenced[subject]; ok {
			continue
		}
		for _, id := range ids {
			if err := merger.mapping.Delete(id); err != nil {
				return removed, err
			}
			removed++
		}
	}

	merger.totals.Orphans += removed
	return removed, nil
}

// clearDanglingBridges removes every entity, typically a property bridge,
// whose class map, translation table or data storage reference points at a
// resource that has no type statement in the final mapping. Such an entity
// is incomplete and must not survive into the output.
//
// Deleting an entity also deletes its own type statements, which can leave
// entities referencing it dangling in turn, so the sweep repeats until
// nothing is removed.
func (merger *Merger) clearDanglingBridges() error {
	for {
		removed, err := merger.sweepDanglingBridges()
		if err != nil || removed == 0 {
			return err
		}
	}
}

func (merger *Merger) sweepDanglingBridges() (removed int, err error) {
	typed := make(map[impl.Label]struct{})
	subjects := make(map[impl.Label][]impl.ID)
	var references []sgraph.Statement

	err = merger.mapping.Iterate(func(statement sgraph.Statement) error {
		if statement.Predicate == d2rq.Type {
			typed[statement.Subject] = struct{}{}
		}
		if isReference(statement.Predicate) {
			references = append(references, statement)
		}
		subjects[statement.Subject] = append(subjects[statement.Subject], statement.ID)
		return nil
	})
	if err != nil {
		return 0, err
	}

	dangling := make(map[impl.Label]struct{})
	for _, reference := range references {
		// A literal object leaves the label empty, which is never typed.
		if _, ok := typed[reference.Object]; !ok {
			dangling[reference.Subject] = struct{}{}
		}
	}

	for subject := range dangling {
		for _, id := range subjects[subject] {
			if err := merger.mapping.Delete(id); err != nil {
				return removed, err
			}
			removed++
		}
	}

	merger.totals.Dangling += removed
	return removed, nil
}

// isReference reports whether predicate is one of the three d2rq reference
// properties.
func isReference(predicate impl.Label) bool {
	for _, reference := range d2rq.References {
		if predicate == reference.Predicate {
			return true
		}
	}
	return false
}
