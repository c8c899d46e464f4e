package merge

import (
	"github.com/essepuntato/dimm/internal/d2rq"
	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
)

// Report warns about every reference in the final mapping whose target is
// not typed as the expected kind anywhere in the mapping.
//
// Each unresolved target is reported once per reference kind, no matter how
// many entities point at it. Reporting is purely diagnostic and never fails
// the run.
func (merger *Merger) Report() error {
	for _, reference := range d2rq.References {
		statements, err := merger.mapping.StatementsWithPredicate(reference.Predicate)
		if err != nil {
			return err
		}

		seen := make(map[impl.Label]struct{})
		for _, statement := range statements {
			target := statement.Object
			if _, ok := seen[target]; ok {
				continue
			}
			seen[target] = struct{}{}

			ok, err := merger.mapping.Has(sgraph.Resource(target, d2rq.Type, reference.Type))
			if err != nil {
				return err
			}
			if ok {
				continue
			}

			merger.stats.LogWarn("reference was not found in the files specified",
				"kind", reference.Type.LocalName(), "reference", target.LocalName())
			merger.totals.Unresolved++
		}
	}
	return nil
}
