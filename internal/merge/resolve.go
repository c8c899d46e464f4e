package merge

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/essepuntato/dimm/internal/d2rq"
	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
)

// FindSibling returns the lexically first file in dir whose name starts with
// name followed by a dot, or the empty string when there is none.
// Subdirectories are not descended into.
func FindSibling(dir, name string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return "", fmt.Errorf("failed to scan %q: %w", dir, err)
	}

	prefix := name + "."
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if strings.HasPrefix(entry.Name(), prefix) {
			return filepath.Join(dir, entry.Name()), nil
		}
	}
	return "", nil
}

// resolve looks for a sibling of path that declares target and imports the
// statements about target into the final mapping.
//
// Only the statements whose subject is target are imported, together with one
// level of statements for any blank node among their objects. The rest of the
// sibling file stays out of the mapping, so resolving a reference never pulls
// in unrelated resources that happen to share a file.
//
// A missing or invalid sibling is not an error. The reference stays
// unresolved and is picked up by [Merger.Report] after the merge.
func (merger *Merger) resolve(path string, reference d2rq.Reference, target impl.Label) error {
	candidate, err := FindSibling(filepath.Dir(path), target.LocalName())
	if err != nil {
		return err
	}
	if candidate == "" {
		merger.stats.LogDebug("no sibling file found for reference", "reference", string(target), "dir", filepath.Dir(path))
		return nil
	}

	imported, ok, err := Validate(merger.loader, merger.stats, candidate)
	if err != nil {
		return err
	}
	if !ok {
		return imported.Close()
	}

	err = merger.importResource(candidate, imported, target)
	if cerr := imported.Close(); err == nil {
		err = cerr
	}
	return err
}

// importResource copies the statements about target from the graph of the
// file at path into the final mapping, tagged as imported.
func (merger *Merger) importResource(path string, source *sgraph.Graph, target impl.Label) error {
	merger.mapping.Namespaces().Merge(source.Namespaces())

	origin := impl.Source{File: path, Ref: target}
	statements, err := source.StatementsWithSubject(target)
	if err != nil {
		return err
	}
	for _, statement := range statements {
		if err := merger.importStatement(statement, origin); err != nil {
			return err
		}

		// Blank node objects are expanded one level, deeper blank node
		// structures stay unimported.
		if statement.HasDatum || !statement.Object.IsBlank() {
			continue
		}
		nested, err := source.StatementsWithSubject(statement.Object)
		if err != nil {
			return err
		}
		for _, statement := range nested {
			if err := merger.importStatement(statement, origin); err != nil {
				return err
			}
		}
	}
	return nil
}

func (merger *Merger) importStatement(statement sgraph.Statement, origin impl.Source) error {
	statement.Role = sgraph.Imported
	statement.Source = origin
	if _, _, err := merger.mapping.Add(statement); err != nil {
		return err
	}
	merger.totals.Imported++
	return nil
}
