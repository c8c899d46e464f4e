package merge

import (
	"path/filepath"
	"strings"

	"github.com/essepuntato/dimm/internal/d2rq"
	"github.com/essepuntato/dimm/internal/rdfio"
	"github.com/essepuntato/dimm/internal/stats"
	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
)

// ExpectedName returns the name of the resource a mapping file is expected to
// declare, which is the base name of path stripped of everything from the
// first dot on.
func ExpectedName(path string) string {
	name := filepath.Base(path)
	if index := strings.IndexByte(name, '.'); index >= 0 {
		name = name[:index]
	}
	return name
}

// Validate loads the mapping file at path and checks that it declares a typed
// resource whose local name equals the file name.
//
// The loaded graph is returned either way so that a caller can still inspect
// an invalid file; ok tells whether the expected resource was found. When the
// file declares several matching resources the last one wins. The outcome is
// reported to st, a missing resource as a warning.
//
// The caller is responsible for closing the returned graph.
func Validate(loader *rdfio.Loader, st *stats.Stats, path string) (g *sgraph.Graph, ok bool, err error) {
	g, _, err = loader.Load(path)
	if err != nil {
		return nil, false, err
	}

	name := ExpectedName(path)
	var resource impl.Label
	var kind string
	err = g.Iterate(func(statement sgraph.Statement) error {
		if statement.Predicate != d2rq.Type {
			return nil
		}
		if statement.Subject.LocalName() != name {
			return nil
		}
		ok = true
		resource = statement.Subject
		if statement.HasDatum {
			kind = statement.Datum.Serialize()
		} else {
			kind = string(statement.Object)
		}
		return nil
	})
	if err != nil {
		_ = g.Close()
		return nil, false, err
	}

	if !ok {
		st.LogWarn("no resource with the expected name is defined in the file", "name", name, "path", path)
		return g, false, nil
	}
	st.Log("mapping file is valid", "path", path, "resource", string(resource), "type", kind)
	return g, true, nil
}
