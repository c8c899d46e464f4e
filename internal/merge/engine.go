package merge

import (
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
)

// NewEngine creates an engine for the final mapping.
// When path is the empty string, the mapping is held in memory.
// Otherwise statements are spilled to disk under the given directory.
func NewEngine(path string) sgraph.Engine {
	if path == "" {
		return &sgraph.MemoryEngine{}
	}

	var de sgraph.DiskEngine
	de.Path = path
	return de
}
