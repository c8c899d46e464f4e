package sgraph_test

import (
	"testing"

	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
	"github.com/essepuntato/dimm/internal/triplestore/smap"
)

func TestDiskEngine(t *testing.T) {
	t.Parallel()

	graphTest(t, &sgraph.DiskEngine{
		DiskMap: smap.DiskMap{
			Path: t.TempDir(),
		},
	}, 100)
}
