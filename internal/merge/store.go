package merge

import (
	"fmt"
	"os"

	"github.com/essepuntato/dimm/internal/rdfio"
	"github.com/essepuntato/dimm/pkg/progress"
)

// Store writes the final mapping to the file at dest in Turtle form.
//
// Entities with dangling references are pruned first, followed by a final
// sweep for the blank nodes the pruning left behind, so that the stored
// document only contains complete, reachable structures.
func (merger *Merger) Store(dest string) error {
	if err := merger.clearDanglingBridges(); err != nil {
		return err
	}
	if err := merger.clearOrphanBlankNodes(); err != nil {
		return err
	}

	handle, err := os.Create(dest)
	if err != nil {
		return fmt.Errorf("failed to create %q: %w", dest, err)
	}
	writer := &progress.Writer{Writer: handle, Line: merger.stats.Rewritable()}
	err = rdfio.Save(&merger.mapping, writer)
	if cerr := handle.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to store mapping: %w", err)
	}

	merger.stats.Log("mapping file stored", "path", dest, "bytes", writer.Bytes)
	return nil
}
