package rdfio

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/essepuntato/dimm/internal/stats"
	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
	"github.com/essepuntato/dimm/pkg/progress"
)

var (
	// ErrMissingFile indicates that a mapping file does not exist.
	ErrMissingFile = errors.New("no such file")

	// ErrUnknownFormat indicates that no supported format could parse a mapping file.
	ErrUnknownFormat = errors.New("unknown format")
)

// scratchName is the name a file gets when copied into the scratch directory.
const scratchName = "tmp_rdf_file.rdf"

// Loader reads mapping files into in-memory statement graphs.
type Loader struct {
	Formats []Format // formats to try in order; nil means DefaultFormats
	TmpDir  string   // scratch directory for files that fail to read; empty disables the fallback
	Stats   *stats.Stats

	loads int // completed loads, keeps blank nodes of distinct files apart
}

// Load reads the mapping file at path into a fresh in-memory graph.
//
// Each configured format is attempted in order against a clean graph; the
// first one to parse the complete file wins. Namespace bindings declared by
// the file are bound on the returned graph, and blank nodes are renamed so
// that no two loads ever share a blank node label.
//
// The caller is responsible for closing the returned graph.
func (loader *Loader) Load(path string) (*sgraph.Graph, Format, error) {
	data, err := loader.read(path)
	if err != nil {
		return nil, 0, err
	}

	formats := loader.Formats
	if formats == nil {
		formats = DefaultFormats
	}

	loader.loads++
	source := impl.Source{File: path}

	for _, format := range formats {
		g, err := loader.parse(data, format, source)
		if err != nil {
			loader.Stats.LogDebug("parse attempt failed", "path", path, "format", format, "err", err)
			continue
		}

		for prefix, namespace := range ScanPrefixes(data, format) {
			g.Namespaces().Bind(prefix, namespace)
		}

		loader.Stats.LogDebug("parsed file", "path", path, "format", format)
		return g, format, nil
	}

	return nil, 0, fmt.Errorf("%q: %w", path, ErrUnknownFormat)
}

// read returns the bytes of the file at path.
//
// A file that exists but cannot be read is retried through a copy in the
// scratch directory, when one is configured.
func (loader *Loader) read(path string) ([]byte, error) {
	data, err := loader.readCounted(path)
	switch {
	case err == nil:
		return data, nil
	case errors.Is(err, fs.ErrNotExist):
		return nil, fmt.Errorf("%q: %w", path, ErrMissingFile)
	case loader.TmpDir == "":
		return nil, fmt.Errorf("failed to read %q: %w", path, err)
	}

	loader.Stats.LogDebug("retrying through scratch directory", "path", path, "tmp", loader.TmpDir)

	scratch := filepath.Join(loader.TmpDir, scratchName)
	if err := copyFile(scratch, path); err != nil {
		return nil, fmt.Errorf("failed to copy %q to scratch directory: %w", path, err)
	}
	defer os.Remove(scratch)

	data, err = loader.readCounted(scratch)
	if err != nil {
		return nil, fmt.Errorf("failed to read %q: %w", scratch, err)
	}
	return data, nil
}

// readCounted reads the file at path, reporting the running byte count on
// the terminal while it happens.
func (loader *Loader) readCounted(path string) ([]byte, error) {
	handle, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer handle.Close()

	return io.ReadAll(&progress.Reader{Reader: handle, Line: loader.Stats.Rewritable()})
}

func copyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}

	_, err = io.Copy(out, in)
	return errors.Join(err, out.Close())
}

// parse decodes data in the given format into a fresh in-memory graph.
func (loader *Loader) parse(data []byte, format Format, source impl.Source) (*sgraph.Graph, error) {
	src, err := NewSource(bytes.NewReader(data), format)
	if err != nil {
		return nil, err
	}
	if err := src.Open(); err != nil {
		return nil, err
	}
	defer src.Close()

	g := new(sgraph.Graph)
	if err := g.Reset(&sgraph.MemoryEngine{}); err != nil {
		return nil, err
	}

	blanks := make(map[impl.Label]impl.Label)
	for {
		token := src.Next()
		if errors.Is(token.Err, io.EOF) {
			break
		}
		if token.Err != nil {
			_ = g.Close()
			return nil, token.Err
		}

		statement := sgraph.Statement{
			Subject:   loader.renameBlank(token.Subject, blanks),
			Predicate: token.Predicate,
			Datum:     token.Datum,
			HasDatum:  token.HasDatum,
			Source:    source,
		}
		if !token.HasDatum {
			statement.Object = loader.renameBlank(token.Object, blanks)
		}

		if _, _, err := g.Add(statement); err != nil {
			_ = g.Close()
			return nil, err
		}
	}

	return g, nil
}

// renameBlank names a blank node uniquely for the current load.
func (loader *Loader) renameBlank(label impl.Label, blanks map[impl.Label]impl.Label) impl.Label {
	if !label.IsBlank() {
		return label
	}
	if renamed, ok := blanks[label]; ok {
		return renamed
	}

	renamed := impl.Label(fmt.Sprintf("%sf%db%d", impl.BlankPrefix, loader.loads, len(blanks)))
	blanks[label] = renamed
	return renamed
}
