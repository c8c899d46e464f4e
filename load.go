// Package dimm provides shared functionality for the d2rq mapping merger commands.
package dimm

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
)

// MappingExtensions holds the file extensions recognized as mapping modules when scanning directories.
var MappingExtensions = []string{".rdf", ".owl", ".ttl", ".n3"}

// IsMappingFile checks if path names a mapping module, based on its extension.
func IsMappingFile(path string) bool {
	return slices.Contains(MappingExtensions, filepath.Ext(path))
}

var errNoSources = errors.New("need at least one source path")

// ScanSources expands the given source arguments into the list of mapping files to be merged.
//
// An argument naming a directory is walked recursively and contributes every file
// with a recognized mapping extension, in lexical order.
// An argument naming a file is used as given, regardless of its extension.
// ScanSources does not guarantee that the returned files are loadable.
func ScanSources(argv ...string) ([]string, error) {
	if len(argv) == 0 {
		return nil, errNoSources
	}

	files := make([]string, 0, len(argv))
	for _, arg := range argv {
		isDir, err := isDirectory(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to scan source %q: %w", arg, err)
		}

		if !isDir {
			files = append(files, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, entry fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !entry.IsDir() && IsMappingFile(path) {
				files = append(files, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan source %q: %w", arg, err)
		}
	}

	return files, nil
}

func isDirectory(path string) (bool, error) {
	info, err := os.Stat(path)
	if err != nil {
		return false, err
	}
	return info.IsDir(), nil
}
