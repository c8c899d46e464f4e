package dimm

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestIsMappingFile(t *testing.T) {
	for _, tt := range []struct {
		path string
		want bool
	}{
		{"Recipe.ttl", true},
		{"Recipe.rdf", true},
		{"Recipe.owl", true},
		{"Recipe.n3", true},
		{"dir/Recipe.ttl", true},
		{"Recipe.txt", false},
		{"Recipe", false},
		{"Recipe.ttl.bak", false},
	} {
		if got := IsMappingFile(tt.path); got != tt.want {
			t.Errorf("IsMappingFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestScanSources(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	// a directory tree with mixed extensions and a nested subdirectory
	for _, name := range []string{
		"Serving.ttl",
		"Recipe.rdf",
		"notes.txt",
		filepath.Join("nested", "Ingredient.owl"),
		filepath.Join("nested", "README.md"),
	} {
		path := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0750); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, nil, 0600); err != nil {
			t.Fatal(err)
		}
	}

	// explicit files are taken as given, regardless of extension
	extra := filepath.Join(dir, "notes.txt")

	got, err := ScanSources(dir, extra)
	if err != nil {
		t.Fatalf("ScanSources() error = %v", err)
	}

	want := []string{
		filepath.Join(dir, "Recipe.rdf"),
		filepath.Join(dir, "Serving.ttl"),
		filepath.Join(dir, "nested", "Ingredient.owl"),
		extra,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ScanSources() = %v, want %v", got, want)
	}
}

func TestScanSources_missing(t *testing.T) {
	t.Parallel()

	if _, err := ScanSources(filepath.Join(t.TempDir(), "missing.ttl")); err == nil {
		t.Error("ScanSources() error = nil, want non-nil")
	}

	if _, err := ScanSources(); err == nil {
		t.Error("ScanSources() error = nil, want non-nil")
	}
}
