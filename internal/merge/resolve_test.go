package merge_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/essepuntato/dimm/internal/merge"
)

func TestFindSibling(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writeFile(t, dir, "Database1.owl", "")
	writeFile(t, dir, "Database1.ttl", "")
	writeFile(t, dir, "Database10.ttl", "")
	writeFile(t, dir, "Recipe.ttl", "")

	// directories never match, not even by name, and their files are not searched
	for _, sub := range []string{"Colour.d", "nested"} {
		if err := os.Mkdir(filepath.Join(dir, sub), 0777); err != nil {
			t.Fatal(err)
		}
	}
	writeFile(t, filepath.Join(dir, "nested"), "Menu.ttl", "")

	for _, tt := range []struct {
		name string
		want string
	}{
		{"Database1", filepath.Join(dir, "Database1.owl")},
		{"Database10", filepath.Join(dir, "Database10.ttl")},
		{"Recipe", filepath.Join(dir, "Recipe.ttl")},
		{"Data", ""},
		{"Menu", ""},
		{"Colour", ""},
	} {
		got, err := merge.FindSibling(dir, tt.name)
		if err != nil {
			t.Fatal(err)
		}
		if got != tt.want {
			t.Errorf("FindSibling(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}

	if _, err := merge.FindSibling(filepath.Join(dir, "missing"), "Recipe"); err == nil {
		t.Error("FindSibling() on a missing directory returned no error")
	}
}
