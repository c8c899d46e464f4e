package merge_test

import (
	"bytes"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/essepuntato/dimm/internal/merge"
	"github.com/essepuntato/dimm/internal/rdfio"
	"github.com/essepuntato/dimm/internal/stats"
)

func TestExpectedName(t *testing.T) {
	t.Parallel()

	for _, tt := range []struct {
		path string
		want string
	}{
		{"Recipe.ttl", "Recipe"},
		{"/some/dir/Recipe.class.ttl", "Recipe"},
		{"Recipe", "Recipe"},
		{"Database1.owl", "Database1"},
		{"dir/.hidden", ""},
	} {
		if got := merge.ExpectedName(tt.path); got != tt.want {
			t.Errorf("ExpectedName(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	recipePath := writeFile(t, dir, "Recipe.ttl", recipeTTL)
	wrongPath := writeFile(t, dir, "Wrong.ttl", recipeTTL)

	t.Run("valid", func(t *testing.T) {
		st := stats.New(io.Discard)
		g, ok, err := merge.Validate(&rdfio.Loader{Stats: st}, st, recipePath)
		if err != nil {
			t.Fatal(err)
		}
		defer g.Close()

		if !ok {
			t.Errorf("Validate(%q) = false, want true", recipePath)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		var out bytes.Buffer
		st := stats.New(&out)
		g, ok, err := merge.Validate(&rdfio.Loader{Stats: st}, st, wrongPath)
		if err != nil {
			t.Fatal(err)
		}
		defer g.Close()

		if ok {
			t.Errorf("Validate(%q) = true, want false", wrongPath)
		}
		if !strings.Contains(out.String(), "Wrong") {
			t.Errorf("warning does not name the expected resource:\n%s", out.String())
		}

		// the graph is still usable for inspection
		if got := count(t, g); got != 3 {
			t.Errorf("Count() = %d, want 3", got)
		}
	})

	t.Run("missing", func(t *testing.T) {
		st := stats.New(io.Discard)
		_, _, err := merge.Validate(&rdfio.Loader{Stats: st}, st, filepath.Join(dir, "Nowhere.ttl"))
		if !errors.Is(err, rdfio.ErrMissingFile) {
			t.Errorf("Validate() error = %v, want %v", err, rdfio.ErrMissingFile)
		}
	})
}

// When several resources carry the expected local name, the last declaration
// of the file decides the reported main resource.
func TestValidate_lastDeclarationWins(t *testing.T) {
	t.Parallel()

	const dishTTL = `@prefix d2rq: <http://www.wiwiss.fu-berlin.de/suhl/bizer/D2RQ/0.1#> .
@prefix map: <http://example.com/mapping#> .
@prefix alt: <http://example.com/alternative#> .

map:Dish a d2rq:ClassMap ;
	d2rq:uriPattern "dish/@@Dish.ID@@" .

alt:Dish a d2rq:Database .
`

	path := writeFile(t, t.TempDir(), "Dish.ttl", dishTTL)

	var out bytes.Buffer
	st := stats.New(&out)
	st.SetLevel(slog.LevelInfo)

	g, ok, err := merge.Validate(&rdfio.Loader{Stats: st}, st, path)
	if err != nil {
		t.Fatal(err)
	}
	defer g.Close()

	if !ok {
		t.Fatal("Validate() = false, want true")
	}
	if !strings.Contains(out.String(), "alternative#Dish") {
		t.Errorf("report does not name the last declaration:\n%s", out.String())
	}
}
