// Command d2rinv turns a merged d2rq mapping file into a relational inventory
// and exports it as json, csv files or a sql database.
package main

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/essepuntato/dimm"
	"github.com/essepuntato/dimm/internal/exporter"
	"github.com/essepuntato/dimm/internal/rdfio"
	"github.com/essepuntato/dimm/internal/stats"
	"github.com/pkg/profile"
	"github.com/tkw1536/pkglib/perf"
)

var errMultipleOutputs = errors.New("more than one of -sqlite, -mysql and -csv was given")

func main() {
	st := stats.New(os.Stderr)
	if verbose {
		st.SetLevel(slog.LevelDebug)
	}

	if debugProfile != "" {
		defer profile.Start(profile.ProfilePath(debugProfile)).Stop()
	}

	var selected int
	for _, output := range []string{mysql, sqlite, csvDir} {
		if output != "" {
			selected++
		}
	}
	if selected > 1 {
		st.LogFatal("parse arguments", errMultipleOutputs)
	}

	if len(nArgs) != 1 {
		st.LogWarn("Usage: d2rinv [-help] [...flags] /path/to/mapping.ttl")
		flag.PrintDefaults()
		os.Exit(1)
	}

	loader := &rdfio.Loader{TmpDir: tmpDir, Stats: st}

	var inventory *exporter.Inventory
	err := st.DoStage(stats.StageInventory, func() error {
		g, _, err := loader.Load(nArgs[0])
		if err != nil {
			return err
		}
		inventory, err = exporter.Collect(g)
		if cerr := g.Close(); err == nil {
			err = cerr
		}
		return err
	})
	if err != nil {
		st.LogFatal("unable to build inventory", err)
	}

	switch {
	case mysql != "":
		doSQL(inventory, "mysql", mysql, st)
	case sqlite != "":
		doSQL(inventory, "sqlite", sqlite, st)
	case csvDir != "":
		doCSV(inventory, csvDir, st)
	default:
		doJSON(inventory, st)
	}

	// the final summary is part of the default output
	if !verbose {
		st.SetLevel(slog.LevelInfo)
	}
	st.Log("finished", "took", st.Diff(), "now", perf.Now())
	st.Close()
}

var nArgs []string

var tmpDir string
var verbose bool

var sqlite string
var mysql string
var csvDir string

var debugProfile string

func init() {
	var legalFlag bool
	flag.BoolVar(&legalFlag, "legal", legalFlag, "Print legal notices and exit")
	defer func() {
		if legalFlag {
			fmt.Print(dimm.LegalText())
			os.Exit(0)
		}
	}()

	flag.StringVar(&tmpDir, "tmp-dir", tmpDir, "Retry unreadable files through a scratch copy in the given directory")
	flag.BoolVar(&verbose, "verbose", verbose, "Include informational and debug messages in the output")

	flag.StringVar(&sqlite, "sqlite", sqlite, "Write the inventory to an sqlite database at the given path")
	flag.StringVar(&mysql, "mysql", mysql, "Write the inventory to a mysql database reached via `user:password@host/database`")
	flag.StringVar(&csvDir, "csv", csvDir, "Write the inventory as csv files into the given directory")

	flag.StringVar(&debugProfile, "debug-profile", debugProfile, "Write a profiling trace to the given path")

	flag.Parse()
	nArgs = flag.Args()
}
