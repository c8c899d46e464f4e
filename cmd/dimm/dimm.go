// Command dimm merges partial d2rq mapping files into a single mapping document.
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/essepuntato/dimm"
	"github.com/essepuntato/dimm/internal/merge"
	"github.com/essepuntato/dimm/internal/rdfio"
	"github.com/essepuntato/dimm/internal/stats"
	"github.com/pkg/profile"
	"github.com/tkw1536/pkglib/perf"
)

func main() {
	st := stats.New(os.Stderr)
	if verbose {
		st.SetLevel(slog.LevelDebug)
	}

	if debugProfile != "" {
		defer profile.Start(profile.ProfilePath(debugProfile)).Stop()
	}
	if debugServer != "" {
		go listenDebug(st)
	}

	if validateFile == "" && (len(nArgs) == 0 || destFile == "") {
		st.LogWarn("Usage: dimm [-help] [...flags] -dest /path/to/mapping.ttl /path/to/source...")
		flag.PrintDefaults()
		os.Exit(1)
	}

	loader := &rdfio.Loader{TmpDir: tmpDir, Stats: st}

	// standalone validation runs at full verbosity
	if validateFile != "" {
		if !verbose {
			st.SetLevel(slog.LevelInfo)
		}
		err := st.DoStage(stats.StageValidate, func() error {
			g, _, err := merge.Validate(loader, st, validateFile)
			if err != nil {
				return err
			}
			return g.Close()
		})
		if !verbose {
			st.SetLevel(slog.LevelWarn)
		}
		if err != nil {
			st.LogFatal("unable to validate file", err)
		}
	}

	if len(nArgs) == 0 || destFile == "" {
		return
	}

	engine := merge.NewEngine(cache)
	if cache != "" {
		st.Log("keeping working data on disk", "path", cache)
	}

	merger, err := merge.New(engine, loader, st)
	if err != nil {
		st.LogFatal("unable to create mapping", err)
	}
	defer merger.Close()

	var files []string
	err = st.DoStage(stats.StageScan, func() (err error) {
		files, err = dimm.ScanSources(nArgs...)
		return
	})
	if err != nil {
		st.LogFatal("unable to scan sources", err)
	}

	err = st.DoStage(stats.StageMerge, func() error {
		return merger.MergePaths(files...)
	})
	if err != nil {
		st.LogFatal("unable to merge mapping files", err)
	}

	if err := st.DoStage(stats.StageReport, merger.Report); err != nil {
		st.LogFatal("unable to report references", err)
	}

	// the stored message and the final summary are part of the default output
	if !verbose {
		st.SetLevel(slog.LevelInfo)
	}
	err = st.DoStage(stats.StageStore, func() error {
		return merger.Store(destFile)
	})
	if err != nil {
		st.LogFatal("unable to store mapping", err)
	}

	totals := merger.Totals()
	st.StoreTotals(totals)

	st.Log("finished", "took", st.Diff(), "now", perf.Now(),
		"files", totals.Files, "statements", totals.Statements, "imported", totals.Imported,
		"suppressed", totals.Suppressed, "orphans", totals.Orphans,
		"dangling", totals.Dangling, "unresolved", totals.Unresolved)
	st.Close()
}

var nArgs []string

var destFile string
var validateFile string
var tmpDir string
var cache string
var verbose bool

var debugServer string
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

	flag.StringVar(&destFile, "dest", destFile, "Store the merged mapping in the given file")
	flag.StringVar(&validateFile, "validate", validateFile, "Validate the given mapping file and report its main resource")
	flag.StringVar(&tmpDir, "tmp-dir", tmpDir, "Retry unreadable files through a scratch copy in the given directory")
	flag.StringVar(&cache, "cache", cache, "Keep working data in the given directory instead of in memory")
	flag.BoolVar(&verbose, "verbose", verbose, "Include informational and debug messages in the output")

	flag.StringVar(&debugServer, "debug-listen", debugServer, "Serve profiling and progress data on the given address")
	flag.StringVar(&debugProfile, "debug-profile", debugProfile, "Write a profiling trace to the given path")

	flag.Parse()
	nArgs = flag.Args()
}
