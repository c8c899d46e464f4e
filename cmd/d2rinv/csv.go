package main

import (
	"github.com/essepuntato/dimm/internal/exporter"
	"github.com/essepuntato/dimm/internal/stats"
)

func doCSV(inventory *exporter.Inventory, dir string, st *stats.Stats) {
	cv := &exporter.CSV{Dir: dir}

	err := st.DoStage(stats.StageExportCSV, func() error {
		err := exporter.Export(inventory, cv, st)
		if cerr := cv.Close(); err == nil {
			err = cerr
		}
		return err
	})
	if err != nil {
		st.LogFatal("export csv", err)
	}
}
