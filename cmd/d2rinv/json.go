package main

import (
	"os"

	"github.com/essepuntato/dimm/internal/exporter"
	"github.com/essepuntato/dimm/internal/stats"
)

func doJSON(inventory *exporter.Inventory, st *stats.Stats) {
	js := &exporter.JSON{Writer: os.Stdout}

	err := st.DoStage(stats.StageExportJSON, func() error {
		err := exporter.Export(inventory, js, st)
		if cerr := js.Close(); err == nil {
			err = cerr
		}
		return err
	})
	if err != nil {
		st.LogFatal("write json", err)
	}
}
