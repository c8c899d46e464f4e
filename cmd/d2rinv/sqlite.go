package main

import (
	"database/sql"

	"github.com/essepuntato/dimm/internal/exporter"
	"github.com/essepuntato/dimm/internal/stats"
	_ "github.com/glebarez/go-sqlite"
	_ "github.com/go-sql-driver/mysql"
)

// sqlite rejects statements with more than 32766 bound variables,
// see https://www.sqlite.org/limits.html. Batches stay well below that.
const (
	sqlMaxQueryVar = 32766
	sqlBatchSize   = 1000
)

func doSQL(inventory *exporter.Inventory, proto, addr string, st *stats.Stats) {
	db, err := sql.Open(proto, addr)
	if err != nil {
		st.LogFatal("unable to open database", err)
	}

	sq := &exporter.SQL{
		DB: db,

		BatchSize:   sqlBatchSize,
		MaxQueryVar: sqlMaxQueryVar,
	}

	err = st.DoStage(stats.StageExportSQL, func() error {
		err := exporter.Export(inventory, sq, st)
		if cerr := sq.Close(); err == nil {
			err = cerr
		}
		return err
	})
	if err != nil {
		st.LogFatal("unable to export database", err)
	}
}
