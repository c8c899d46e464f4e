package exporter

import (
	"database/sql"
	"errors"
	"sync"

	"github.com/huandu/go-sqlbuilder"
)

// SQL implements an exporter for storing the inventory inside a sql database.
// Every inventory column is stored as a text column.
type SQL struct {
	DB *sql.DB

	BatchSize   int // rows collected before an insert is issued
	MaxQueryVar int // maximum number of query variables per statement

	batches   map[string][]Row
	dbLock    sync.Mutex
	batchLock sync.Mutex
}

var (
	nullString               sql.NullString
	errInsufficientQueryVars = errors.New("too few query variables for a single row")
)

// exec runs a single query while holding the database lock.
func (sq *SQL) exec(query string, args []any) (err error) {
	sq.dbLock.Lock()
	defer sq.dbLock.Unlock()

	_, err = sq.DB.Exec(query, args...)
	return
}

// execInsert inserts the given rows into table.
// Rows are split over several inserts whenever a single one would exceed
// MaxQueryVar bound variables.
func (sq *SQL) execInsert(table string, columns []string, rows []Row) error {
	if len(rows) == 0 {
		return nil
	}

	// each row costs one query variable per column
	chunkSize := sq.MaxQueryVar / len(columns)
	if chunkSize == 0 {
		return errInsufficientQueryVars
	}

	// the configured batch size caps the chunk further
	if sq.BatchSize > 0 && sq.BatchSize < chunkSize {
		chunkSize = sq.BatchSize
	}

	for i := 0; i < len(rows); i += chunkSize {
		insert := sqlbuilder.InsertInto(table)
		insert.Cols(columns...)

		chunkEnd := i + chunkSize
		if chunkEnd > len(rows) {
			chunkEnd = len(rows)
		}

		for _, row := range rows[i:chunkEnd] {
			insert.Values(rowValues(row)...)
		}

		if err := sq.exec(insert.Build()); err != nil {
			return err
		}
	}

	return nil
}

// rowValues converts a row into insert values, missing values become null.
func rowValues(row Row) []any {
	values := make([]any, len(row))
	for i, value := range row {
		if value == "" {
			values[i] = nullString
			continue
		}
		values[i] = value
	}
	return values
}

func (sq *SQL) Begin(table Table, count int64) error {
	func() {
		sq.batchLock.Lock()
		defer sq.batchLock.Unlock()

		if sq.batches == nil {
			sq.batches = make(map[string][]Row)
		}
	}()

	// leftovers from a previous export would corrupt the inventory
	if err := sq.exec("DROP TABLE IF EXISTS "+table.Name+";", nil); err != nil {
		return err
	}

	create := sqlbuilder.CreateTable(table.Name).IfNotExists()
	for i, column := range table.Columns {
		if i == 0 {
			create.Define(column, "TEXT", "NOT NULL")
			continue
		}
		create.Define(column, "TEXT")
	}
	return sq.exec(create.Build())
}

func (sq *SQL) Add(table Table, row Row) error {
	batch := func() []Row {
		sq.batchLock.Lock()
		defer sq.batchLock.Unlock()

		sq.batches[table.Name] = append(sq.batches[table.Name], row)
		if sq.BatchSize <= 0 || len(sq.batches[table.Name]) < sq.BatchSize {
			return nil
		}

		// extract the current batch
		rows := make([]Row, len(sq.batches[table.Name]))
		copy(rows, sq.batches[table.Name])
		sq.batches[table.Name] = sq.batches[table.Name][:0]
		return rows
	}()

	if len(batch) == 0 {
		return nil
	}
	return sq.execInsert(table.Name, table.Columns, batch)
}

func (sq *SQL) End(table Table) error {
	rest := func() []Row {
		sq.batchLock.Lock()
		defer sq.batchLock.Unlock()

		rows := sq.batches[table.Name]
		delete(sq.batches, table.Name)
		return rows
	}()

	return sq.execInsert(table.Name, table.Columns, rest)
}

func (sq *SQL) Close() error {
	return sq.DB.Close()
}
