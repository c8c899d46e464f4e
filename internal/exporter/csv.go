package exporter

import (
	"encoding/csv"
	"errors"
	"os"
	"path/filepath"
	"sync"
)

// CSV implements an exporter that writes one csv file per inventory table
// into a directory, header row included.
type CSV struct {
	Dir string

	files   map[string]*os.File
	writers map[string]*csv.Writer
	l       sync.Mutex
}

func (cv *CSV) Begin(table Table, count int64) error {
	cv.l.Lock()
	defer cv.l.Unlock()

	if cv.files == nil {
		cv.files = make(map[string]*os.File, len(Tables))
		cv.writers = make(map[string]*csv.Writer, len(Tables))
	}

	handle, err := os.Create(filepath.Join(cv.Dir, table.Name+".csv"))
	if err != nil {
		return err
	}
	writer := csv.NewWriter(handle)

	cv.files[table.Name] = handle
	cv.writers[table.Name] = writer

	return writer.Write(table.Columns)
}

func (cv *CSV) Add(table Table, row Row) error {
	cv.l.Lock()
	defer cv.l.Unlock()

	return cv.writers[table.Name].Write(row)
}

func (cv *CSV) End(table Table) error {
	cv.l.Lock()
	defer cv.l.Unlock()

	writer := cv.writers[table.Name]
	if writer == nil {
		return nil
	}
	writer.Flush()
	return writer.Error()
}

func (cv *CSV) Close() error {
	cv.l.Lock()
	defer cv.l.Unlock()

	var errs []error
	for _, handle := range cv.files {
		errs = append(errs, handle.Close())
	}
	return errors.Join(errs...)
}
