package exporter

import (
	"encoding/json"
	"io"
	"sync"
)

// JSON implements an exporter that writes the inventory as a single json
// document, one object per row keyed by column name.
// The document is written when the exporter is closed.
type JSON struct {
	Writer io.Writer

	document map[string][]map[string]string
	l        sync.Mutex
}

func (js *JSON) Begin(table Table, count int64) error {
	js.l.Lock()
	defer js.l.Unlock()

	if js.document == nil {
		js.document = make(map[string][]map[string]string, len(Tables))
	}
	js.document[table.Name] = make([]map[string]string, 0, int(count))
	return nil
}

func (js *JSON) Add(table Table, row Row) error {
	js.l.Lock()
	defer js.l.Unlock()

	object := make(map[string]string, len(table.Columns))
	for i, column := range table.Columns {
		if i >= len(row) {
			break
		}
		object[column] = row[i]
	}
	js.document[table.Name] = append(js.document[table.Name], object)
	return nil
}

func (js *JSON) End(table Table) error {
	return nil // no-op
}

func (js *JSON) Close() error {
	js.l.Lock()
	defer js.l.Unlock()

	return json.NewEncoder(js.Writer).Encode(js.document)
}
