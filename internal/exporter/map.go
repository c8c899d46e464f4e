package exporter

import (
	"sync"
)

// Map collects the inventory into an in-memory table of rows.
// It is primarily useful for inspection and tests.
type Map struct {
	Data map[string][]Row
	m    sync.Mutex
}

// Begin announces that count rows follow for the given table.
func (mp *Map) Begin(table Table, count int64) error {
	mp.m.Lock()
	defer mp.m.Unlock()

	if mp.Data == nil {
		mp.Data = make(map[string][]Row, len(Tables))
	}
	mp.Data[table.Name] = make([]Row, 0, int(count))
	return nil
}

// Add appends one row to the given table.
func (mp *Map) Add(table Table, row Row) error {
	mp.m.Lock()
	defer mp.m.Unlock()

	mp.Data[table.Name] = append(mp.Data[table.Name], row)
	return nil
}

// End marks the table as complete. The map keeps no per-table state.
func (mp *Map) End(table Table) error {
	return nil
}

func (mp *Map) Close() error {
	return nil
}
