// Package exporter turns a merged mapping into a relational inventory and
// writes it to sql databases, json documents or csv files.
package exporter

import (
	"io"

	"github.com/essepuntato/dimm/internal/d2rq"
	"github.com/essepuntato/dimm/internal/stats"
	"github.com/essepuntato/dimm/internal/triplestore/impl"
	"github.com/essepuntato/dimm/internal/triplestore/sgraph"
)

// Table describes one table of the inventory.
type Table struct {
	Name    string
	Columns []string
}

// Row holds the values of a single inventory row, in column order.
// A missing value is the empty string.
type Row []string

// Tables of the mapping inventory, in export order.
var (
	DatabasesTable = Table{
		Name:    "databases",
		Columns: []string{"resource", "jdbc_dsn", "jdbc_driver", "username", "password"},
	}
	ClassMapsTable = Table{
		Name:    "class_maps",
		Columns: []string{"resource", "data_storage", "uri_pattern", "uri_column", "class"},
	}
	PropertyBridgesTable = Table{
		Name:    "property_bridges",
		Columns: []string{"resource", "belongs_to_class_map", "property", "column", "pattern", "refers_to_class_map", "translate_with"},
	}
	TranslationsTable = Table{
		Name:    "translations",
		Columns: []string{"translation_table", "database_value", "rdf_value"},
	}

	Tables = []Table{DatabasesTable, ClassMapsTable, PropertyBridgesTable, TranslationsTable}
)

// Exporter consumes the inventory of a merged mapping table by table.
type Exporter interface {
	io.Closer

	// Begin signals that count rows will be transmitted for the given table.
	Begin(table Table, count int64) error

	// Add adds a single row for the given table.
	Add(table Table, row Row) error

	// End signals that no more rows will be submitted for the given table.
	End(table Table) error
}

// Inventory is the relational view of a merged mapping.
type Inventory struct {
	rows map[string][]Row
}

// Rows returns the rows collected for the given table.
func (inventory *Inventory) Rows(table Table) []Row {
	return inventory.rows[table.Name]
}

func (inventory *Inventory) add(table Table, row Row) {
	if inventory.rows == nil {
		inventory.rows = make(map[string][]Row, len(Tables))
	}
	inventory.rows[table.Name] = append(inventory.rows[table.Name], row)
}

// Collect builds the inventory of the given mapping.
//
// Entities are picked up by their type statement and appear in the order
// their type statement was added to the mapping. Values are taken from the
// first statement with the respective predicate.
func Collect(g *sgraph.Graph) (*Inventory, error) {
	bySubject := make(map[impl.Label][]sgraph.Statement)
	byKind := make(map[impl.Label][]impl.Label)
	seen := make(map[impl.Label]struct{})

	err := g.Iterate(func(statement sgraph.Statement) error {
		bySubject[statement.Subject] = append(bySubject[statement.Subject], statement)

		if statement.Predicate != d2rq.Type || statement.HasDatum {
			return nil
		}
		if _, ok := seen[statement.Subject]; ok {
			return nil
		}
		switch statement.Object {
		case d2rq.Database, d2rq.ClassMap, d2rq.PropertyBridge, d2rq.TranslationTable:
			seen[statement.Subject] = struct{}{}
			byKind[statement.Object] = append(byKind[statement.Object], statement.Subject)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	inventory := new(Inventory)
	for _, database := range byKind[d2rq.Database] {
		statements := bySubject[database]
		inventory.add(DatabasesTable, Row{
			string(database),
			first(statements, d2rq.JDBCDSN),
			first(statements, d2rq.JDBCDriver),
			first(statements, d2rq.Username),
			first(statements, d2rq.Password),
		})
	}
	for _, classMap := range byKind[d2rq.ClassMap] {
		statements := bySubject[classMap]
		inventory.add(ClassMapsTable, Row{
			string(classMap),
			first(statements, d2rq.DataStorage),
			first(statements, d2rq.URIPattern),
			first(statements, d2rq.URIColumn),
			first(statements, d2rq.Class),
		})
	}
	for _, bridge := range byKind[d2rq.PropertyBridge] {
		statements := bySubject[bridge]
		inventory.add(PropertyBridgesTable, Row{
			string(bridge),
			first(statements, d2rq.BelongsToClassMap),
			first(statements, d2rq.Property),
			first(statements, d2rq.Column),
			first(statements, d2rq.Pattern),
			first(statements, d2rq.RefersToClassMap),
			first(statements, d2rq.TranslateWith),
		})
	}
	for _, table := range byKind[d2rq.TranslationTable] {
		for _, statement := range bySubject[table] {
			if statement.Predicate != d2rq.Translation || statement.HasDatum {
				continue
			}
			translation := bySubject[statement.Object]
			inventory.add(TranslationsTable, Row{
				string(table),
				first(translation, d2rq.DatabaseValue),
				first(translation, d2rq.RDFValue),
			})
		}
	}
	return inventory, nil
}

// first returns the object of the first statement with the given predicate,
// literals as their value and resources as their label.
func first(statements []sgraph.Statement, predicate impl.Label) string {
	for _, statement := range statements {
		if statement.Predicate != predicate {
			continue
		}
		if statement.HasDatum {
			return statement.Datum.Value
		}
		return string(statement.Object)
	}
	return ""
}

// Export streams the inventory through the given exporter, table by table.
func Export(inventory *Inventory, exporter Exporter, st *stats.Stats) error {
	for _, table := range Tables {
		rows := inventory.Rows(table)
		if err := exporter.Begin(table, int64(len(rows))); err != nil {
			return err
		}

		st.SetCT(0, len(rows))
		for i, row := range rows {
			if err := exporter.Add(table, row); err != nil {
				return err
			}
			st.SetCT(i+1, len(rows))
		}

		if err := exporter.End(table); err != nil {
			return err
		}
		st.LogDebug("exported table", "table", table.Name, "rows", len(rows))
	}
	return nil
}
