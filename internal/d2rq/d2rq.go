// Package d2rq defines the D2RQ vocabulary terms the merger works with.
package d2rq

import "github.com/essepuntato/dimm/internal/triplestore/impl"

// Namespace is the base IRI of the D2RQ vocabulary.
const Namespace impl.Label = "http://www.wiwiss.fu-berlin.de/suhl/bizer/D2RQ/0.1#"

// Type is the "rdf:type" Predicate.
const Type impl.Label = "http://www.w3.org/1999/02/22-rdf-syntax-ns#type"

// Classes of mapping resources.
const (
	ClassMap         = Namespace + "ClassMap"         // maps a database table to a class of resources
	TranslationTable = Namespace + "TranslationTable" // translates database values into RDF values
	Database         = Namespace + "Database"         // describes a JDBC connection
	PropertyBridge   = Namespace + "PropertyBridge"   // maps a table column to a property
)

// Properties whose objects name another mapping resource.
const (
	RefersToClassMap = Namespace + "refersToClassMap" // a bridge pointing at a related class map
	TranslateWith    = Namespace + "translateWith"    // a bridge translated by a translation table
	DataStorage      = Namespace + "dataStorage"      // a class map stored in a database
)

// Properties describing mapping resources.
const (
	BelongsToClassMap = Namespace + "belongsToClassMap"
	Class             = Namespace + "class"
	Property          = Namespace + "property"
	URIPattern        = Namespace + "uriPattern"
	URIColumn         = Namespace + "uriColumn"
	Column            = Namespace + "column"
	Pattern           = Namespace + "pattern"
	JDBCDSN           = Namespace + "jdbcDSN"
	JDBCDriver        = Namespace + "jdbcDriver"
	Username          = Namespace + "username"
	Password          = Namespace + "password"
	Translation       = Namespace + "translation"
	DatabaseValue     = Namespace + "databaseValue"
	RDFValue          = Namespace + "rdfValue"
)

// Reference describes a property whose object must name a resource of Type.
type Reference struct {
	Predicate impl.Label
	Type      impl.Label
}

// References lists all reference properties, in the order they are resolved.
var References = []Reference{
	{Predicate: RefersToClassMap, Type: ClassMap},
	{Predicate: TranslateWith, Type: TranslationTable},
	{Predicate: DataStorage, Type: Database},
}
