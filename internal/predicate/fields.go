// Package predicate compiles graph-style predicates into engine queries and
// reconciles the approximate hits those queries return.
package predicate

// Document field names shared by the compiler and the stores that write documents.
const (
	FieldDatasource = "datasource"
	FieldLabel      = "label"
	FieldSource     = "sid"
	FieldTarget     = "tid"
	FieldProperties = "properties"

	FieldPropertyKey   = FieldProperties + ".key"
	FieldPropertyType  = FieldProperties + ".type"
	FieldPropertyValue = FieldProperties + ".value"
)
