// Package entity describes how a Go type maps onto a database table.
//
// Every persistent type declares its table and columns once, statically,
// through a Schema method. Describe validates that declaration on first
// use and caches the resulting Descriptor for the lifetime of the process,
// so the query builder and the row decoder never inspect the type again.
//
// A column is a pair of closures over a field of T:
//   - one that reads the field's value (nil when a nullable field is unset)
//   - one that returns a pointer to the field, used as a scan destination
package entity
