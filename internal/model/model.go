// Package model declares the persistent entities of every microservice
// together with their table mappings.
//
// Enumerations are stored as integers; their columns are declared with
// entity.KindInt so filters coerce request values accordingly. Timestamp
// columns with a database default are pointers so inserts leave them out.
package model
