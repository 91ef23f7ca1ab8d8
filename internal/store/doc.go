// Package store implements the hierarchical key-addressed store the archive
// is persisted into.
//
// A store is a single SQLite file holding two tables: containers, addressed
// by slash-separated paths, and the typed scalars stored under keys inside
// them. Scalars are one of string, uint16, uint64 or bool and are read and
// written through the generic Get and Put functions.
//
// Every operation runs under a bounded retry policy. Driver and filesystem
// failures surface as *IOError and are retried; ErrNotFound and the other
// sentinels describe the shape of the data and are returned immediately.
//
// Compile and Decompile move a whole store to and from a single backup
// file: a CBOR envelope around a VACUUM INTO snapshot.
package store
