// Package sqlite persists repair history and registry lookups in a local
// SQLite database (modernc.org/sqlite, no cgo).
//
// Store is the entry point; RunStore and RegistryCache return the
// driven-port views over the shared connection.
package sqlite
