// Package migrations ships the SQLite schema for run history and the
// registry lookup cache.
package migrations

import "embed"

// FS holds NNN_name.up.sql / NNN_name.down.sql pairs, applied in order.
//
//go:embed *.sql
var FS embed.FS
