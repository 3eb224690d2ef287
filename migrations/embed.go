// Package migrations embeds the SQLite schema for the sqlite storage backend.
package migrations

import "embed"

// FS holds the embedded SQL migration files.
//
//go:embed *.sql
var FS embed.FS
