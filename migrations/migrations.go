// Package migrations embeds the PostgreSQL schema migrations so the server
// and the migrate CLI can apply them without a checkout on disk.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
