// Package migrations embeds the goose SQL migrations so the server binary
// can apply them without a checkout of the repository.
package migrations

import "embed"

// FS holds the SQL migration files.
//
//go:embed *.sql
var FS embed.FS
