// Package migrations holds the embedded SQL migration files for the
// SQLite store driver.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
