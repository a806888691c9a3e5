// Package migrations embeds the SQL migration files executed at startup.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
