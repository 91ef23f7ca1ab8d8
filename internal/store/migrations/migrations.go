// Package migrations embeds the goose migrations for the container store.
package migrations

import "embed"

//go:embed *.sql
var FS embed.FS
