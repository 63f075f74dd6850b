// Package migrations embeds the goose SQL migrations for the food log schema.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
