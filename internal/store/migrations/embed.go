package migrations

import "embed"

// Migrations embeds the goose SQL migration set applied by Store.Open.
//
//go:embed *.sql
var Migrations embed.FS
