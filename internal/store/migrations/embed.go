// Package migrations embeds the Postgres schema for the remote record
// store.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
