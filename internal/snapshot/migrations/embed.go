// Package migrations embeds the sqlite schema for the local session
// snapshot.
package migrations

import "embed"

//go:embed *.sql
var Migrations embed.FS
