// Package config loads runtime configuration for the NoteNexus CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-d string   Postgres DSN of the remote record store
//	-s string   path of the local snapshot database
//
// # JSON schema
//
// The JSON loader uses timex.Duration for intervals, so values can be
// either strings like "2.5s" or integer nanoseconds:
//
//	{
//	  "database_dsn": "postgres://localhost/notenexus",
//	  "snapshot_path": "notenexus.db",
//	  "verify_delay": "2.5s"
//	}
//
// Primary API
//
//   - type Config                     — all runtime settings of the CLI
//   - func LoadConfig() *Config       — builds Config by applying defaults, JSON, then flags
//   - func (*Config) LoadDefaults()   — sets the demo deployment defaults
//
// Note: This package does not read environment variables directly; use the
// JSON file or flags to configure values.
package config
