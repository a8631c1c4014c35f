package config

import (
	"flag"
	"os"

	"github.com/notenexus/notenexus/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   Postgres DSN of the remote record store
//	-s string   path of the local snapshot database
//
// Note: The function filters os.Args to only include the flags it knows
// about, using flagx.FilterArgs, to avoid interference with other
// components.
func parseFlags(cfg *Config) {
	// Filter args to include only those handled here.
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-s"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.DatabaseDSN, "d", cfg.DatabaseDSN, "postgres DSN of the remote record store")
	fs.StringVar(&cfg.SnapshotPath, "s", cfg.SnapshotPath, "path of the local snapshot database")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
