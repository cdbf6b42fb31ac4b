package config

import (
	"flag"
	"os"
	"time"

	"github.com/compose-report/reportsync/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-d string   path of the local SQLite database
//	-r string   document database connection string
//	-b string   blob storage bucket name
//	-e string   blob storage endpoint (for S3-compatible services)
//	-i int      drain interval in seconds
//
// Credentials and secrets are deliberately not accepted on the command
// line; use the JSON config file for those.
//
// The function filters os.Args to only the flags it knows about, using
// flagx.FilterArgs, to avoid interference with other components.
func parseFlags(cfg *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-d", "-r", "-b", "-e", "-i"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.LocalDBPath, "d", cfg.LocalDBPath, "path of the local sqlite database")
	fs.StringVar(&cfg.RecordsDSN, "r", cfg.RecordsDSN, "document database connection string")
	fs.StringVar(&cfg.S3Bucket, "b", cfg.S3Bucket, "blob storage bucket")
	fs.StringVar(&cfg.S3Endpoint, "e", cfg.S3Endpoint, "blob storage endpoint")
	drainInterval := fs.Int("i", int(cfg.DrainInterval.Seconds()), "drain interval (in seconds)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	cfg.DrainInterval = time.Duration(*drainInterval) * time.Second
}
