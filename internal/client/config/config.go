package config

import "time"

// Config holds runtime settings for the report sync client.
//
// Fields cover the three backends the client talks to: the local SQLite
// database holding the pending queues, the Postgres document database
// holding report records, and the S3-compatible blob storage holding the
// image bytes.
type Config struct {
	// LocalDBPath is the path of the SQLite file with the pending queues.
	LocalDBPath string

	// RecordsDSN is the connection string of the document database.
	RecordsDSN string

	// Blob storage connection settings. S3Endpoint is optional; when set
	// the client uses it with path-style addressing (MinIO and friends).
	S3Region          string
	S3Endpoint        string
	S3Bucket          string
	S3AccessKeyID     string
	S3SecretAccessKey string

	// AuthToken is the signed token identifying the current owner;
	// JWTSecret verifies it.
	AuthToken string
	JWTSecret string

	// DrainInterval is how often the pending queues are replayed.
	DrainInterval time.Duration
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.LocalDBPath = "reportsync.db"
	c.S3Region = "us-east-1"
	c.S3Bucket = "report-images"
	c.DrainInterval = 30 * time.Second
}

// LoadConfig constructs a Config, applies defaults, then overlays values
// from JSON (if present) and command-line flags (if present). Later
// sources take precedence over earlier ones.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
