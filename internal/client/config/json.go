package config

import (
	"encoding/json"
	"os"

	"github.com/compose-report/reportsync/internal/flagx"
	"github.com/compose-report/reportsync/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling. It relies
// on timex.Duration so intervals can be given either as strings like "30s"
// or as integer nanoseconds. After parsing, values are copied into the
// runtime Config.
type JsonConfig struct {
	LocalDBPath       string         `json:"local_db_path"`
	RecordsDSN        string         `json:"records_dsn"`
	S3Region          string         `json:"s3_region"`
	S3Endpoint        string         `json:"s3_endpoint"`
	S3Bucket          string         `json:"s3_bucket"`
	S3AccessKeyID     string         `json:"s3_access_key_id"`
	S3SecretAccessKey string         `json:"s3_secret_access_key"`
	AuthToken         string         `json:"auth_token"`
	JWTSecret         string         `json:"jwt_secret"`
	DrainInterval     timex.Duration `json:"drain_interval"`
}

// parseJson overlays Config with values loaded from a JSON file. The file
// path comes from the -c or -config flags; when neither is given no JSON
// is loaded. Fields absent from the file keep their current values.
// Read or unmarshal errors panic (configuration is unusable).
func parseJson(cfg *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
	if jsonConfigFile == "" {
		return
	}

	var jc JsonConfig

	data, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}
	if err := json.Unmarshal(data, &jc); err != nil {
		panic(err)
	}

	overlay(&cfg.LocalDBPath, jc.LocalDBPath)
	overlay(&cfg.RecordsDSN, jc.RecordsDSN)
	overlay(&cfg.S3Region, jc.S3Region)
	overlay(&cfg.S3Endpoint, jc.S3Endpoint)
	overlay(&cfg.S3Bucket, jc.S3Bucket)
	overlay(&cfg.S3AccessKeyID, jc.S3AccessKeyID)
	overlay(&cfg.S3SecretAccessKey, jc.S3SecretAccessKey)
	overlay(&cfg.AuthToken, jc.AuthToken)
	overlay(&cfg.JWTSecret, jc.JWTSecret)
	if jc.DrainInterval.Duration != 0 {
		cfg.DrainInterval = jc.DrainInterval.Duration
	}
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
