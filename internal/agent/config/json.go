package config

import (
	"encoding/json"
	"os"
	"time"

	"convoyinspect/internal/flagx"
	"convoyinspect/internal/timex"
)

// JsonConfig is a DTO used exclusively for JSON unmarshalling.
// It relies on timex.Duration so JSON can specify intervals either as
// strings like "2s" or as integer nanoseconds. After parsing, values
// are copied into the runtime Config (which uses time.Duration).
type JsonConfig struct {
	ListenAddr        string         `json:"listen_addr"`
	DataServiceURL    string         `json:"data_service_url"`
	APIToken          string         `json:"api_token"`
	DBPath            string         `json:"db_path"`
	SpoolDir          string         `json:"spool_dir"`
	S3Bucket          string         `json:"s3_bucket"`
	S3Region          string         `json:"s3_region"`
	S3BaseEndpoint    string         `json:"s3_base_endpoint"`
	S3AccessKey       string         `json:"s3_access_key"`
	S3SecretKey       string         `json:"s3_secret_key"`
	AutosaveDebounce  timex.Duration `json:"autosave_debounce"`
	SnapshotRetention timex.Duration `json:"snapshot_retention"`
}

// parseJson overlays Config with values loaded from a JSON file.
//
// Lookup order for the JSON file path:
//  1. Command-line flags (-c or -config) via flagx.JsonConfigFlags().
//  2. If empty, no JSON is loaded and the function returns.
//
// Behavior:
//   - Reads and unmarshals the JSON into JsonConfig.
//   - Copies known fields into the provided Config.
//   - Panics on read or unmarshal errors (caller should recover if desired).
//
// Intended usage is: defaults -> parseJson -> parseFlags, where later stages
// override earlier ones.
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

	cfg.ListenAddr = jc.ListenAddr
	cfg.DataServiceURL = jc.DataServiceURL
	cfg.APIToken = jc.APIToken
	cfg.DBPath = jc.DBPath
	cfg.SpoolDir = jc.SpoolDir
	cfg.S3Bucket = jc.S3Bucket
	cfg.S3Region = jc.S3Region
	cfg.S3BaseEndpoint = jc.S3BaseEndpoint
	cfg.S3AccessKey = jc.S3AccessKey
	cfg.S3SecretKey = jc.S3SecretKey
	cfg.AutosaveDebounce = time.Duration(jc.AutosaveDebounce.Duration)
	cfg.SnapshotRetention = time.Duration(jc.SnapshotRetention.Duration)
}
