// Package config handles configuration for the inspection agent, including
// defaults, JSON overlay, and command-line flags.
package config

import "time"

// Config holds runtime settings for the inspection agent.
//
// Fields:
//   - ListenAddr: bind address for the local device-UI HTTP API.
//   - DataServiceURL: base URL of the fleet data service.
//   - APIToken: bearer token for the data service.
//   - DBPath: path of the local SQLite progress database.
//   - SpoolDir: directory the capture hardware drops frames into.
//   - S3Bucket / S3Region / S3BaseEndpoint / S3AccessKey / S3SecretKey:
//     object storage settings for inspection assets.
//   - AutosaveDebounce: quiet window before in-progress edits are persisted.
//   - SnapshotRetention: age after which stale progress snapshots are purged.
type Config struct {
	ListenAddr        string
	DataServiceURL    string
	APIToken          string
	DBPath            string
	SpoolDir          string
	S3Bucket          string
	S3Region          string
	S3BaseEndpoint    string
	S3AccessKey       string
	S3SecretKey       string
	AutosaveDebounce  time.Duration
	SnapshotRetention time.Duration
}

// LoadDefaults populates Config with development defaults.
// NOTE: These values are insecure for production and should be overridden.
func (c *Config) LoadDefaults() {
	c.ListenAddr = "127.0.0.1:8710"
	c.DataServiceURL = "http://127.0.0.1:8080"
	c.APIToken = ""
	c.DBPath = "convoyinspect.db"
	c.SpoolDir = "/var/spool/convoyinspect"
	c.S3Bucket = "inspections"
	c.S3Region = "us-east-1"
	c.S3BaseEndpoint = "http://127.0.0.1:9000/"
	c.S3AccessKey = "admin"
	c.S3SecretKey = "secretpassword"
	c.AutosaveDebounce = 2 * time.Second
	c.SnapshotRetention = 7 * 24 * time.Hour
}

// LoadConfig builds a Config by applying defaults, then overlaying values
// from an optional JSON file and finally from command-line flags.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseJson(cfg)
	parseFlags(cfg)
	return cfg
}
