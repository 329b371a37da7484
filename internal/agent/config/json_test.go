package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempJSON(t *testing.T, dir, name string, data map[string]any) string {
	t.Helper()
	if dir == "" {
		dir = t.TempDir()
	}
	if name == "" {
		name = "cfg.json"
	}
	path := filepath.Join(dir, name)
	b, err := json.Marshal(data)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(path, b, 0o600))
	return path
}

func Test_parseJson_SourcesAndPrecedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	dir := t.TempDir()
	pathFlag := writeTempJSON(t, dir, "flag.json", map[string]any{
		"listen_addr":        "127.0.0.1:9710",
		"data_service_url":   "https://fleet.example.com",
		"api_token":          "token-1",
		"db_path":            "progress.db",
		"spool_dir":          "/tmp/spool",
		"s3_bucket":          "bucket",
		"s3_region":          "region",
		"s3_base_endpoint":   "base_endpoint",
		"s3_access_key":      "user",
		"s3_secret_key":      "password",
		"autosave_debounce":  "5s",
		"snapshot_retention": "48h",
	})

	t.Run("loads from json", func(t *testing.T) {
		os.Args = []string{"testbin", "-config", pathFlag}

		cfg := &Config{}
		parseJson(cfg)

		assert.Equal(t, "127.0.0.1:9710", cfg.ListenAddr)
		assert.Equal(t, "https://fleet.example.com", cfg.DataServiceURL)
		assert.Equal(t, "token-1", cfg.APIToken)
		assert.Equal(t, "progress.db", cfg.DBPath)
		assert.Equal(t, "/tmp/spool", cfg.SpoolDir)
		assert.Equal(t, "bucket", cfg.S3Bucket)
		assert.Equal(t, "region", cfg.S3Region)
		assert.Equal(t, "base_endpoint", cfg.S3BaseEndpoint)
		assert.Equal(t, "user", cfg.S3AccessKey)
		assert.Equal(t, "password", cfg.S3SecretKey)
		assert.Equal(t, 5*time.Second, cfg.AutosaveDebounce)
		assert.Equal(t, 48*time.Hour, cfg.SnapshotRetention)
	})

	t.Run("no CONFIG and no flags → no changes", func(t *testing.T) {
		os.Args = []string{"testbin"}

		cfg := &Config{
			ListenAddr:        "defaults:1234",
			DataServiceURL:    "http://defaults",
			DBPath:            "defaults.db",
			AutosaveDebounce:  3 * time.Second,
			SnapshotRetention: 24 * time.Hour,
		}
		parseJson(cfg)

		assert.Equal(t, "defaults:1234", cfg.ListenAddr)
		assert.Equal(t, "http://defaults", cfg.DataServiceURL)
		assert.Equal(t, "defaults.db", cfg.DBPath)
		assert.Equal(t, 3*time.Second, cfg.AutosaveDebounce)
		assert.Equal(t, 24*time.Hour, cfg.SnapshotRetention)
	})

	t.Run("invalid JSON → panics", func(t *testing.T) {
		bad := filepath.Join(dir, "bad.json")
		require.NoError(t, os.WriteFile(bad, []byte(`{ this is not valid json`), 0o600))

		os.Args = []string{"testbin", "-config", bad}

		cfg := &Config{}
		require.Panics(t, func() { parseJson(cfg) })
	})
}
