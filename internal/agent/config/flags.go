package config

import (
	"flag"
	"os"
	"time"

	"convoyinspect/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-l string   local device-UI bind address (e.g., "127.0.0.1:8710")
//	-a string   base URL of the fleet data service
//	-t string   bearer token for the data service
//	-f string   path of the local SQLite progress database
//	-w string   capture spool directory
//	-b string   S3 bucket for inspection assets
//	-g string   S3 region
//	-e string   S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//	-u string   S3 access key
//	-p string   S3 secret key
//	-d int      autosave debounce, milliseconds
//	-r int      snapshot retention, hours
//
// Notes:
//   - The function first filters os.Args to only the flags it recognizes using
//     flagx.FilterArgs, avoiding collisions with other components.
//   - Duration flags are accepted as integers and then converted to
//     time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-l", "-a", "-t", "-f", "-w", "-b", "-g", "-e", "-u", "-p", "-d", "-r"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.ListenAddr, "l", config.ListenAddr, "device UI bind address")
	fs.StringVar(&config.DataServiceURL, "a", config.DataServiceURL, "data service base URL")
	fs.StringVar(&config.APIToken, "t", config.APIToken, "data service API token")
	fs.StringVar(&config.DBPath, "f", config.DBPath, "local progress database path")
	fs.StringVar(&config.SpoolDir, "w", config.SpoolDir, "capture spool directory")

	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")
	fs.StringVar(&config.S3AccessKey, "u", config.S3AccessKey, "S3 access key")
	fs.StringVar(&config.S3SecretKey, "p", config.S3SecretKey, "S3 secret key")

	autosaveDebounce := fs.Int("d", int(config.AutosaveDebounce.Milliseconds()), "autosave debounce (in milliseconds)")
	snapshotRetention := fs.Int("r", int(config.SnapshotRetention.Hours()), "snapshot retention (in hours)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.AutosaveDebounce = time.Duration(*autosaveDebounce) * time.Millisecond
	config.SnapshotRetention = time.Duration(*snapshotRetention) * time.Hour
}
