package config

import (
	"flag"
	"io"

	"github.com/dmitrijs2005/placekeeper/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags:
//
//	-a string          HTTP bind address (e.g., ":5000")
//	-l string          log level (debug, info, warn, error)
//	-driver string     database driver: pgx or sqlite
//	-d string          database DSN
//	-k string          geocoder API key
//	-geocoder string   geocoder base URL
//	-geocoder-timeout  geocoder request timeout (e.g., "3s")
//	-u string          S3 root user
//	-p string          S3 root password
//	-b string          S3 bucket name
//	-g string          S3 region
//	-e string          S3 base endpoint (e.g., "http://127.0.0.1:9000/")
//
// args are first filtered with flagx.FilterArgs so that flags owned by
// other components (like -c) do not break parsing.
func parseFlags(config *Config, args []string) error {
	args = flagx.FilterArgs(args, []string{
		"-a", "-l", "-driver", "-d", "-k", "-geocoder", "-geocoder-timeout",
		"-u", "-p", "-b", "-g", "-e",
	})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&config.HTTPAddr, "a", config.HTTPAddr, "address and port to run server")
	fs.StringVar(&config.LogLevel, "l", config.LogLevel, "log level")
	fs.StringVar(&config.DatabaseDriver, "driver", config.DatabaseDriver, "database driver (pgx|sqlite)")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.GeocoderAPIKey, "k", config.GeocoderAPIKey, "geocoder API key")
	fs.StringVar(&config.GeocoderBaseURL, "geocoder", config.GeocoderBaseURL, "geocoder base URL")
	fs.DurationVar(&config.GeocoderTimeout, "geocoder-timeout", config.GeocoderTimeout, "geocoder request timeout")

	fs.StringVar(&config.S3RootUser, "u", config.S3RootUser, "S3 root user")
	fs.StringVar(&config.S3RootPassword, "p", config.S3RootPassword, "S3 root password")
	fs.StringVar(&config.S3Bucket, "b", config.S3Bucket, "S3 bucket")
	fs.StringVar(&config.S3Region, "g", config.S3Region, "S3 region")
	fs.StringVar(&config.S3BaseEndpoint, "e", config.S3BaseEndpoint, "S3 base endpoint")

	return fs.Parse(args)
}
