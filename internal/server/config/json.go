package config

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/dmitrijs2005/placekeeper/internal/timex"
)

// JsonConfig is the on-disk shape of the config file. Durations use
// timex.Duration, which accepts both "5s" and integer nanoseconds.
// Only fields present in the file override the current values.
type JsonConfig struct {
	HTTPAddr        string          `json:"http_addr"`
	LogLevel        string          `json:"log_level"`
	ShutdownTimeout *timex.Duration `json:"shutdown_timeout"`

	DatabaseDriver string `json:"database_driver"`
	DatabaseDSN    string `json:"database_dsn"`

	GeocoderBaseURL string          `json:"geocoder_base_url"`
	GeocoderAPIKey  string          `json:"geocoder_api_key"`
	GeocoderTimeout *timex.Duration `json:"geocoder_timeout"`

	DefaultPlaceImage string `json:"default_place_image"`
	DefaultUserImage  string `json:"default_user_image"`
	BcryptCost        int    `json:"bcrypt_cost"`

	S3RootUser      string          `json:"s3_root_user"`
	S3RootPassword  string          `json:"s3_root_password"`
	S3Bucket        string          `json:"s3_bucket"`
	S3Region        string          `json:"s3_region"`
	S3BaseEndpoint  string          `json:"s3_base_endpoint"`
	S3PublicBaseURL string          `json:"s3_public_base_url"`
	UploadURLTTL    *timex.Duration `json:"upload_url_ttl"`

	TracingEnabled     *bool    `json:"tracing_enabled"`
	TracingServiceName string   `json:"tracing_service_name"`
	OTLPEndpoint       string   `json:"otlp_endpoint"`
	OTLPInsecure       *bool    `json:"otlp_insecure"`
	TraceSampleRatio   *float64 `json:"trace_sample_ratio"`
}

// parseJson reads the JSON file at path and overlays its values onto config.
func parseJson(config *Config, path string) error {
	file, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setString(&config.HTTPAddr, c.HTTPAddr)
	setString(&config.LogLevel, c.LogLevel)
	if c.ShutdownTimeout != nil {
		config.ShutdownTimeout = c.ShutdownTimeout.Duration
	}
	setString(&config.DatabaseDriver, c.DatabaseDriver)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.GeocoderBaseURL, c.GeocoderBaseURL)
	setString(&config.GeocoderAPIKey, c.GeocoderAPIKey)
	if c.GeocoderTimeout != nil {
		config.GeocoderTimeout = c.GeocoderTimeout.Duration
	}
	setString(&config.DefaultPlaceImage, c.DefaultPlaceImage)
	setString(&config.DefaultUserImage, c.DefaultUserImage)
	if c.BcryptCost != 0 {
		config.BcryptCost = c.BcryptCost
	}
	setString(&config.S3RootUser, c.S3RootUser)
	setString(&config.S3RootPassword, c.S3RootPassword)
	setString(&config.S3Bucket, c.S3Bucket)
	setString(&config.S3Region, c.S3Region)
	setString(&config.S3BaseEndpoint, c.S3BaseEndpoint)
	setString(&config.S3PublicBaseURL, c.S3PublicBaseURL)
	if c.UploadURLTTL != nil {
		config.UploadURLTTL = c.UploadURLTTL.Duration
	}
	if c.TracingEnabled != nil {
		config.TracingEnabled = *c.TracingEnabled
	}
	setString(&config.TracingServiceName, c.TracingServiceName)
	setString(&config.OTLPEndpoint, c.OTLPEndpoint)
	if c.OTLPInsecure != nil {
		config.OTLPInsecure = *c.OTLPInsecure
	}
	if c.TraceSampleRatio != nil {
		config.TraceSampleRatio = *c.TraceSampleRatio
	}
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
