package config

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dmitrijs2005/placekeeper/internal/common"
)

// lookupFunc matches os.LookupEnv; tests pass a map-backed one.
type lookupFunc func(key string) (string, bool)

// parseEnv overlays PLACEKEEPER_* environment variables onto config.
func parseEnv(config *Config, lookup lookupFunc) error {
	str := func(name string, dst *string) {
		if v, ok := lookup(common.EnvPrefix + name); ok && v != "" {
			*dst = v
		}
	}
	dur := func(name string, dst *time.Duration) error {
		v, ok := lookup(common.EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("env %s%s: %w", common.EnvPrefix, name, err)
		}
		*dst = d
		return nil
	}
	boolean := func(name string, dst *bool) error {
		v, ok := lookup(common.EnvPrefix + name)
		if !ok || v == "" {
			return nil
		}
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("env %s%s: %w", common.EnvPrefix, name, err)
		}
		*dst = b
		return nil
	}

	str("HTTP_ADDR", &config.HTTPAddr)
	str("LOG_LEVEL", &config.LogLevel)
	str("DB_DRIVER", &config.DatabaseDriver)
	str("DATABASE_DSN", &config.DatabaseDSN)
	str("GEOCODER_BASE_URL", &config.GeocoderBaseURL)
	str("GEOCODER_API_KEY", &config.GeocoderAPIKey)
	str("DEFAULT_PLACE_IMAGE", &config.DefaultPlaceImage)
	str("DEFAULT_USER_IMAGE", &config.DefaultUserImage)
	str("S3_ROOT_USER", &config.S3RootUser)
	str("S3_ROOT_PASSWORD", &config.S3RootPassword)
	str("S3_BUCKET", &config.S3Bucket)
	str("S3_REGION", &config.S3Region)
	str("S3_BASE_ENDPOINT", &config.S3BaseEndpoint)
	str("S3_PUBLIC_BASE_URL", &config.S3PublicBaseURL)
	str("TRACING_SERVICE_NAME", &config.TracingServiceName)
	str("OTLP_ENDPOINT", &config.OTLPEndpoint)

	for name, dst := range map[string]*time.Duration{
		"SHUTDOWN_TIMEOUT": &config.ShutdownTimeout,
		"GEOCODER_TIMEOUT": &config.GeocoderTimeout,
		"UPLOAD_URL_TTL":   &config.UploadURLTTL,
	} {
		if err := dur(name, dst); err != nil {
			return err
		}
	}
	for name, dst := range map[string]*bool{
		"TRACING_ENABLED": &config.TracingEnabled,
		"OTLP_INSECURE":   &config.OTLPInsecure,
	} {
		if err := boolean(name, dst); err != nil {
			return err
		}
	}

	if v, ok := lookup(common.EnvPrefix + "BCRYPT_COST"); ok && v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("env %sBCRYPT_COST: %w", common.EnvPrefix, err)
		}
		config.BcryptCost = n
	}
	if v, ok := lookup(common.EnvPrefix + "TRACE_SAMPLE_RATIO"); ok && v != "" {
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("env %sTRACE_SAMPLE_RATIO: %w", common.EnvPrefix, err)
		}
		config.TraceSampleRatio = f
	}
	return nil
}
