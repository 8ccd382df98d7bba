package common

// EnvPrefix prefixes every environment variable read by the server config.
const EnvPrefix = "PLACEKEEPER_"

// RequestIDHeader carries the per-request id on HTTP responses.
const RequestIDHeader = "X-Request-Id"
