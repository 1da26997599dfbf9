// Package config loads runtime configuration for the journal client.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. A .env file in the working directory and GJ_* environment variables.
//  3. Optional JSON or YAML file selected with -c or -config; the format is
//     picked by extension (.yaml/.yml are YAML, anything else JSON).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string     base URL of the journal API (including /api/v1)
//	-t duration   per-request timeout
//	-d duration   autosave debounce interval
//	-data string  directory of the local store
//	-l string     log level (debug, info, warn, error)
//	-log string   log backend (slog, slog-json, zap)
//	-rps float    outbound requests per second
//
// # File schema
//
// Durations accept strings like "2s" or integer nanoseconds:
//
//	api_base_url: http://127.0.0.1:8080/api/v1
//	autosave_debounce: 2s
//	preference_ttl: 8760h
package config
