package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Environment variable names.
const (
	EnvAPIBaseURL       = "GJ_API_URL"
	EnvRequestTimeout   = "GJ_REQUEST_TIMEOUT"
	EnvRequestsPerSec   = "GJ_RPS"
	EnvDataDir          = "GJ_DATA_DIR"
	EnvAutosaveDebounce = "GJ_AUTOSAVE_DEBOUNCE"
	EnvPreferenceTTL    = "GJ_PREFERENCE_TTL"
	EnvLogLevel         = "GJ_LOG_LEVEL"
	EnvLogBackend       = "GJ_LOG_BACKEND"
	EnvEditor           = "GJ_EDITOR"
)

// envFile is loaded before reading variables; variables already present in
// the process environment win over the file.
var envFile = ".env"

func parseEnv(cfg *Config) {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		panic(err)
	}

	if v, ok := os.LookupEnv(EnvAPIBaseURL); ok {
		cfg.APIBaseURL = v
	}
	if v, ok := os.LookupEnv(EnvRequestTimeout); ok {
		cfg.RequestTimeout = mustDuration(EnvRequestTimeout, v)
	}
	if v, ok := os.LookupEnv(EnvRequestsPerSec); ok {
		rps, err := strconv.ParseFloat(v, 64)
		if err != nil {
			panic(EnvRequestsPerSec + ": " + err.Error())
		}
		cfg.RequestsPerSecond = rps
	}
	if v, ok := os.LookupEnv(EnvDataDir); ok {
		cfg.DataDir = v
	}
	if v, ok := os.LookupEnv(EnvAutosaveDebounce); ok {
		cfg.AutosaveDebounce = mustDuration(EnvAutosaveDebounce, v)
	}
	if v, ok := os.LookupEnv(EnvPreferenceTTL); ok {
		cfg.PreferenceTTL = mustDuration(EnvPreferenceTTL, v)
	}
	if v, ok := os.LookupEnv(EnvLogLevel); ok {
		cfg.LogLevel = v
	}
	if v, ok := os.LookupEnv(EnvLogBackend); ok {
		cfg.LogBackend = v
	}
	if v, ok := os.LookupEnv(EnvEditor); ok {
		cfg.EditorCommand = v
	}
}

func mustDuration(name, v string) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil {
		panic(name + ": " + err.Error())
	}
	return d
}
