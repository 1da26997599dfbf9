package config

import (
	"os"
	"time"
)

// Config holds runtime settings for the journal client.
type Config struct {
	// APIBaseURL is the remote API root, e.g. http://host/api/v1.
	APIBaseURL string
	// RequestTimeout bounds every single HTTP request.
	RequestTimeout time.Duration
	// RequestsPerSecond throttles outbound requests; burst is fixed at 5.
	RequestsPerSecond float64

	// DataDir holds the local SQLite store (session token, preferences).
	DataDir string

	// AutosaveDebounce is the quiet period before a background save.
	AutosaveDebounce time.Duration
	// PreferenceTTL is how long a stored autosave preference stays valid.
	PreferenceTTL time.Duration

	LogLevel   string
	LogBackend string

	// EditorCommand is launched by the CLI "edit" command; empty means $EDITOR.
	EditorCommand string
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = "http://127.0.0.1:8080/api/v1"
	c.RequestTimeout = 15 * time.Second
	c.RequestsPerSecond = 10
	c.DataDir = ".gophjournal"
	c.AutosaveDebounce = 2000 * time.Millisecond
	c.PreferenceTTL = 365 * 24 * time.Hour
	c.LogLevel = "info"
	c.LogBackend = "slog"
	c.EditorCommand = ""
}

// LoadConfig constructs a Config, applies defaults, then overlays the
// environment, the config file (if any) and command-line flags. Later
// sources take precedence over earlier ones. Malformed input panics.
func LoadConfig() *Config {
	cfg := &Config{}
	cfg.LoadDefaults()
	parseEnv(cfg)
	parseFile(cfg)
	parseFlags(cfg, os.Args[1:])
	return cfg
}
