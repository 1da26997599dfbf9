package config

import (
	"flag"

	"github.com/dmitrijs2005/gophjournal/internal/flagx"
)

// parseFlags populates Config fields from command-line flags. Only the flags
// listed here are considered, so other components may share the command line.
func parseFlags(cfg *Config, args []string) {
	args = flagx.FilterArgs(args, []string{"-a", "-t", "-d", "-data", "-l", "-log", "-rps"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the journal API")
	fs.DurationVar(&cfg.RequestTimeout, "t", cfg.RequestTimeout, "per-request timeout")
	fs.DurationVar(&cfg.AutosaveDebounce, "d", cfg.AutosaveDebounce, "autosave debounce interval")
	fs.StringVar(&cfg.DataDir, "data", cfg.DataDir, "local store directory")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	fs.StringVar(&cfg.LogBackend, "log", cfg.LogBackend, "log backend (slog, slog-json, zap)")
	fs.Float64Var(&cfg.RequestsPerSecond, "rps", cfg.RequestsPerSecond, "outbound requests per second")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}
}
