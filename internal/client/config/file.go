package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/dmitrijs2005/gophjournal/internal/flagx"
	"github.com/dmitrijs2005/gophjournal/internal/timex"
	"gopkg.in/yaml.v3"
)

// FileConfig is a DTO used exclusively for decoding the config file. Only
// fields present in the file are copied into Config.
type FileConfig struct {
	APIBaseURL        string         `json:"api_base_url" yaml:"api_base_url"`
	RequestTimeout    timex.Duration `json:"request_timeout" yaml:"request_timeout"`
	RequestsPerSecond float64        `json:"requests_per_second" yaml:"requests_per_second"`
	DataDir           string         `json:"data_dir" yaml:"data_dir"`
	AutosaveDebounce  timex.Duration `json:"autosave_debounce" yaml:"autosave_debounce"`
	PreferenceTTL     timex.Duration `json:"preference_ttl" yaml:"preference_ttl"`
	LogLevel          string         `json:"log_level" yaml:"log_level"`
	LogBackend        string         `json:"log_backend" yaml:"log_backend"`
	EditorCommand     string         `json:"editor_command" yaml:"editor_command"`
}

// parseFile overlays cfg with the file named by -c/-config. It panics on
// read or decode errors.
func parseFile(cfg *Config) {
	path := flagx.ConfigFileFlag(os.Args[1:])
	if path == "" {
		return
	}

	data, err := os.ReadFile(path)
	if err != nil {
		panic(err)
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		panic(err)
	}

	fc.apply(cfg)
}

func (fc *FileConfig) apply(cfg *Config) {
	if fc.APIBaseURL != "" {
		cfg.APIBaseURL = fc.APIBaseURL
	}
	if fc.RequestTimeout.Duration > 0 {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if fc.RequestsPerSecond > 0 {
		cfg.RequestsPerSecond = fc.RequestsPerSecond
	}
	if fc.DataDir != "" {
		cfg.DataDir = fc.DataDir
	}
	if fc.AutosaveDebounce.Duration > 0 {
		cfg.AutosaveDebounce = fc.AutosaveDebounce.Duration
	}
	if fc.PreferenceTTL.Duration > 0 {
		cfg.PreferenceTTL = fc.PreferenceTTL.Duration
	}
	if fc.LogLevel != "" {
		cfg.LogLevel = fc.LogLevel
	}
	if fc.LogBackend != "" {
		cfg.LogBackend = fc.LogBackend
	}
	if fc.EditorCommand != "" {
		cfg.EditorCommand = fc.EditorCommand
	}
}
