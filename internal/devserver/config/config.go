// Package config handles configuration for the development API server,
// including defaults and a JSON or YAML overlay. Command-line flags are
// bound by the cobra command in cmd/devserver.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/common"
	"github.com/dmitrijs2005/gophjournal/internal/timex"
	"gopkg.in/yaml.v3"
)

// Config holds runtime settings for the dev server.
//
// Fields:
//   - Addr: bind address of the HTTP listener.
//   - BasePath: prefix of every API route.
//   - SecretKey: HMAC secret for signing session JWTs (HS256).
//   - TokenTTL: session token lifetime.
//   - CORSOrigins: allowed browser origins; empty disables CORS handling.
//   - RequireTwoFactor: new accounts get a second factor on login.
//   - IDBase: first identifier handed out. The default sits above 2^53 so
//     clients that round ids through float64 break visibly.
//   - LogLevel / LogBackend: see internal/logging.
type Config struct {
	Addr             string
	BasePath         string
	SecretKey        string
	TokenTTL         time.Duration
	CORSOrigins      []string
	RequireTwoFactor bool
	IDBase           int64
	LogLevel         string
	LogBackend       string
}

// DefaultIDBase is 2^53 + 1, the first integer float64 cannot hold.
const DefaultIDBase int64 = 1<<53 + 1

// LoadDefaults populates Config with development defaults.
// NOTE: the secret must be overridden anywhere but on a laptop.
func (c *Config) LoadDefaults() {
	c.Addr = ":8080"
	c.BasePath = common.APIBasePath
	c.SecretKey = "secretKey"
	c.TokenTTL = 24 * time.Hour
	c.CORSOrigins = nil
	c.RequireTwoFactor = false
	c.IDBase = DefaultIDBase
	c.LogLevel = "info"
	c.LogBackend = "slog"
}

// FileConfig is the DTO decoded from a config file. Zero values leave the
// current setting untouched.
type FileConfig struct {
	Addr             string         `json:"addr" yaml:"addr"`
	BasePath         string         `json:"base_path" yaml:"base_path"`
	SecretKey        string         `json:"secret_key" yaml:"secret_key"`
	TokenTTL         timex.Duration `json:"token_ttl" yaml:"token_ttl"`
	CORSOrigins      []string       `json:"cors_origins" yaml:"cors_origins"`
	RequireTwoFactor *bool          `json:"require_two_factor" yaml:"require_two_factor"`
	IDBase           int64          `json:"id_base" yaml:"id_base"`
	LogLevel         string         `json:"log_level" yaml:"log_level"`
	LogBackend       string         `json:"log_backend" yaml:"log_backend"`
}

// LoadFile overlays c with the JSON or YAML file at path, chosen by
// extension.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var fc FileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(data, &fc)
	}
	if err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}

	if fc.Addr != "" {
		c.Addr = fc.Addr
	}
	if fc.BasePath != "" {
		c.BasePath = fc.BasePath
	}
	if fc.SecretKey != "" {
		c.SecretKey = fc.SecretKey
	}
	if fc.TokenTTL.Duration > 0 {
		c.TokenTTL = fc.TokenTTL.Duration
	}
	if len(fc.CORSOrigins) > 0 {
		c.CORSOrigins = fc.CORSOrigins
	}
	if fc.RequireTwoFactor != nil {
		c.RequireTwoFactor = *fc.RequireTwoFactor
	}
	if fc.IDBase != 0 {
		c.IDBase = fc.IDBase
	}
	if fc.LogLevel != "" {
		c.LogLevel = fc.LogLevel
	}
	if fc.LogBackend != "" {
		c.LogBackend = fc.LogBackend
	}
	return nil
}
