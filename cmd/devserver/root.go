package main

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/gophjournal/internal/buildinfo"
	"github.com/dmitrijs2005/gophjournal/internal/devserver"
	"github.com/dmitrijs2005/gophjournal/internal/devserver/config"
	"github.com/spf13/cobra"
)

type serveFlags struct {
	configFile       string
	addr             string
	basePath         string
	secretKey        string
	tokenTTL         time.Duration
	corsOrigins      []string
	requireTwoFactor bool
	idBase           int64
	logLevel         string
	logBackend       string
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "devserver",
		Short:        "In-memory journal API for local development",
		SilenceUsage: true,
	}
	root.AddCommand(newServeCmd(), newVersionCmd())
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print build data",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			buildinfo.PrintBuildData(cmd.OutOrStdout())
		},
	}
}

func newServeCmd() *cobra.Command {
	var defaults config.Config
	defaults.LoadDefaults()
	f := serveFlags{}

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the journal API until interrupted",
		Long: `Serve the journal API from memory. Nothing survives a restart.

Settings are applied in order: built-in defaults, the --config file (JSON or
YAML by extension), then any flag given explicitly.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := resolveConfig(cmd, &f)
			if err != nil {
				return err
			}
			app, err := devserver.NewApp(cfg, cmd.ErrOrStderr())
			if err != nil {
				return err
			}
			return app.Run(cmd.Context())
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.configFile, "config", "c", "", "path to a JSON or YAML config file")
	fl.StringVarP(&f.addr, "addr", "a", defaults.Addr, "listen address")
	fl.StringVar(&f.basePath, "base-path", defaults.BasePath, "API route prefix")
	fl.StringVarP(&f.secretKey, "secret", "k", defaults.SecretKey, "HMAC secret for session tokens")
	fl.DurationVar(&f.tokenTTL, "token-ttl", defaults.TokenTTL, "session token lifetime")
	fl.StringSliceVar(&f.corsOrigins, "cors-origin", nil, "allowed CORS origin (repeatable)")
	fl.BoolVar(&f.requireTwoFactor, "require-2fa", defaults.RequireTwoFactor, "ask new accounts for a mailed code on login")
	fl.Int64Var(&f.idBase, "id-base", defaults.IDBase, "first identifier handed out")
	fl.StringVar(&f.logLevel, "log-level", defaults.LogLevel, "debug, info, warn or error")
	fl.StringVar(&f.logBackend, "log-backend", defaults.LogBackend, "slog, slog-json or zap")

	return cmd
}

// resolveConfig layers defaults, the config file and explicitly set flags.
func resolveConfig(cmd *cobra.Command, f *serveFlags) (*config.Config, error) {
	cfg := &config.Config{}
	cfg.LoadDefaults()

	if f.configFile != "" {
		if err := cfg.LoadFile(f.configFile); err != nil {
			return nil, fmt.Errorf("load config: %w", err)
		}
	}

	fl := cmd.Flags()
	set := func(name string, apply func()) {
		if fl.Changed(name) {
			apply()
		}
	}
	set("addr", func() { cfg.Addr = f.addr })
	set("base-path", func() { cfg.BasePath = f.basePath })
	set("secret", func() { cfg.SecretKey = f.secretKey })
	set("token-ttl", func() { cfg.TokenTTL = f.tokenTTL })
	set("cors-origin", func() { cfg.CORSOrigins = f.corsOrigins })
	set("require-2fa", func() { cfg.RequireTwoFactor = f.requireTwoFactor })
	set("id-base", func() { cfg.IDBase = f.idBase })
	set("log-level", func() { cfg.LogLevel = f.logLevel })
	set("log-backend", func() { cfg.LogBackend = f.logBackend })

	return cfg, nil
}
