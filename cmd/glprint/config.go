package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/gogpu/glprint"
	"github.com/gogpu/glprint/report"
)

// envPrefix is prepended to every environment variable the command reads.
const envPrefix = "GLPRINT_"

// config is the command configuration. Environment variables set the
// defaults; flags override them.
type config struct {
	Host      string `env:"HOST"`
	Format    string `env:"FORMAT" envDefault:"text"`
	Output    string `env:"OUTPUT"`
	Canvas    string `env:"CANVAS"`
	Serve     string `env:"SERVE"`
	Digest    string `env:"DIGEST" envDefault:"sha256"`
	Agent     string `env:"AGENT"`
	Legacy    bool   `env:"LEGACY"`
	HostOrder bool   `env:"HOST_ORDER"`
	NoScene   bool   `env:"NO_SCENE"`
	LogLevel  string `env:"LOG_LEVEL" envDefault:"warn"`

	// HTTP mode only.
	RequestAgent bool          `env:"REQUEST_AGENT"`
	CacheTTL     time.Duration `env:"CACHE_TTL"`
}

// loadConfig reads GLPRINT_* variables from environ (the process
// environment when nil) and then applies the command-line flags in args.
func loadConfig(args []string, environ map[string]string, stderr io.Writer) (config, error) {
	var cfg config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix, Environment: environ}); err != nil {
		return cfg, fmt.Errorf("environment: %w", err)
	}

	fs := flag.NewFlagSet("glprint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&cfg.Host, "host", cfg.Host, "host name ("+strings.Join(glprint.HostNames(), ", ")+"); empty picks the default")
	fs.StringVar(&cfg.Format, "format", cfg.Format, "report format: text, html, yaml, json")
	fs.StringVar(&cfg.Output, "output", cfg.Output, "report file (default stdout)")
	fs.StringVar(&cfg.Canvas, "canvas", cfg.Canvas, "write the rendered scene as PNG to this file")
	fs.StringVar(&cfg.Serve, "serve", cfg.Serve, "serve reports over HTTP on this address instead of printing one")
	fs.StringVar(&cfg.Digest, "digest", cfg.Digest, "digest: sha256 or sha3-256")
	fs.StringVar(&cfg.Agent, "agent", cfg.Agent, "client identifier mixed into the fingerprint (default: host agent)")
	fs.BoolVar(&cfg.Legacy, "legacy", cfg.Legacy, "fingerprint the pixels only")
	fs.BoolVar(&cfg.HostOrder, "host-order", cfg.HostOrder, "keep extensions in host order")
	fs.BoolVar(&cfg.NoScene, "no-scene", cfg.NoScene, "skip the scene renderer")
	fs.BoolVar(&cfg.RequestAgent, "request-agent", cfg.RequestAgent, "with -serve, fingerprint each request's User-Agent instead of the host agent")
	fs.DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "with -serve, reuse a probe result for this long (0 disables)")
	fs.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level: debug, info, warn, error")
	if err := fs.Parse(args); err != nil {
		return cfg, err
	}
	if fs.NArg() > 0 {
		return cfg, fmt.Errorf("unexpected arguments: %v", fs.Args())
	}
	if _, err := report.ParseFormat(cfg.Format); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// probeOptions translates cfg into probe options.
func (cfg config) probeOptions() ([]glprint.Option, error) {
	d, err := glprint.ParseDigest(cfg.Digest)
	if err != nil {
		return nil, err
	}
	opts := []glprint.Option{glprint.WithDigest(d)}
	if cfg.Agent != "" {
		opts = append(opts, glprint.WithAgent(cfg.Agent))
	}
	if cfg.Legacy {
		opts = append(opts, glprint.WithLegacyFingerprint())
	}
	if cfg.HostOrder {
		opts = append(opts, glprint.WithHostOrder())
	}
	if cfg.NoScene {
		opts = append(opts, glprint.WithoutScene())
	}
	return opts, nil
}

func (cfg config) level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return l, fmt.Errorf("log level: %w", err)
	}
	return l, nil
}

// openHost creates the named host, or the default one when name is empty.
func openHost(name string) (glprint.Host, error) {
	if name == "" {
		return glprint.DefaultHost()
	}
	return glprint.NewHost(name)
}
