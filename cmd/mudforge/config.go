// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 MudForge Contributors

package main

import (
	"fmt"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// serveConfig holds configuration for the serve command. Values come from
// the YAML config file, overridden by command-line flags.
type serveConfig struct {
	TelnetAddr  string `koanf:"telnet-addr"`
	MetricsAddr string `koanf:"metrics-addr"`

	LogFormat string `koanf:"log-format"`
	LogLevel  string `koanf:"log-level"`

	TickMillis      int64 `koanf:"tick-millis"`
	TicksPerRound   int64 `koanf:"ticks-per-round"`
	RegenEveryTicks int64 `koanf:"regen-every-ticks"`

	SkillsDir   string `koanf:"skills-dir"`
	SocialsFile string `koanf:"socials-file"`
	WorldFile   string `koanf:"world-file"`

	LinkdeadMinutes int64 `koanf:"linkdead-minutes"`
}

// Default values for serve command flags.
const (
	defaultTelnetAddr    = ":4000"
	defaultMetricsAddr   = "127.0.0.1:9100"
	defaultLogFormat     = "json"
	defaultLogLevel      = "info"
	defaultTickMillis    = 500
	defaultTicksPerRound = 3
	defaultRegenEvery    = 10
	defaultLinkdeadMins  = 15
)

// Validate checks that the configuration is usable.
func (cfg *serveConfig) Validate() error {
	if cfg.TelnetAddr == "" {
		return fmt.Errorf("telnet-addr is required")
	}
	if cfg.LogFormat != "json" && cfg.LogFormat != "text" {
		return fmt.Errorf("log-format must be 'json' or 'text', got %q", cfg.LogFormat)
	}
	if cfg.TickMillis <= 0 {
		return fmt.Errorf("tick-millis must be positive")
	}
	if cfg.TicksPerRound <= 0 {
		return fmt.Errorf("ticks-per-round must be positive")
	}
	return nil
}

// TickDuration returns the tick length as a duration.
func (cfg *serveConfig) TickDuration() time.Duration {
	return time.Duration(cfg.TickMillis) * time.Millisecond
}

// loadConfig layers the YAML config file (if any) under the command-line
// flags.
func loadConfig(path string, flags *pflag.FlagSet) (*serveConfig, error) {
	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("loading config file %s: %w", path, err)
		}
	}
	if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
		return nil, fmt.Errorf("loading flags: %w", err)
	}

	cfg := &serveConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return cfg, nil
}
