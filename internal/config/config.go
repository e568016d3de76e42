// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Askboard Contributors

// Package config loads service configuration from defaults, an optional
// YAML file, command-line flags, and environment variables for secrets.
package config

import (
	"encoding/base64"
	"os"
	"time"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/samber/oops"
	"github.com/spf13/pflag"
)

// Environment variables holding secrets. Secrets are never read from
// the config file or flags so they stay out of shell history and VCS.
const (
	EnvDatabaseURL = "ASKBOARD_DATABASE_URL"
	EnvTokenKey    = "ASKBOARD_TOKEN_KEY"
	EnvBadWordsKey = "ASKBOARD_BAD_WORDS_API_KEY"
)

// Config holds the full service configuration.
type Config struct {
	Server     ServerConfig     `koanf:"server"`
	Database   DatabaseConfig   `koanf:"database"`
	Auth       AuthConfig       `koanf:"auth"`
	Moderation ModerationConfig `koanf:"moderation"`
	Log        LogConfig        `koanf:"log"`
}

// ServerConfig holds the HTTP listener settings.
type ServerConfig struct {
	Addr              string `koanf:"addr"`
	ObservabilityAddr string `koanf:"observability_addr"`
}

// DatabaseConfig holds PostgreSQL connection settings.
// URL is populated from ASKBOARD_DATABASE_URL.
type DatabaseConfig struct {
	URL string `koanf:"-"`
}

// AuthConfig holds session token settings.
// Key is populated from ASKBOARD_TOKEN_KEY and must be 32 bytes,
// base64-encoded.
type AuthConfig struct {
	Key      []byte        `koanf:"-"`
	TokenTTL time.Duration `koanf:"token_ttl"`
}

// ModerationConfig holds the profanity provider settings.
// APIKey is populated from ASKBOARD_BAD_WORDS_API_KEY.
type ModerationConfig struct {
	Endpoint   string        `koanf:"endpoint"`
	APIKey     string        `koanf:"-"`
	MaxRetries uint64        `koanf:"max_retries"`
	BaseDelay  time.Duration `koanf:"base_delay"`
}

// LogConfig holds logger settings.
type LogConfig struct {
	Format string `koanf:"format"`
}

// Default returns the configuration defaults.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Addr:              ":8080",
			ObservabilityAddr: "127.0.0.1:9100",
		},
		Auth: AuthConfig{
			TokenTTL: 24 * time.Hour,
		},
		Moderation: ModerationConfig{
			Endpoint:   "https://api.apilayer.com",
			MaxRetries: 3,
			BaseDelay:  250 * time.Millisecond,
		},
		Log: LogConfig{
			Format: "json",
		},
	}
}

// Load builds the configuration from defaults, then the YAML file at
// path (if non-empty), then flags, then secret environment variables.
// Later sources override earlier ones.
func Load(path string, flags *pflag.FlagSet) (Config, error) {
	cfg := Default()

	k := koanf.New(".")

	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return Config{}, oops.
				Code("CONFIG_FILE_FAILED").
				With("path", path).
				Wrapf(err, "loading config file")
		}
	}

	if flags != nil {
		if err := k.Load(posflag.Provider(flags, ".", k), nil); err != nil {
			return Config{}, oops.
				Code("CONFIG_FLAGS_FAILED").
				Wrapf(err, "loading flags")
		}
	}

	if err := k.Unmarshal("", &cfg); err != nil {
		return Config{}, oops.
			Code("CONFIG_PARSE_FAILED").
			Wrapf(err, "unmarshaling config")
	}

	cfg.Database.URL = os.Getenv(EnvDatabaseURL)
	cfg.Moderation.APIKey = os.Getenv(EnvBadWordsKey)

	if raw := os.Getenv(EnvTokenKey); raw != "" {
		key, err := base64.StdEncoding.DecodeString(raw)
		if err != nil {
			return Config{}, oops.
				Code("CONFIG_INVALID_TOKEN_KEY").
				Wrapf(err, "decoding %s", EnvTokenKey)
		}
		cfg.Auth.Key = key
	}

	return cfg, nil
}

// Validate checks that the configuration is complete enough to serve.
func (c Config) Validate() error {
	if c.Database.URL == "" {
		return oops.
			Code("CONFIG_MISSING_DATABASE_URL").
			Errorf("%s is required", EnvDatabaseURL)
	}
	if len(c.Auth.Key) != 32 {
		return oops.
			Code("CONFIG_INVALID_TOKEN_KEY").
			With("key_len", len(c.Auth.Key)).
			Errorf("%s must decode to 32 bytes", EnvTokenKey)
	}
	if c.Moderation.Endpoint == "" {
		return oops.
			Code("CONFIG_MISSING_MODERATION_ENDPOINT").
			Errorf("moderation endpoint is required")
	}
	if c.Moderation.APIKey == "" {
		return oops.
			Code("CONFIG_MISSING_MODERATION_KEY").
			Errorf("%s is required", EnvBadWordsKey)
	}
	if c.Auth.TokenTTL <= 0 {
		return oops.
			Code("CONFIG_INVALID_TOKEN_TTL").
			With("token_ttl", c.Auth.TokenTTL.String()).
			Errorf("token TTL must be positive")
	}
	return nil
}

// RegisterFlags registers the file-overridable settings on flags.
// Flag names mirror the koanf paths so posflag can map them.
func RegisterFlags(flags *pflag.FlagSet) {
	d := Default()
	flags.String("server.addr", d.Server.Addr, "HTTP listen address")
	flags.String("server.observability_addr", d.Server.ObservabilityAddr, "metrics and health listen address")
	flags.Duration("auth.token_ttl", d.Auth.TokenTTL, "session token lifetime")
	flags.String("moderation.endpoint", d.Moderation.Endpoint, "profanity provider base URL")
	flags.Uint64("moderation.max_retries", d.Moderation.MaxRetries, "profanity provider retry limit")
	flags.Duration("moderation.base_delay", d.Moderation.BaseDelay, "profanity provider initial backoff")
	flags.String("log.format", d.Log.Format, "log format: json or text")
}
