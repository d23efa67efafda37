// Package config resolves the runtime configuration of the tally CLI.
//
// Precedence, lowest to highest: built-in defaults, tally.yaml, .env /
// environment variables, command-line flags (applied by the caller).
package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/aretw0/tally/pkg/session"
	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// DefaultPath is where Load looks when no --config flag is given.
const DefaultPath = "tally.yaml"

// Redis holds the optional Redis-backed dataset store settings.
// When Addr is empty the CSV adapter is used.
type Redis struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Key      string `mapstructure:"key"`
}

// Config is the resolved runtime configuration.
type Config struct {
	// File is the path of the CSV dataset.
	File string `mapstructure:"file"`

	// Seed drives the deterministic shuffle. Shared by all sessions.
	Seed int64 `mapstructure:"seed"`

	// Port is the listen port for serve and mcp --transport sse.
	Port string `mapstructure:"port"`

	Redis Redis `mapstructure:"redis"`
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		File: "annotate.csv",
		Seed: session.DefaultSeed,
		Port: "8080",
		Redis: Redis{
			Key: "tally:dataset",
		},
	}
}

// Load resolves the configuration from the given YAML file (missing file is
// fine when it is the default path) and the environment.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		var raw map[string]any
		if err := yaml.Unmarshal(data, &raw); err != nil {
			return cfg, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
		})
		if err != nil {
			return cfg, err
		}
		if err := dec.Decode(raw); err != nil {
			return cfg, fmt.Errorf("invalid config %s: %w", path, err)
		}
	case os.IsNotExist(err) && path == DefaultPath:
		// No config file is a valid setup.
	default:
		return cfg, fmt.Errorf("failed to read config: %w", err)
	}

	applyEnv(&cfg)
	return cfg, nil
}

// applyEnv overlays TALLY_* environment variables, loading a local .env
// first if present.
func applyEnv(cfg *Config) {
	_ = godotenv.Load()

	if v := os.Getenv("TALLY_FILE"); v != "" {
		cfg.File = v
	}
	if v := os.Getenv("TALLY_SEED"); v != "" {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			cfg.Seed = seed
		}
	}
	if v := os.Getenv("TALLY_PORT"); v != "" {
		cfg.Port = v
	}
	if v := os.Getenv("TALLY_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("TALLY_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("TALLY_REDIS_DB"); v != "" {
		if db, err := strconv.Atoi(v); err == nil {
			cfg.Redis.DB = db
		}
	}
	if v := os.Getenv("TALLY_REDIS_KEY"); v != "" {
		cfg.Redis.Key = v
	}
}
