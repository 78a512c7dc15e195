// Package config loads runtime settings from an optional YAML file with
// TEMPLECORE_* environment overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// Config holds the application configuration.
type Config struct {
	GameDir string       `yaml:"game_dir"`
	Seed    int64        `yaml:"seed"`
	SaveDir string       `yaml:"save_dir"`
	Log     LogConfig    `yaml:"log"`
	Server  ServerConfig `yaml:"server"`
}

// LogConfig is passed through to logger.Init.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// ServerConfig configures the websocket front end.
type ServerConfig struct {
	Addr        string        `yaml:"addr"`
	IdleTimeout time.Duration `yaml:"idle_timeout"` // 0 disables
	MaxPlayers  int           `yaml:"max_players"`  // 0 means unlimited
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		GameDir: "games/temple",
		Seed:    1,
		SaveDir: "saves",
		Server: ServerConfig{
			Addr:        ":8080",
			IdleTimeout: 10 * time.Minute,
		},
	}
}

// Load reads the YAML file at path over the defaults and applies
// environment overrides. An empty path skips the file.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("reading config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("parsing config %s: %w", path, err)
		}
	}
	if err := applyEnv(&cfg, os.LookupEnv); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// applyEnv overrides fields from TEMPLECORE_* variables.
func applyEnv(cfg *Config, lookup func(string) (string, bool)) error {
	str := map[string]*string{
		"TEMPLECORE_GAME_DIR":   &cfg.GameDir,
		"TEMPLECORE_SAVE_DIR":   &cfg.SaveDir,
		"TEMPLECORE_ADDR":       &cfg.Server.Addr,
		"TEMPLECORE_LOG_LEVEL":  &cfg.Log.Level,
		"TEMPLECORE_LOG_FORMAT": &cfg.Log.Format,
	}
	for key, dst := range str {
		if v, ok := lookup(key); ok {
			*dst = v
		}
	}

	if v, ok := lookup("TEMPLECORE_SEED"); ok {
		seed, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return fmt.Errorf("%w: TEMPLECORE_SEED: %v", ErrInvalid, err)
		}
		cfg.Seed = seed
	}
	if v, ok := lookup("TEMPLECORE_IDLE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: TEMPLECORE_IDLE_TIMEOUT: %v", ErrInvalid, err)
		}
		cfg.Server.IdleTimeout = d
	}
	if v, ok := lookup("TEMPLECORE_MAX_PLAYERS"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: TEMPLECORE_MAX_PLAYERS: %v", ErrInvalid, err)
		}
		cfg.Server.MaxPlayers = n
	}
	return nil
}

// Validate reports the first setting that cannot be used.
func (c Config) Validate() error {
	switch {
	case c.GameDir == "":
		return fmt.Errorf("%w: game_dir is required", ErrInvalid)
	case c.Server.Addr == "":
		return fmt.Errorf("%w: server.addr is required", ErrInvalid)
	case c.Server.IdleTimeout < 0:
		return fmt.Errorf("%w: server.idle_timeout must not be negative", ErrInvalid)
	case c.Server.MaxPlayers < 0:
		return fmt.Errorf("%w: server.max_players must not be negative", ErrInvalid)
	}
	return nil
}
