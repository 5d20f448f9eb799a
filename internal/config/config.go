package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

const envPrefix = "MOCKGEN"

type Config struct {
	SchemasDir   string `mapstructure:"schemas_dir"`
	FixturesDB   string `mapstructure:"fixtures_db"`
	LogLevel     string `mapstructure:"log_level"`
	BindAddr     string `mapstructure:"bind_addr"`
	ElementCount int    `mapstructure:"element_count"`
	MaxDepth     int    `mapstructure:"max_depth"`
	TimeWindow   string `mapstructure:"time_window"`
}

func DefaultConfig() *Config {
	return &Config{
		SchemasDir:   "./schemas",
		FixturesDB:   "./mockgen-fixtures.sqlite",
		LogLevel:     "info",
		BindAddr:     ":8080",
		ElementCount: 3,
		MaxDepth:     0,
		TimeWindow:   "-30d",
	}
}

// Load resolves settings from, highest first: MOCKGEN_* environment
// variables, MOCKGEN_* entries in ./.env, built-in defaults.
func Load() (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("schemas_dir", defaults.SchemasDir)
	v.SetDefault("fixtures_db", defaults.FixturesDB)
	v.SetDefault("log_level", defaults.LogLevel)
	v.SetDefault("bind_addr", defaults.BindAddr)
	v.SetDefault("element_count", defaults.ElementCount)
	v.SetDefault("max_depth", defaults.MaxDepth)
	v.SetDefault("time_window", defaults.TimeWindow)

	if err := mergeDotEnv(v, ".env"); err != nil {
		return nil, err
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}
	if cfg.ElementCount < 0 {
		return nil, fmt.Errorf("element_count must be >= 0, got %d", cfg.ElementCount)
	}
	if cfg.MaxDepth < 0 {
		return nil, fmt.Errorf("max_depth must be >= 0, got %d", cfg.MaxDepth)
	}
	return &cfg, nil
}

// mergeDotEnv layers MOCKGEN_* keys from a dotenv file over the defaults.
// A missing file is not an error.
func mergeDotEnv(v *viper.Viper, path string) error {
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}

	dotenv := viper.New()
	dotenv.SetConfigFile(path)
	dotenv.SetConfigType("env")
	if err := dotenv.ReadInConfig(); err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	prefix := strings.ToLower(envPrefix) + "_"
	for _, key := range dotenv.AllKeys() {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		v.SetDefault(strings.TrimPrefix(key, prefix), dotenv.Get(key))
	}
	return nil
}
