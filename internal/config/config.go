package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/ihildy/weekhours/internal/api"
)

const (
	configDirName          = "weekhours"
	configFileName         = "config.yaml"
	databaseFileName       = "weekhours.db"
	defaultWeeklyGoalHours = 40
)

type OutputConfig struct {
	JSONDefault bool `yaml:"json_default,omitempty"`
}

type Config struct {
	BaseURL         string       `yaml:"base_url,omitempty"`
	WeeklyGoalHours float64      `yaml:"weekly_goal_hours,omitempty"`
	DatabasePath    string       `yaml:"database_path,omitempty"`
	Output          OutputConfig `yaml:"output,omitempty"`
}

func DefaultConfig() Config {
	return Config{
		BaseURL:         api.DefaultBaseURL,
		WeeklyGoalHours: defaultWeeklyGoalHours,
	}
}

func ConfigPath() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil {
		return "", fmt.Errorf("resolve user config dir: %w", err)
	}
	return filepath.Join(base, configDirName, configFileName), nil
}

func Load() (Config, string, error) {
	path, err := ConfigPath()
	if err != nil {
		return Config{}, "", err
	}
	cfg, err := LoadFile(path)
	return cfg, path, err
}

func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return cfg, nil
		}
		return Config{}, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config yaml: %w", err)
	}

	applyDefaults(&cfg)
	return cfg, nil
}

func Save(cfg Config, path string) error {
	applyDefaults(&cfg)

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}

	data, err := yaml.Marshal(&cfg)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// ResolveDatabasePath returns the configured database path, defaulting to a
// file next to the config.
func ResolveDatabasePath(cfg Config, cfgPath string) string {
	if cfg.DatabasePath != "" {
		return cfg.DatabasePath
	}
	return filepath.Join(filepath.Dir(cfgPath), databaseFileName)
}

func applyDefaults(cfg *Config) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = api.DefaultBaseURL
	}
	if cfg.WeeklyGoalHours <= 0 {
		cfg.WeeklyGoalHours = defaultWeeklyGoalHours
	}
}
