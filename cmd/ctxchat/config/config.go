// Package config stores ctxchat user settings in a JSON file under the
// home directory. Everything here is operator configuration; permission
// state itself is never written to disk.
package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"
)

// Config holds user preferences for the demo.
type Config struct {
	Theme           string   `json:"theme"`             // "light" or "dark"
	AssistantName   string   `json:"assistant_name"`    // display name in the chat header
	ResponseDelayMS int      `json:"response_delay_ms"` // simulated assistant latency
	AutoApprove     []string `json:"auto_approve,omitempty"`
	AutoDeny        []string `json:"auto_deny,omitempty"`
	RulesPath       string   `json:"rules_path,omitempty"` // optional YAML rules override
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Theme:           "dark",
		AssistantName:   "Aide",
		ResponseDelayMS: 1500,
	}
}

// Delay converts the configured latency to a duration.
func (c Config) Delay() time.Duration {
	if c.ResponseDelayMS <= 0 {
		return 1500 * time.Millisecond
	}
	return time.Duration(c.ResponseDelayMS) * time.Millisecond
}

// ConfigDir returns the directory where config is stored.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".ctxchat"), nil
}

// ConfigFile returns the full path to the config file.
func ConfigFile() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the configuration from disk, applying env overrides. A
// missing file yields the defaults.
func Load() (Config, error) {
	cfg := DefaultConfig()

	path, err := ConfigFile()
	if err != nil {
		return applyEnv(cfg), err
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return applyEnv(cfg), nil
	}
	if err != nil {
		return applyEnv(cfg), err
	}
	if err := json.Unmarshal(data, &cfg); err != nil {
		return applyEnv(DefaultConfig()), err
	}
	return applyEnv(cfg), nil
}

func applyEnv(cfg Config) Config {
	if theme := os.Getenv("CTXCHAT_THEME"); theme == "light" || theme == "dark" {
		cfg.Theme = theme
	}
	return cfg
}

// Save writes the configuration to disk.
func Save(cfg Config) error {
	dir, err := ConfigDir()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}
	path, err := ConfigFile()
	if err != nil {
		return err
	}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
