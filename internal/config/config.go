// Package config loads the branchsweep configuration from YAML.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// AppConfig defines the global branchsweep configuration options.
type AppConfig struct {
	// ProtectedBranches are never listed or deleted. The current HEAD
	// branch is always protected in addition to this set.
	ProtectedBranches []string `yaml:"protected_branches"`
	// Concurrency caps simultaneous PR lookups; 0 means unbounded.
	Concurrency int `yaml:"concurrency"`
	// Theme selects the UI theme, see internal/theme.
	Theme string `yaml:"theme"`
	// DebugLog is the path of the debug log file.
	DebugLog string `yaml:"debug_log"`
	// Offline skips GitHub lookups entirely; every branch shows no PR.
	Offline bool `yaml:"offline"`
	// AutoRefresh rescans branches when refs change on disk.
	AutoRefresh bool `yaml:"auto_refresh"`
	// Force uses `git branch -D` instead of `-d` during deletion.
	Force bool `yaml:"force"`
}

// DefaultProtectedBranches is the protected set used when the config
// does not override it.
var DefaultProtectedBranches = []string{"main", "master", "develop", "development"}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		ProtectedBranches: append([]string(nil), DefaultProtectedBranches...),
		Concurrency:       0,
		Theme:             "",
	}
}

// LoadConfig reads the configuration file. An explicit path must
// exist; the default locations are optional and fall back to defaults.
func LoadConfig(configPath string) (*AppConfig, error) {
	var paths []string
	explicit := strings.TrimSpace(configPath) != ""
	if explicit {
		paths = []string{configPath}
	} else {
		base := filepath.Join(configDir(), "branchsweep")
		paths = []string{
			filepath.Join(base, "config.yaml"),
			filepath.Join(base, "config.yml"),
		}
	}

	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 -- path comes from the user's own flag or config dir
		if err != nil {
			if os.IsNotExist(err) && !explicit {
				continue
			}
			return DefaultConfig(), err
		}

		cfg := DefaultConfig()
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
		}
		if len(cfg.ProtectedBranches) == 0 {
			cfg.ProtectedBranches = append([]string(nil), DefaultProtectedBranches...)
		}
		return cfg, nil
	}

	return DefaultConfig(), nil
}

func configDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return xdg
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "."
	}
	return filepath.Join(home, ".config")
}
