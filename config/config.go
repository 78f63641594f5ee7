// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


// Package config loads launcher configuration from a YAML file and
// WAYFIND_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "WAYFIND"

// ErrInvalidConfig is returned when a loaded configuration fails validation.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds all launcher configuration. Environment variables override
// file values; fields absent from both keep their defaults.
type Config struct {
	DataDir          string        `yaml:"data_dir" envconfig:"DATA_DIR"`
	IconCacheDir     string        `yaml:"icon_cache_dir" envconfig:"ICON_CACHE_DIR"`
	InMemory         bool          `yaml:"in_memory" envconfig:"IN_MEMORY"`
	ShortcutDirs     []string      `yaml:"shortcut_dirs" envconfig:"SHORTCUT_DIRS"`
	ShortcutPatterns []string      `yaml:"shortcut_patterns" envconfig:"SHORTCUT_PATTERNS"`
	ShortcutExcludes []string      `yaml:"shortcut_excludes" envconfig:"SHORTCUT_EXCLUDES"`
	FolderExcludes   []string      `yaml:"folder_excludes" envconfig:"FOLDER_EXCLUDES"`
	IconSize         int           `yaml:"icon_size" envconfig:"ICON_SIZE"`
	HistoryTTL       time.Duration `yaml:"history_ttl" envconfig:"HISTORY_TTL"`
	PowerShell       string        `yaml:"powershell" envconfig:"POWERSHELL"`
	LogLevel         string        `yaml:"log_level" envconfig:"LOG_LEVEL"`
}

// Default returns default configuration.
func Default() *Config {
	dataDir := filepath.Join(os.TempDir(), "wayfind")
	if dir, err := os.UserConfigDir(); err == nil {
		dataDir = filepath.Join(dir, "wayfind")
	}

	return &Config{
		DataDir:          dataDir,
		ShortcutDirs:     DefaultShortcutDirs(),
		ShortcutPatterns: []string{"**/*.lnk", "**/*.url", "**/*.desktop"},
		ShortcutExcludes: []string{"**/[Uu]ninstall*"},
		FolderExcludes:   []string{"**/node_modules", "**/__pycache__"},
		IconSize:         32,
		HistoryTTL:       3 * time.Second,
		PowerShell:       "powershell.exe",
		LogLevel:         "info",
	}
}

// DefaultPath returns the default configuration file path.
func DefaultPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "wayfind", "config.yaml")
}

// DefaultShortcutDirs returns the platform's start menu or application
// launcher directories.
func DefaultShortcutDirs() []string {
	if runtime.GOOS == "windows" {
		var dirs []string
		for _, env := range []string{"APPDATA", "ProgramData"} {
			if base := os.Getenv(env); base != "" {
				dirs = append(dirs, filepath.Join(base, "Microsoft", "Windows", "Start Menu", "Programs"))
			}
		}
		return dirs
	}

	dirs := []string{"/usr/share/applications"}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(home, ".local", "share", "applications"))
	}
	return dirs
}

// Load reads path, if it exists, over the defaults and then applies
// environment overrides. An empty path skips the file.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := yaml.Unmarshal(data, cfg); err != nil {
				return nil, fmt.Errorf("failed to parse config file: %w", err)
			}
		case errors.Is(err, os.ErrNotExist):
		default:
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.IconCacheDir == "" {
		cfg.IconCacheDir = filepath.Join(cfg.DataDir, "icons")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks that required values are present and in range.
func (c *Config) Validate() error {
	var problems []string
	if !c.InMemory && strings.TrimSpace(c.DataDir) == "" {
		problems = append(problems, "data_dir is required")
	}
	if c.IconSize <= 0 {
		problems = append(problems, "icon_size must be positive")
	}
	if c.HistoryTTL <= 0 {
		problems = append(problems, "history_ttl must be positive")
	}
	if len(problems) > 0 {
		return fmt.Errorf("%w: %s", ErrInvalidConfig, strings.Join(problems, "; "))
	}
	return nil
}

// DatabaseDir returns the directory holding the launcher database.
func (c *Config) DatabaseDir() string {
	return filepath.Join(c.DataDir, "db")
}
