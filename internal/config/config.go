// Package config handles tlaplus configuration parsing and location resolution.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultRuntime is the JVM launcher used when the config names none.
const DefaultRuntime = "java"

// DefaultRepository is the GitHub repository tla2tools releases come from.
const DefaultRepository = "tlaplus/tlaplus"

// ErrConfigUnreadable is returned when a config file exists but cannot be
// parsed or fails validation.
var ErrConfigUnreadable = errors.New("config is unreadable")

// JavaConfig controls how the JVM is launched.
type JavaConfig struct {
	Runtime string   `yaml:"runtime,omitempty" toml:"runtime,omitempty" json:"runtime,omitempty"` // JVM executable, default "java"
	Args    []string `yaml:"args,omitempty" toml:"args,omitempty" json:"args,omitempty"`          // Inserted before tool arguments
}

// UpdateConfig controls where releases are looked up.
type UpdateConfig struct {
	Repository string `yaml:"repository,omitempty" toml:"repository,omitempty" json:"repository,omitempty"` // owner/repo
	APIURL     string `yaml:"api_url,omitempty" toml:"api_url,omitempty" json:"api_url,omitempty"`
}

// Config represents the parsed configuration file.
type Config struct {
	Java   JavaConfig   `yaml:"java" toml:"java" json:"java"`
	Update UpdateConfig `yaml:"update" toml:"update" json:"update"`
}

// Default returns the configuration used when no config file exists.
func Default() *Config {
	return &Config{}
}

// Runtime returns the JVM executable to launch.
func (c *Config) Runtime() string {
	if c.Java.Runtime != "" {
		return c.Java.Runtime
	}
	return DefaultRuntime
}

// LauncherArgs returns the arguments inserted before tool arguments.
// The returned slice is a copy.
func (c *Config) LauncherArgs() []string {
	if len(c.Java.Args) == 0 {
		return nil
	}
	return append([]string(nil), c.Java.Args...)
}

// Repository returns the owner/repo releases are fetched from.
func (c *Config) Repository() string {
	if c.Update.Repository != "" {
		return c.Update.Repository
	}
	return DefaultRepository
}

// fileNames are checked in order inside each search directory.
var fileNames = []string{
	"config.toml",
	"config.yaml",
	"config.yml",
	"config.json",
}

// FindConfig searches for a config file in the standard locations.
// It returns "" and no error when none exists.
func FindConfig() (string, error) {
	if envPath := os.Getenv("TLAPLUS_CONFIG"); envPath != "" {
		return envPath, nil
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to determine home directory: %w", err)
	}

	var searchPaths []string

	xdgConfig := os.Getenv("XDG_CONFIG_HOME")
	if xdgConfig == "" {
		xdgConfig = filepath.Join(home, ".config")
	}
	searchPaths = append(searchPaths, filepath.Join(xdgConfig, "tlaplus"))
	searchPaths = append(searchPaths, filepath.Join(home, ".tlaplus"))

	for _, dir := range searchPaths {
		for _, name := range fileNames {
			path := filepath.Join(dir, name)
			if _, err := os.Stat(path); err == nil {
				return path, nil
			}
		}
	}

	return "", nil
}

// Load reads and parses the config file at path. An empty path searches the
// standard locations. A missing file yields the default configuration.
func Load(path string) (*Config, error) {
	if path == "" {
		found, err := FindConfig()
		if err != nil {
			return nil, err
		}
		path = found
	}
	if path == "" {
		return Default(), nil
	}

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Default(), nil
		}
		return nil, fmt.Errorf("%w: read %s: %v", ErrConfigUnreadable, path, err)
	}

	format := detectFormat(path, content)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%w: unable to detect file format for %s", ErrConfigUnreadable, path)
	}

	cfg, err := parse(content, format)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigUnreadable, path, err)
	}

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigUnreadable, path, err)
	}

	return cfg, nil
}
