package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// EnvConfig names the environment variable consulted for a config path when
// -config is not given.
const EnvConfig = "SHADOWBOX_CONFIG"

// Load builds the effective config: defaults, then the first config file
// found, then CLI flags. The result is validated.
func Load() (*Config, error) {
	cfg, err := LoadFile(resolveConfigPath())
	if err != nil {
		return nil, err
	}

	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// LoadFile returns the defaults overlaid with the YAML file at path and
// records path as the config Source. An empty path yields the defaults.
func LoadFile(path string) (*Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}
	if err := loadFromFile(cfg, path); err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}
	cfg.Source = path
	return cfg, nil
}

// resolveConfigPath picks the -config flag, then $SHADOWBOX_CONFIG, then the
// first existing file of the search path.
func resolveConfigPath() string {
	if path := ConfigPath(); path != "" {
		return path
	}
	if path := os.Getenv(EnvConfig); path != "" {
		return path
	}
	return findConfigFile()
}

// findConfigFile looks for config.yaml in the working directory, then in
// ConfigDir.
func findConfigFile() string {
	candidates := []string{
		"./config.yaml",
		SavePath(),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "Shadowbox")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "Shadowbox")
	default:
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "shadowbox")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "shadowbox")
	}
}

// loadFromFile merges a YAML file into cfg. Keys that match no field are
// rejected so a misspelled setting does not silently keep its default. An
// empty file leaves cfg unchanged.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}
