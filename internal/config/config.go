package config

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Config represents the configuration of one series.
type Config struct {
	Name       string           `toml:"name"`
	RootDir    string           `toml:"root_dir,omitempty"` // defaults to the directory of the config file
	LogDir     string           `toml:"log_dir"`
	Database   DatabaseConfig   `toml:"database"`
	Build      BuildConfig      `toml:"build"`
	Filesystem FilesystemConfig `toml:"filesystem"`
	Store      StoreConfig      `toml:"store"`
	Log        LogConfig        `toml:"log"`
}

// DatabaseConfig represents configuration for the series database.
// This uses a tagged union pattern - the Type field determines which other fields are relevant.
type DatabaseConfig struct {
	Type string `toml:"type"`           // "sqlite" or "memory"
	Path string `toml:"path,omitempty"` // only used for type=sqlite, relative to the root
}

// BuildConfig controls how cases are materialized.
type BuildConfig struct {
	Mode             string `toml:"mode"`        // "interactive" (default) or "automatic"
	MarkerName       string `toml:"marker_name"` // build marker base name, defaults to "build"
	PreserveSymlinks bool   `toml:"preserve_symlinks"`
}

// FilesystemConfig holds filesystem-related settings.
type FilesystemConfig struct {
	Ignore []string `toml:"ignore"` // patterns skipped when copying template directories
}

// StoreConfig holds case version store settings.
type StoreConfig struct {
	// PruneAncestors is how many ancestor versions a case deletion may remove.
	// 0 removes only the case's own version, negative values remove all eligible ancestors.
	PruneAncestors int `toml:"prune_ancestors"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level string `toml:"level"` // console level: "debug", "info" (default), "warn" or "error"
}

// Build modes.
const (
	ModeInteractive = "interactive"
	ModeAutomatic   = "automatic"
)

// NewConfig creates a new Config for the series name. Paths are relative
// to the directory holding the config file.
func NewConfig(name string) *Config {
	return &Config{
		Name:     name,
		LogDir:   filepath.Join(".series", "log"),
		Database: DatabaseConfig{Type: "sqlite", Path: name + ".db"},
		Build:    BuildConfig{Mode: ModeInteractive, MarkerName: "build"},
		Filesystem: FilesystemConfig{
			Ignore: []string{".git", ".build*"},
		},
		Log: LogConfig{Level: "info"},
	}
}

// Validate checks the enumerated settings.
func (c *Config) Validate() error {
	switch c.Database.Type {
	case "sqlite", "memory":
	default:
		return fmt.Errorf("unknown database type: %q", c.Database.Type)
	}
	switch c.Build.Mode {
	case "", ModeInteractive, ModeAutomatic:
	default:
		return fmt.Errorf("unknown build mode: %q", c.Build.Mode)
	}
	switch c.Log.Level {
	case "", "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("unknown log level: %q", c.Log.Level)
	}
	return nil
}

// ResolvePath returns p unchanged if it is absolute and joined to root otherwise.
func ResolvePath(root, p string) string {
	if p == "" || filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(root, p)
}

// Manager handles reading and writing configuration.
type Manager struct{}

// Read decodes a Config from the provided reader.
func (m *Manager) Read(r io.Reader) (*Config, error) {
	var cfg Config
	if _, err := toml.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	return &cfg, nil
}

// Write encodes a Config to the provided writer.
func (m *Manager) Write(w io.Writer, cfg *Config) error {
	if err := toml.NewEncoder(w).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	return nil
}

// ReadFromFile reads a Config from the specified file path. An empty
// RootDir is set to the directory containing the file.
func ReadFromFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	cfg, err := m.Read(f)
	if err != nil {
		return nil, fmt.Errorf("reading config from %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	dir, err := filepath.Abs(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("resolving config directory: %w", err)
	}
	cfg.RootDir = ResolvePath(dir, cfg.RootDir)
	if cfg.RootDir == "" {
		cfg.RootDir = dir
	}
	return cfg, nil
}

// writeToFile writes a Config to the specified file path.
func writeToFile(path string, cfg *Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	m := &Manager{}
	if err := m.Write(f, cfg); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

// Init writes a new config file. It refuses to overwrite an existing one.
func Init(path string, cfg *Config) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}

	if err := writeToFile(path, cfg); err != nil {
		return fmt.Errorf("initializing config: %w", err)
	}
	return nil
}
