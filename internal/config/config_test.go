package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestManager_ReadWrite_RoundTrip(t *testing.T) {
	original := &Config{
		Name:     "sweep",
		RootDir:  "/work/sweep",
		LogDir:   ".series/log",
		Database: DatabaseConfig{Type: "sqlite", Path: "sweep.db"},
		Build: BuildConfig{
			Mode:             ModeAutomatic,
			MarkerName:       "built",
			PreserveSymlinks: true,
		},
		Filesystem: FilesystemConfig{
			Ignore: []string{"*.log", ".git"},
		},
		Store: StoreConfig{PruneAncestors: -1},
		Log:   LogConfig{Level: "debug"},
	}

	var buf bytes.Buffer
	m := &Manager{}

	if err := m.Write(&buf, original); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	got, err := m.Read(&buf)
	if err != nil {
		t.Fatalf("Read() error = %v", err)
	}

	if got.Name != original.Name {
		t.Errorf("Name = %q, want %q", got.Name, original.Name)
	}
	if got.RootDir != original.RootDir {
		t.Errorf("RootDir = %q, want %q", got.RootDir, original.RootDir)
	}
	if got.Database != original.Database {
		t.Errorf("Database = %+v, want %+v", got.Database, original.Database)
	}
	if got.Build != original.Build {
		t.Errorf("Build = %+v, want %+v", got.Build, original.Build)
	}
	if got.Store.PruneAncestors != -1 {
		t.Errorf("Store.PruneAncestors = %d, want -1", got.Store.PruneAncestors)
	}
	if got.Log.Level != "debug" {
		t.Errorf("Log.Level = %q, want debug", got.Log.Level)
	}
	if len(got.Filesystem.Ignore) != 2 || got.Filesystem.Ignore[0] != "*.log" {
		t.Errorf("Filesystem.Ignore = %v, want [*.log .git]", got.Filesystem.Ignore)
	}
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig("sweep")

	if cfg.Name != "sweep" {
		t.Errorf("Name = %q, want %q", cfg.Name, "sweep")
	}
	if cfg.Database.Type != "sqlite" || cfg.Database.Path != "sweep.db" {
		t.Errorf("Database = %+v, want sqlite sweep.db", cfg.Database)
	}
	if cfg.Build.Mode != ModeInteractive {
		t.Errorf("Build.Mode = %q, want %q", cfg.Build.Mode, ModeInteractive)
	}
	if cfg.Store.PruneAncestors != 0 {
		t.Errorf("Store.PruneAncestors = %d, want 0", cfg.Store.PruneAncestors)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr string
	}{
		{name: "defaults", modify: func(*Config) {}},
		{name: "memory database", modify: func(c *Config) { c.Database.Type = "memory" }},
		{name: "unknown database", modify: func(c *Config) { c.Database.Type = "postgres" }, wantErr: "database type"},
		{name: "unknown mode", modify: func(c *Config) { c.Build.Mode = "eager" }, wantErr: "build mode"},
		{name: "unknown level", modify: func(c *Config) { c.Log.Level = "trace" }, wantErr: "log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig("sweep")
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("Validate() error = %v", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("Validate() error = %v, want containing %q", err, tt.wantErr)
			}
		})
	}
}

func TestResolvePath(t *testing.T) {
	tests := []struct {
		root, p, want string
	}{
		{"/work", "sweep.db", "/work/sweep.db"},
		{"/work", "/var/db/sweep.db", "/var/db/sweep.db"},
		{"/work", "", ""},
	}
	for _, tt := range tests {
		if got := ResolvePath(tt.root, tt.p); got != tt.want {
			t.Errorf("ResolvePath(%q, %q) = %q, want %q", tt.root, tt.p, got, tt.want)
		}
	}
}

func TestInit(t *testing.T) {
	t.Run("creates config file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "series.toml")

		if err := Init(path, NewConfig("sweep")); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		if _, err := os.Stat(path); err != nil {
			t.Fatalf("config file not created: %v", err)
		}
	})

	t.Run("fails if file already exists", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "series.toml")
		cfg := NewConfig("sweep")

		if err := Init(path, cfg); err != nil {
			t.Fatalf("first Init() error = %v", err)
		}

		if err := Init(path, cfg); err == nil {
			t.Fatal("second Init() expected error")
		}
	})
}

func TestReadFromFile(t *testing.T) {
	t.Run("defaults root to config directory", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "series.toml")
		cfg := NewConfig("read-test")
		cfg.Database = DatabaseConfig{Type: "memory"}

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if got.Name != "read-test" {
			t.Errorf("Name = %q, want %q", got.Name, "read-test")
		}
		if got.RootDir != dir {
			t.Errorf("RootDir = %q, want %q", got.RootDir, dir)
		}
	})

	t.Run("resolves relative root", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "series.toml")
		cfg := NewConfig("sweep")
		cfg.RootDir = "cases"

		if err := Init(path, cfg); err != nil {
			t.Fatalf("Init() error = %v", err)
		}

		got, err := ReadFromFile(path)
		if err != nil {
			t.Fatalf("ReadFromFile() error = %v", err)
		}
		if want := filepath.Join(dir, "cases"); got.RootDir != want {
			t.Errorf("RootDir = %q, want %q", got.RootDir, want)
		}
	})

	t.Run("rejects invalid config", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "series.toml")
		if err := os.WriteFile(path, []byte("name = \"x\"\n[database]\ntype = \"mongo\"\n"), 0644); err != nil {
			t.Fatal(err)
		}
		if _, err := ReadFromFile(path); err == nil {
			t.Fatal("ReadFromFile() expected error for invalid database type")
		}
	})

	t.Run("returns error for missing file", func(t *testing.T) {
		_, err := ReadFromFile("/nonexistent/path/series.toml")
		if err == nil {
			t.Fatal("ReadFromFile() expected error for missing file")
		}
	})
}
