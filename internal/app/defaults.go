package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - SERIES_CONFIG_PATH: config file location (default: ./series.toml)
//   - SERIES_ROOT: series root directory, overriding root_dir from the config
func GetDefaults() (map[string]string, error) {
	configPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"root_dir":    os.Getenv("SERIES_ROOT"),
	}, nil
}

// getConfigPath returns the config file path, checking SERIES_CONFIG_PATH env var first,
// then falling back to series.toml in the working directory.
func getConfigPath() (string, error) {
	if path := os.Getenv("SERIES_CONFIG_PATH"); path != "" {
		return path, nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("cannot determine working directory: %w", err)
	}
	return filepath.Join(cwd, "series.toml"), nil
}
