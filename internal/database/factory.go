package database

import (
	"fmt"

	"series-go/internal/config"
)

// NewDatabaseFromConfig opens the database described by cfg. Relative sqlite
// paths are resolved against root.
func NewDatabaseFromConfig(cfg config.DatabaseConfig, root string) (*SQLiteDatabase, error) {
	switch cfg.Type {
	case "sqlite":
		if cfg.Path == "" {
			return nil, fmt.Errorf("path required for sqlite database")
		}
		return NewSQLiteDatabase(config.ResolvePath(root, cfg.Path))
	case "memory":
		return NewSQLiteDatabase(":memory:")
	default:
		return nil, fmt.Errorf("unknown database type: %s", cfg.Type)
	}
}
