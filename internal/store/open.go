// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/toeirei/railbook/internal/config"
	"github.com/uptrace/bun"
)

// Backend holds the storage connection shared by all collections.
// DB is nil for the json backend.
type Backend struct {
	cfg config.StorageConfig
	DB  *bun.DB
}

// OpenBackend prepares the backend named by cfg.Type. The json backend
// touches nothing until the first Load or Save.
func OpenBackend(ctx context.Context, cfg config.StorageConfig) (*Backend, error) {
	switch cfg.Type {
	case "", "json":
		return &Backend{cfg: cfg}, nil
	default:
		db, err := OpenDB(ctx, cfg.Type, cfg.Dsn)
		if err != nil {
			return nil, fmt.Errorf("open %s storage: %w", cfg.Type, err)
		}
		return &Backend{cfg: cfg, DB: db}, nil
	}
}

// Close releases the database connection, if any.
func (b *Backend) Close() error {
	if b == nil || b.DB == nil {
		return nil
	}
	return b.DB.Close()
}

// Open returns the collection called name on backend b.
func Open[T any](b *Backend, name string) Collection[T] {
	if b.DB != nil {
		return NewBunCollection[T](b.DB, name)
	}
	return NewJSONFile[T](filepath.Join(b.cfg.Dir, name+".json"))
}
