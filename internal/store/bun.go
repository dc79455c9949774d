// Copyright (c) 2026 Railbook Team
// Railbook - console train seat booking
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/toeirei/railbook/internal/logging"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	// SQL drivers for the supported storage types.
	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"
)

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// DocumentModel is one record of a collection, stored as a JSON body.
type DocumentModel struct {
	bun.BaseModel `bun:"table:documents"`
	Collection    string `bun:"collection,pk,type:varchar(64)"`
	Position      int    `bun:"position,pk"`
	Body          string `bun:"body,type:text,notnull"`
}

// OpenDB opens a bun.DB for dbType ("sqlite", "postgres", "mysql") and makes
// sure the documents table exists.
func OpenDB(ctx context.Context, dbType, dsn string) (*bun.DB, error) {
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to that driver.
	if dbType == "postgres" {
		driverName = "pgx"
	}
	switch dbType {
	case "sqlite", "postgres", "mysql":
	default:
		return nil, fmt.Errorf("unsupported database type: '%s'", dbType)
	}

	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory SQLite databases are per connection; keep a single one so
	// the schema stays visible.
	if dbType == "sqlite" && dsn == ":memory:" {
		sqlDB.SetMaxOpenConns(1)
		sqlDB.SetMaxIdleConns(1)
	}

	bunDB := createBunDB(sqlDB, dbType)
	if _, err := bunDB.NewCreateTable().Model((*DocumentModel)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = bunDB.Close()
		return nil, fmt.Errorf("failed to create documents table: %w", err)
	}
	logging.Debugf("store: opened %s database in %s", dbType, time.Since(start))
	return bunDB, nil
}

// createBunDB constructs a *bun.DB for the provided *sql.DB and dbType.
func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case "postgres":
		return bun.NewDB(sqlDB, pgdialect.New())
	case "mysql":
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// BunCollection stores a collection as rows of the documents table.
type BunCollection[T any] struct {
	db   *bun.DB
	name string
}

// NewBunCollection returns the collection called name inside db.
func NewBunCollection[T any](db *bun.DB, name string) *BunCollection[T] {
	return &BunCollection[T]{db: db, name: name}
}

// Load returns the collection in stored order.
func (c *BunCollection[T]) Load(ctx context.Context) ([]T, error) {
	var rows []DocumentModel
	err := c.db.NewSelect().Model(&rows).Where("collection = ?", c.name).Order("position").Scan(ctx)
	if err != nil && err != sql.ErrNoRows {
		logging.Errorf("store: reading collection %s failed, starting empty: %v", c.name, err)
		return []T{}, fmt.Errorf("read collection %s: %w", c.name, err)
	}
	records := make([]T, 0, len(rows))
	for _, row := range rows {
		var rec T
		if err := json.Unmarshal([]byte(row.Body), &rec); err != nil {
			logging.Errorf("store: collection %s row %d is malformed, starting empty: %v", c.name, row.Position, err)
			return []T{}, fmt.Errorf("%w: %s[%d]: %v", ErrMalformed, c.name, row.Position, err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// Save replaces every row of the collection inside one transaction.
func (c *BunCollection[T]) Save(ctx context.Context, records []T) error {
	rows := make([]DocumentModel, 0, len(records))
	for i, rec := range records {
		body, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("encode %s[%d]: %w", c.name, i, err)
		}
		rows = append(rows, DocumentModel{Collection: c.name, Position: i, Body: string(body)})
	}

	return c.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*DocumentModel)(nil)).Where("collection = ?", c.name).Exec(ctx); err != nil {
			return fmt.Errorf("clear collection %s: %w", c.name, err)
		}
		if len(rows) == 0 {
			return nil
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("write collection %s: %w", c.name, err)
		}
		return nil
	})
}

// *BunCollection implements Collection
var _ Collection[struct{}] = (*BunCollection[struct{}])(nil)
