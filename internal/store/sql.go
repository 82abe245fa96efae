// Copyright (c) 2026 Keymaster Team
// Mintmaster - Solana token mint manager
// This source code is licensed under the MIT license found in the LICENSE file.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/toeirei/mintmaster/internal/logging"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/mysqldialect"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "github.com/go-sql-driver/mysql"
	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite" // Pure Go SQLite driver
)

// sqlOpenFunc allows tests to override database opening behavior.
var sqlOpenFunc = sql.Open

// sessionEntry is one persisted key/value pair.
type sessionEntry struct {
	bun.BaseModel `bun:"table:session_entries"`

	Key       string    `bun:"entry_key,pk,type:varchar(64)"`
	Value     string    `bun:"entry_value,notnull,type:text"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

// SQL stores the session in a single bun-managed table on SQLite, Postgres
// or MySQL.
type SQL struct {
	db     *bun.DB
	dbType string
}

// OpenSQL connects to dsn and creates the session table if needed.
func OpenSQL(ctx context.Context, dbType, dsn string) (*SQL, error) {
	if strings.TrimSpace(dsn) == "" {
		return nil, fmt.Errorf("store: empty dsn for %s", dbType)
	}
	driverName := dbType
	// The pgx stdlib registers driver name "pgx"; map "postgres" to that driver.
	if dbType == TypePostgres {
		driverName = "pgx"
	}
	start := time.Now()
	sqlDB, err := sqlOpenFunc(driverName, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// A sqlite :memory: database exists per connection.
	if dbType == TypeSQLite {
		sqlDB.SetMaxOpenConns(1)
	}

	bdb := createBunDB(sqlDB, dbType)
	if err := bdb.PingContext(ctx); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("failed to reach database: %w", err)
	}
	if _, err := bdb.NewCreateTable().Model((*sessionEntry)(nil)).IfNotExists().Exec(ctx); err != nil {
		_ = bdb.Close()
		return nil, fmt.Errorf("failed to create session table: %w", err)
	}
	logging.Debugf("store: opened %s driver in %s", driverName, time.Since(start))
	return &SQL{db: bdb, dbType: dbType}, nil
}

func createBunDB(sqlDB *sql.DB, dbType string) *bun.DB {
	switch dbType {
	case TypePostgres:
		return bun.NewDB(sqlDB, pgdialect.New())
	case TypeMySQL:
		return bun.NewDB(sqlDB, mysqldialect.New())
	default:
		return bun.NewDB(sqlDB, sqlitedialect.New())
	}
}

// Get reads one entry.
func (s *SQL) Get(ctx context.Context, key string) (string, error) {
	var e sessionEntry
	err := s.db.NewSelect().Model(&e).Where("entry_key = ?", key).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("store: read %s: %w", key, err)
	}
	return e.Value, nil
}

// SetMany replaces all pairs inside one transaction.
func (s *SQL) SetMany(ctx context.Context, kv map[string]string) error {
	if len(kv) == 0 {
		return nil
	}
	keys := make([]string, 0, len(kv))
	for k := range kv {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	now := time.Now().UTC()

	return s.db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*sessionEntry)(nil)).Where("entry_key IN (?)", bun.In(keys)).Exec(ctx); err != nil {
			return fmt.Errorf("store: replace entries: %w", err)
		}
		rows := make([]sessionEntry, 0, len(keys))
		for _, k := range keys {
			rows = append(rows, sessionEntry{Key: k, Value: kv[k], UpdatedAt: now})
		}
		if _, err := tx.NewInsert().Model(&rows).Exec(ctx); err != nil {
			return fmt.Errorf("store: write entries: %w", err)
		}
		return nil
	})
}

// Delete removes entries.
func (s *SQL) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	if _, err := s.db.NewDelete().Model((*sessionEntry)(nil)).Where("entry_key IN (?)", bun.In(keys)).Exec(ctx); err != nil {
		return fmt.Errorf("store: delete entries: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *SQL) Close() error {
	return s.db.Close()
}
