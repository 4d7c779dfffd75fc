// Package sqlite implements the persistence layer on a local SQLite
// database using the pure-Go modernc.org/sqlite driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"dagstore-backend/internal/config"
)

const schema = `
CREATE TABLE IF NOT EXISTS graphs (
	id         INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
);

CREATE TABLE IF NOT EXISTS nodes (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	graph_id INTEGER NOT NULL REFERENCES graphs(id) ON DELETE CASCADE,
	name     TEXT    NOT NULL,
	UNIQUE (graph_id, name)
);

CREATE TABLE IF NOT EXISTS edges (
	id        INTEGER PRIMARY KEY AUTOINCREMENT,
	graph_id  INTEGER NOT NULL REFERENCES graphs(id) ON DELETE CASCADE,
	source_id INTEGER NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	target_id INTEGER NOT NULL REFERENCES nodes(id) ON DELETE CASCADE,
	UNIQUE (graph_id, source_id, target_id)
);

CREATE INDEX IF NOT EXISTS idx_nodes_graph_id  ON nodes(graph_id);
CREATE INDEX IF NOT EXISTS idx_edges_graph_id  ON edges(graph_id);
CREATE INDEX IF NOT EXISTS idx_edges_source_id ON edges(source_id);
CREATE INDEX IF NOT EXISTS idx_edges_target_id ON edges(target_id);
`

// Store owns the database handle and the schema.
type Store struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewStore opens the database, applies the connection pragmas and ensures
// the schema exists.
func NewStore(cfg config.DatabaseConfig, logger *zap.Logger) (*Store, error) {
	if !isMemory(cfg.Path) {
		if dir := filepath.Dir(cfg.Path); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("failed to create database directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite", dsn(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if isMemory(cfg.Path) {
		// Every pooled connection to :memory: opens a separate empty
		// database, so the pool must stay at a single connection.
		db.SetMaxOpenConns(1)
		db.SetMaxIdleConns(1)
	} else {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(time.Hour)

	store := &Store{db: db, logger: logger}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := store.initialize(ctx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("database ready",
		zap.String("path", cfg.Path),
		zap.Int("max_open_conns", cfg.MaxOpenConns),
	)

	return store, nil
}

// DB exposes the handle to the repositories.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Ping verifies the connection is alive.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) initialize(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to create schema: %w", err)
	}
	return nil
}

func isMemory(path string) bool {
	return path == ":memory:" || strings.Contains(path, "mode=memory")
}

// dsn builds the driver connection string. Pragmas ride on the DSN so every
// pooled connection gets them; foreign_keys in particular is per-connection
// and the cascade constraints depend on it.
func dsn(cfg config.DatabaseConfig) string {
	params := url.Values{}
	params.Add("_pragma", "foreign_keys(1)")
	params.Add("_pragma", "journal_mode(WAL)")
	params.Add("_pragma", "synchronous(NORMAL)")
	params.Add("_pragma", fmt.Sprintf("busy_timeout(%d)", cfg.BusyTimeoutMs))
	return fmt.Sprintf("file:%s?%s", cfg.Path, params.Encode())
}
