package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/revisehq/revise/internal/apperr"
	"github.com/revisehq/revise/internal/models"
	"github.com/revisehq/revise/internal/snapshot"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS app_data (
	key        TEXT PRIMARY KEY,
	data       TEXT NOT NULL,
	updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
);
`

// mainKey identifies the single logical record the whole snapshot lives in.
const mainKey = "main"

// SQLite implements Provider on a local SQLite database.
type SQLite struct {
	conn *sql.DB
}

var _ Provider = (*SQLite)(nil)

// OpenSQLite opens (or creates) the database and applies the schema.
func OpenSQLite(dsn string) (*SQLite, error) {
	conn, err := sql.Open("sqlite3", dsn+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("store: open db: %w", err)
	}
	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: ping: %w", err)
	}
	if _, err := conn.Exec(schemaSQL); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: apply schema: %w", err)
	}
	return &SQLite{conn: conn}, nil
}

// Close closes the underlying database connection.
func (s *SQLite) Close() error {
	return s.conn.Close()
}

// Load reads the main record and normalizes whatever it finds. A missing
// record yields the default snapshot, not an error.
func (s *SQLite) Load(ctx context.Context) (models.Snapshot, error) {
	var data string
	err := s.conn.QueryRowContext(ctx,
		`SELECT data FROM app_data WHERE key = ?`, mainKey).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return snapshot.Default(), nil
	}
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("store: load: %w: %w", apperr.ErrUnavailable, err)
	}
	snap, err := snapshot.Normalize([]byte(data))
	if err != nil {
		return models.Snapshot{}, fmt.Errorf("store: stored record: %w", err)
	}
	return snap, nil
}

// Save upserts the snapshot into the main record.
func (s *SQLite) Save(ctx context.Context, snap models.Snapshot) error {
	data, err := json.Marshal(snapshot.Clean(snap))
	if err != nil {
		return fmt.Errorf("store: marshal: %w", err)
	}
	_, err = s.conn.ExecContext(ctx, `
		INSERT INTO app_data (key, data, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			data       = excluded.data,
			updated_at = excluded.updated_at
	`, mainKey, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("store: save: %w: %w", apperr.ErrUnavailable, err)
	}
	return nil
}
