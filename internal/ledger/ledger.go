package ledger

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// ErrAttemptExists is returned when RecordAttempt sees a token that is
// already in the pending queue.
var ErrAttemptExists = errors.New("attempt token already recorded")

// Ledger is the client-side durable store: a SQLite replica of the server's
// reference data plus the queue of attempts taken offline. It survives app
// restarts; the sync client drains the queue when connectivity returns.
//
// Uses WAL mode for concurrent read access and a single writer connection.
type Ledger struct {
	db *sql.DB
}

// Open creates or opens the ledger database at the given path. Schema
// creation is idempotent. Use ":memory:" for tests.
func Open(path string) (*Ledger, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connect database: %w", err)
	}

	// SQLite only supports one writer at a time; a single connection
	// avoids SQLITE_BUSY under concurrent use.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply pragmas: %w", err)
	}

	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &Ledger{db: db}, nil
}

// Close closes the underlying database.
func (l *Ledger) Close() error {
	if l.db == nil {
		return nil
	}
	return l.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Watermark returns the server_time of the last applied pull, or nil if the
// ledger has never synced (the next pull is a bootstrap).
func (l *Ledger) Watermark(ctx context.Context) (*time.Time, error) {
	var raw sql.NullString
	err := l.db.QueryRowContext(ctx, `SELECT watermark FROM sync_state WHERE id = 1`).Scan(&raw)
	if err != nil {
		return nil, fmt.Errorf("read watermark: %w", err)
	}
	if !raw.Valid || raw.String == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339Nano, raw.String)
	if err != nil {
		return nil, fmt.Errorf("parse watermark %q: %w", raw.String, err)
	}
	return &t, nil
}

// SetWatermark stores the server time returned by the last pull.
func (l *Ledger) SetWatermark(ctx context.Context, t time.Time) error {
	_, err := l.db.ExecContext(ctx,
		`UPDATE sync_state SET watermark = ? WHERE id = 1`,
		t.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("store watermark: %w", err)
	}
	return nil
}
