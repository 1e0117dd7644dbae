// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package persist

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	sq "github.com/Masterminds/squirrel"
	_ "github.com/mattn/go-sqlite3"
)

// DefaultDBPath is used when no database path is configured.
const DefaultDBPath = "article-console.db"

const slotsTable = "slots"

// SQLiteSlot stores slot values in a local SQLite database.
type SQLiteSlot struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteSlot opens or creates the database at path and ensures the
// schema exists.
func NewSQLiteSlot(path string) (*SQLiteSlot, error) {
	if path == "" {
		path = DefaultDBPath
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("creating database directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite3", path+"?_journal_mode=WAL&_foreign_keys=on")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &SQLiteSlot{db: db, now: func() time.Time { return time.Now().UTC() }}
	if err := s.createSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("creating schema: %w", err)
	}
	return s, nil
}

// Close releases the database connection.
func (s *SQLiteSlot) Close() error {
	return s.db.Close()
}

func (s *SQLiteSlot) createSchema() error {
	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS ` + slotsTable + ` (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`)
	if err != nil {
		return fmt.Errorf("executing schema statement: %w", err)
	}
	return nil
}

// Get reads the value stored under key. The revision is the row's
// updated_at stamp.
func (s *SQLiteSlot) Get(ctx context.Context, key string) (Entry, bool, error) {
	query, args, err := sq.Select("value", "updated_at").
		From(slotsTable).
		Where(sq.Eq{"key": key}).
		ToSql()
	if err != nil {
		return Entry{}, false, fmt.Errorf("building select: %w", err)
	}

	var e Entry
	err = s.db.QueryRowContext(ctx, query, args...).Scan(&e.Value, &e.Revision)
	if errors.Is(err, sql.ErrNoRows) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, fmt.Errorf("reading slot %s: %w", key, err)
	}
	return e, true, nil
}

// Put writes value under key if the row is still at rev. An empty rev
// inserts and conflicts with any existing row.
func (s *SQLiteSlot) Put(ctx context.Context, key, value, rev string) (string, error) {
	next := s.nextRevision(rev)

	var stmt sq.Sqlizer
	if rev == "" {
		stmt = sq.Insert(slotsTable).
			Columns("key", "value", "updated_at").
			Values(key, value, next).
			Suffix("ON CONFLICT(key) DO NOTHING")
	} else {
		stmt = sq.Update(slotsTable).
			Set("value", value).
			Set("updated_at", next).
			Where(sq.Eq{"key": key, "updated_at": rev})
	}
	query, args, err := stmt.ToSql()
	if err != nil {
		return "", fmt.Errorf("building write: %w", err)
	}

	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return "", fmt.Errorf("writing slot %s: %w", key, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return "", fmt.Errorf("writing slot %s: %w", key, err)
	}
	if n == 0 {
		return "", ErrConflict
	}
	return next, nil
}

// nextRevision stamps the current time, nudged forward if it would repeat
// rev on a coarse clock.
func (s *SQLiteSlot) nextRevision(rev string) string {
	t := s.now()
	next := t.Format(time.RFC3339Nano)
	if next == rev {
		next = t.Add(time.Microsecond).Format(time.RFC3339Nano)
	}
	return next
}
