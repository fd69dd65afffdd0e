// Package store keeps a history of recorded exchanges in SQLite.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	// SQLite driver
	_ "github.com/mattn/go-sqlite3"

	"github.com/abdul-hamid-achik/hitcmd/packages/capture"
)

var ErrNotFound = errors.New("recording not found")

const schema = `
CREATE TABLE IF NOT EXISTS recordings (
	id          INTEGER PRIMARY KEY AUTOINCREMENT,
	created_at  TEXT NOT NULL,
	method      TEXT NOT NULL,
	url         TEXT NOT NULL,
	status      INTEGER NOT NULL DEFAULT 0,
	duration_ms INTEGER NOT NULL DEFAULT 0,
	data        TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_recordings_created_at ON recordings(created_at);
`

// Entry is a history listing row.
type Entry struct {
	ID         int64
	CreatedAt  time.Time
	Method     string
	URL        string
	Status     int
	DurationMs int64
}

// Store is a SQLite-backed recording history. It is safe for concurrent use.
type Store struct {
	db           *sql.DB
	path         string
	queryTimeout time.Duration
}

// Open opens or creates the history database. Supported forms:
//   - sqlite://path/to/history.db
//   - sqlite:./history.db
//   - path/to/history.db
//   - :memory:
func Open(connectionString string) (*Store, error) {
	path := parseConnectionString(connectionString)
	if path == "" {
		return nil, fmt.Errorf("history database path is empty")
	}

	if path != ":memory:" {
		if dir := filepath.Dir(path); dir != "." {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return nil, fmt.Errorf("failed to create history directory: %w", err)
			}
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if path == ":memory:" {
		// Every new connection would see its own empty database.
		db.SetMaxOpenConns(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := db.ExecContext(ctx, schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize history schema: %w", err)
	}

	return &Store{
		db:           db,
		path:         path,
		queryTimeout: 30 * time.Second,
	}, nil
}

func parseConnectionString(connStr string) string {
	connStr = strings.TrimSpace(connStr)
	if strings.HasPrefix(connStr, "sqlite://") {
		return strings.TrimPrefix(connStr, "sqlite://")
	}
	return strings.TrimPrefix(connStr, "sqlite:")
}

func (s *Store) Path() string {
	return s.path
}

// Close closes the database connection
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, s.queryTimeout)
}

const insertRecording = `INSERT INTO recordings (created_at, method, url, status, duration_ms, data) VALUES (?, ?, ?, ?, ?, ?)`

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func insert(ctx context.Context, db execer, rec *capture.Recording) error {
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}
	rec.ID = 0

	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("failed to encode recording: %w", err)
	}

	var status int
	var duration int64
	if rec.Response != nil {
		status = rec.Response.StatusCode
		duration = rec.Response.DurationMs
	}

	res, err := db.ExecContext(ctx, insertRecording,
		rec.Timestamp.UTC().Format(time.RFC3339Nano), rec.Request.Method, rec.Request.URL, status, duration, string(data))
	if err != nil {
		return fmt.Errorf("failed to save recording: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to save recording: %w", err)
	}
	rec.ID = id
	return nil
}

// Save stores rec and returns its id. rec.ID is updated as well.
func (s *Store) Save(ctx context.Context, rec *capture.Recording) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	if err := insert(ctx, s.db, rec); err != nil {
		return 0, err
	}
	return rec.ID, nil
}

// SaveAll stores every recording in one transaction and sets their ids.
func (s *Store) SaveAll(ctx context.Context, recs []capture.Recording) error {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	for i := range recs {
		if err := insert(ctx, tx, &recs[i]); err != nil {
			_ = tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// Get returns the recordings with the given ids in the order requested.
// An unknown id fails the whole call with ErrNotFound.
func (s *Store) Get(ctx context.Context, ids ...int64) ([]capture.Recording, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	out := make([]capture.Recording, 0, len(ids))
	for _, id := range ids {
		var data string
		err := s.db.QueryRowContext(ctx, `SELECT data FROM recordings WHERE id = ?`, id).Scan(&data)
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%w: id %d", ErrNotFound, id)
		}
		if err != nil {
			return nil, fmt.Errorf("query failed: %w", err)
		}

		var rec capture.Recording
		if err := json.Unmarshal([]byte(data), &rec); err != nil {
			return nil, fmt.Errorf("failed to decode recording %d: %w", id, err)
		}
		rec.ID = id
		out = append(out, rec)
	}
	return out, nil
}

// List returns the newest entries first. A limit of zero or less lists
// everything.
func (s *Store) List(ctx context.Context, limit int) ([]Entry, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	query := `SELECT id, created_at, method, url, status, duration_ms FROM recordings ORDER BY id DESC`
	args := []any{}
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer rows.Close()

	entries := make([]Entry, 0)
	for rows.Next() {
		var e Entry
		var created string
		if err := rows.Scan(&e.ID, &created, &e.Method, &e.URL, &e.Status, &e.DurationMs); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		e.CreatedAt, _ = time.Parse(time.RFC3339Nano, created)
		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return entries, nil
}

// Clear deletes every recording and returns how many were removed.
func (s *Store) Clear(ctx context.Context) (int64, error) {
	ctx, cancel := s.withTimeout(ctx)
	defer cancel()

	res, err := s.db.ExecContext(ctx, `DELETE FROM recordings`)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return res.RowsAffected()
}
