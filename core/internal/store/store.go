package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"universal-harvester/harvesters"
)

// StorageError marks failures of the persistence layer. Unlike harvester
// failures it is fatal to the run that hits it.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string { return fmt.Sprintf("store %s: %v", e.Op, e.Err) }
func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

const schema = `
CREATE TABLE IF NOT EXISTS records (
  id INTEGER PRIMARY KEY AUTOINCREMENT,
  batch_id TEXT NOT NULL,
  source TEXT NOT NULL,
  harvested_at INTEGER NOT NULL,
  status TEXT NOT NULL,
  payload TEXT,
  diagnostic TEXT
);
CREATE INDEX IF NOT EXISTS idx_records_source_time ON records(source, harvested_at);
`

// Store is the append-only harvest record store, backed by SQLite.
type Store struct {
	db *sql.DB
}

func Open(path string) (*Store, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, storageErr("open", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, storageErr("open", err)
	}
	// Single connection keeps writes serialized at the driver level.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	for _, pragma := range []string{
		"PRAGMA busy_timeout = 5000",
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, storageErr("open", err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, storageErr("init schema", err)
	}
	return &Store{db: db}, nil
}

func (s *Store) Close() error { return s.db.Close() }

// Append writes one record in its own transaction and returns its id.
func (s *Store) Append(ctx context.Context, rec harvesters.Record) (int64, error) {
	var payload []byte
	if rec.Payload != nil {
		b, err := json.Marshal(rec.Payload)
		if err != nil {
			return 0, storageErr("append", err)
		}
		payload = b
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO records (batch_id, source, harvested_at, status, payload, diagnostic)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.BatchID, string(rec.Source), rec.HarvestedAt.UTC().UnixNano(),
		string(rec.Status), payload, rec.Diagnostic)
	if err != nil {
		return 0, storageErr("append", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, storageErr("append", err)
	}
	return id, nil
}

// Filter narrows a Query. Zero values mean "no constraint".
type Filter struct {
	Source harvesters.Source
	Since  time.Time
	Status harvesters.Status
}

// Query returns matching records ordered by harvested_at ascending.
// Re-running the same filter after new appends yields the previous
// results plus the new ones.
func (s *Store) Query(ctx context.Context, f Filter) ([]harvesters.Record, error) {
	q := `SELECT id, batch_id, source, harvested_at, status, payload, diagnostic FROM records WHERE 1=1`
	var args []any
	if f.Source != "" {
		q += " AND source = ?"
		args = append(args, string(f.Source))
	}
	if !f.Since.IsZero() {
		q += " AND harvested_at >= ?"
		args = append(args, f.Since.UTC().UnixNano())
	}
	if f.Status != "" {
		q += " AND status = ?"
		args = append(args, string(f.Status))
	}
	q += " ORDER BY harvested_at ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, storageErr("query", err)
	}
	defer rows.Close()

	var out []harvesters.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, storageErr("query", err)
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("query", err)
	}
	return out, nil
}

// Latest returns the most recent record for a source, or nil if the
// source was never harvested.
func (s *Store) Latest(ctx context.Context, src harvesters.Source) (*harvesters.Record, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, batch_id, source, harvested_at, status, payload, diagnostic
		 FROM records WHERE source = ? ORDER BY harvested_at DESC, id DESC LIMIT 1`,
		string(src))

	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, storageErr("latest", err)
	}
	return &rec, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (harvesters.Record, error) {
	var (
		rec         harvesters.Record
		source      string
		status      string
		harvestedAt int64
		payload     sql.NullString
	)
	err := row.Scan(&rec.ID, &rec.BatchID, &source, &harvestedAt, &status, &payload, &rec.Diagnostic)
	if err != nil {
		return harvesters.Record{}, err
	}
	rec.Source = harvesters.Source(source)
	rec.Status = harvesters.Status(status)
	rec.HarvestedAt = time.Unix(0, harvestedAt).UTC()
	if payload.Valid && payload.String != "" {
		if err := json.Unmarshal([]byte(payload.String), &rec.Payload); err != nil {
			return harvesters.Record{}, err
		}
	}
	return rec, nil
}
