// Package sqlite implements the archive Email Store on a single SQLite file
// (modernc.org/sqlite, no cgo). It is meant for local development and small
// single-binary deployments.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"sitearchive/internal/domain"

	_ "modernc.org/sqlite"
)

// timeLayout is fixed width so that lexical order of created_at equals time order.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

const archiveSchema = `
CREATE TABLE IF NOT EXISTS archive_emails (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	email TEXT UNIQUE NOT NULL,
	created_at TEXT NOT NULL
)`

type archiveRepository struct {
	db  *sql.DB
	now func() time.Time
}

// Open opens (creating if needed) the SQLite database at path.
func Open(ctx context.Context, path string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	// Writers serialize on the file lock anyway; one connection avoids SQLITE_BUSY.
	db.SetMaxOpenConns(1)
	if _, err := db.ExecContext(ctx, `PRAGMA journal_mode=WAL`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure sqlite: %w", err)
	}
	return db, nil
}

// NewArchiveRepository returns a domain.ArchiveRepository implemented with SQLite.
func NewArchiveRepository(db *sql.DB) domain.ArchiveRepository {
	return &archiveRepository{db: db, now: time.Now}
}

func (r *archiveRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, archiveSchema)
	return err
}

func (r *archiveRepository) Insert(ctx context.Context, email string) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO archive_emails (email, created_at) VALUES (?, ?) ON CONFLICT (email) DO NOTHING`,
		email, r.now().UTC().Format(timeLayout),
	)
	if err != nil {
		return false, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *archiveRepository) ListAll(ctx context.Context) ([]*domain.EmailRecord, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT email, created_at FROM archive_emails ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.EmailRecord, 0)
	for rows.Next() {
		var email, created string
		if err := rows.Scan(&email, &created); err != nil {
			return nil, err
		}
		ts, err := time.Parse(timeLayout, created)
		if err != nil {
			return nil, fmt.Errorf("parse created_at %q: %w", created, err)
		}
		records = append(records, domain.NewEmailRecord(email, ts))
	}
	return records, rows.Err()
}
