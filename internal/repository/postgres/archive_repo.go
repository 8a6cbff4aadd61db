package postgres

import (
	"context"
	"database/sql"

	"sitearchive/internal/domain"
)

const archiveSchema = `
	CREATE TABLE IF NOT EXISTS archive_emails (
		id SERIAL PRIMARY KEY,
		email TEXT UNIQUE NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)
`

type archiveRepository struct {
	DB *sql.DB
}

// NewArchiveRepository returns a domain.ArchiveRepository implemented with Postgres.
func NewArchiveRepository(db *sql.DB) domain.ArchiveRepository {
	return &archiveRepository{DB: db}
}

func (r *archiveRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.DB.ExecContext(ctx, archiveSchema)
	return err
}

func (r *archiveRepository) Insert(ctx context.Context, email string) (bool, error) {
	query := `
		INSERT INTO archive_emails (email)
		VALUES ($1)
		ON CONFLICT (email) DO NOTHING
	`
	res, err := r.DB.ExecContext(ctx, query, email)
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
	query := `
		SELECT email, created_at
		FROM archive_emails
		ORDER BY created_at DESC, id DESC
	`
	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]*domain.EmailRecord, 0)
	for rows.Next() {
		rec := &domain.EmailRecord{}
		if err := rows.Scan(&rec.Email, &rec.CreatedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}
