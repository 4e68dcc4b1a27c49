package postgres

import (
	"context"
	"database/sql"
	"time"

	domain "github.com/bryanwahyu/privacy-prism/internal/domain/failures"
)

const schema = `
CREATE TABLE IF NOT EXISTS prism_failures (
  id BIGSERIAL PRIMARY KEY,
  report_id TEXT NOT NULL,
  stage TEXT NOT NULL,
  dimension TEXT NOT NULL,
  model TEXT NOT NULL,
  message TEXT NOT NULL,
  created_at TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_prism_failures_created ON prism_failures (created_at DESC)`

type FailureRepository struct{ db *sql.DB }

var _ domain.Repository = (*FailureRepository)(nil)

func NewFailureRepository(db *sql.DB) *FailureRepository { return &FailureRepository{db: db} }

// EnsureSchema creates the journal table when missing.
func (r *FailureRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, schema)
	return err
}

// Save inserts one entry and fills in its generated id.
func (r *FailureRepository) Save(ctx context.Context, f *domain.Failure) error {
	const q = `
INSERT INTO prism_failures
(report_id, stage, dimension, model, message, created_at)
VALUES ($1,$2,$3,$4,$5,$6)
RETURNING id`

	created := f.CreatedAt
	if created.IsZero() {
		created = time.Now()
	}
	return r.db.QueryRowContext(ctx, q,
		dashIfEmpty(f.ReportID),
		dashIfEmpty(string(f.Stage)),
		dashIfEmpty(f.Dimension),
		dashIfEmpty(f.Model),
		dashIfEmpty(f.Message),
		created.UTC(),
	).Scan(&f.ID)
}

func (r *FailureRepository) Recent(ctx context.Context, limit int) ([]*domain.Failure, error) {
	if limit <= 0 {
		limit = 20
	}
	const q = `
SELECT id, report_id, stage, dimension, model, message, created_at
FROM prism_failures
ORDER BY created_at DESC, id DESC
LIMIT $1`
	rows, err := r.db.QueryContext(ctx, q, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []*domain.Failure
	for rows.Next() {
		var f domain.Failure
		var stage string
		if err := rows.Scan(&f.ID, &f.ReportID, &stage, &f.Dimension, &f.Model, &f.Message, &f.CreatedAt); err != nil {
			return nil, err
		}
		f.Stage = domain.Stage(stage)
		f.Dimension = emptyIfDash(f.Dimension)
		f.Model = emptyIfDash(f.Model)
		out = append(out, &f)
	}
	return out, rows.Err()
}

func (r *FailureRepository) Ping(ctx context.Context) error { return r.db.PingContext(ctx) }
