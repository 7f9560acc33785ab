package repositories

import (
	"context"
	"time"

	"transportsystem/avganger/internal/models/entities"

	"github.com/jmoiron/sqlx"
)

type WriteJournalRepo struct {
	db *sqlx.DB
}

func NewWriteJournalRepo(db *sqlx.DB) *WriteJournalRepo {
	return &WriteJournalRepo{
		db: db,
	}
}

// Record appends one full-collection write to the journal.
func (r *WriteJournalRepo) Record(ctx context.Context, backend string, count int, at time.Time) error {
	query := r.db.Rebind(`
		INSERT INTO departure_writes (backend, record_count, written_at)
		VALUES (?, ?, ?)
	`)

	_, err := r.db.ExecContext(ctx, query, backend, count, at.UTC())
	return err
}

// Recent returns the latest journal entries, newest first.
func (r *WriteJournalRepo) Recent(ctx context.Context, limit int) ([]entities.WriteJournalEntry, error) {
	if limit <= 0 {
		limit = 50
	}

	query := r.db.Rebind(`
		SELECT id, backend, record_count, written_at
		FROM departure_writes
		ORDER BY id DESC
		LIMIT ?
	`)

	entries := []entities.WriteJournalEntry{}
	if err := sqlx.SelectContext(ctx, r.db, &entries, query, limit); err != nil {
		return nil, err
	}
	return entries, nil
}

// Ping checks the underlying connection.
func (r *WriteJournalRepo) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
