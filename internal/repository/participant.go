package repository

import (
	"context"
	"database/sql"

	"github.com/jmoiron/sqlx"

	"github.com/brewlog/brewbot-server-go/internal/model"
)

type ParticipantRepository interface {
	Upsert(ctx context.Context, params model.UpsertParticipantParams) error
	Count(ctx context.Context) (int, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) ParticipantRepository
}

type participantRepo struct {
	db sqlxDB
}

// sqlxDB is an interface satisfied by both *sqlx.DB and *sqlx.Tx
type sqlxDB interface {
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

func NewParticipantRepository(db *sqlx.DB) ParticipantRepository {
	return &participantRepo{db: db}
}

func (r *participantRepo) WithTx(tx *sqlx.Tx) ParticipantRepository {
	return &participantRepo{db: tx}
}

// Upsert creates the participant row or overwrites its display fields.
// The write is a single atomic statement keyed by id, so re-upserting
// never duplicates an identity row.
func (r *participantRepo) Upsert(ctx context.Context, params model.UpsertParticipantParams) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO participants (id, display_name, handle)
		VALUES ($1, $2, $3)
		ON CONFLICT (id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			handle = EXCLUDED.handle
	`, params.ID, params.DisplayName, params.Handle)
	return err
}

func (r *participantRepo) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM participants`)
	return count, err
}
