package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/brewlog/brewbot-server-go/internal/model"
)

type PairingEventRepository interface {
	// Exists reports whether a pairing event for the unordered pair
	// {p1, p2} is already recorded. Argument order is irrelevant.
	Exists(ctx context.Context, p1, p2 string) (bool, error)
	// Insert records a pairing event, or reports OutcomeDuplicate without
	// writing when the unordered pair is already in the ledger.
	Insert(ctx context.Context, params model.InsertPairingEventParams) (*model.PairingEvent, model.InsertOutcome, error)
	Count(ctx context.Context) (int64, error)
	Stats(ctx context.Context) ([]model.PairingStat, error)
	// WithTx returns a new repository that uses the given transaction
	WithTx(tx *sqlx.Tx) PairingEventRepository
}

type pairingEventRepo struct {
	db sqlxDB
}

func NewPairingEventRepository(db *sqlx.DB) PairingEventRepository {
	return &pairingEventRepo{db: db}
}

func (r *pairingEventRepo) WithTx(tx *sqlx.Tx) PairingEventRepository {
	return &pairingEventRepo{db: tx}
}

func (r *pairingEventRepo) Exists(ctx context.Context, p1, p2 string) (bool, error) {
	lo, hi := model.OrderPair(p1, p2)
	var one int
	err := r.db.GetContext(ctx, &one, `
		SELECT 1 FROM pairing_events
		WHERE LEAST(participant_a, participant_b) = $1
		  AND GREATEST(participant_a, participant_b) = $2
		LIMIT 1
	`, lo, hi)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Insert canonicalizes the pair before writing and relies on the unique
// index over the sorted pair to make the check-and-insert atomic: a
// concurrent insert of {b,a} conflicts with {a,b} inside Postgres, and
// the losing statement simply returns no row.
func (r *pairingEventRepo) Insert(ctx context.Context, params model.InsertPairingEventParams) (*model.PairingEvent, model.InsertOutcome, error) {
	lo, hi := model.OrderPair(params.ParticipantA, params.ParticipantB)
	var event model.PairingEvent
	err := r.db.GetContext(ctx, &event, `
		INSERT INTO pairing_events (participant_a, participant_b, source_message_id)
		VALUES ($1, $2, $3)
		ON CONFLICT ((LEAST(participant_a, participant_b)),
		             (GREATEST(participant_a, participant_b))) DO NOTHING
		RETURNING *
	`, lo, hi, params.SourceMessageID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, model.OutcomeDuplicate, nil
	}
	if err != nil {
		return nil, "", err
	}
	return &event, model.OutcomeInserted, nil
}

func (r *pairingEventRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM pairing_events`)
	return count, err
}

// Stats treats the ledger as an undirected graph of one edge per unique
// pair and returns each participant's degree, highest first, ties broken
// by handle. Participants with no pairings are absent.
func (r *pairingEventRepo) Stats(ctx context.Context) ([]model.PairingStat, error) {
	var stats []model.PairingStat
	err := r.db.SelectContext(ctx, &stats, `
		SELECT
			p.id,
			p.handle,
			p.display_name,
			COUNT(*) AS chat_count
		FROM participants p
		JOIN (
			SELECT participant_a AS id FROM pairing_events
			UNION ALL
			SELECT participant_b AS id FROM pairing_events
		) e ON p.id = e.id
		GROUP BY p.id, p.handle, p.display_name
		ORDER BY chat_count DESC, p.handle ASC
	`)
	return stats, err
}
