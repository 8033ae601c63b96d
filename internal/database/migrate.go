package database

import (
	"context"
	"fmt"
)

// The unique expression index over the sorted pair is what enforces the
// at-most-one-record-per-unordered-pair rule. Column assignment order in
// pairing_events carries no meaning; {a,b} and {b,a} hash to the same
// index key, so a concurrent double insert of the same pair loses the
// race inside Postgres instead of in application code.
var migrations = []string{
	`CREATE TABLE IF NOT EXISTS participants (
		id           TEXT PRIMARY KEY,
		display_name TEXT NOT NULL,
		handle       TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS pairing_events (
		id                SERIAL PRIMARY KEY,
		created_at        TIMESTAMPTZ NOT NULL DEFAULT NOW(),
		participant_a     TEXT NOT NULL,
		participant_b     TEXT NOT NULL,
		source_message_id TEXT NOT NULL,
		CHECK (participant_a <> participant_b)
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS pairing_events_unordered_pair
		ON pairing_events (LEAST(participant_a, participant_b),
		                   GREATEST(participant_a, participant_b))`,
}

// Migrate applies the schema. Statements are idempotent so running at
// every startup is safe.
func (db *DB) Migrate(ctx context.Context) error {
	for i, stmt := range migrations {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("apply migration %d: %w", i, err)
		}
	}
	return nil
}
