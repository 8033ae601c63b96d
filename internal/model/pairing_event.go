package model

import (
	"time"
)

// PairingEvent is one recorded coffee chat between two participants.
// The unordered pair {ParticipantA, ParticipantB} is unique across the
// whole ledger; column assignment order carries no meaning.
type PairingEvent struct {
	ID              int64     `db:"id" json:"id"`
	CreatedAt       time.Time `db:"created_at" json:"createdAt"`
	ParticipantA    string    `db:"participant_a" json:"participantA"`
	ParticipantB    string    `db:"participant_b" json:"participantB"`
	SourceMessageID string    `db:"source_message_id" json:"sourceMessageId"`
}

type InsertPairingEventParams struct {
	ParticipantA    string
	ParticipantB    string
	SourceMessageID string
}

// OrderPair returns the unordered pair {a, b} in canonical storage
// order. Ledger writes and lookups both normalize through it, so
// {x,y} and {y,x} always address the same row.
func OrderPair(a, b string) (string, string) {
	if b < a {
		return b, a
	}
	return a, b
}

// InsertOutcome is the result of a ledger insert attempt.
type InsertOutcome string

const (
	OutcomeInserted  InsertOutcome = "inserted"
	OutcomeDuplicate InsertOutcome = "duplicate"
)

// PairingStat is one aggregated row: the number of ledger entries a
// participant appears in, joined with registry display fields.
type PairingStat struct {
	ID          string `db:"id" json:"id"`
	Handle      string `db:"handle" json:"handle"`
	DisplayName string `db:"display_name" json:"displayName"`
	Count       int    `db:"chat_count" json:"count"`
}
