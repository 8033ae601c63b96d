package service

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"github.com/brewlog/brewbot-server-go/internal/database"
	"github.com/brewlog/brewbot-server-go/internal/model"
	"github.com/brewlog/brewbot-server-go/internal/parser"
	"github.com/brewlog/brewbot-server-go/internal/repository"
)

// IngestOutcome is the disposition of one ingested channel message.
type IngestOutcome string

const (
	IngestRecorded  IngestOutcome = "recorded"
	IngestDuplicate IngestOutcome = "duplicate"
	IngestRejected  IngestOutcome = "rejected"
	IngestIgnored   IngestOutcome = "ignored"
)

// Acknowledgment reactions the gateway applies to the source message.
const (
	ReactionRecorded = "☕" // coffee
	ReactionRejected = "❌" // cross mark
)

// IngestResult tells the gateway what happened and how to react.
// A duplicate pairing still gets the positive reaction: the insert was
// attempted and suppressed, which is a success from the author's side.
type IngestResult struct {
	Outcome  IngestOutcome
	Reaction string
	Reason   parser.RejectReason
}

// MetricsObserver receives ingestion and report outcome observations.
type MetricsObserver interface {
	ObserveMessage(outcome string)
	ObserveReport(result string)
	ObserveStorageFailure()
}

// TxRunner executes a function within a database transaction.
type TxRunner interface {
	WithTx(ctx context.Context, fn database.TxFunc) error
}

type TrackerService struct {
	parser          parser.Parser
	db              TxRunner
	participantRepo repository.ParticipantRepository
	eventRepo       repository.PairingEventRepository
	channelID       string
	metrics         MetricsObserver
}

func NewTrackerService(
	p parser.Parser,
	db TxRunner,
	participantRepo repository.ParticipantRepository,
	eventRepo repository.PairingEventRepository,
	channelID string,
	metrics MetricsObserver,
) *TrackerService {
	return &TrackerService{
		parser:          p,
		db:              db,
		participantRepo: participantRepo,
		eventRepo:       eventRepo,
		channelID:       channelID,
		metrics:         metrics,
	}
}

// Ingest classifies one inbound message and, when accepted, upserts both
// participant identities and records the pairing in one transaction. A
// storage failure rolls everything back and surfaces to the caller;
// nothing is retried.
func (s *TrackerService) Ingest(ctx context.Context, msg *model.InboundMessage) (*IngestResult, error) {
	if msg.Author.Bot || msg.ChannelID != s.channelID {
		return s.observed(&IngestResult{Outcome: IngestIgnored}), nil
	}

	candidate, reason := s.parser.Parse(msg)
	if candidate == nil {
		if s.parser.BotAddressed(msg) {
			log.Info().
				Str("messageId", msg.MessageID).
				Str("authorId", msg.Author.ID).
				Str("reason", string(reason)).
				Msg("pairing message rejected")
			return s.observed(&IngestResult{
				Outcome:  IngestRejected,
				Reaction: ReactionRejected,
				Reason:   reason,
			}), nil
		}
		return s.observed(&IngestResult{Outcome: IngestIgnored, Reason: reason}), nil
	}

	var event *model.PairingEvent
	var outcome model.InsertOutcome
	err := s.db.WithTx(ctx, func(tx *sqlx.Tx) error {
		participants := s.participantRepo.WithTx(tx)
		ledger := s.eventRepo.WithTx(tx)

		if err := s.upsertParticipant(ctx, participants, candidate.Author); err != nil {
			return err
		}
		if err := s.upsertParticipant(ctx, participants, candidate.Other); err != nil {
			return err
		}

		var err error
		event, outcome, err = ledger.Insert(ctx, model.InsertPairingEventParams{
			ParticipantA:    candidate.Author.ID,
			ParticipantB:    candidate.Other.ID,
			SourceMessageID: msg.MessageID,
		})
		if err != nil {
			return fmt.Errorf("insert pairing event: %w", err)
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveStorageFailure()
		return nil, err
	}

	if outcome == model.OutcomeDuplicate {
		log.Info().
			Str("participantA", candidate.Author.ID).
			Str("participantB", candidate.Other.ID).
			Str("messageId", msg.MessageID).
			Msg("pairing already recorded, skipping duplicate")
		return s.observed(&IngestResult{
			Outcome:  IngestDuplicate,
			Reaction: ReactionRecorded,
		}), nil
	}

	log.Info().
		Int64("eventId", event.ID).
		Str("participantA", event.ParticipantA).
		Str("participantB", event.ParticipantB).
		Str("messageId", msg.MessageID).
		Msg("pairing recorded")

	return s.observed(&IngestResult{
		Outcome:  IngestRecorded,
		Reaction: ReactionRecorded,
	}), nil
}

func (s *TrackerService) upsertParticipant(ctx context.Context, participants repository.ParticipantRepository, u model.ChatUser) error {
	err := participants.Upsert(ctx, model.UpsertParticipantParams{
		ID:          u.ID,
		DisplayName: model.ResolveDisplayName(u.DisplayName, u.Handle),
		Handle:      u.Handle,
	})
	if err != nil {
		return fmt.Errorf("upsert participant %s: %w", u.ID, err)
	}
	return nil
}

func (s *TrackerService) observed(res *IngestResult) *IngestResult {
	s.metrics.ObserveMessage(string(res.Outcome))
	return res
}
