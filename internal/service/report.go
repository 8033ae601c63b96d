package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	apperrors "github.com/brewlog/brewbot-server-go/internal/errors"
	"github.com/brewlog/brewbot-server-go/internal/export"
	"github.com/brewlog/brewbot-server-go/internal/model"
	"github.com/brewlog/brewbot-server-go/internal/repository"
)

const noDataSummary = "No coffee chats found in the database."

// Report is a rendered statistics export ready for delivery. For an
// empty ledger only Summary is set.
type Report struct {
	Summary    string
	FileName   string
	CSV        []byte
	StagedPath string
	Users      int
}

type ReportService struct {
	eventRepo    repository.PairingEventRepository
	ownerUserID  string
	reportRoleID string
	fileName     string
	metrics      MetricsObserver
}

func NewReportService(
	eventRepo repository.PairingEventRepository,
	ownerUserID, reportRoleID, fileName string,
	metrics MetricsObserver,
) *ReportService {
	return &ReportService{
		eventRepo:    eventRepo,
		ownerUserID:  ownerUserID,
		reportRoleID: reportRoleID,
		fileName:     fileName,
		metrics:      metrics,
	}
}

// Authorize reports whether the requester may generate reports: either
// the designated owner identity or a member of the designated role.
func (s *ReportService) Authorize(requesterID string, roleIDs []string) bool {
	if s.ownerUserID != "" && requesterID == s.ownerUserID {
		return true
	}
	if s.reportRoleID == "" {
		return false
	}
	for _, role := range roleIDs {
		if role == s.reportRoleID {
			return true
		}
	}
	return false
}

// ComputeStats returns per-participant pairing counts, ordered by count
// descending then handle ascending.
func (s *ReportService) ComputeStats(ctx context.Context) ([]model.PairingStat, error) {
	stats, err := s.eventRepo.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("compute stats: %w", err)
	}
	return stats, nil
}

// Generate authorizes the requester, aggregates the ledger and renders
// the CSV export. No storage is touched when authorization is denied.
func (s *ReportService) Generate(ctx context.Context, requesterID string, roleIDs []string) (*Report, error) {
	if !s.Authorize(requesterID, roleIDs) {
		s.metrics.ObserveReport("denied")
		return nil, apperrors.Forbidden("You do not have permission to generate reports.")
	}

	stats, err := s.ComputeStats(ctx)
	if err != nil {
		s.metrics.ObserveStorageFailure()
		s.metrics.ObserveReport("error")
		return nil, err
	}

	if len(stats) == 0 {
		s.metrics.ObserveReport("empty")
		return &Report{Summary: noDataSummary}, nil
	}

	blob, err := export.RenderCSV(stats)
	if err != nil {
		s.metrics.ObserveReport("error")
		return nil, fmt.Errorf("render report: %w", err)
	}

	path, err := export.StageAttachment(blob, s.fileName)
	if err != nil {
		s.metrics.ObserveReport("error")
		return nil, err
	}

	log.Info().
		Int("users", len(stats)).
		Str("path", path).
		Str("requesterId", requesterID).
		Msg("report generated")

	s.metrics.ObserveReport("generated")
	return &Report{
		Summary:    fmt.Sprintf("Generated report with %d users who have participated in coffee chats.", len(stats)),
		FileName:   s.fileName,
		CSV:        blob,
		StagedPath: path,
		Users:      len(stats),
	}, nil
}
