package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/brewlog/brewbot-server-go/internal/audit"
	apperrors "github.com/brewlog/brewbot-server-go/internal/errors"
	"github.com/brewlog/brewbot-server-go/internal/service"
)

type ReportHandler struct {
	reports *service.ReportService
}

func NewReportHandler(reports *service.ReportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

type reportRequest struct {
	RequesterID string   `json:"requesterId"`
	RoleIDs     []string `json:"roleIds"`
}

type reportResponse struct {
	Summary    string `json:"summary"`
	FileName   string `json:"fileName,omitempty"`
	CSV        string `json:"csv,omitempty"`
	StagedPath string `json:"stagedPath,omitempty"`
	Users      int    `json:"users,omitempty"`
}

// POST /v1/reports/coffee-chats
// Report trigger: the gateway forwards the requester identity and role
// memberships it resolved; authorization and aggregation happen here.
func (h *ReportHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	if req.RequesterID == "" {
		writeError(w, apperrors.MissingRequired("requesterId"))
		return
	}

	report, err := h.reports.Generate(r.Context(), req.RequesterID, req.RoleIDs)
	if err != nil {
		if apperrors.IsCode(err, apperrors.ErrCodeForbidden) {
			audit.LogFromRequest(r, audit.Event{
				Type:        audit.EventReportDenied,
				RequesterID: req.RequesterID,
			})
			writeError(w, err)
			return
		}
		log.Error().Err(err).Str("requesterId", req.RequesterID).Msg("failed to generate report")
		writeError(w, apperrors.Database("Error generating report. Please try again.", err))
		return
	}

	if report.Users > 0 {
		audit.LogFromRequest(r, audit.Event{
			Type:        audit.EventReportGenerated,
			RequesterID: req.RequesterID,
			Details:     map[string]interface{}{"users": report.Users},
		})
	}

	writeJSON(w, http.StatusOK, reportResponse{
		Summary:    report.Summary,
		FileName:   report.FileName,
		CSV:        string(report.CSV),
		StagedPath: report.StagedPath,
		Users:      report.Users,
	})
}
