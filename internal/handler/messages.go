package handler

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	apperrors "github.com/brewlog/brewbot-server-go/internal/errors"
	"github.com/brewlog/brewbot-server-go/internal/model"
	"github.com/brewlog/brewbot-server-go/internal/service"
	"github.com/brewlog/brewbot-server-go/internal/util"
)

type MessageHandler struct {
	tracker *service.TrackerService
}

func NewMessageHandler(tracker *service.TrackerService) *MessageHandler {
	return &MessageHandler{tracker: tracker}
}

type ingestResponse struct {
	Outcome  service.IngestOutcome `json:"outcome"`
	Reaction string                `json:"reaction"`
	Reason   string                `json:"reason,omitempty"`
}

// POST /v1/messages
// Ingestion trigger: one call per message observed by the gateway in the
// configured channel. The response tells the gateway which reaction to
// apply, if any.
func (h *MessageHandler) Ingest(w http.ResponseWriter, r *http.Request) {
	var msg model.InboundMessage
	if err := json.NewDecoder(r.Body).Decode(&msg); err != nil {
		log.Warn().Err(err).Msg("invalid ingest request")
		writeError(w, apperrors.ValidationError("Invalid request body"))
		return
	}

	if msg.MessageID == "" {
		writeError(w, apperrors.MissingRequired("messageId"))
		return
	}
	if !util.IsValidSnowflake(msg.Author.ID) {
		writeError(w, apperrors.InvalidInput("author.id", "must be a numeric user id"))
		return
	}

	result, err := h.tracker.Ingest(r.Context(), &msg)
	if err != nil {
		log.Error().Err(err).Str("messageId", msg.MessageID).Msg("failed to ingest message")
		writeError(w, apperrors.Database("Failed to record pairing", err))
		return
	}

	writeJSON(w, http.StatusOK, ingestResponse{
		Outcome:  result.Outcome,
		Reaction: result.Reaction,
		Reason:   string(result.Reason),
	})
}
