package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/brewlog/brewbot-server-go/internal/config"
	"github.com/brewlog/brewbot-server-go/internal/database"
	"github.com/brewlog/brewbot-server-go/internal/model"
	"github.com/brewlog/brewbot-server-go/internal/parser"
	"github.com/brewlog/brewbot-server-go/internal/repository"
	"github.com/brewlog/brewbot-server-go/internal/service"
)

const (
	testBotID     = "1000"
	testChannelID = "777"
)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn database.TxFunc) error {
	return fn(nil)
}

type mockParticipantRepo struct {
	mock.Mock
}

func (m *mockParticipantRepo) Upsert(ctx context.Context, params model.UpsertParticipantParams) error {
	args := m.Called(ctx, params)
	return args.Error(0)
}

func (m *mockParticipantRepo) Count(ctx context.Context) (int, error) {
	args := m.Called(ctx)
	return args.Int(0), args.Error(1)
}

func (m *mockParticipantRepo) WithTx(tx *sqlx.Tx) repository.ParticipantRepository {
	return m
}

type mockEventRepo struct {
	mock.Mock
}

func (m *mockEventRepo) Exists(ctx context.Context, p1, p2 string) (bool, error) {
	args := m.Called(ctx, p1, p2)
	return args.Bool(0), args.Error(1)
}

func (m *mockEventRepo) Insert(ctx context.Context, params model.InsertPairingEventParams) (*model.PairingEvent, model.InsertOutcome, error) {
	args := m.Called(ctx, params)
	var event *model.PairingEvent
	if args.Get(0) != nil {
		event = args.Get(0).(*model.PairingEvent)
	}
	return event, args.Get(1).(model.InsertOutcome), args.Error(2)
}

func (m *mockEventRepo) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockEventRepo) Stats(ctx context.Context) ([]model.PairingStat, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.PairingStat), args.Error(1)
}

func (m *mockEventRepo) WithTx(tx *sqlx.Tx) repository.PairingEventRepository {
	return m
}

type nopMetrics struct{}

func (nopMetrics) ObserveMessage(outcome string) {}
func (nopMetrics) ObserveReport(result string)   {}
func (nopMetrics) ObserveStorageFailure()        {}

func newMessageHandler(participantRepo *mockParticipantRepo, eventRepo *mockEventRepo) *MessageHandler {
	p := parser.New(config.PolicyTwoMention, testBotID)
	tracker := service.NewTrackerService(p, stubTxRunner{}, participantRepo, eventRepo, testChannelID, nopMetrics{})
	return NewMessageHandler(tracker)
}

func ingestBody(t *testing.T, msg model.InboundMessage) *bytes.Reader {
	t.Helper()
	data, err := json.Marshal(msg)
	require.NoError(t, err)
	return bytes.NewReader(data)
}

func validMessage() model.InboundMessage {
	return model.InboundMessage{
		MessageID: "555",
		ChannelID: testChannelID,
		Author:    model.ChatUser{ID: "1", DisplayName: "Alice", Handle: "alice"},
		Content:   "coffee chat",
		Mentions: []model.ChatUser{
			{ID: testBotID, Handle: "brewbot", Bot: true},
			{ID: "3", DisplayName: "Carol", Handle: "carol"},
		},
	}
}

func TestMessageHandler_Ingest(t *testing.T) {
	t.Run("records a pairing and returns the positive reaction", func(t *testing.T) {
		participantRepo := new(mockParticipantRepo)
		eventRepo := new(mockEventRepo)
		h := newMessageHandler(participantRepo, eventRepo)

		participantRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		eventRepo.On("Insert", mock.Anything, mock.Anything).
			Return(&model.PairingEvent{ID: 1, ParticipantA: "1", ParticipantB: "3"}, model.OutcomeInserted, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/messages", ingestBody(t, validMessage()))
		rec := httptest.NewRecorder()

		h.Ingest(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Outcome  string `json:"outcome"`
			Reaction string `json:"reaction"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "recorded", resp.Outcome)
		assert.Equal(t, service.ReactionRecorded, resp.Reaction)
	})

	t.Run("duplicate pairing keeps the positive reaction", func(t *testing.T) {
		participantRepo := new(mockParticipantRepo)
		eventRepo := new(mockEventRepo)
		h := newMessageHandler(participantRepo, eventRepo)

		participantRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)
		eventRepo.On("Insert", mock.Anything, mock.Anything).Return(nil, model.OutcomeDuplicate, nil)

		req := httptest.NewRequest(http.MethodPost, "/v1/messages", ingestBody(t, validMessage()))
		rec := httptest.NewRecorder()

		h.Ingest(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Outcome  string `json:"outcome"`
			Reaction string `json:"reaction"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "duplicate", resp.Outcome)
		assert.Equal(t, service.ReactionRecorded, resp.Reaction)
	})

	t.Run("rejected message carries the negative reaction and reason", func(t *testing.T) {
		participantRepo := new(mockParticipantRepo)
		eventRepo := new(mockEventRepo)
		h := newMessageHandler(participantRepo, eventRepo)

		msg := validMessage()
		msg.Mentions = []model.ChatUser{
			{ID: testBotID, Handle: "brewbot", Bot: true},
			{ID: "1", DisplayName: "Alice", Handle: "alice"},
		}

		req := httptest.NewRequest(http.MethodPost, "/v1/messages", ingestBody(t, msg))
		rec := httptest.NewRecorder()

		h.Ingest(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var resp struct {
			Outcome  string `json:"outcome"`
			Reaction string `json:"reaction"`
			Reason   string `json:"reason"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Equal(t, "rejected", resp.Outcome)
		assert.Equal(t, service.ReactionRejected, resp.Reaction)
		assert.Equal(t, "self_pairing", resp.Reason)
	})

	t.Run("returns 400 on invalid JSON", func(t *testing.T) {
		h := newMessageHandler(new(mockParticipantRepo), new(mockEventRepo))

		req := httptest.NewRequest(http.MethodPost, "/v1/messages", strings.NewReader("{not json"))
		rec := httptest.NewRecorder()

		h.Ingest(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 400 when messageId is missing", func(t *testing.T) {
		h := newMessageHandler(new(mockParticipantRepo), new(mockEventRepo))

		msg := validMessage()
		msg.MessageID = ""

		req := httptest.NewRequest(http.MethodPost, "/v1/messages", ingestBody(t, msg))
		rec := httptest.NewRecorder()

		h.Ingest(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 400 for a non-numeric author id", func(t *testing.T) {
		h := newMessageHandler(new(mockParticipantRepo), new(mockEventRepo))

		msg := validMessage()
		msg.Author.ID = "not-a-snowflake"

		req := httptest.NewRequest(http.MethodPost, "/v1/messages", ingestBody(t, msg))
		rec := httptest.NewRecorder()

		h.Ingest(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("returns 500 on storage failure", func(t *testing.T) {
		participantRepo := new(mockParticipantRepo)
		eventRepo := new(mockEventRepo)
		h := newMessageHandler(participantRepo, eventRepo)

		participantRepo.On("Upsert", mock.Anything, mock.Anything).Return(assert.AnError)

		req := httptest.NewRequest(http.MethodPost, "/v1/messages", ingestBody(t, validMessage()))
		rec := httptest.NewRecorder()

		h.Ingest(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}
