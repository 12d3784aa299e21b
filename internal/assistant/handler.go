package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/sebuszqo/FlexiFi/internal/finance/interfaces"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/shopspring/decimal"
)

type ServiceInterface interface {
	Analyze(ctx context.Context, userID string, query application.AdviceQuery) (*AnalysisResult, error)
	ListAnalyses(ctx context.Context, userID string) ([]Analysis, error)
	Chat(ctx context.Context, userID, content string, query application.AdviceQuery) (*ChatResult, error)
	History(ctx context.Context, userID string) ([]ChatMessage, error)
}

type Handler struct {
	service      ServiceInterface
	logger       logging.Logger
	respondJSON  interfaces.RespondJSONFunc
	respondError interfaces.RespondErrorFunc
}

func NewHandler(service ServiceInterface, logger logging.Logger, respondJSON interfaces.RespondJSONFunc, respondError interfaces.RespondErrorFunc) *Handler {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &Handler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

type analysisRequest struct {
	AnalysisType   string           `json:"analysis_type"`
	Today          string           `json:"today"`
	ProposedAmount *decimal.Decimal `json:"proposed_amount"`
}

type chatRequest struct {
	Content        string           `json:"content"`
	QueryKind      string           `json:"query_kind"`
	Today          string           `json:"today"`
	ProposedAmount *decimal.Decimal `json:"proposed_amount"`
}

func userIDFrom(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value("userID").(string)
	return userID, ok && userID != ""
}

// Analyze accepts the analysis type in the body or as ?analysis_type=.
func (h *Handler) Analyze(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req analysisRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.AnalysisType == "" {
		req.AnalysisType = r.URL.Query().Get("analysis_type")
	}

	query, err := interfaces.AdviceRequest{
		Today:          req.Today,
		QueryKind:      req.AnalysisType,
		ProposedAmount: req.ProposedAmount,
	}.Query()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Analyze(r.Context(), userID, query)
	if err != nil {
		h.fail(w, err, userID, "Failed to create analysis")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Analysis created.",
		"data":    result,
	})
}

func (h *Handler) ListAnalyses(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	analyses, err := h.service.ListAnalyses(r.Context(), userID)
	if err != nil {
		h.fail(w, err, userID, "Failed to retrieve analyses")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   analyses,
	})
}

func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req chatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	query, err := interfaces.AdviceRequest{
		Today:          req.Today,
		QueryKind:      req.QueryKind,
		ProposedAmount: req.ProposedAmount,
	}.Query()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.service.Chat(r.Context(), userID, req.Content, query)
	if err != nil {
		h.fail(w, err, userID, "Failed to process chat message")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Message answered.",
		"data":    result,
	})
}

func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	messages, err := h.service.History(r.Context(), userID)
	if err != nil {
		h.fail(w, err, userID, "Failed to retrieve chat history")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data":   messages,
	})
}

func (h *Handler) fail(w http.ResponseWriter, err error, userID, message string) {
	if financeErrors.IsValidationError(err) {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.logger.WithError(err).Error(message, logging.Field{Key: logging.FieldUserID, Value: userID})
	h.respondError(w, http.StatusInternalServerError, message)
}
