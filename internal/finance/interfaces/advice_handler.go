package interfaces

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/shopspring/decimal"
)

type AdviceServiceInterface interface {
	ComposeFacts(ctx context.Context, userID string, query application.AdviceQuery) (*advisory.Facts, error)
}

// AdviceRequest is the body shared by the facts, analysis and chat endpoints.
type AdviceRequest struct {
	Today          string           `json:"today"`
	QueryKind      string           `json:"query_kind"`
	ProposedAmount *decimal.Decimal `json:"proposed_amount"`
}

// Query converts the request, defaulting the kind to general, or to
// affordability when an amount is proposed.
func (req AdviceRequest) Query() (application.AdviceQuery, error) {
	query := application.AdviceQuery{ProposedAmount: req.ProposedAmount}

	if req.Today != "" {
		today, err := domain.ParseDate(req.Today)
		if err != nil {
			return query, financeErrors.NewValidationError("Invalid today format. Use YYYY-MM-DD")
		}
		query.Today = today
	}

	switch {
	case req.QueryKind != "":
		kind, err := advisory.ParseQueryKind(req.QueryKind)
		if err != nil {
			return query, err
		}
		query.Kind = kind
	case req.ProposedAmount != nil:
		query.Kind = advisory.KindAffordability
	default:
		query.Kind = advisory.KindGeneral
	}
	return query, nil
}

type AdviceHandler struct {
	service      AdviceServiceInterface
	logger       logging.Logger
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewAdviceHandler(service AdviceServiceInterface, logger logging.Logger, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *AdviceHandler {
	mustResponders(service, respondJSON, respondError)
	return &AdviceHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *AdviceHandler) ComposeFacts(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	query, err := req.Query()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	facts, err := h.service.ComposeFacts(r.Context(), userID, query)
	if err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to compose advisory facts", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to compose advisory facts")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Advisory facts composed.",
		"data":    facts,
	})
}
