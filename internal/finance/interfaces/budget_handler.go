package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/sebuszqo/FlexiFi/internal/logging"
)

type BudgetServiceInterface interface {
	CreateBudget(ctx context.Context, budget *domain.Budget) error
	GetBudgets(ctx context.Context, userID string) ([]domain.Budget, error)
	GetActiveBudget(ctx context.Context, userID string, today time.Time) (*domain.Budget, error)
}

type BudgetHandler struct {
	service      BudgetServiceInterface
	logger       logging.Logger
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
	now          func() time.Time
}

func NewBudgetHandler(service BudgetServiceInterface, logger logging.Logger, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *BudgetHandler {
	mustResponders(service, respondJSON, respondError)
	return &BudgetHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
		now:          time.Now,
	}
}

func (h *BudgetHandler) CreateBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var budget domain.Budget
	if err := json.NewDecoder(r.Body).Decode(&budget); err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	budget.UserID = userID
	if err := h.service.CreateBudget(r.Context(), &budget); err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to create budget", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to create budget")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Budget successfully created.",
		"data":    budget,
	})
}

func (h *BudgetHandler) GetBudgets(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	budgets, err := h.service.GetBudgets(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve budgets", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve budgets")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Budgets retrieved successfully.",
		"data":    budgets,
	})
}

func (h *BudgetHandler) GetActiveBudget(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	today, ok := dateParam(r, "today", domain.DateOf(h.now()))
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid today format")
		return
	}

	budget, err := h.service.GetActiveBudget(r.Context(), userID, today)
	if err != nil {
		if errors.Is(err, financeErrors.ErrNoActiveBudget) {
			h.respondError(w, http.StatusNotFound, "No active budget")
			return
		}
		h.logger.WithError(err).Error("Failed to retrieve active budget", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve active budget")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Active budget retrieved successfully.",
		"data":    budget,
	})
}
