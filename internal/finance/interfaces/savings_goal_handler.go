package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/shopspring/decimal"
)

type SavingsGoalServiceInterface interface {
	CreateGoal(ctx context.Context, goal *domain.SavingsGoal) error
	GetGoals(ctx context.Context, userID string) ([]domain.SavingsGoal, error)
	UpdateProgress(ctx context.Context, goalID, userID string, currentAmount decimal.Decimal) (*domain.SavingsGoal, error)
}

type SavingsGoalHandler struct {
	service      SavingsGoalServiceInterface
	logger       logging.Logger
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewSavingsGoalHandler(service SavingsGoalServiceInterface, logger logging.Logger, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *SavingsGoalHandler {
	mustResponders(service, respondJSON, respondError)
	return &SavingsGoalHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *SavingsGoalHandler) CreateGoal(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var goal domain.SavingsGoal
	if err := json.NewDecoder(r.Body).Decode(&goal); err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	goal.UserID = userID
	if err := h.service.CreateGoal(r.Context(), &goal); err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to create savings goal", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to create savings goal")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Savings goal successfully created.",
		"data":    goal,
	})
}

func (h *SavingsGoalHandler) GetGoals(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	goals, err := h.service.GetGoals(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve savings goals", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve savings goals")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Savings goals retrieved successfully.",
		"data":    goals,
	})
}

func (h *SavingsGoalHandler) UpdateProgress(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req struct {
		CurrentAmount *decimal.Decimal `json:"current_amount"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CurrentAmount == nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	goal, err := h.service.UpdateProgress(r.Context(), r.PathValue("goalID"), userID, *req.CurrentAmount)
	if err != nil {
		switch {
		case errors.Is(err, financeErrors.ErrSavingsGoalNotFound):
			h.respondError(w, http.StatusNotFound, "Savings goal not found")
		case financeErrors.IsValidationError(err):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.WithError(err).Error("Failed to update savings goal", logging.Field{Key: logging.FieldUserID, Value: userID})
			h.respondError(w, http.StatusInternalServerError, "Failed to update savings goal")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Savings goal progress updated.",
		"data":    goal,
	})
}
