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

type AccountServiceInterface interface {
	CreateAccount(ctx context.Context, account *domain.Account) error
	GetAccounts(ctx context.Context, userID string) ([]domain.Account, error)
	UpdateBalance(ctx context.Context, accountID, userID string, balance decimal.Decimal) (*domain.Account, error)
}

type AccountHandler struct {
	service      AccountServiceInterface
	logger       logging.Logger
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewAccountHandler(service AccountServiceInterface, logger logging.Logger, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *AccountHandler {
	mustResponders(service, respondJSON, respondError)
	return &AccountHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *AccountHandler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var account domain.Account
	if err := json.NewDecoder(r.Body).Decode(&account); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account.UserID = userID
	if err := h.service.CreateAccount(r.Context(), &account); err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to create account", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to create account")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Account successfully created.",
		"data":    account,
	})
}

func (h *AccountHandler) GetAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	accounts, err := h.service.GetAccounts(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve accounts", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve accounts")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Accounts retrieved successfully.",
		"data":    accounts,
	})
}

func (h *AccountHandler) UpdateBalance(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req struct {
		CurrentBalance *decimal.Decimal `json:"current_balance"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.CurrentBalance == nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	account, err := h.service.UpdateBalance(r.Context(), r.PathValue("accountID"), userID, *req.CurrentBalance)
	if err != nil {
		if errors.Is(err, financeErrors.ErrAccountNotFound) {
			h.respondError(w, http.StatusNotFound, "Account not found")
			return
		}
		h.logger.WithError(err).Error("Failed to update account", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to update account")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Account balance updated.",
		"data":    account,
	})
}
