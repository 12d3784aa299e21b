package interfaces

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/sebuszqo/FlexiFi/internal/logging"
)

const maxImportBytes = 5 << 20

type TransactionServiceInterface interface {
	CreateTransaction(ctx context.Context, transaction *domain.PersonalTransaction) error
	CreateTransactionsBulk(ctx context.Context, transactions []*domain.PersonalTransaction, userID string) error
	GetUserTransactions(ctx context.Context, userID string, filter domain.TransactionFilter) ([]domain.PersonalTransaction, error)
	GetTransactionSummary(ctx context.Context, userID string, startDate, endDate time.Time) (map[int]application.TransactionSummary, error)
}

type PersonalTransactionHandler struct {
	service      TransactionServiceInterface
	logger       logging.Logger
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
	now          func() time.Time
}

func NewPersonalTransactionHandler(service TransactionServiceInterface, logger logging.Logger, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *PersonalTransactionHandler {
	mustResponders(service, respondJSON, respondError)
	return &PersonalTransactionHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
		now:          time.Now,
	}
}

func (h *PersonalTransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var transaction domain.PersonalTransaction
	if err := json.NewDecoder(r.Body).Decode(&transaction); err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	transaction.UserID = userID
	if err := h.service.CreateTransaction(r.Context(), &transaction); err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Error during transaction creation", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to create transaction")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transaction successfully created.",
		"data":    transaction,
	})
}

func (h *PersonalTransactionHandler) CreateTransactionsBulk(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	var req struct {
		Transactions []*domain.PersonalTransaction `json:"transactions"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if len(req.Transactions) == 0 {
		h.respondError(w, http.StatusBadRequest, "Invalid request body - no transactions provided")
		return
	}

	h.storeBatch(w, r, userID, req.Transactions)
}

// ImportTransactionsCSV accepts a text/csv body with the columns
// date,amount,category,description,payment_method.
func (h *PersonalTransactionHandler) ImportTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	transactions, err := readTransactionsCSV(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		h.respondValidation(w, err)
		return
	}
	h.storeBatch(w, r, userID, transactions)
}

func (h *PersonalTransactionHandler) storeBatch(w http.ResponseWriter, r *http.Request, userID string, transactions []*domain.PersonalTransaction) {
	if err := h.service.CreateTransactionsBulk(r.Context(), transactions, userID); err != nil {
		if financeErrors.IsValidationErrors(err) || financeErrors.IsValidationError(err) {
			h.respondValidation(w, err)
			return
		}
		h.logger.WithError(err).Error("Error during bulk transaction creation",
			logging.Field{Key: logging.FieldUserID, Value: userID},
			logging.Field{Key: logging.FieldCount, Value: len(transactions)})
		h.respondError(w, http.StatusInternalServerError, "Failed to create transactions")
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status":  "success",
		"message": "Transactions successfully created.",
		"data":    transactions,
	})
}

func (h *PersonalTransactionHandler) respondValidation(w http.ResponseWriter, err error) {
	var validationErrors *financeErrors.ValidationErrors
	if errors.As(err, &validationErrors) {
		h.respondError(w, http.StatusBadRequest, "Validation errors occurred", validationErrors.Messages())
		return
	}
	h.respondError(w, http.StatusBadRequest, err.Error())
}

func (h *PersonalTransactionHandler) filterFromQuery(r *http.Request) (domain.TransactionFilter, string) {
	startDate, ok := dateParam(r, "start_date", time.Time{})
	if !ok {
		return domain.TransactionFilter{}, "Invalid start date format"
	}
	endDate, ok := dateParam(r, "end_date", time.Time{})
	if !ok {
		return domain.TransactionFilter{}, "Invalid end date format"
	}
	return domain.TransactionFilter{
		StartDate: startDate,
		EndDate:   endDate,
		Category:  r.URL.Query().Get("category"),
	}, ""
}

func (h *PersonalTransactionHandler) GetUserTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	filter, problem := h.filterFromQuery(r)
	if problem != "" {
		h.respondError(w, http.StatusBadRequest, problem)
		return
	}

	transactions, err := h.service.GetUserTransactions(r.Context(), userID, filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve transactions", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions retrieved successfully.",
		"data":    transactions,
	})
}

func (h *PersonalTransactionHandler) ExportTransactionsCSV(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}
	filter, problem := h.filterFromQuery(r)
	if problem != "" {
		h.respondError(w, http.StatusBadRequest, problem)
		return
	}

	transactions, err := h.service.GetUserTransactions(r.Context(), userID, filter)
	if err != nil {
		h.logger.WithError(err).Error("Failed to export transactions", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve transactions")
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.csv"`)
	w.WriteHeader(http.StatusOK)
	if err := writeTransactionsCSV(w, transactions); err != nil {
		h.logger.WithError(err).Error("Failed to write CSV export", logging.Field{Key: logging.FieldUserID, Value: userID})
	}
}

func (h *PersonalTransactionHandler) GetTransactionSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	now := h.now()
	startDate, ok := dateParam(r, "start_date", time.Date(now.Year(), 1, 1, 0, 0, 0, 0, time.UTC))
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid start date format")
		return
	}
	endDate, ok := dateParam(r, "end_date", now)
	if !ok {
		h.respondError(w, http.StatusBadRequest, "Invalid end date format")
		return
	}

	summary, err := h.service.GetTransactionSummary(r.Context(), userID, startDate, endDate)
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve transaction summary", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve transaction summary")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Transactions summary retrieved successfully.",
		"data":    summary,
	})
}
