package interfaces

import (
	"context"
	"net/http"

	"github.com/sebuszqo/FlexiFi/internal/logging"
)

type CategoryServiceInterface interface {
	GetCategories(ctx context.Context, userID string) ([]string, error)
}

type CategoryHandler struct {
	service      CategoryServiceInterface
	logger       logging.Logger
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewCategoryHandler(service CategoryServiceInterface, logger logging.Logger, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *CategoryHandler {
	mustResponders(service, respondJSON, respondError)
	return &CategoryHandler{
		service:      service,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *CategoryHandler) GetCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := userIDFrom(r)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	categories, err := h.service.GetCategories(r.Context(), userID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to retrieve categories", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to retrieve categories")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Categories retrieved successfully.",
		"data":    categories,
	})
}
