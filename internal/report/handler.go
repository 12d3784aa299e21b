package report

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/sebuszqo/FlexiFi/internal/finance/interfaces"
	"github.com/sebuszqo/FlexiFi/internal/logging"
)

type ServiceInterface interface {
	Generate(ctx context.Context, userID string, query application.AdviceQuery) (*Report, error)
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
	return &Handler{service: service, logger: logger, respondJSON: respondJSON, respondError: respondError}
}

// GenerateReport returns a presigned link when reports are stored, and the
// workbook itself otherwise. The body is optional.
func (h *Handler) GenerateReport(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok || userID == "" {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	var req interfaces.AdviceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	query, err := req.Query()
	if err != nil {
		h.respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	report, err := h.service.Generate(r.Context(), userID, query)
	if err != nil {
		if financeErrors.IsValidationError(err) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.logger.WithError(err).Error("Failed to generate report", logging.Field{Key: logging.FieldUserID, Value: userID})
		h.respondError(w, http.StatusInternalServerError, "Failed to generate report")
		return
	}

	if report.Stored() {
		h.respondJSON(w, http.StatusCreated, map[string]interface{}{
			"status":  "success",
			"message": "Report generated.",
			"data":    report,
		})
		return
	}

	w.Header().Set("Content-Type", ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="flexifi-report.xlsx"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(report.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(report.Content); err != nil {
		h.logger.WithError(err).Warn("Could not stream report", logging.Field{Key: logging.FieldUserID, Value: userID})
	}
}
