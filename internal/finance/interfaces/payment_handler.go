package interfaces

import "net/http"

type PaymentServiceInterface interface {
	GetAllPaymentMethods() []string
}

type PaymentHandler struct {
	service      PaymentServiceInterface
	respondJSON  RespondJSONFunc
	respondError RespondErrorFunc
}

func NewPaymentHandler(service PaymentServiceInterface, respondJSON RespondJSONFunc, respondError RespondErrorFunc) *PaymentHandler {
	mustResponders(service, respondJSON, respondError)
	return &PaymentHandler{
		service:      service,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *PaymentHandler) GetPaymentMethods(w http.ResponseWriter, _ *http.Request) {
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Methods retrieved successfully.",
		"data":    h.service.GetAllPaymentMethods(),
	})
}
