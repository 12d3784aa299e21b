package interfaces

import (
	"net/http"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/domain"
)

type RespondJSONFunc func(w http.ResponseWriter, status int, payload interface{})

type RespondErrorFunc func(w http.ResponseWriter, status int, message string, errors ...[]string)

func mustResponders(service interface{}, respondJSON RespondJSONFunc, respondError RespondErrorFunc) {
	if service == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
}

func userIDFrom(r *http.Request) (string, bool) {
	userID, ok := r.Context().Value("userID").(string)
	return userID, ok && userID != ""
}

// dateParam reads an optional YYYY-MM-DD query parameter, returning fallback
// when it is absent.
func dateParam(r *http.Request, name string, fallback time.Time) (time.Time, bool) {
	value := r.URL.Query().Get(name)
	if value == "" {
		return fallback, true
	}
	parsed, err := domain.ParseDate(value)
	if err != nil {
		return time.Time{}, false
	}
	return parsed, true
}
