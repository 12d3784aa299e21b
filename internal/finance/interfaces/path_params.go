package interfaces

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/google/uuid"
)

// pathParamNotFound maps an ID path parameter to the 404 message sent when
// it is not a UUID; such an ID can never match a stored row.
var pathParamNotFound = map[string]string{
	"accountID": "Account not found",
	"goalID":    "Savings goal not found",
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(string(s[0])) + s[1:]
}

// ValidatePathParams rejects requests whose named path parameters are empty
// or not UUIDs before they reach next.
func ValidatePathParams(respondError RespondErrorFunc, next http.Handler, params ...string) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for _, param := range params {
			value := r.PathValue(param)
			if value == "" {
				respondError(w, http.StatusBadRequest, capitalizeFirstLetter(fmt.Sprintf("%s is required", param)))
				return
			}

			if _, err := uuid.Parse(value); err != nil {
				if message, ok := pathParamNotFound[param]; ok {
					respondError(w, http.StatusNotFound, message)
					return
				}
				respondError(w, http.StatusBadRequest, fmt.Sprintf("Invalid %s format", param))
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}
