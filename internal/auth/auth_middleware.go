package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

const refreshTokenCookie = "refresh_token"

type ErrorResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}

func (s *service) JWTAccessTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			if authHeader == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authorization header is required")
				return
			}

			tokenString := strings.TrimPrefix(authHeader, "Bearer ")
			if tokenString == authHeader {
				writeJSONError(w, http.StatusUnauthorized, "Invalid token format")
				return
			}

			userID, err := s.jwtManager.ValidateAccessToken(tokenString)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			if _, err := s.getUser(r.Context(), userID); err != nil {
				if errors.Is(err, ErrUserNotFound) {
					writeJSONError(w, http.StatusUnauthorized, ErrUserNotFound.Error())
					return
				}
				writeJSONError(w, http.StatusInternalServerError, ErrInternalError.Error())
				return
			}

			ctx := context.WithValue(r.Context(), "userID", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (s *service) JWTRefreshTokenMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(refreshTokenCookie)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, "Refresh token is required")
				return
			}
			tokenString := cookie.Value

			userID, err := s.jwtManager.ExtractUserIDFromRefreshToken(tokenString)
			if err != nil {
				writeJSONError(w, http.StatusUnauthorized, err.Error())
				return
			}

			existingUser, err := s.getUser(r.Context(), userID)
			if err != nil {
				if errors.Is(err, ErrUserNotFound) {
					writeJSONError(w, http.StatusUnauthorized, ErrUserNotFound.Error())
					return
				}
				writeJSONError(w, http.StatusInternalServerError, ErrInternalError.Error())
				return
			}

			if err := s.jwtManager.ValidateRefreshToken(tokenString, existingUser.HashToken); err != nil {
				writeJSONError(w, http.StatusUnauthorized, ErrInvalidJWTRefreshToken.Error())
				return
			}

			ctx := context.WithValue(r.Context(), "userID", userID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// writeJSONError writes the same envelope as the API's respondError.
func writeJSONError(w http.ResponseWriter, statusCode int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(ErrorResponse{
		Status:  "error",
		Message: message,
		Code:    statusCode,
	})
}
