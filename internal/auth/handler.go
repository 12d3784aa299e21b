package auth

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/finance/interfaces"
	"github.com/sebuszqo/FlexiFi/internal/logging"
)

const refreshTokenPath = "/api/refresh/token"

type Handler struct {
	authService  Service
	logger       logging.Logger
	respondJSON  interfaces.RespondJSONFunc
	respondError interfaces.RespondErrorFunc
}

func NewHandler(authService Service, logger logging.Logger, respondJSON interfaces.RespondJSONFunc, respondError interfaces.RespondErrorFunc) *Handler {
	if authService == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &Handler{
		authService:  authService,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func setRefreshCookie(w http.ResponseWriter, r *http.Request, value string, expires time.Time) {
	cookie := &http.Cookie{
		Name:     refreshTokenCookie,
		Value:    value,
		HttpOnly: true,
		Secure:   r.TLS != nil,
		SameSite: http.SameSiteNoneMode,
		Path:     refreshTokenPath,
	}
	if !expires.IsZero() {
		cookie.Expires = expires
		cookie.MaxAge = -1
	}
	http.SetCookie(w, cookie)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		EmailOrLogin string `json:"email_or_login"`
		Password     string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Password == "" || req.EmailOrLogin == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.Login(r.Context(), req.EmailOrLogin, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidCredentials):
			h.respondError(w, http.StatusUnauthorized, "Invalid credentials")
		case errors.Is(err, ErrInvalidTwoFactorMethod):
			h.respondError(w, http.StatusInternalServerError, "Invalid two-factor method")
		default:
			h.respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	if result.RequiresTwoFactor() {
		h.respondJSON(w, http.StatusOK, map[string]interface{}{
			"status": "success",
			"data": map[string]string{
				"message":         "Two-factor authentication required",
				"2fa_auth_method": result.User.TwoFactorMethod,
				"session_token":   result.SessionToken,
			},
		})
		return
	}

	setRefreshCookie(w, r, result.RefreshToken, time.Time{})
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"user_id":      result.User.ID,
			"access_token": result.AccessToken,
		},
	})
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if _, err := r.Cookie(refreshTokenCookie); err == nil {
		setRefreshCookie(w, r, "", time.Unix(0, 0))
	}
	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Logout successful",
	})
}

func (h *Handler) HandleVerifyTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		SessionToken string `json:"session_token"`
		Code         string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.SessionToken == "" || req.Code == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	result, err := h.authService.VerifyTwoFactor(r.Context(), req.SessionToken, req.Code)
	if err != nil {
		if errors.Is(err, ErrInvalidSessionToken) || errors.Is(err, ErrInvalid2FACode) {
			h.respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Could not verify two-factor authentication")
		return
	}

	setRefreshCookie(w, r, result.RefreshToken, time.Time{})
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"user_id":      result.User.ID,
			"access_token": result.AccessToken,
		},
	})
}

func (h *Handler) HandleRegisterTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Method == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := r.Context().Value("userID").(string)
	otpURI, err := h.authService.RegisterTwoFactor(r.Context(), userID, req.Method)
	if err != nil {
		if errors.Is(err, ErrInvalidTwoFactorMethod) || errors.Is(err, ErrUser2FAAlreadyEnabled) {
			h.respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Could not register two-factor authentication")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status":  "success",
		"message": "Two-factor authentication initiated. Please verify to enable.",
		"data": map[string]string{
			"otp_uri": otpURI,
		},
	})
}

func (h *Handler) HandleVerifyTwoFactorCode(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
		Code   string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Method == "" || req.Code == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID := r.Context().Value("userID").(string)
	err := h.authService.VerifyTwoFactorCode(r.Context(), userID, req.Method, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalid2FACode):
			h.respondError(w, http.StatusUnauthorized, "Invalid 2fa code")
		case errors.Is(err, ErrUser2FAAlreadyEnabled):
			h.respondError(w, http.StatusConflict, "Two-factor authentication is already enabled")
		case errors.Is(err, ErrInvalidTwoFactorMethod), errors.Is(err, ErrNoTwoFactorSecret):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "Internal server error")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Two-factor authentication enabled",
	})
}

func (h *Handler) HandleDisableTwoFactor(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Method string `json:"method"`
		Code   string `json:"code"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Method == "" || req.Code == "" {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "User not authorized")
		return
	}

	err := h.authService.DisableTwoFactorAuth(r.Context(), userID, req.Method, req.Code)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidTwoFactorMethod), errors.Is(err, ErrUser2FANotEnabled), errors.Is(err, ErrNoTwoFactorSecret):
			h.respondError(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrInvalid2FACode):
			h.respondError(w, http.StatusUnauthorized, "Invalid 2FA code")
		default:
			h.respondError(w, http.StatusInternalServerError, "Could not disable two-factor authentication")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Two-factor authentication disabled successfully",
	})
}

func (h *Handler) RefreshAccessToken(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, ErrUserNotFound.Error())
		return
	}

	accessToken, newRefreshToken, err := h.authService.RefreshAccessToken(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.respondError(w, http.StatusUnauthorized, err.Error())
			return
		}
		h.respondError(w, http.StatusInternalServerError, ErrInternalError.Error())
		return
	}

	setRefreshCookie(w, r, newRefreshToken, time.Time{})
	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"access_token": accessToken,
		},
	})
}
