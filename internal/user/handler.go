package user

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/sebuszqo/FlexiFi/internal/finance/interfaces"
	"github.com/sebuszqo/FlexiFi/internal/logging"
)

type Handler struct {
	userService  Service
	logger       logging.Logger
	respondJSON  interfaces.RespondJSONFunc
	respondError interfaces.RespondErrorFunc
}

func NewHandler(userService Service, logger logging.Logger, respondJSON interfaces.RespondJSONFunc, respondError interfaces.RespondErrorFunc) *Handler {
	if userService == nil || respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	return &Handler{
		userService:  userService,
		logger:       logger,
		respondJSON:  respondJSON,
		respondError: respondError,
	}
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Login    string `json:"login"`
		Password string `json:"password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := h.userService.Register(r.Context(), req.Email, req.Login, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, ErrEmailAlreadyExists), errors.Is(err, ErrLoginAlreadyExists):
			h.respondError(w, http.StatusConflict, err.Error())
		case errors.Is(err, ErrInvalidEmail), errors.Is(err, ErrEmailLength),
			errors.Is(err, ErrLoginLength), errors.Is(err, ErrPasswordLength):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.respondError(w, http.StatusInternalServerError, "Could not register user")
		}
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]interface{}{
		"status": "success",
		"data": map[string]string{
			"user_id": user.ID,
		},
	})
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	var req struct {
		OldPassword string `json:"old_password"`
		NewPassword string `json:"new_password"`
	}

	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	err := h.userService.ChangePasswordWithOldPassword(r.Context(), userID, req.OldPassword, req.NewPassword)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			h.respondError(w, http.StatusNotFound, "User not found")
		case errors.Is(err, ErrInvalidOldPassword):
			h.respondError(w, http.StatusUnauthorized, "Invalid old password")
		case errors.Is(err, ErrPasswordLength):
			h.respondError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.WithError(err).Error("Could not change password", logging.Field{Key: logging.FieldUserID, Value: userID})
			h.respondError(w, http.StatusInternalServerError, "Could not change password")
		}
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"status":  "success",
		"message": "Password changed successfully",
	})
}

func (h *Handler) HandleGetUserProfile(w http.ResponseWriter, r *http.Request) {
	userID, ok := r.Context().Value("userID").(string)
	if !ok {
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
		return
	}

	user, err := h.userService.GetUserByID(r.Context(), userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			h.respondError(w, http.StatusNotFound, "User not found")
			return
		}
		h.respondError(w, http.StatusInternalServerError, "Could not fetch user data")
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]interface{}{
		"status": "success",
		"data": map[string]interface{}{
			"user_id":     user.ID,
			"email":       user.Email,
			"login":       user.Login,
			"2fa_enabled": user.TwoFactorEnabled,
			"2fa_method":  user.TwoFactorMethod,
			"created_at":  user.CreatedAt,
			"updated_at":  user.UpdatedAt,
		},
	})
}
