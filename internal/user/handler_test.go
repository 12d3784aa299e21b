package user

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func respondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func respondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	respondJSON(w, status, map[string]interface{}{"status": "error", "message": message, "code": status})
}

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, login, password string) (*User, error) {
	args := m.Called(ctx, email, login, password)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, userID string) (*User, error) {
	args := m.Called(ctx, userID)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
}

func (m *MockUserService) GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error) {
	args := m.Called(ctx, loginOrEmail)
	user, _ := args.Get(0).(*User)
	return user, args.Error(1)
}

func (m *MockUserService) ChangePasswordWithOldPassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	args := m.Called(ctx, userID, oldPassword, newPassword)
	return args.Error(0)
}

func newTestHandler(svc Service) *Handler {
	return NewHandler(svc, logging.NewMockLogger(), respondJSON, respondError)
}

func TestHandleRegister(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "created", wantStatus: http.StatusCreated},
		{name: "duplicate login", err: ErrLoginAlreadyExists, wantStatus: http.StatusConflict},
		{name: "invalid email", err: ErrInvalidEmail, wantStatus: http.StatusBadRequest},
		{name: "internal", err: ErrInternalError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockUserService)
			var created *User
			if tt.err == nil {
				created = &User{ID: "user-1"}
			}
			svc.On("Register", mock.Anything, "anna@example.com", "", "correct-horse").Return(created, tt.err)

			body := `{"email":"anna@example.com","password":"correct-horse"}`
			rec := httptest.NewRecorder()
			newTestHandler(svc).HandleRegister(rec, httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(body)))

			assert.Equal(t, tt.wantStatus, rec.Code)
			svc.AssertExpectations(t)
		})
	}
}

func TestHandleRegister_InvalidBody(t *testing.T) {
	svc := new(MockUserService)
	rec := httptest.NewRecorder()
	newTestHandler(svc).HandleRegister(rec, httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader("{")))

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	svc.AssertNotCalled(t, "Register", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleGetUserProfile(t *testing.T) {
	svc := new(MockUserService)
	svc.On("GetUserByID", mock.Anything, "user-1").Return(&User{ID: "user-1", Email: "anna@example.com", Login: "annak"}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
	req = req.WithContext(context.WithValue(req.Context(), "userID", "user-1"))
	rec := httptest.NewRecorder()
	newTestHandler(svc).HandleGetUserProfile(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var payload struct {
		Data map[string]interface{} `json:"data"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&payload))
	assert.Equal(t, "annak", payload.Data["login"])
	assert.Equal(t, false, payload.Data["2fa_enabled"])
}

func TestHandleChangePassword_WrongOldPassword(t *testing.T) {
	svc := new(MockUserService)
	svc.On("ChangePasswordWithOldPassword", mock.Anything, "user-1", "old", "new-password").Return(ErrInvalidOldPassword)

	req := httptest.NewRequest(http.MethodPut, "/api/protected/profile/password",
		strings.NewReader(`{"old_password":"old","new_password":"new-password"}`))
	req = req.WithContext(context.WithValue(req.Context(), "userID", "user-1"))
	rec := httptest.NewRecorder()
	newTestHandler(svc).HandleChangePassword(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
