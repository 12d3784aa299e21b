package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/pquerna/otp/totp"
	"github.com/sebuszqo/FlexiFi/internal/db"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/sebuszqo/FlexiFi/internal/user"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testPassword = "correct-horse"

type testEnv struct {
	service  *service
	users    user.Service
	repo     TwoFactorRepository
	sessions *SessionManager
	jwt      *JWTManager
	user     *user.User
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()
	dbService, err := db.NewDBService(ctx, db.Options{Driver: db.DriverSQLite, DSN: ":memory:"}, logging.NewMockLogger())
	require.NoError(t, err)
	require.NoError(t, dbService.Migrate(ctx))
	t.Cleanup(func() { _ = dbService.Close() })

	users := user.NewUserService(user.NewUserRepository(dbService), logging.NewMockLogger())
	registered, err := users.Register(ctx, "anna@example.com", "annak", testPassword)
	require.NoError(t, err)

	jwtManager := newTestJWTManager(t)
	sessions := NewSessionManager()
	repo := NewTwoFactorRepository(dbService)
	svc := NewAuthService(repo, users, sessions, jwtManager, &Authenticator{}, logging.NewMockLogger()).(*service)

	return &testEnv{service: svc, users: users, repo: repo, sessions: sessions, jwt: jwtManager, user: registered}
}

func (e *testEnv) currentCode(t *testing.T) string {
	t.Helper()
	secret, err := e.repo.GetTwoFactorSecret(context.Background(), e.user.ID)
	require.NoError(t, err)
	code, err := totp.GenerateCode(secret, time.Now())
	require.NoError(t, err)
	return code
}

func (e *testEnv) enableTOTP(t *testing.T) {
	t.Helper()
	ctx := context.Background()
	uri, err := e.service.RegisterTwoFactor(ctx, e.user.ID, totpAuthMethod)
	require.NoError(t, err)
	require.Contains(t, uri, "otpauth://totp/FlexiFi")
	require.NoError(t, e.service.VerifyTwoFactorCode(ctx, e.user.ID, totpAuthMethod, e.currentCode(t)))
}

func TestLogin_WithoutTwoFactor(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.service.Login(ctx, "anna@example.com", testPassword)
	require.NoError(t, err)
	assert.False(t, result.RequiresTwoFactor())

	userID, err := env.jwt.ValidateAccessToken(result.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, env.user.ID, userID)
	assert.NoError(t, env.jwt.ValidateRefreshToken(result.RefreshToken, env.user.HashToken))

	_, err = env.service.Login(ctx, "annak", "wrong-password")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = env.service.Login(ctx, "nobody", testPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestTwoFactor_FullFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	env.enableTOTP(t)

	_, err := env.service.RegisterTwoFactor(ctx, env.user.ID, totpAuthMethod)
	assert.ErrorIs(t, err, ErrUser2FAAlreadyEnabled)

	result, err := env.service.Login(ctx, "annak", testPassword)
	require.NoError(t, err)
	require.True(t, result.RequiresTwoFactor())
	assert.Empty(t, result.AccessToken)

	_, err = env.service.VerifyTwoFactor(ctx, result.SessionToken, "000000x")
	assert.ErrorIs(t, err, ErrInvalid2FACode)

	verified, err := env.service.VerifyTwoFactor(ctx, result.SessionToken, env.currentCode(t))
	require.NoError(t, err)
	assert.NotEmpty(t, verified.AccessToken)
	assert.NotEmpty(t, verified.RefreshToken)

	_, err = env.service.VerifyTwoFactor(ctx, result.SessionToken, env.currentCode(t))
	assert.ErrorIs(t, err, ErrInvalidSessionToken)

	require.NoError(t, env.service.DisableTwoFactorAuth(ctx, env.user.ID, totpAuthMethod, env.currentCode(t)))
	stored, err := env.users.GetUserByID(ctx, env.user.ID)
	require.NoError(t, err)
	assert.False(t, stored.TwoFactorEnabled)

	_, err = env.repo.GetTwoFactorSecret(ctx, env.user.ID)
	assert.ErrorIs(t, err, ErrNoTwoFactorSecret)
}

func TestRegisterTwoFactor_UnsupportedMethod(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.service.RegisterTwoFactor(context.Background(), env.user.ID, "email")
	assert.ErrorIs(t, err, ErrInvalidTwoFactorMethod)
}

func TestVerifyTwoFactorCode_WithoutRegistration(t *testing.T) {
	env := newTestEnv(t)

	err := env.service.VerifyTwoFactorCode(context.Background(), env.user.ID, totpAuthMethod, "123456")
	assert.ErrorIs(t, err, ErrNoTwoFactorSecret)
}

func TestRefreshAccessToken_RevokedByPasswordChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	result, err := env.service.Login(ctx, "annak", testPassword)
	require.NoError(t, err)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	refresh := env.service.JWTRefreshTokenMiddleware()(next)

	req := httptest.NewRequest(http.MethodPut, refreshTokenPath, nil)
	req.AddCookie(&http.Cookie{Name: refreshTokenCookie, Value: result.RefreshToken})
	rec := httptest.NewRecorder()
	refresh.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusNoContent, rec.Code)

	require.NoError(t, env.users.ChangePasswordWithOldPassword(ctx, env.user.ID, testPassword, "battery-staple"))

	rec = httptest.NewRecorder()
	refresh.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTAccessTokenMiddleware(t *testing.T) {
	env := newTestEnv(t)
	token, err := env.jwt.GenerateAccessJWT(env.user.ID)
	require.NoError(t, err)
	orphan, err := env.jwt.GenerateAccessJWT("deleted-user")
	require.NoError(t, err)

	var seenUserID string
	protected := env.service.JWTAccessTokenMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seenUserID, _ = r.Context().Value("userID").(string)
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
	}{
		{name: "valid", header: "Bearer " + token, wantStatus: http.StatusOK},
		{name: "missing header", wantStatus: http.StatusUnauthorized},
		{name: "no bearer prefix", header: token, wantStatus: http.StatusUnauthorized},
		{name: "garbage", header: "Bearer not-a-jwt", wantStatus: http.StatusUnauthorized},
		{name: "unknown user", header: "Bearer " + orphan, wantStatus: http.StatusUnauthorized},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/api/protected/profile", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			protected.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantStatus != http.StatusOK {
				var body ErrorResponse
				require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
				assert.Equal(t, "error", body.Status)
				assert.Equal(t, tt.wantStatus, body.Code)
			}
		})
	}
	assert.Equal(t, env.user.ID, seenUserID)
}
