package auth

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/sebuszqo/FlexiFi/internal/user"
)

const totpAuthMethod = "google_authenticator"

var (
	ErrUserNotFound           = errors.New("user not found")
	ErrInvalidCredentials     = errors.New("invalid credentials")
	ErrInternalError          = errors.New("internal Server Error")
	ErrInvalidTwoFactorMethod = errors.New("two factor auth method not supported")
	ErrUser2FANotEnabled      = errors.New("two factor auth is not enabled")
	ErrInvalid2FACode         = errors.New("2fa code is invalid")
	ErrUser2FAAlreadyEnabled  = errors.New("2fa auth already enabled")
	ErrNoTwoFactorSecret      = errors.New("no two-factor secret generated")
)

type TwoFactorAuthenticator interface {
	GenerateSecret(accountName string) (string, string, error)
	VerifyCode(secret, code string) bool
}

// LoginResult carries either a token pair or, when TOTP is enabled, a
// session token to exchange in VerifyTwoFactor.
type LoginResult struct {
	User         *user.User
	AccessToken  string
	RefreshToken string
	SessionToken string
}

func (r *LoginResult) RequiresTwoFactor() bool {
	return r.SessionToken != ""
}

type Service interface {
	Login(ctx context.Context, emailOrLogin, password string) (*LoginResult, error)
	VerifyTwoFactor(ctx context.Context, sessionToken, code string) (*LoginResult, error)
	RegisterTwoFactor(ctx context.Context, userID, method string) (string, error)
	VerifyTwoFactorCode(ctx context.Context, userID, method, code string) error
	DisableTwoFactorAuth(ctx context.Context, userID, method, code string) error
	RefreshAccessToken(ctx context.Context, userID string) (string, string, error)
	JWTRefreshTokenMiddleware() func(http.Handler) http.Handler
	JWTAccessTokenMiddleware() func(http.Handler) http.Handler
}

type service struct {
	repo           TwoFactorRepository
	userService    user.Service
	sessionManager SessionManagerInterface
	jwtManager     JWTManagerInterface
	authenticator  TwoFactorAuthenticator
	logger         logging.Logger
	now            func() time.Time
}

func NewAuthService(repo TwoFactorRepository, userService user.Service, sessionManager SessionManagerInterface,
	jwtManager JWTManagerInterface, authenticator TwoFactorAuthenticator, logger logging.Logger) Service {
	return &service{
		repo:           repo,
		userService:    userService,
		sessionManager: sessionManager,
		jwtManager:     jwtManager,
		authenticator:  authenticator,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *service) getUser(ctx context.Context, userID string) (*user.User, error) {
	existingUser, err := s.userService.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		s.logger.WithError(err).Error("Could not load user", logging.Field{Key: logging.FieldUserID, Value: userID})
		return nil, ErrInternalError
	}
	return existingUser, nil
}

func (s *service) issueTokens(existingUser *user.User) (*LoginResult, error) {
	accessToken, err := s.jwtManager.GenerateAccessJWT(existingUser.ID)
	if err != nil {
		s.logger.WithError(err).Error("Error during JWT generation")
		return nil, ErrInternalError
	}

	refreshToken, err := s.jwtManager.GenerateRefreshJWT(existingUser.ID, existingUser.HashToken)
	if err != nil {
		s.logger.WithError(err).Error("Error during refresh token generation")
		return nil, ErrInternalError
	}

	return &LoginResult{User: existingUser, AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (s *service) Login(ctx context.Context, emailOrLogin, password string) (*LoginResult, error) {
	existingUser, err := s.userService.GetUserByLoginOrEmail(ctx, emailOrLogin)
	if err != nil {
		if errors.Is(err, user.ErrUserNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.WithError(err).Error("Error when getting user from database")
		return nil, ErrInternalError
	}

	if !user.DoPasswordsMatch(existingUser.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}

	if existingUser.TwoFactorEnabled {
		if existingUser.TwoFactorMethod != totpAuthMethod {
			return nil, ErrInvalidTwoFactorMethod
		}
		sessionToken, err := s.sessionManager.GenerateSessionToken(existingUser.ID, defaultSessionTokenDuration)
		if err != nil {
			s.logger.WithError(err).Error("Error during session token generation")
			return nil, ErrInternalError
		}
		return &LoginResult{User: existingUser, SessionToken: sessionToken}, nil
	}

	return s.issueTokens(existingUser)
}

func (s *service) VerifyTwoFactor(ctx context.Context, sessionToken, code string) (*LoginResult, error) {
	userID, err := s.sessionManager.VerifySessionToken(sessionToken)
	if err != nil {
		return nil, ErrInvalidSessionToken
	}

	existingUser, err := s.getUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if !existingUser.TwoFactorEnabled {
		return nil, ErrUser2FANotEnabled
	}
	if existingUser.TwoFactorMethod != totpAuthMethod {
		return nil, ErrInvalidTwoFactorMethod
	}

	if err := s.verifyTOTP(ctx, userID, code); err != nil {
		return nil, err
	}

	s.sessionManager.DeleteSessionToken(sessionToken)
	return s.issueTokens(existingUser)
}

func (s *service) verifyTOTP(ctx context.Context, userID, code string) error {
	secret, err := s.repo.GetTwoFactorSecret(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNoTwoFactorSecret) {
			return err
		}
		s.logger.WithError(err).Error("Could not load two-factor secret", logging.Field{Key: logging.FieldUserID, Value: userID})
		return ErrInternalError
	}
	if !s.authenticator.VerifyCode(secret, code) {
		return ErrInvalid2FACode
	}
	return nil
}

// RegisterTwoFactor stores a pending secret and returns its otpauth URI.
// Two-factor stays disabled until VerifyTwoFactorCode confirms a code.
func (s *service) RegisterTwoFactor(ctx context.Context, userID, method string) (string, error) {
	if method != totpAuthMethod {
		return "", ErrInvalidTwoFactorMethod
	}

	existingUser, err := s.getUser(ctx, userID)
	if err != nil {
		return "", err
	}
	if existingUser.TwoFactorEnabled {
		return "", ErrUser2FAAlreadyEnabled
	}

	otpURI, secret, err := s.authenticator.GenerateSecret(existingUser.Email)
	if err != nil {
		s.logger.WithError(err).Error("Error during totp secret generation")
		return "", ErrInternalError
	}

	if err := s.repo.SaveTwoFactorSecret(ctx, userID, secret, s.now().UTC()); err != nil {
		s.logger.WithError(err).Error("Could not save two-factor secret")
		return "", ErrInternalError
	}
	return otpURI, nil
}

func (s *service) VerifyTwoFactorCode(ctx context.Context, userID, method, code string) error {
	if method != totpAuthMethod {
		return ErrInvalidTwoFactorMethod
	}

	existingUser, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if existingUser.TwoFactorEnabled {
		return ErrUser2FAAlreadyEnabled
	}

	if err := s.verifyTOTP(ctx, userID, code); err != nil {
		return err
	}

	if err := s.repo.EnableTwoFactor(ctx, userID, method, s.now().UTC()); err != nil {
		s.logger.WithError(err).Error("Could not enable two-factor authentication")
		return ErrInternalError
	}
	s.logger.Info("Two-factor authentication enabled", logging.Field{Key: logging.FieldUserID, Value: userID})
	return nil
}

func (s *service) DisableTwoFactorAuth(ctx context.Context, userID, method, code string) error {
	existingUser, err := s.getUser(ctx, userID)
	if err != nil {
		return err
	}
	if !existingUser.TwoFactorEnabled {
		return ErrUser2FANotEnabled
	}
	if existingUser.TwoFactorMethod != method {
		return ErrInvalidTwoFactorMethod
	}

	if err := s.verifyTOTP(ctx, userID, code); err != nil {
		return err
	}

	if err := s.repo.DisableTwoFactor(ctx, userID, s.now().UTC()); err != nil {
		s.logger.WithError(err).Error("Could not disable two-factor authentication")
		return ErrInternalError
	}
	s.logger.Info("Two-factor authentication disabled", logging.Field{Key: logging.FieldUserID, Value: userID})
	return nil
}

// RefreshAccessToken expects a user already authenticated by
// JWTRefreshTokenMiddleware and returns a fresh token pair.
func (s *service) RefreshAccessToken(ctx context.Context, userID string) (string, string, error) {
	existingUser, err := s.getUser(ctx, userID)
	if err != nil {
		return "", "", err
	}

	result, err := s.issueTokens(existingUser)
	if err != nil {
		return "", "", err
	}
	return result.AccessToken, result.RefreshToken, nil
}
