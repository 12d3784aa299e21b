package user

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/badoux/checkmail"
	"github.com/google/uuid"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"golang.org/x/crypto/bcrypt"
)

const (
	maxEmailLength    = 35
	minEmailLength    = 3
	maxLoginLength    = 30
	minLoginLength    = 5
	minPasswordLength = 8
	bcryptCost        = 12
)

var (
	ErrInvalidEmail       = fmt.Errorf("email address is not valid")
	ErrEmailLength        = fmt.Errorf("email address is too long or too short, max length: %d, min length: %d", maxEmailLength, minEmailLength)
	ErrLoginLength        = fmt.Errorf("login is too long or too short, max length: %d, min length: %d", maxLoginLength, minLoginLength)
	ErrPasswordLength     = fmt.Errorf("password must be at least %d characters long", minPasswordLength)
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInternalError      = errors.New("internal Server Error")
	ErrLoginAlreadyExists = errors.New("login already exists")
	ErrInvalidOldPassword = errors.New("invalid old password")
)

type User struct {
	ID               string    `json:"id"`
	Email            string    `json:"email"`
	Login            string    `json:"login"`
	PasswordHash     string    `json:"-"`
	TwoFactorEnabled bool      `json:"two_factor_enabled"`
	TwoFactorMethod  string    `json:"two_factor_method"`
	HashToken        string    `json:"-"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

type Service interface {
	Register(ctx context.Context, email, login, password string) (*User, error)
	GetUserByID(ctx context.Context, userID string) (*User, error)
	GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error)
	ChangePasswordWithOldPassword(ctx context.Context, userID, oldPassword, newPassword string) error
}

type service struct {
	repo   Repository
	logger logging.Logger
	now    func() time.Time
}

func NewUserService(repo Repository, logger logging.Logger) Service {
	return &service{
		repo:   repo,
		logger: logger,
		now:    time.Now,
	}
}

func hashPassword(password string) (string, error) {
	hashedPasswordBytes, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	return string(hashedPasswordBytes), err
}

func generateHashToken() (string, error) {
	token := make([]byte, 32)
	_, err := rand.Read(token)
	if err != nil {
		return "", fmt.Errorf("could not generate hash token: %w", err)
	}
	return hex.EncodeToString(token), nil
}

// validateEmailAddress only checks the format; no MX lookup is made.
func validateEmailAddress(email string) error {
	if err := checkmail.ValidateFormat(email); err != nil {
		return ErrInvalidEmail
	}
	if len(email) > maxEmailLength || len(email) <= minEmailLength {
		return ErrEmailLength
	}
	return nil
}

func (s *service) Register(ctx context.Context, email, login, password string) (*User, error) {
	email = strings.TrimSpace(email)
	if err := validateEmailAddress(email); err != nil {
		s.logger.Debug("Email validation failed", logging.Field{Key: logging.FieldReason, Value: err.Error()})
		return nil, err
	}

	login = strings.TrimSpace(login)
	if len(login) == 0 {
		parts := strings.Split(email, "@")
		if len(parts) < 2 {
			return nil, ErrInvalidEmail
		}
		login = parts[0]
	} else if len(login) > maxLoginLength || len(login) < minLoginLength {
		return nil, ErrLoginLength
	}

	if len(password) < minPasswordLength {
		return nil, ErrPasswordLength
	}

	existingUser, err := s.repo.userExistsByLoginOrEmail(ctx, login, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		s.logger.WithError(err).Error("Could not check existing users")
		return nil, ErrInternalError
	}

	if existingUser != nil {
		if existingUser.Login == login {
			return nil, ErrLoginAlreadyExists
		} else if existingUser.Email == email {
			return nil, ErrEmailAlreadyExists
		}
	}

	passwordHash, err := hashPassword(password)
	if err != nil {
		s.logger.WithError(err).Error("Error during hashing the password")
		return nil, ErrInternalError
	}

	hashToken, err := generateHashToken()
	if err != nil {
		s.logger.WithError(err).Error("Error during generating a hash token")
		return nil, ErrInternalError
	}

	now := s.now().UTC()
	user := &User{
		ID:           uuid.New().String(),
		Email:        email,
		Login:        login,
		PasswordHash: passwordHash,
		HashToken:    hashToken,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.createUser(ctx, user); err != nil {
		s.logger.WithError(err).Error("Error during creating the user")
		return nil, ErrInternalError
	}

	s.logger.Info("User registered", logging.Field{Key: logging.FieldUserID, Value: user.ID})
	return user, nil
}

func (s *service) ChangePasswordWithOldPassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	user, err := s.repo.getUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return ErrInternalError
	}

	if !DoPasswordsMatch(user.PasswordHash, oldPassword) {
		return ErrInvalidOldPassword
	}
	if len(newPassword) < minPasswordLength {
		return ErrPasswordLength
	}

	return s.changePassword(ctx, userID, newPassword)
}

// changePassword also rotates the hash token, which invalidates every
// refresh token issued before the change.
func (s *service) changePassword(ctx context.Context, userID, newPassword string) error {
	newPasswordHash, err := hashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("could not hash password: %w", err)
	}

	newHashToken, err := generateHashToken()
	if err != nil {
		return err
	}

	if err := s.repo.updateUserPasswordAndHashToken(ctx, userID, newPasswordHash, newHashToken, s.now().UTC()); err != nil {
		return fmt.Errorf("could not update user password: %w", err)
	}
	return nil
}

func DoPasswordsMatch(hashedPassword, currPassword string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(currPassword))
	return err == nil
}

func (s *service) GetUserByID(ctx context.Context, userID string) (*User, error) {
	return s.repo.getUserByID(ctx, userID)
}

func (s *service) GetUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error) {
	return s.repo.getUserByLoginOrEmail(ctx, strings.TrimSpace(loginOrEmail))
}
