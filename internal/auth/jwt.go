package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt"
)

var (
	ErrInvalidJWTToken        = errors.New("JWT token is invalid")
	ErrExpiredJWTToken        = errors.New("JWT token is expired")
	ErrInvalidJWTRefreshToken = errors.New("JWT Refresh token is invalid")
	ErrMissingJWTSecret       = errors.New("JWT secret must not be empty")
)

const (
	defaultJWTRefreshDuration = 720 * time.Hour
	defaultJWTDuration        = 10 * time.Minute
)

type JWTManagerInterface interface {
	GenerateAccessJWT(userID string) (string, error)
	ValidateAccessToken(tokenString string) (string, error)
	GenerateRefreshJWT(userID, tokenHash string) (string, error)
	ValidateRefreshToken(tokenString, tokenHash string) error
	ExtractUserIDFromRefreshToken(tokenString string) (string, error)
}

type AccessTokenCustomClaims struct {
	UserID string `json:"user_id"`
	jwt.StandardClaims
}

// RefreshTokenCustomClaims binds the token to the user's hash token via
// CusKey, so rotating the hash token revokes every refresh token.
type RefreshTokenCustomClaims struct {
	UserID string `json:"user_id"`
	CusKey string `json:"cus_key"`
	jwt.StandardClaims
}

type JWTManager struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewJWTManager(secret string, accessTTL, refreshTTL time.Duration) (*JWTManager, error) {
	if secret == "" {
		return nil, ErrMissingJWTSecret
	}
	if accessTTL <= 0 {
		accessTTL = defaultJWTDuration
	}
	if refreshTTL <= 0 {
		refreshTTL = defaultJWTRefreshDuration
	}
	return &JWTManager{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
	}, nil
}

func (j *JWTManager) generateCustomKey(userID string, tokenHash string) string {
	h := hmac.New(sha256.New, []byte(tokenHash))
	h.Write([]byte(userID))
	return hex.EncodeToString(h.Sum(nil))
}

func (j *JWTManager) standardClaims(userID string, ttl time.Duration) jwt.StandardClaims {
	now := j.now()
	return jwt.StandardClaims{
		Subject:   userID,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}
}

func (j *JWTManager) GenerateRefreshJWT(userID, tokenHash string) (string, error) {
	claims := &RefreshTokenCustomClaims{
		UserID:         userID,
		CusKey:         j.generateCustomKey(userID, tokenHash),
		StandardClaims: j.standardClaims(userID, j.refreshTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWTManager) GenerateAccessJWT(userID string) (string, error) {
	claims := &AccessTokenCustomClaims{
		UserID:         userID,
		StandardClaims: j.standardClaims(userID, j.accessTTL),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(j.secret)
}

func (j *JWTManager) keyFunc(token *jwt.Token) (interface{}, error) {
	if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
		return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
	}
	return j.secret, nil
}

func parseError(err error) error {
	var validationErr *jwt.ValidationError
	if errors.As(err, &validationErr) && validationErr.Errors&jwt.ValidationErrorExpired != 0 {
		return ErrExpiredJWTToken
	}
	return ErrInvalidJWTToken
}

func (j *JWTManager) ValidateAccessToken(tokenString string) (string, error) {
	token, err := jwt.ParseWithClaims(tokenString, &AccessTokenCustomClaims{}, j.keyFunc)
	if err != nil {
		return "", parseError(err)
	}

	claims, ok := token.Claims.(*AccessTokenCustomClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return "", ErrInvalidJWTToken
	}
	return claims.UserID, nil
}

func (j *JWTManager) parseRefreshToken(tokenString string) (*RefreshTokenCustomClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &RefreshTokenCustomClaims{}, j.keyFunc)
	if err != nil {
		return nil, parseError(err)
	}

	claims, ok := token.Claims.(*RefreshTokenCustomClaims)
	if !ok || !token.Valid || claims.UserID == "" {
		return nil, ErrInvalidJWTRefreshToken
	}
	return claims, nil
}

func (j *JWTManager) ExtractUserIDFromRefreshToken(tokenString string) (string, error) {
	claims, err := j.parseRefreshToken(tokenString)
	if err != nil {
		return "", err
	}
	return claims.UserID, nil
}

func (j *JWTManager) ValidateRefreshToken(tokenString, tokenHash string) error {
	claims, err := j.parseRefreshToken(tokenString)
	if err != nil {
		return err
	}

	expectedCusKey := j.generateCustomKey(claims.UserID, tokenHash)
	if !hmac.Equal([]byte(claims.CusKey), []byte(expectedCusKey)) {
		return ErrInvalidJWTRefreshToken
	}
	return nil
}
