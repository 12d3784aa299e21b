package auth

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"
)

var (
	ErrInvalidSessionToken = errors.New("session token is invalid")
	ErrExpiredSessionToken = errors.New("token is expired")
)

const defaultSessionTokenDuration = 5 * time.Minute

type SessionManagerInterface interface {
	VerifySessionToken(sessionToken string) (string, error)
	DeleteSessionToken(sessionToken string)
	GenerateSessionToken(userID string, duration time.Duration) (string, error)
	CleanupExpired() int
}

type SessionToken struct {
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// SessionManager keeps the short-lived tokens handed out between the
// password check and the TOTP check of a login.
type SessionManager struct {
	mu     sync.RWMutex
	tokens map[string]SessionToken
	now    func() time.Time
}

func NewSessionManager() *SessionManager {
	return &SessionManager{
		tokens: make(map[string]SessionToken),
		now:    time.Now,
	}
}

func (sm *SessionManager) VerifySessionToken(sessionToken string) (string, error) {
	sm.mu.RLock()
	token, exists := sm.tokens[sessionToken]
	sm.mu.RUnlock()

	if !exists {
		return "", ErrInvalidSessionToken
	}

	if sm.now().After(token.ExpiresAt) {
		return "", ErrExpiredSessionToken
	}

	return token.UserID, nil
}

func (sm *SessionManager) DeleteSessionToken(sessionToken string) {
	sm.mu.Lock()
	defer sm.mu.Unlock()

	delete(sm.tokens, sessionToken)
}

// CleanupExpired drops expired tokens and reports how many were removed.
// It is scheduled by the server's cron runner.
func (sm *SessionManager) CleanupExpired() int {
	now := sm.now()

	sm.mu.Lock()
	defer sm.mu.Unlock()

	removed := 0
	for token, session := range sm.tokens {
		if now.After(session.ExpiresAt) {
			delete(sm.tokens, token)
			removed++
		}
	}
	return removed
}

func (sm *SessionManager) GenerateSessionToken(userID string, duration time.Duration) (string, error) {
	tokenBytes := make([]byte, 32)
	if _, err := rand.Read(tokenBytes); err != nil {
		return "", fmt.Errorf("could not generate session token: %w", err)
	}

	token := hex.EncodeToString(tokenBytes)
	now := sm.now()

	sm.mu.Lock()
	defer sm.mu.Unlock()
	sm.tokens[token] = SessionToken{
		UserID:    userID,
		ExpiresAt: now.Add(duration),
		CreatedAt: now,
	}
	return token, nil
}
