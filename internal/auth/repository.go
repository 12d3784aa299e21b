package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/db"
)

type TwoFactorRepository interface {
	SaveTwoFactorSecret(ctx context.Context, userID string, secret string, at time.Time) error
	GetTwoFactorSecret(ctx context.Context, userID string) (string, error)
	EnableTwoFactor(ctx context.Context, userID, method string, at time.Time) error
	DisableTwoFactor(ctx context.Context, userID string, at time.Time) error
}

type twoFactorRepository struct {
	db *db.DBService
}

func NewTwoFactorRepository(dbService *db.DBService) TwoFactorRepository {
	return &twoFactorRepository{
		db: dbService,
	}
}

// SaveTwoFactorSecret replaces any pending secret, so registering twice
// before verification keeps only the latest one.
func (r *twoFactorRepository) SaveTwoFactorSecret(ctx context.Context, userID string, secret string, at time.Time) error {
	query := `
		INSERT INTO user_two_factor_secrets (user_id, encrypted_secret, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET encrypted_secret = EXCLUDED.encrypted_secret,
			created_at = EXCLUDED.created_at
	`
	_, err := r.db.DB.ExecContext(ctx, r.db.Rebind(query), userID, secret, db.TimestampArg(at))
	if err != nil {
		return fmt.Errorf("could not save two-factor secret: %w", err)
	}
	return nil
}

func (r *twoFactorRepository) GetTwoFactorSecret(ctx context.Context, userID string) (string, error) {
	var secret string
	query := `SELECT encrypted_secret FROM user_two_factor_secrets WHERE user_id = $1`
	err := r.db.DB.QueryRowContext(ctx, r.db.Rebind(query), userID).Scan(&secret)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", ErrNoTwoFactorSecret
		}
		return "", fmt.Errorf("could not fetch two-factor secret: %w", err)
	}
	return secret, nil
}

func (r *twoFactorRepository) EnableTwoFactor(ctx context.Context, userID, method string, at time.Time) error {
	query := `
		UPDATE users
		SET two_factor_enabled = $1,
			two_factor_method = $2,
			updated_at = $3
		WHERE id = $4
	`
	_, err := r.db.DB.ExecContext(ctx, r.db.Rebind(query), true, method, db.TimestampArg(at), userID)
	if err != nil {
		return fmt.Errorf("could not enable two-factor authentication: %w", err)
	}
	return nil
}

func (r *twoFactorRepository) DisableTwoFactor(ctx context.Context, userID string, at time.Time) error {
	tx, err := r.db.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	_, err = tx.ExecContext(ctx, r.db.Rebind(`
		UPDATE users
		SET two_factor_enabled = $1, two_factor_method = '', updated_at = $2
		WHERE id = $3
	`), false, db.TimestampArg(at), userID)
	if err != nil {
		return fmt.Errorf("could not disable two-factor authentication in users table: %w", err)
	}

	_, err = tx.ExecContext(ctx, r.db.Rebind(`DELETE FROM user_two_factor_secrets WHERE user_id = $1`), userID)
	if err != nil {
		return fmt.Errorf("could not delete TOTP secret: %w", err)
	}

	return tx.Commit()
}
