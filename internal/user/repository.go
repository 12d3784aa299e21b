package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/db"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	createUser(ctx context.Context, user *User) error
	userExistsByLoginOrEmail(ctx context.Context, login, email string) (*User, error)
	getUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error)
	getUserByID(ctx context.Context, id string) (*User, error)
	updateUserPasswordAndHashToken(ctx context.Context, userID, newPasswordHash, newHashToken string, updatedAt time.Time) error
}

type userRepository struct {
	db *db.DBService
}

func NewUserRepository(dbService *db.DBService) Repository {
	return &userRepository{
		db: dbService,
	}
}

const userColumns = `id, email, login, password_hash, two_factor_enabled, two_factor_method, hash_token, created_at, updated_at`

func (r *userRepository) createUser(ctx context.Context, user *User) error {
	query := `
		INSERT INTO users (id, email, login, password_hash, two_factor_enabled, two_factor_method, hash_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.DB.ExecContext(ctx, r.db.Rebind(query),
		user.ID, user.Email, user.Login, user.PasswordHash, user.TwoFactorEnabled, user.TwoFactorMethod, user.HashToken,
		db.TimestampArg(user.CreatedAt), db.TimestampArg(user.UpdatedAt),
	)
	if err != nil {
		return fmt.Errorf("could not create user: %w", err)
	}
	return nil
}

func (r *userRepository) userExistsByLoginOrEmail(ctx context.Context, login, email string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1 OR email = $2 LIMIT 1`
	return r.scanUser(r.db.DB.QueryRowContext(ctx, r.db.Rebind(query), login, email))
}

func (r *userRepository) getUserByLoginOrEmail(ctx context.Context, loginOrEmail string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE login = $1 OR email = $1 LIMIT 1`
	return r.scanUser(r.db.DB.QueryRowContext(ctx, r.db.Rebind(query), loginOrEmail))
}

func (r *userRepository) getUserByID(ctx context.Context, id string) (*User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.db.DB.QueryRowContext(ctx, r.db.Rebind(query), id))
}

func (r *userRepository) updateUserPasswordAndHashToken(ctx context.Context, userID, newPasswordHash, newHashToken string, updatedAt time.Time) error {
	query := `UPDATE users SET password_hash = $1, hash_token = $2, updated_at = $3 WHERE id = $4`
	result, err := r.db.DB.ExecContext(ctx, r.db.Rebind(query), newPasswordHash, newHashToken, db.TimestampArg(updatedAt), userID)
	if err != nil {
		return fmt.Errorf("could not update user password: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *userRepository) scanUser(row *sql.Row) (*User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.Login, &user.PasswordHash, &user.TwoFactorEnabled, &user.TwoFactorMethod,
		&user.HashToken, db.Timestamp{Dest: &user.CreatedAt}, db.Timestamp{Dest: &user.UpdatedAt})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("could not fetch user: %w", err)
	}
	return &user, nil
}
