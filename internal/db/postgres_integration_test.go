//go:build integration

package db

import (
	"context"
	"testing"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMigrate_Postgres(t *testing.T) {
	ctx := context.Background()

	container, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:16-alpine"),
		postgres.WithDatabase("flexifi"),
		postgres.WithUsername("flexifi"),
		postgres.WithPassword("flexifi"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	service, err := NewDBService(ctx, Options{
		Driver:          DriverPostgres,
		DSN:             dsn,
		MaxOpenConns:    5,
		MaxIdleConns:    2,
		ConnMaxLifetime: time.Minute,
	}, logging.NewMockLogger())
	require.NoError(t, err)
	defer service.Close()

	require.NoError(t, service.Migrate(ctx))
	require.NoError(t, service.Migrate(ctx))

	_, err = service.DB.ExecContext(ctx,
		`INSERT INTO users (id, email, login, password_hash, hash_token, created_at, updated_at) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		"6f1c2d1e-8c1a-4a51-9f0e-5d8b0f1d2a11", "ana@example.com", "ana", "hash", "token",
		TimestampArg(time.Now()), TimestampArg(time.Now()))
	require.NoError(t, err)

	_, err = service.DB.ExecContext(ctx,
		`INSERT INTO budgets (id, user_id, monthly_budget, start_date, end_date, created_at) VALUES ($1, $2, $3, $4, $5, $6)`,
		"0b6f6f55-3c4e-4d0a-b1a6-77e9a4f3c001", "6f1c2d1e-8c1a-4a51-9f0e-5d8b0f1d2a11", "1000.00",
		"2024-07-01", "2024-07-31", TimestampArg(time.Now()))
	require.NoError(t, err)

	var start time.Time
	err = service.DB.QueryRowContext(ctx, `SELECT start_date FROM budgets`).Scan(Date{Dest: &start})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC), start)

	assert.Equal(t, "up", service.Health(ctx)["status"])
}
