package db

import (
	"context"
	"testing"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) *DBService {
	t.Helper()
	service, err := NewDBService(context.Background(), Options{
		Driver: DriverSQLite,
		DSN:    ":memory:",
	}, logging.NewMockLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = service.Close() })
	return service
}

func TestRebind(t *testing.T) {
	query := "SELECT * FROM transactions WHERE user_id = $1 AND date >= $2 AND date <= $10"

	assert.Equal(t, query, Rebind(DriverPostgres, query))
	assert.Equal(t, "SELECT * FROM transactions WHERE user_id = ?1 AND date >= ?2 AND date <= ?10", Rebind(DriverSQLite, query))
	assert.Equal(t, "SELECT '$' || name FROM t WHERE id = ?1", Rebind(DriverSQLite, "SELECT '$' || name FROM t WHERE id = $1"))
	assert.Equal(t, "SELECT id FROM users WHERE login = ?1 OR email = ?1", Rebind(DriverSQLite, "SELECT id FROM users WHERE login = $1 OR email = $1"))
}

func TestRebind_RepeatedPlaceholderBindsOneArgument(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	_, err := service.DB.ExecContext(ctx, "CREATE TABLE people (login TEXT, email TEXT)")
	require.NoError(t, err)
	_, err = service.DB.ExecContext(ctx, service.Rebind("INSERT INTO people (login, email) VALUES ($1, $2)"), "annakowal", "anna.k@example.com")
	require.NoError(t, err)

	var login string
	err = service.DB.QueryRowContext(ctx, service.Rebind("SELECT login FROM people WHERE login = $1 OR email = $1"), "anna.k@example.com").Scan(&login)
	require.NoError(t, err)
	assert.Equal(t, "annakowal", login)
}

func TestNewDBService_RejectsBadOptions(t *testing.T) {
	_, err := NewDBService(context.Background(), Options{Driver: DriverSQLite}, logging.NewMockLogger())
	assert.Error(t, err)

	_, err = NewDBService(context.Background(), Options{Driver: "mysql", DSN: "x"}, logging.NewMockLogger())
	assert.EqualError(t, err, "unsupported database driver: mysql")
}

func TestMigrate_SQLiteIsIdempotent(t *testing.T) {
	service := newTestService(t)
	ctx := context.Background()

	require.NoError(t, service.Migrate(ctx))
	require.NoError(t, service.Migrate(ctx))

	var count int
	err := service.DB.QueryRowContext(ctx, "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name IN ('users', 'transactions', 'budgets', 'savings_goals', 'accounts', 'ai_analyses', 'chat_messages')").Scan(&count)
	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestHealth(t *testing.T) {
	service := newTestService(t)

	stats := service.Health(context.Background())
	assert.Equal(t, "up", stats["status"])
	assert.Equal(t, DriverSQLite, stats["driver"])
}

func TestDateAndTimestampScan(t *testing.T) {
	var day time.Time
	require.NoError(t, Date{Dest: &day}.Scan("2024-07-15"))
	assert.Equal(t, time.Date(2024, 7, 15, 0, 0, 0, 0, time.UTC), day)

	require.NoError(t, Date{Dest: &day}.Scan(time.Date(2024, 2, 29, 0, 0, 0, 0, time.FixedZone("CET", 3600))))
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), day)

	var ts time.Time
	stamp := time.Date(2024, 7, 15, 10, 30, 0, 123000000, time.UTC)
	require.NoError(t, Timestamp{Dest: &ts}.Scan([]byte(TimestampArg(stamp))))
	assert.True(t, stamp.Equal(ts))

	assert.Error(t, Date{Dest: &day}.Scan(nil))
	assert.Error(t, Date{Dest: &day}.Scan(42))
	assert.Error(t, Date{Dest: &day}.Scan("yesterday"))
}

func TestTimestampArgSortsLexically(t *testing.T) {
	earlier := time.Date(2024, 7, 15, 10, 30, 5, 0, time.UTC)
	later := earlier.Add(100 * time.Millisecond)

	assert.Less(t, TimestampArg(earlier), TimestampArg(later))
	assert.Equal(t, "2024-07-15", DateArg(later))
}
