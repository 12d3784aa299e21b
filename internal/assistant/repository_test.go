package assistant

import (
	"context"
	"testing"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/db"
	"github.com/sebuszqo/FlexiFi/internal/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSQLiteRepository(t *testing.T) *SQLRepository {
	t.Helper()
	ctx := context.Background()
	service, err := db.NewDBService(ctx, db.Options{Driver: db.DriverSQLite, DSN: ":memory:"}, logging.NewMockLogger())
	require.NoError(t, err)
	require.NoError(t, service.Migrate(ctx))
	t.Cleanup(func() { _ = service.Close() })
	return NewRepository(service)
}

func TestSQLRepository_Analyses(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepository(t)

	older := Analysis{ID: "a1", UserID: testUserID, AnalysisType: "general", Result: "first", RenderingStatus: StatusOK, CreatedAt: fixedNow}
	newer := Analysis{ID: "a2", UserID: testUserID, AnalysisType: "budget", Result: "second", RenderingStatus: StatusDegraded, CreatedAt: fixedNow.Add(time.Hour)}
	require.NoError(t, repo.SaveAnalysis(ctx, older))
	require.NoError(t, repo.SaveAnalysis(ctx, newer))
	require.NoError(t, repo.SaveAnalysis(ctx, Analysis{ID: "a3", UserID: "other", AnalysisType: "general", Result: "x", RenderingStatus: StatusOK, CreatedAt: fixedNow}))

	analyses, err := repo.FindAnalysesByUser(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, analyses, 2)
	assert.Equal(t, "a2", analyses[0].ID)
	assert.Equal(t, StatusDegraded, analyses[0].RenderingStatus)
	assert.True(t, fixedNow.Equal(analyses[1].CreatedAt))
}

func TestSQLRepository_ChatOrdering(t *testing.T) {
	ctx := context.Background()
	repo := newSQLiteRepository(t)

	// Same instant: the question still comes before the answer.
	require.NoError(t, repo.SaveChatMessage(ctx, ChatMessage{ID: "m2", UserID: testUserID, Role: RoleAssistant, Content: "answer", CreatedAt: fixedNow}))
	require.NoError(t, repo.SaveChatMessage(ctx, ChatMessage{ID: "m1", UserID: testUserID, Role: RoleUser, Content: "question", CreatedAt: fixedNow}))
	require.NoError(t, repo.SaveChatMessage(ctx, ChatMessage{ID: "m0", UserID: testUserID, Role: RoleUser, Content: "earlier", CreatedAt: fixedNow.Add(-time.Minute)}))

	messages, err := repo.FindChatMessagesByUser(ctx, testUserID)
	require.NoError(t, err)
	require.Len(t, messages, 3)
	assert.Equal(t, []string{"m0", "m1", "m2"}, []string{messages[0].ID, messages[1].ID, messages[2].ID})

	empty, err := repo.FindChatMessagesByUser(ctx, "nobody")
	require.NoError(t, err)
	assert.NotNil(t, empty)
}
