package assistant

import (
	"context"
	"fmt"
	"time"

	"github.com/sebuszqo/FlexiFi/internal/db"
)

type Analysis struct {
	ID              string          `json:"id"`
	UserID          string          `json:"user_id"`
	AnalysisType    string          `json:"analysis_type"`
	Result          string          `json:"result"`
	RenderingStatus RenderingStatus `json:"rendering_status"`
	CreatedAt       time.Time       `json:"created_at"`
}

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

type ChatMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Role      string    `json:"role"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

func (m ChatMessage) IsUser() bool {
	return m.Role == RoleUser
}

type Repository interface {
	SaveAnalysis(ctx context.Context, analysis Analysis) error
	FindAnalysesByUser(ctx context.Context, userID string) ([]Analysis, error)
	SaveChatMessage(ctx context.Context, message ChatMessage) error
	FindChatMessagesByUser(ctx context.Context, userID string) ([]ChatMessage, error)
}

type SQLRepository struct {
	db *db.DBService
}

func NewRepository(dbService *db.DBService) *SQLRepository {
	return &SQLRepository{db: dbService}
}

func (r *SQLRepository) SaveAnalysis(ctx context.Context, analysis Analysis) error {
	_, err := r.db.DB.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO ai_analyses (id, user_id, analysis_type, result, rendering_status, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`),
		analysis.ID, analysis.UserID, analysis.AnalysisType, analysis.Result, string(analysis.RenderingStatus),
		db.TimestampArg(analysis.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("could not save analysis: %w", err)
	}
	return nil
}

func (r *SQLRepository) FindAnalysesByUser(ctx context.Context, userID string) ([]Analysis, error) {
	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(
		`SELECT id, user_id, analysis_type, result, rendering_status, created_at
		FROM ai_analyses WHERE user_id = $1 ORDER BY created_at DESC`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	analyses := []Analysis{}
	for rows.Next() {
		var analysis Analysis
		var status string
		if err := rows.Scan(&analysis.ID, &analysis.UserID, &analysis.AnalysisType, &analysis.Result, &status,
			db.Timestamp{Dest: &analysis.CreatedAt}); err != nil {
			return nil, err
		}
		analysis.RenderingStatus = RenderingStatus(status)
		analyses = append(analyses, analysis)
	}
	return analyses, rows.Err()
}

func (r *SQLRepository) SaveChatMessage(ctx context.Context, message ChatMessage) error {
	_, err := r.db.DB.ExecContext(ctx, r.db.Rebind(
		`INSERT INTO chat_messages (id, user_id, role, content, created_at) VALUES ($1, $2, $3, $4, $5)`),
		message.ID, message.UserID, message.Role, message.Content, db.TimestampArg(message.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("could not save chat message: %w", err)
	}
	return nil
}

// FindChatMessagesByUser returns the conversation oldest first. A question
// and its answer stored at the same instant keep their order.
func (r *SQLRepository) FindChatMessagesByUser(ctx context.Context, userID string) ([]ChatMessage, error) {
	rows, err := r.db.DB.QueryContext(ctx, r.db.Rebind(
		`SELECT id, user_id, role, content, created_at FROM chat_messages WHERE user_id = $1
		ORDER BY created_at, CASE role WHEN 'user' THEN 0 ELSE 1 END`), userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	messages := []ChatMessage{}
	for rows.Next() {
		var message ChatMessage
		if err := rows.Scan(&message.ID, &message.UserID, &message.Role, &message.Content,
			db.Timestamp{Dest: &message.CreatedAt}); err != nil {
			return nil, err
		}
		messages = append(messages, message)
	}
	return messages, rows.Err()
}
