package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"github.com/sebuszqo/FlexiFi/internal/finance/application"
	financeErrors "github.com/sebuszqo/FlexiFi/internal/finance/errors"
	"github.com/sebuszqo/FlexiFi/internal/logging"
)

var ErrEmptyMessage = financeErrors.NewValidationError("Message content must be provided")

type FactsComposer interface {
	ComposeFacts(ctx context.Context, userID string, query application.AdviceQuery) (*advisory.Facts, error)
}

type AnalysisResult struct {
	Analysis  *Analysis       `json:"analysis"`
	Facts     *advisory.Facts `json:"facts"`
	Rendering Rendering       `json:"rendering"`
}

type ChatResult struct {
	Message   *ChatMessage    `json:"message"`
	Facts     *advisory.Facts `json:"facts"`
	Rendering Rendering       `json:"rendering"`
}

// Service computes facts first and only then asks the renderer to phrase
// them. A renderer failure is stored as a fallback message and never turns
// into an error.
type Service struct {
	repo     Repository
	facts    FactsComposer
	renderer Renderer
	logger   logging.Logger
	now      func() time.Time
}

// NewService builds the service. renderer may be nil, in which case every
// answer is the "unavailable" fallback.
func NewService(repo Repository, facts FactsComposer, renderer Renderer, logger logging.Logger) *Service {
	return &Service{
		repo:     repo,
		facts:    facts,
		renderer: renderer,
		logger:   logger,
		now:      time.Now,
	}
}

func (s *Service) Analyze(ctx context.Context, userID string, query application.AdviceQuery) (*AnalysisResult, error) {
	facts, err := s.facts.ComposeFacts(ctx, userID, query)
	if err != nil {
		return nil, err
	}

	text, rendering := s.render(ctx, userID, facts, Prompt{Mode: ModeAnalysis})

	analysis := &Analysis{
		ID:              uuid.New().String(),
		UserID:          userID,
		AnalysisType:    string(facts.QueryKind),
		Result:          text,
		RenderingStatus: rendering.Status,
		CreatedAt:       s.now().UTC(),
	}
	if err := s.repo.SaveAnalysis(ctx, *analysis); err != nil {
		return nil, err
	}

	return &AnalysisResult{Analysis: analysis, Facts: facts, Rendering: rendering}, nil
}

func (s *Service) ListAnalyses(ctx context.Context, userID string) ([]Analysis, error) {
	analyses, err := s.repo.FindAnalysesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load analyses: %w", err)
	}
	if analyses == nil {
		analyses = []Analysis{}
	}
	return analyses, nil
}

// Chat answers the question from freshly composed facts and stores both
// messages. Nothing is stored when the facts cannot be composed.
func (s *Service) Chat(ctx context.Context, userID, content string, query application.AdviceQuery) (*ChatResult, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, ErrEmptyMessage
	}

	question := ChatMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		Role:      RoleUser,
		Content:   content,
		CreatedAt: s.now().UTC(),
	}
	facts, err := s.facts.ComposeFacts(ctx, userID, query)
	if err != nil {
		return nil, err
	}
	if err := s.repo.SaveChatMessage(ctx, question); err != nil {
		return nil, err
	}

	text, rendering := s.render(ctx, userID, facts, Prompt{Mode: ModeChat, Question: content})

	answer := &ChatMessage{
		ID:        uuid.New().String(),
		UserID:    userID,
		Role:      RoleAssistant,
		Content:   text,
		CreatedAt: s.now().UTC(),
	}
	if answer.CreatedAt.Before(question.CreatedAt) {
		answer.CreatedAt = question.CreatedAt
	}
	if err := s.repo.SaveChatMessage(ctx, *answer); err != nil {
		return nil, err
	}

	return &ChatResult{Message: answer, Facts: facts, Rendering: rendering}, nil
}

func (s *Service) History(ctx context.Context, userID string) ([]ChatMessage, error) {
	messages, err := s.repo.FindChatMessagesByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("could not load chat history: %w", err)
	}
	if messages == nil {
		messages = []ChatMessage{}
	}
	return messages, nil
}

func (s *Service) render(ctx context.Context, userID string, facts *advisory.Facts, prompt Prompt) (string, Rendering) {
	if s.renderer == nil {
		failure := &CollaboratorError{Kind: FailureUnavailable, Err: ErrRendererUnavailable}
		return FallbackMessage(prompt.Mode, failure), Rendering{Status: StatusSkipped, Reason: FailureUnavailable}
	}

	start := time.Now()
	text, err := s.renderer.Render(ctx, facts, prompt)
	if err == nil && strings.TrimSpace(text) == "" {
		err = ErrEmptyResponse
	}
	if err != nil {
		failure := Classify(err)
		s.logger.WithError(err).Warn("Rendering degraded",
			logging.Field{Key: logging.FieldUserID, Value: userID},
			logging.Field{Key: logging.FieldQueryKind, Value: string(facts.QueryKind)},
			logging.Field{Key: logging.FieldReason, Value: string(failure.Kind)},
			logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
		)
		return FallbackMessage(prompt.Mode, failure), Rendering{Status: StatusDegraded, Reason: failure.Kind}
	}

	s.logger.Debug("Rendered advisory facts",
		logging.Field{Key: logging.FieldUserID, Value: userID},
		logging.Field{Key: logging.FieldQueryKind, Value: string(facts.QueryKind)},
		logging.Field{Key: logging.FieldDuration, Value: time.Since(start).Milliseconds()},
	)
	return text, Rendering{Status: StatusOK}
}
