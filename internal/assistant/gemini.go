package assistant

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/generative-ai-go/genai"
	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
	"golang.org/x/time/rate"
	"google.golang.org/api/option"
)

type GeminiConfig struct {
	APIKey            string
	Model             string
	Timeout           time.Duration
	RequestsPerMinute int
}

// GeminiRenderer phrases facts with a Gemini model. Calls are throttled to
// RequestsPerMinute and bounded by Timeout.
type GeminiRenderer struct {
	client  *genai.Client
	model   *genai.GenerativeModel
	limiter *rate.Limiter
	timeout time.Duration
}

func NewGeminiRenderer(ctx context.Context, cfg GeminiConfig) (*GeminiRenderer, error) {
	if cfg.APIKey == "" {
		return nil, &CollaboratorError{Kind: FailureUnavailable, Err: fmt.Errorf("GEMINI_API_KEY not set")}
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-1.5-flash"
	}
	if cfg.RequestsPerMinute <= 0 {
		cfg.RequestsPerMinute = 15
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 20 * time.Second
	}

	client, err := genai.NewClient(ctx, option.WithAPIKey(cfg.APIKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiRenderer{
		client:  client,
		model:   client.GenerativeModel(cfg.Model),
		limiter: rate.NewLimiter(rate.Every(time.Minute/time.Duration(cfg.RequestsPerMinute)), 1),
		timeout: cfg.Timeout,
	}, nil
}

func (g *GeminiRenderer) Render(ctx context.Context, facts *advisory.Facts, prompt Prompt) (string, error) {
	text, err := BuildPrompt(facts, prompt)
	if err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if err := g.limiter.Wait(ctx); err != nil {
		return "", &CollaboratorError{Kind: FailureTimeout, Err: err}
	}

	resp, err := g.model.GenerateContent(ctx, genai.Text(text))
	if err != nil {
		return "", fmt.Errorf("Gemini API error: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", ErrEmptyResponse
	}

	var out strings.Builder
	for _, part := range resp.Candidates[0].Content.Parts {
		if t, ok := part.(genai.Text); ok {
			out.WriteString(string(t))
		}
	}
	if strings.TrimSpace(out.String()) == "" {
		return "", ErrEmptyResponse
	}
	return out.String(), nil
}

func (g *GeminiRenderer) Close() error {
	return g.client.Close()
}
