package assistant

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want FailureKind
	}{
		{"api key", errors.New("googleapi: Error 400: API key not valid. Please pass a valid API key."), FailureAuth},
		{"authentication", errors.New("request had invalid Authentication credentials"), FailureAuth},
		{"quota", errors.New("googleapi: Error 429: Resource has been exhausted (e.g. check Quota)."), FailureQuota},
		{"rate limit", errors.New("Rate limit reached for requests"), FailureQuota},
		{"deadline", fmt.Errorf("Gemini API error: %w", context.DeadlineExceeded), FailureTimeout},
		{"unavailable", ErrRendererUnavailable, FailureUnavailable},
		{"other", errors.New("connection reset by peer"), FailureOther},
		{"already classified", &CollaboratorError{Kind: FailureQuota, Err: errors.New("x")}, FailureQuota},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err)
			require.NotNil(t, got)
			assert.Equal(t, tt.want, got.Kind)
			assert.ErrorIs(t, got, tt.err)
		})
	}

	assert.Nil(t, Classify(nil))
}

func TestFallbackMessage(t *testing.T) {
	assert.Equal(t,
		"AI analysis unavailable: The API key may be invalid or missing. Please contact support.",
		FallbackMessage(ModeAnalysis, &CollaboratorError{Kind: FailureUnavailable}))
	assert.Equal(t,
		"AI chatbot unavailable: API key invalid or expired. Please contact support.",
		FallbackMessage(ModeChat, &CollaboratorError{Kind: FailureAuth}))
	assert.Equal(t,
		"AI analysis unavailable: API quota exceeded. Please try again later or contact support.",
		FallbackMessage(ModeAnalysis, &CollaboratorError{Kind: FailureQuota}))
	assert.Equal(t,
		"Error generating insights: boom. Please try again later.",
		FallbackMessage(ModeAnalysis, &CollaboratorError{Kind: FailureOther, Err: errors.New("boom")}))
	assert.Equal(t,
		"I'm sorry, I couldn't process your question. Please try again later or contact support.",
		FallbackMessage(ModeChat, &CollaboratorError{Kind: FailureOther, Err: errors.New("boom")}))
	assert.Contains(t, FallbackMessage(ModeChat, &CollaboratorError{Kind: FailureTimeout}), "timed out")
}
