package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrRendererUnavailable = errors.New("no renderer configured")
	ErrEmptyResponse       = errors.New("no response from Gemini API")
)

type FailureKind string

const (
	FailureAuth        FailureKind = "auth"
	FailureQuota       FailureKind = "quota"
	FailureTimeout     FailureKind = "timeout"
	FailureUnavailable FailureKind = "unavailable"
	FailureOther       FailureKind = "other"
)

// CollaboratorError is a classified renderer failure.
type CollaboratorError struct {
	Kind FailureKind
	Err  error
}

func (e *CollaboratorError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("renderer failure (%s)", e.Kind)
	}
	return fmt.Sprintf("renderer failure (%s): %v", e.Kind, e.Err)
}

func (e *CollaboratorError) Unwrap() error {
	return e.Err
}

// Classify maps a renderer error onto a FailureKind. Errors that are already
// classified are returned as they are.
func Classify(err error) *CollaboratorError {
	if err == nil {
		return nil
	}
	var classified *CollaboratorError
	if errors.As(err, &classified) {
		return classified
	}

	message := err.Error()
	lower := strings.ToLower(message)
	switch {
	case errors.Is(err, ErrRendererUnavailable):
		return &CollaboratorError{Kind: FailureUnavailable, Err: err}
	case errors.Is(err, context.DeadlineExceeded):
		return &CollaboratorError{Kind: FailureTimeout, Err: err}
	case strings.Contains(message, "API key") || strings.Contains(lower, "authentication"):
		return &CollaboratorError{Kind: FailureAuth, Err: err}
	case strings.Contains(lower, "quota") || strings.Contains(lower, "rate limit"):
		return &CollaboratorError{Kind: FailureQuota, Err: err}
	}
	return &CollaboratorError{Kind: FailureOther, Err: err}
}

// FallbackMessage is the text stored and returned in place of rendered prose.
func FallbackMessage(mode Mode, failure *CollaboratorError) string {
	subject := "AI analysis unavailable"
	if mode == ModeChat {
		subject = "AI chatbot unavailable"
	}

	kind := FailureOther
	if failure != nil {
		kind = failure.Kind
	}

	switch kind {
	case FailureUnavailable:
		return subject + ": The API key may be invalid or missing. Please contact support."
	case FailureAuth:
		return subject + ": API key invalid or expired. Please contact support."
	case FailureQuota:
		return subject + ": API quota exceeded. Please try again later or contact support."
	case FailureTimeout:
		return subject + ": The request timed out. Please try again later."
	}

	if mode == ModeChat {
		return "I'm sorry, I couldn't process your question. Please try again later or contact support."
	}
	detail := "unknown error"
	if failure != nil && failure.Err != nil {
		detail = failure.Err.Error()
	}
	return fmt.Sprintf("Error generating insights: %s. Please try again later.", detail)
}
