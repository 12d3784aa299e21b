// Package assistant turns composed advisory facts into prose through an
// optional language model and keeps the analysis and chat history.
package assistant

import (
	"context"

	"github.com/sebuszqo/FlexiFi/internal/finance/advisory"
)

type Mode string

const (
	ModeAnalysis Mode = "analysis"
	ModeChat     Mode = "chat"
)

// Prompt selects the template used to phrase the facts. Question is only
// read in chat mode.
type Prompt struct {
	Mode     Mode
	Question string
}

// Renderer phrases a fact bundle. Implementations may be slow or fail; the
// facts themselves are never changed by a renderer.
type Renderer interface {
	Render(ctx context.Context, facts *advisory.Facts, prompt Prompt) (string, error)
}

type RenderingStatus string

const (
	StatusOK       RenderingStatus = "ok"
	StatusSkipped  RenderingStatus = "skipped"
	StatusDegraded RenderingStatus = "degraded"
)

type Rendering struct {
	Status RenderingStatus `json:"status"`
	Reason FailureKind     `json:"reason,omitempty"`
}
