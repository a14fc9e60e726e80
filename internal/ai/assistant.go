package ai

import (
	"context"
	"errors"

	"github.com/spigell/resume-coach/internal/scoring"
)

// ErrNotConfigured is the cause attached to AI_MISCONFIGURED errors when no
// provider credential is available.
var ErrNotConfigured = errors.New("ai provider is not configured")

// Confidence is the provider's self-reported certainty in a verdict.
type Confidence string

const (
	ConfidenceLow    Confidence = "low"
	ConfidenceMedium Confidence = "medium"
	ConfidenceHigh   Confidence = "high"
)

// Verdict is the refined assessment produced by a language model.
type Verdict struct {
	AIScore                int                  `json:"aiScore"`
	Summary                string               `json:"summary"`
	Strengths              []string             `json:"strengths"`
	Weaknesses             []string             `json:"weaknesses"`
	ImprovementSuggestions []string             `json:"improvementSuggestions"`
	Rewrites               []scoring.Suggestion `json:"beforeAfterRewrites"`
	Confidence             Confidence           `json:"confidenceLevel"`
	Raw                    string               `json:"-"`
}

// Refiner makes exactly one provider call per invocation.
type Refiner interface {
	Refine(ctx context.Context, resumeText string, local scoring.Result) (*Verdict, error)
}

// Coach answers a free-text question about an existing analysis.
type Coach interface {
	Answer(ctx context.Context, message, analysisJSON string) (string, error)
}
