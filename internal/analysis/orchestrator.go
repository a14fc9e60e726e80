// Package analysis runs the hybrid scoring pipeline and records its results.
package analysis

import (
	"context"
	"errors"

	"github.com/spigell/resume-coach/internal/ai"
	"github.com/spigell/resume-coach/internal/apperr"
	"github.com/spigell/resume-coach/internal/logger"
	"github.com/spigell/resume-coach/internal/scoring"
	"github.com/spigell/resume-coach/internal/store"
	"go.uber.org/zap"
)

// Mode selects whether the AI stage runs. It is resolved once at start.
type Mode int

const (
	ModeLocalOnly Mode = iota
	ModeMandatoryAI
)

// ModeFromFlag maps the ai.mandatory setting to a Mode.
func ModeFromFlag(mandatory bool) Mode {
	if mandatory {
		return ModeMandatoryAI
	}
	return ModeLocalOnly
}

func (m Mode) String() string {
	if m == ModeMandatoryAI {
		return "mandatory-ai"
	}
	return "local-only"
}

// LocalScorer never fails.
type LocalScorer interface {
	Score(resumeText string) scoring.Result
}

// Outcome is the merged result of both stages.
type Outcome struct {
	LocalScore             int                   `json:"localScore"`
	AIScore                *int                  `json:"aiScore,omitempty"`
	FinalScore             int                   `json:"finalScore"`
	Strengths              []string              `json:"strengths"`
	Weaknesses             []string              `json:"weaknesses"`
	Suggestions            []scoring.Suggestion  `json:"suggestions"`
	AIStatus               store.AIStatus        `json:"aiStatus"`
	Summary                string                `json:"summary,omitempty"`
	ImprovementSuggestions []string              `json:"improvementSuggestions,omitempty"`
	Confidence             ai.Confidence         `json:"confidenceLevel,omitempty"`
	Checks                 []scoring.CheckResult `json:"checks"`
}

// Orchestrator sequences the local scorer and the AI refiner.
type Orchestrator struct {
	scorer    LocalScorer
	refiner   ai.Refiner
	mode      Mode
	configErr error
	logger    *zap.Logger
}

// NewOrchestrator validates the mode against the refiner once. In mandatory
// mode a nil refiner makes every Analyze call fail with AI_MISCONFIGURED
// without attempting a call.
func NewOrchestrator(scorer LocalScorer, refiner ai.Refiner, mode Mode, log *zap.Logger) *Orchestrator {
	o := &Orchestrator{
		scorer:  scorer,
		refiner: refiner,
		mode:    mode,
		logger:  logger.OrNop(log),
	}

	if mode == ModeMandatoryAI && refiner == nil {
		o.configErr = apperr.AIMisconfigured(ai.ErrNotConfigured)
		o.logger.Error("AI analysis is mandatory but no provider is configured; analyses will be rejected")
	}

	return o
}

func (o *Orchestrator) Mode() Mode { return o.mode }

// Ready returns the configuration error found at construction, if any.
func (o *Orchestrator) Ready() error { return o.configErr }

// Analyze runs the pipeline. In mandatory mode an AI failure fails the whole
// call and the local result is discarded.
func (o *Orchestrator) Analyze(ctx context.Context, resumeText string) (*Outcome, error) {
	if o.configErr != nil {
		return nil, o.configErr
	}

	local := o.scorer.Score(resumeText)

	if o.mode != ModeMandatoryAI {
		return localOutcome(local), nil
	}

	verdict, err := o.refiner.Refine(ctx, resumeText, local)
	if err != nil {
		o.logger.Warn("AI refinement failed", zap.Int("local_score", local.Score), zap.Error(err))
		if errors.Is(err, apperr.ErrAIMisconfigured) {
			return nil, err
		}
		return nil, apperr.AIUnavailable(err)
	}
	if verdict == nil {
		return nil, apperr.AIUnavailable(errors.New("refiner returned no verdict"))
	}

	return merge(local, verdict), nil
}

func localOutcome(local scoring.Result) *Outcome {
	return &Outcome{
		LocalScore:  local.Score,
		FinalScore:  local.Score,
		Strengths:   local.Strengths,
		Weaknesses:  local.Weaknesses,
		Suggestions: local.Suggestions,
		AIStatus:    store.AIStatusSkipped,
		Checks:      local.Checks,
	}
}

func merge(local scoring.Result, verdict *ai.Verdict) *Outcome {
	aiScore := max(0, min(verdict.AIScore, 100))

	out := &Outcome{
		LocalScore:             local.Score,
		AIScore:                &aiScore,
		FinalScore:             aiScore,
		Strengths:              local.Strengths,
		Weaknesses:             local.Weaknesses,
		Suggestions:            local.Suggestions,
		AIStatus:               store.AIStatusSuccess,
		Summary:                verdict.Summary,
		ImprovementSuggestions: verdict.ImprovementSuggestions,
		Confidence:             verdict.Confidence,
		Checks:                 local.Checks,
	}

	if len(verdict.Strengths) > 0 {
		out.Strengths = verdict.Strengths
	}
	if len(verdict.Weaknesses) > 0 {
		out.Weaknesses = verdict.Weaknesses
	}
	if len(verdict.Rewrites) > 0 {
		out.Suggestions = verdict.Rewrites
	}

	return out
}
