package analysis

import (
	"context"
	"errors"
	"reflect"
	"testing"

	"github.com/spigell/resume-coach/internal/ai"
	"github.com/spigell/resume-coach/internal/apperr"
	"github.com/spigell/resume-coach/internal/scoring"
	"github.com/spigell/resume-coach/internal/store"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubScorer struct {
	result scoring.Result
	calls  int
}

func (s *stubScorer) Score(string) scoring.Result {
	s.calls++
	return s.result
}

type stubRefiner struct {
	verdict *ai.Verdict
	err     error
	calls   int
}

func (s *stubRefiner) Refine(context.Context, string, scoring.Result) (*ai.Verdict, error) {
	s.calls++
	return s.verdict, s.err
}

func localFixture() scoring.Result {
	return scoring.Result{
		Score:       58,
		Strengths:   []string{"local strength"},
		Weaknesses:  []string{"local weakness"},
		Suggestions: []scoring.Suggestion{{Title: "local", Priority: scoring.PriorityLow}},
		Checks:      []scoring.CheckResult{{Name: "contact", Points: 8, Max: 15}},
	}
}

func TestAnalyzeLocalOnlyNeverCallsRefiner(t *testing.T) {
	scorer := &stubScorer{result: localFixture()}
	refiner := &stubRefiner{verdict: &ai.Verdict{AIScore: 99}}

	o := NewOrchestrator(scorer, refiner, ModeLocalOnly, zap.NewNop())
	out, err := o.Analyze(context.Background(), "resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if refiner.calls != 0 {
		t.Fatalf("expected zero refiner calls, got %d", refiner.calls)
	}
	if out.AIStatus != store.AIStatusSkipped {
		t.Fatalf("expected skipped, got %q", out.AIStatus)
	}
	if out.AIScore != nil {
		t.Fatalf("expected no ai score, got %v", *out.AIScore)
	}
	if out.FinalScore != 58 || out.LocalScore != 58 {
		t.Fatalf("expected local score to be final, got %+v", out)
	}
}

func TestAnalyzeLocalOnlyWithoutRefiner(t *testing.T) {
	o := NewOrchestrator(&stubScorer{result: localFixture()}, nil, ModeLocalOnly, nil)
	if err := o.Ready(); err != nil {
		t.Fatalf("local mode needs no provider: %v", err)
	}
	if _, err := o.Analyze(context.Background(), "resume"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestAnalyzeMandatoryFailureIsNotDegraded(t *testing.T) {
	cases := []struct {
		name    string
		refiner *stubRefiner
		kind    apperr.Kind
	}{
		{name: "upstream error", refiner: &stubRefiner{err: apperr.AIUnavailable(errors.New("timeout"))}, kind: apperr.KindAIUnavailable},
		{name: "foreign error", refiner: &stubRefiner{err: context.DeadlineExceeded}, kind: apperr.KindAIUnavailable},
		{name: "nil verdict", refiner: &stubRefiner{}, kind: apperr.KindAIUnavailable},
		{name: "misconfigured provider", refiner: &stubRefiner{err: apperr.AIMisconfigured(ai.ErrNotConfigured)}, kind: apperr.KindAIMisconfigured},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			o := NewOrchestrator(&stubScorer{result: localFixture()}, tc.refiner, ModeMandatoryAI, zap.NewNop())

			out, err := o.Analyze(context.Background(), "resume")
			if out != nil {
				t.Fatalf("expected no result, got %+v", out)
			}
			if got := apperr.KindOf(err); got != tc.kind {
				t.Fatalf("expected %s, got %s (%v)", tc.kind, got, err)
			}
			if tc.refiner.calls != 1 {
				t.Fatalf("expected a single attempt, got %d", tc.refiner.calls)
			}
		})
	}
}

func TestAnalyzeMandatoryPassesMisconfigurationThrough(t *testing.T) {
	misconfigured := apperr.AIMisconfigured(ai.ErrNotConfigured)
	o := NewOrchestrator(&stubScorer{result: localFixture()}, &stubRefiner{err: misconfigured}, ModeMandatoryAI, zap.NewNop())

	_, err := o.Analyze(context.Background(), "resume")
	if err != error(misconfigured) {
		t.Fatalf("expected the refiner error unchanged, got %v", err)
	}
	if !errors.Is(err, ai.ErrNotConfigured) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
}

func TestAnalyzeMandatoryWithoutRefinerFailsFast(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	scorer := &stubScorer{result: localFixture()}

	o := NewOrchestrator(scorer, nil, ModeMandatoryAI, zap.New(core))
	if !errors.Is(o.Ready(), apperr.ErrAIMisconfigured) {
		t.Fatalf("expected Ready to report misconfiguration, got %v", o.Ready())
	}
	if logs.Len() != 1 {
		t.Fatalf("expected misconfiguration to be logged once at construction, got %d", logs.Len())
	}

	for i := 0; i < 2; i++ {
		if _, err := o.Analyze(context.Background(), "resume"); !errors.Is(err, apperr.ErrAIMisconfigured) {
			t.Fatalf("expected AI_MISCONFIGURED, got %v", err)
		}
	}
	if scorer.calls != 0 {
		t.Fatalf("expected no work for a misconfigured pipeline, got %d scorer calls", scorer.calls)
	}
}

func TestAnalyzeMandatoryMerge(t *testing.T) {
	verdict := &ai.Verdict{
		AIScore:                81,
		Summary:                "Good",
		Strengths:              []string{"ai strength"},
		ImprovementSuggestions: []string{"add a summary"},
		Rewrites:               []scoring.Suggestion{{Title: "ai", After: "better", Priority: scoring.PriorityHigh}},
		Confidence:             ai.ConfidenceHigh,
	}
	o := NewOrchestrator(&stubScorer{result: localFixture()}, &stubRefiner{verdict: verdict}, ModeMandatoryAI, zap.NewNop())

	out, err := o.Analyze(context.Background(), "resume")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if out.AIStatus != store.AIStatusSuccess {
		t.Fatalf("expected success, got %q", out.AIStatus)
	}
	if out.AIScore == nil || *out.AIScore != 81 || out.FinalScore != 81 {
		t.Fatalf("expected final score from ai, got %+v", out)
	}
	if out.LocalScore != 58 {
		t.Fatalf("expected local score kept, got %d", out.LocalScore)
	}
	if !reflect.DeepEqual(out.Strengths, []string{"ai strength"}) {
		t.Fatalf("expected ai strengths, got %v", out.Strengths)
	}
	if !reflect.DeepEqual(out.Weaknesses, []string{"local weakness"}) {
		t.Fatalf("expected local weaknesses when ai has none, got %v", out.Weaknesses)
	}
	if len(out.Suggestions) != 1 || out.Suggestions[0].Title != "ai" {
		t.Fatalf("expected ai rewrites, got %+v", out.Suggestions)
	}
	if out.Summary != "Good" || out.Confidence != ai.ConfidenceHigh {
		t.Fatalf("expected ai extras, got %+v", out)
	}
}

func TestModeFromFlag(t *testing.T) {
	if ModeFromFlag(true) != ModeMandatoryAI || ModeFromFlag(false) != ModeLocalOnly {
		t.Fatalf("unexpected mode mapping")
	}
	if ModeMandatoryAI.String() != "mandatory-ai" {
		t.Fatalf("unexpected mode name %q", ModeMandatoryAI.String())
	}
}
