package gemini

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/spigell/resume-coach/internal/ai"
	"github.com/spigell/resume-coach/internal/apperr"
	"github.com/spigell/resume-coach/internal/scoring"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type stubGenerator struct {
	response string
	err      error
	calls    int
	last     Request
}

func (s *stubGenerator) GenerateContent(_ context.Context, req Request) (string, error) {
	s.calls++
	s.last = req
	if s.err != nil {
		return "", s.err
	}
	return s.response, nil
}

var localResult = scoring.Result{
	Score:      61,
	Strengths:  []string{"Has clear sections: experience"},
	Weaknesses: []string{"No phone number found"},
}

func TestRefinerRefine(t *testing.T) {
	stub := &stubGenerator{response: `{
		"aiScore": 78,
		"summary": "Solid backend resume",
		"strengths": ["Clear impact", "  "],
		"weaknesses": ["No summary"],
		"improvementSuggestions": ["Add a summary"],
		"beforeAfterRewrites": [
			{"title": "Quantify", "before": "Built API", "after": "Built API serving 2M users", "priority": "high"},
			{"title": "Empty", "before": "x", "after": ""}
		],
		"confidenceLevel": "HIGH"
	}`}
	refiner := NewRefiner(stub, zap.NewNop(), 0)

	verdict, err := refiner.Refine(context.Background(), "Jane Doe\nExperience", localResult)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if stub.calls != 1 {
		t.Fatalf("expected exactly one generator call, got %d", stub.calls)
	}
	if !stub.last.JSON {
		t.Fatalf("expected a JSON response to be requested")
	}
	if !strings.Contains(stub.last.Prompt, "Jane Doe\nExperience") {
		t.Fatalf("expected resume text in prompt")
	}
	if !strings.Contains(stub.last.Prompt, `"localScore": 61`) {
		t.Fatalf("expected local analysis in prompt, got: %s", stub.last.Prompt)
	}

	if verdict.AIScore != 78 {
		t.Fatalf("expected score 78, got %d", verdict.AIScore)
	}
	if len(verdict.Strengths) != 1 || verdict.Strengths[0] != "Clear impact" {
		t.Fatalf("unexpected strengths: %v", verdict.Strengths)
	}
	if len(verdict.Rewrites) != 1 {
		t.Fatalf("expected rewrites without an after line to be dropped, got %+v", verdict.Rewrites)
	}
	if verdict.Rewrites[0].Priority != scoring.PriorityHigh {
		t.Fatalf("expected normalized priority, got %q", verdict.Rewrites[0].Priority)
	}
	if verdict.Confidence != ai.ConfidenceHigh {
		t.Fatalf("expected high confidence, got %q", verdict.Confidence)
	}
	if verdict.Raw == "" {
		t.Fatalf("expected raw response to be kept")
	}
}

func TestRefinerAcceptsLooseJSON(t *testing.T) {
	stub := &stubGenerator{response: "```json\n{\"aiScore\": \"86.6\", \"strengths\": \"Concise\", \"confidenceLevel\": \"sure\"}\n```"}

	verdict, err := NewRefiner(stub, nil, 0).Refine(context.Background(), "resume", localResult)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if verdict.AIScore != 87 {
		t.Fatalf("expected rounded score 87, got %d", verdict.AIScore)
	}
	if len(verdict.Strengths) != 1 || verdict.Strengths[0] != "Concise" {
		t.Fatalf("expected single string lifted into a list, got %v", verdict.Strengths)
	}
	if verdict.Confidence != ai.ConfidenceMedium {
		t.Fatalf("expected unknown confidence to default to medium, got %q", verdict.Confidence)
	}
	if verdict.Weaknesses == nil || verdict.Rewrites == nil {
		t.Fatalf("expected empty lists instead of nil")
	}
}

func TestRefinerFailures(t *testing.T) {
	cases := []struct {
		name string
		stub *stubGenerator
	}{
		{name: "generator error", stub: &stubGenerator{err: errors.New("deadline exceeded")}},
		{name: "garbage", stub: &stubGenerator{response: "I think this resume is great!"}},
		{name: "missing score", stub: &stubGenerator{response: `{"summary": "ok"}`}},
		{name: "score above range", stub: &stubGenerator{response: `{"aiScore": 140}`}},
		{name: "negative score", stub: &stubGenerator{response: `{"aiScore": -3}`}},
		{name: "score not a number", stub: &stubGenerator{response: `{"aiScore": "excellent"}`}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, err := NewRefiner(tc.stub, zap.NewNop(), 0).Refine(context.Background(), "resume", localResult)
			if verdict != nil {
				t.Fatalf("expected no verdict, got %+v", verdict)
			}
			if !errors.Is(err, apperr.ErrAIUnavailable) {
				t.Fatalf("expected AI_UNAVAILABLE, got %v", err)
			}
			if tc.stub.calls != 1 {
				t.Fatalf("expected a single attempt, got %d", tc.stub.calls)
			}
		})
	}
}

func TestRefinerWithoutGenerator(t *testing.T) {
	_, err := NewRefiner(nil, zap.NewNop(), 0).Refine(context.Background(), "resume", localResult)
	if !errors.Is(err, apperr.ErrAIMisconfigured) {
		t.Fatalf("expected AI_MISCONFIGURED, got %v", err)
	}
	if !errors.Is(err, ai.ErrNotConfigured) {
		t.Fatalf("expected cause to be kept, got %v", err)
	}
}

func TestRefinerLogsProviderErrorsWithoutLeaking(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	stub := &stubGenerator{err: errors.New("quota exceeded for key AIza-secret")}

	_, err := NewRefiner(stub, zap.New(core), 0).Refine(context.Background(), "resume", localResult)
	if err == nil {
		t.Fatalf("expected an error")
	}

	if got := logs.FilterMessage("gemini refine failed").Len(); got != 1 {
		t.Fatalf("expected failure to be logged once, got %d", got)
	}
	if strings.Contains(apperr.PublicMessage(err), "quota") {
		t.Fatalf("provider error leaked into public message: %q", apperr.PublicMessage(err))
	}
}

func TestExtractJSON(t *testing.T) {
	cases := map[string]string{
		"{\"a\":1}":               "{\"a\":1}",
		"```json\n{\"a\":1}\n```": "{\"a\":1}",
		"```\n{\"a\":1}\n```\n":   "{\"a\":1}",
		"  `{\"a\":1}`  ":         "{\"a\":1}",
	}

	for in, want := range cases {
		if got := extractJSON(in); got != want {
			t.Fatalf("extractJSON(%q) = %q, want %q", in, got, want)
		}
	}
}
