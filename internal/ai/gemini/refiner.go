package gemini

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/mitchellh/mapstructure"
	"github.com/spigell/resume-coach/internal/ai"
	"github.com/spigell/resume-coach/internal/apperr"
	"github.com/spigell/resume-coach/internal/logger"
	"github.com/spigell/resume-coach/internal/scoring"
	"go.uber.org/zap"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, req Request) (string, error)
}

//go:embed refine_prompt.md
var refinePromptTemplate string

const defaultMaxLogLength = 200

// Refiner asks Gemini for a verdict on a resume that already has a local score.
type Refiner struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Refiner = (*Refiner)(nil)

func NewRefiner(generator contentGenerator, log *zap.Logger, maxLogLength int) *Refiner {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Refiner{
		generator: generator,
		logger:    logger.OrNop(log),
		maxLogLen: maxLogLength,
	}
}

// Refine makes a single generation call. Any failure, including an unusable
// payload, is reported as AI_UNAVAILABLE.
func (r *Refiner) Refine(ctx context.Context, resumeText string, local scoring.Result) (*ai.Verdict, error) {
	if r == nil || r.generator == nil {
		return nil, apperr.AIMisconfigured(ai.ErrNotConfigured)
	}

	localJSON, err := json.MarshalIndent(local, "", "  ")
	if err != nil {
		return nil, apperr.Internal(fmt.Errorf("marshal local analysis: %w", err))
	}

	prompt := buildRefinePrompt(resumeText, string(localJSON))

	r.logger.Debug("gemini refine request",
		zap.Int("local_score", local.Score),
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("prompt_preview", logger.TruncateForLog(prompt, r.maxLogLen)),
	)

	raw, err := r.generator.GenerateContent(ctx, Request{Prompt: prompt, JSON: true})
	if err != nil {
		r.logger.Warn("gemini refine failed", zap.Error(err))
		return nil, apperr.AIUnavailable(err)
	}

	r.logger.Debug("gemini refine response",
		zap.Int("response_length", utf8.RuneCountInString(raw)),
		zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
	)

	verdict, err := parseVerdict(raw)
	if err != nil {
		r.logger.Warn("gemini refine returned unusable payload",
			zap.Error(err),
			zap.String("response_preview", logger.TruncateForLog(raw, r.maxLogLen)),
		)
		return nil, apperr.AIUnavailable(err)
	}

	verdict.Raw = raw
	return verdict, nil
}

func buildRefinePrompt(resumeText, localJSON string) string {
	template := refinePromptTemplate
	if strings.TrimSpace(template) == "" {
		template = "Local analysis:\n{{LOCAL_ANALYSIS_JSON}}\n\nResume:\n{{RESUME_TEXT}}\n\nJSON Response:"
	}
	// The resume goes in last so that placeholders inside it are left alone.
	prompt := strings.ReplaceAll(template, "{{LOCAL_ANALYSIS_JSON}}", localJSON)
	prompt = strings.ReplaceAll(prompt, "{{RESUME_TEXT}}", strings.TrimSpace(resumeText))
	return prompt
}

type verdictPayload struct {
	AIScore                *float64         `json:"aiScore"`
	Summary                string           `json:"summary"`
	Strengths              []string         `json:"strengths"`
	Weaknesses             []string         `json:"weaknesses"`
	ImprovementSuggestions []string         `json:"improvementSuggestions"`
	Rewrites               []rewritePayload `json:"beforeAfterRewrites"`
	Confidence             string           `json:"confidenceLevel"`
}

type rewritePayload struct {
	Title    string `json:"title"`
	Before   string `json:"before"`
	After    string `json:"after"`
	Priority string `json:"priority"`
}

func parseVerdict(raw string) (*ai.Verdict, error) {
	cleaned := extractJSON(raw)

	var data map[string]any
	if err := json.Unmarshal([]byte(cleaned), &data); err != nil {
		return nil, fmt.Errorf("parse gemini response: %w", err)
	}

	var payload verdictPayload
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		TagName:          "json",
		WeaklyTypedInput: true,
		Result:           &payload,
	})
	if err != nil {
		return nil, fmt.Errorf("create decoder: %w", err)
	}
	if err := decoder.Decode(data); err != nil {
		return nil, fmt.Errorf("decode gemini response: %w", err)
	}

	if payload.AIScore == nil {
		return nil, errors.New("gemini response has no aiScore")
	}
	score := *payload.AIScore
	if math.IsNaN(score) || score < 0 || score > 100 {
		return nil, fmt.Errorf("gemini aiScore %v is out of range", score)
	}

	verdict := &ai.Verdict{
		AIScore:                int(math.Round(score)),
		Summary:                strings.TrimSpace(payload.Summary),
		Strengths:              cleanList(payload.Strengths),
		Weaknesses:             cleanList(payload.Weaknesses),
		ImprovementSuggestions: cleanList(payload.ImprovementSuggestions),
		Rewrites:               make([]scoring.Suggestion, 0, len(payload.Rewrites)),
		Confidence:             normalizeConfidence(payload.Confidence),
	}

	for _, rw := range payload.Rewrites {
		after := strings.TrimSpace(rw.After)
		if after == "" {
			continue
		}
		verdict.Rewrites = append(verdict.Rewrites, scoring.Suggestion{
			Title:    strings.TrimSpace(rw.Title),
			Before:   strings.TrimSpace(rw.Before),
			After:    after,
			Priority: normalizePriority(rw.Priority),
		})
	}

	return verdict, nil
}

func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	return strings.TrimSpace(raw)
}

func cleanList(items []string) []string {
	result := make([]string, 0, len(items))
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			result = append(result, item)
		}
	}
	return result
}

func normalizePriority(p string) scoring.Priority {
	priority := scoring.Priority(strings.ToUpper(strings.TrimSpace(p)))
	if !priority.Valid() {
		return scoring.PriorityMedium
	}
	return priority
}

func normalizeConfidence(c string) ai.Confidence {
	switch confidence := ai.Confidence(strings.ToLower(strings.TrimSpace(c))); confidence {
	case ai.ConfidenceLow, ai.ConfidenceMedium, ai.ConfidenceHigh:
		return confidence
	default:
		return ai.ConfidenceMedium
	}
}
