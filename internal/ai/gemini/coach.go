package gemini

import (
	"context"
	"strings"
	"unicode/utf8"

	_ "embed"

	"github.com/spigell/resume-coach/internal/ai"
	"github.com/spigell/resume-coach/internal/apperr"
	"github.com/spigell/resume-coach/internal/logger"
	"go.uber.org/zap"
)

//go:embed coach_prompt.md
var coachPromptTemplate string

const maxQuestionRunes = 2000

// Coach answers follow-up questions about an analysis.
type Coach struct {
	generator contentGenerator
	logger    *zap.Logger
	maxLogLen int
}

var _ ai.Coach = (*Coach)(nil)

func NewCoach(generator contentGenerator, log *zap.Logger, maxLogLength int) *Coach {
	if maxLogLength <= 0 {
		maxLogLength = defaultMaxLogLength
	}

	return &Coach{
		generator: generator,
		logger:    logger.OrNop(log),
		maxLogLen: maxLogLength,
	}
}

func (c *Coach) Answer(ctx context.Context, message, analysisJSON string) (string, error) {
	if c == nil || c.generator == nil {
		return "", apperr.AIMisconfigured(ai.ErrNotConfigured)
	}

	message = strings.TrimSpace(message)
	if message == "" {
		return "", apperr.Validation("message is required")
	}
	if runes := []rune(message); len(runes) > maxQuestionRunes {
		message = string(runes[:maxQuestionRunes])
	}

	analysisJSON = strings.TrimSpace(analysisJSON)
	if analysisJSON == "" {
		analysisJSON = "{}"
	}

	prompt := strings.NewReplacer(
		"{{ANALYSIS_JSON}}", analysisJSON,
		"{{QUESTION}}", message,
	).Replace(coachPromptTemplate)

	c.logger.Debug("gemini coach request",
		zap.Int("prompt_length", utf8.RuneCountInString(prompt)),
		zap.String("question_preview", logger.TruncateForLog(message, c.maxLogLen)),
	)

	answer, err := c.generator.GenerateContent(ctx, Request{Prompt: prompt})
	if err != nil {
		c.logger.Warn("gemini coach failed", zap.Error(err))
		return "", apperr.AIUnavailable(err)
	}

	c.logger.Debug("gemini coach response",
		zap.Int("response_length", utf8.RuneCountInString(answer)),
		zap.String("response_preview", logger.TruncateForLog(answer, c.maxLogLen)),
	)

	return strings.TrimSpace(answer), nil
}
