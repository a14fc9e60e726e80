package analysis

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/spigell/resume-coach/internal/ai"
	"github.com/spigell/resume-coach/internal/apperr"
	"github.com/spigell/resume-coach/internal/logger"
	"github.com/spigell/resume-coach/internal/scoring"
	"github.com/spigell/resume-coach/internal/store"
	"go.uber.org/zap"
	"gorm.io/datatypes"
)

const (
	MaxResumeRunes = 50_000

	DefaultHistoryLimit = 20
	MaxHistoryLimit     = 100
)

// Recorder persists analysis records.
type Recorder interface {
	Create(ctx context.Context, record *store.AnalysisRecord) error
	ListByUser(ctx context.Context, userID string, limit int) ([]store.AnalysisRecord, error)
}

// Submission is a stored record plus the AI extras that are not persisted.
type Submission struct {
	store.AnalysisRecord
	Summary                string                `json:"summary,omitempty"`
	ImprovementSuggestions []string              `json:"improvementSuggestions,omitempty"`
	Confidence             ai.Confidence         `json:"confidenceLevel,omitempty"`
	Checks                 []scoring.CheckResult `json:"checks"`
}

type Service struct {
	orchestrator *Orchestrator
	records      Recorder
	logger       *zap.Logger
	now          func() time.Time
	newID        func() string
}

func NewService(orchestrator *Orchestrator, records Recorder, log *zap.Logger) *Service {
	return &Service{
		orchestrator: orchestrator,
		records:      records,
		logger:       logger.OrNop(log),
		now:          func() time.Time { return time.Now().UTC() },
		newID:        uuid.NewString,
	}
}

// Submit scores resumeText and stores the result. Nothing is stored when the
// pipeline fails.
func (s *Service) Submit(ctx context.Context, userID, resumeText string) (*Submission, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	if strings.TrimSpace(resumeText) == "" {
		return nil, apperr.Validation("resume text is required")
	}
	if utf8.RuneCountInString(resumeText) > MaxResumeRunes {
		return nil, apperr.Validation("resume text is too long")
	}

	log := logger.WithUser(s.logger, userID)

	outcome, err := s.orchestrator.Analyze(ctx, resumeText)
	if err != nil {
		return nil, err
	}

	record := store.AnalysisRecord{
		ID:          s.newID(),
		UserID:      userID,
		CreatedAt:   s.now(),
		LocalScore:  outcome.LocalScore,
		AIScore:     outcome.AIScore,
		FinalScore:  outcome.FinalScore,
		Strengths:   datatypes.JSONSlice[string](outcome.Strengths),
		Weaknesses:  datatypes.JSONSlice[string](outcome.Weaknesses),
		Suggestions: datatypes.JSONSlice[scoring.Suggestion](outcome.Suggestions),
		AIStatus:    outcome.AIStatus,
	}

	if err := s.records.Create(ctx, &record); err != nil {
		log.Error("store analysis", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	log.Info("analysis stored",
		zap.String(logger.FieldAnalysisID, record.ID),
		zap.Int("final_score", record.FinalScore),
		zap.String("ai_status", string(record.AIStatus)),
	)

	sub := &Submission{
		AnalysisRecord:         record,
		Summary:                outcome.Summary,
		ImprovementSuggestions: outcome.ImprovementSuggestions,
		Confidence:             outcome.Confidence,
		Checks:                 outcome.Checks,
	}

	return sub, nil
}

// History lists the user's records newest first. limit is clamped to
// [1, MaxHistoryLimit] and defaults to DefaultHistoryLimit.
func (s *Service) History(ctx context.Context, userID string, limit int) ([]store.AnalysisRecord, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}

	if limit <= 0 {
		limit = DefaultHistoryLimit
	}
	limit = min(limit, MaxHistoryLimit)

	records, err := s.records.ListByUser(ctx, userID, limit)
	if err != nil {
		logger.WithUser(s.logger, userID).Error("list analyses", zap.Error(err))
		return nil, apperr.Internal(err)
	}
	if records == nil {
		records = []store.AnalysisRecord{}
	}
	return records, nil
}
