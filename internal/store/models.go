package store

import (
	"time"

	"github.com/spigell/resume-coach/internal/scoring"
	"gorm.io/datatypes"
)

// AIStatus records what the AI stage did for an analysis.
type AIStatus string

const (
	AIStatusSuccess AIStatus = "success"
	// AIStatusFallback is only present on records written before AI failures
	// became hard errors. New records never carry it.
	AIStatusFallback AIStatus = "fallback"
	AIStatusSkipped  AIStatus = "skipped"
)

// AnalysisRecord is an immutable scoring result owned by a user.
type AnalysisRecord struct {
	ID          string                                  `gorm:"primaryKey;size:36" json:"id"`
	UserID      string                                  `gorm:"size:128;not null;index:idx_analysis_user_created,priority:1" json:"userId"`
	CreatedAt   time.Time                               `gorm:"not null;index:idx_analysis_user_created,priority:2" json:"createdAt"`
	LocalScore  int                                     `gorm:"not null" json:"localScore"`
	AIScore     *int                                    `json:"aiScore,omitempty"`
	FinalScore  int                                     `gorm:"not null" json:"finalScore"`
	Strengths   datatypes.JSONSlice[string]             `json:"strengths"`
	Weaknesses  datatypes.JSONSlice[string]             `json:"weaknesses"`
	Suggestions datatypes.JSONSlice[scoring.Suggestion] `json:"suggestions"`
	AIStatus    AIStatus                                `gorm:"size:16;not null" json:"aiStatus"`
}

func (AnalysisRecord) TableName() string { return "analysis_records" }

// BadgeDefinition is a statically defined achievement. RuleKind and Threshold
// describe its unlock predicate.
type BadgeDefinition struct {
	ID          uint   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Slug        string `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Name        string `gorm:"size:128;not null" json:"name"`
	Description string `gorm:"size:512" json:"description"`
	RuleKind    string `gorm:"size:64;not null" json:"ruleKind"`
	Threshold   int    `gorm:"not null" json:"threshold"`
}

func (BadgeDefinition) TableName() string { return "badge_definitions" }

// UserBadge is the append-only unlock fact. The composite primary key makes
// (user, badge) unique.
type UserBadge struct {
	UserID   string    `gorm:"primaryKey;size:128" json:"userId"`
	BadgeID  uint      `gorm:"primaryKey;autoIncrement:false" json:"badgeId"`
	EarnedAt time.Time `gorm:"not null" json:"earnedAt"`
}

func (UserBadge) TableName() string { return "user_badges" }

// Models lists every table managed by Migrate.
func Models() []any {
	return []any{&AnalysisRecord{}, &BadgeDefinition{}, &UserBadge{}}
}
