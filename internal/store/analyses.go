package store

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

// AnalysisRepository stores analysis records. Records are never updated.
type AnalysisRepository struct {
	db *gorm.DB
}

func NewAnalysisRepository(db *gorm.DB) *AnalysisRepository {
	return &AnalysisRepository{db: db}
}

func (r *AnalysisRepository) Create(ctx context.Context, record *AnalysisRecord) error {
	if record == nil {
		return errors.New("analysis record is required")
	}
	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return fmt.Errorf("create analysis record: %w", err)
	}
	return nil
}

// ListByUser returns the newest records first.
func (r *AnalysisRepository) ListByUser(ctx context.Context, userID string, limit int) ([]AnalysisRecord, error) {
	var records []AnalysisRecord
	q := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list analysis records: %w", err)
	}
	return records, nil
}

// History returns the user's full history oldest first.
func (r *AnalysisRepository) History(ctx context.Context, userID string) ([]AnalysisRecord, error) {
	var records []AnalysisRecord
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Order("id ASC").
		Find(&records).Error
	if err != nil {
		return nil, fmt.Errorf("load analysis history: %w", err)
	}
	return records, nil
}
