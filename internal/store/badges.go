package store

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BadgeRepository struct {
	db *gorm.DB
}

func NewBadgeRepository(db *gorm.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

// Definitions returns every badge ordered by id.
func (r *BadgeRepository) Definitions(ctx context.Context) ([]BadgeDefinition, error) {
	var defs []BadgeDefinition
	if err := r.db.WithContext(ctx).Order("id ASC").Find(&defs).Error; err != nil {
		return nil, fmt.Errorf("list badge definitions: %w", err)
	}
	return defs, nil
}

// Earned returns the user's unlocks ordered by badge id.
func (r *BadgeRepository) Earned(ctx context.Context, userID string) ([]UserBadge, error) {
	var badges []UserBadge
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("badge_id ASC").
		Find(&badges).Error
	if err != nil {
		return nil, fmt.Errorf("list user badges: %w", err)
	}
	return badges, nil
}

// Award inserts unlock facts in one transaction and returns the badge ids that
// this call inserted. Rows that already exist, including ones written by a
// concurrent caller, are skipped without error.
func (r *BadgeRepository) Award(ctx context.Context, userID string, badgeIDs []uint, earnedAt time.Time) ([]uint, error) {
	if len(badgeIDs) == 0 {
		return nil, nil
	}

	var inserted []uint
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range badgeIDs {
			res := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}, {Name: "badge_id"}},
				DoNothing: true,
			}).Create(&UserBadge{UserID: userID, BadgeID: id, EarnedAt: earnedAt})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 1 {
				inserted = append(inserted, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("award badges: %w", err)
	}

	return inserted, nil
}
