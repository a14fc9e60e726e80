// Package achievements awards and lists badges based on a user's analysis history.
package achievements

import (
	"context"
	"strings"
	"time"

	"github.com/spigell/resume-coach/internal/apperr"
	"github.com/spigell/resume-coach/internal/logger"
	"github.com/spigell/resume-coach/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// HistoryReader loads a user's analyses oldest first.
type HistoryReader interface {
	History(ctx context.Context, userID string) ([]store.AnalysisRecord, error)
}

// BadgeStore reads definitions and unlocks, and appends new unlocks.
type BadgeStore interface {
	Definitions(ctx context.Context) ([]store.BadgeDefinition, error)
	Earned(ctx context.Context, userID string) ([]store.UserBadge, error)
	Award(ctx context.Context, userID string, badgeIDs []uint, earnedAt time.Time) ([]uint, error)
}

// Engine evaluates unlock rules and records new badges. It holds no per-user
// state; concurrent calls for the same user rely on the (user, badge)
// uniqueness of the badge store.
type Engine struct {
	history HistoryReader
	badges  BadgeStore
	logger  *zap.Logger
	now     func() time.Time
}

type EngineOption func(*Engine)

// WithClock overrides the time source used for earnedAt.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.now = now
		}
	}
}

func NewEngine(history HistoryReader, badges BadgeStore, log *zap.Logger, opts ...EngineOption) *Engine {
	e := &Engine{
		history: history,
		badges:  badges,
		logger:  logger.OrNop(log),
		now:     func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// CheckAndAward returns the badges unlocked by this call, ordered by id.
// A second call with no new history returns an empty slice.
func (e *Engine) CheckAndAward(ctx context.Context, userID string) ([]store.BadgeDefinition, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}
	log := logger.WithUser(e.logger, userID)

	var (
		history []store.AnalysisRecord
		defs    []store.BadgeDefinition
		earned  []store.UserBadge
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		history, err = e.history.History(gctx, userID)
		return err
	})
	g.Go(func() (err error) {
		defs, err = e.badges.Definitions(gctx)
		return err
	})
	g.Go(func() (err error) {
		earned, err = e.badges.Earned(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		log.Error("load achievement state", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	have := make(map[uint]struct{}, len(earned))
	for _, ub := range earned {
		have[ub.BadgeID] = struct{}{}
	}

	byID := make(map[uint]store.BadgeDefinition, len(defs))
	var candidates []uint
	for _, def := range defs {
		if _, ok := have[def.ID]; ok {
			continue
		}
		if !KnownRule(def.RuleKind) {
			log.Warn("badge has unknown rule kind", zap.Uint("badge_id", def.ID), zap.String("rule_kind", def.RuleKind))
			continue
		}
		if Qualifies(def, history) {
			byID[def.ID] = def
			candidates = append(candidates, def.ID)
		}
	}

	unlocked := []store.BadgeDefinition{}
	if len(candidates) == 0 {
		return unlocked, nil
	}

	inserted, err := e.badges.Award(ctx, userID, candidates, e.now())
	if err != nil {
		log.Error("award badges", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	for _, id := range inserted {
		def := byID[id]
		unlocked = append(unlocked, def)
		log.Info("badge unlocked", zap.Uint("badge_id", def.ID), zap.String("badge", def.Slug))
	}

	return unlocked, nil
}
