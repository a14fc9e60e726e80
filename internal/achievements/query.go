package achievements

import (
	"context"
	"math"
	"strings"
	"time"

	"github.com/spigell/resume-coach/internal/apperr"
	"github.com/spigell/resume-coach/internal/logger"
	"github.com/spigell/resume-coach/internal/store"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// BadgeReader is the read side of the badge store.
type BadgeReader interface {
	Definitions(ctx context.Context) ([]store.BadgeDefinition, error)
	Earned(ctx context.Context, userID string) ([]store.UserBadge, error)
}

// Entry is a badge annotated with the user's status.
type Entry struct {
	Badge    store.BadgeDefinition `json:"badge"`
	Earned   bool                  `json:"earned"`
	EarnedAt *time.Time            `json:"earnedAt,omitempty"`
}

type Summary struct {
	Total          int     `json:"total"`
	Earned         int     `json:"earned"`
	CompletionRate float64 `json:"completionRate"`
}

// QueryService never writes.
type QueryService struct {
	badges BadgeReader
	logger *zap.Logger
}

func NewQueryService(badges BadgeReader, log *zap.Logger) *QueryService {
	return &QueryService{badges: badges, logger: logger.OrNop(log)}
}

// ListForUser returns every badge ordered by definition id.
func (q *QueryService) ListForUser(ctx context.Context, userID string) ([]Entry, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, apperr.Validation("user id is required")
	}

	var (
		defs   []store.BadgeDefinition
		earned []store.UserBadge
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		defs, err = q.badges.Definitions(gctx)
		return err
	})
	g.Go(func() (err error) {
		earned, err = q.badges.Earned(gctx, userID)
		return err
	})
	if err := g.Wait(); err != nil {
		logger.WithUser(q.logger, userID).Error("list achievements", zap.Error(err))
		return nil, apperr.Internal(err)
	}

	earnedAt := make(map[uint]time.Time, len(earned))
	for _, ub := range earned {
		earnedAt[ub.BadgeID] = ub.EarnedAt
	}

	entries := make([]Entry, 0, len(defs))
	for _, def := range defs {
		entry := Entry{Badge: def}
		if at, ok := earnedAt[def.ID]; ok {
			at := at
			entry.Earned = true
			entry.EarnedAt = &at
		}
		entries = append(entries, entry)
	}

	return entries, nil
}

// EarnedForUser returns only the earned entries, ordered by definition id.
func (q *QueryService) EarnedForUser(ctx context.Context, userID string) ([]Entry, error) {
	entries, err := q.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	earned := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if e.Earned {
			earned = append(earned, e)
		}
	}
	return earned, nil
}

// Summarize counts earned entries. CompletionRate is a percentage rounded to
// two decimals and 0 for an empty list.
func Summarize(entries []Entry) Summary {
	s := Summary{Total: len(entries)}
	for _, e := range entries {
		if e.Earned {
			s.Earned++
		}
	}
	if s.Total == 0 {
		return s
	}
	s.CompletionRate = math.Round(float64(s.Earned)/float64(s.Total)*100*100) / 100
	return s
}
