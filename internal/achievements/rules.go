package achievements

import (
	"sort"
	"time"

	"github.com/spigell/resume-coach/internal/store"
)

// RuleKind names an unlock predicate.
type RuleKind string

const (
	RuleAnalysesCompleted RuleKind = "analyses_completed"
	RuleScoreAtLeast      RuleKind = "score_at_least"
	RuleConsecutiveWeeks  RuleKind = "consecutive_weeks"
	RuleScoreImprovement  RuleKind = "score_improvement"
	RuleAIReviewed        RuleKind = "ai_reviewed"
)

// rule reports whether a history satisfies the predicate for threshold.
// History is ordered oldest first.
type rule func(history []store.AnalysisRecord, threshold int) bool

var rules = map[RuleKind]rule{
	RuleAnalysesCompleted: analysesCompleted,
	RuleScoreAtLeast:      scoreAtLeast,
	RuleConsecutiveWeeks:  consecutiveWeeks,
	RuleScoreImprovement:  scoreImprovement,
	RuleAIReviewed:        aiReviewed,
}

// KnownRule reports whether kind has an evaluator.
func KnownRule(kind string) bool {
	_, ok := rules[RuleKind(kind)]
	return ok
}

// Qualifies evaluates def's unlock rule against history. Unknown rule kinds never qualify.
func Qualifies(def store.BadgeDefinition, history []store.AnalysisRecord) bool {
	eval, ok := rules[RuleKind(def.RuleKind)]
	if !ok {
		return false
	}
	return eval(chronological(history), def.Threshold)
}

func chronological(history []store.AnalysisRecord) []store.AnalysisRecord {
	if sort.SliceIsSorted(history, func(i, j int) bool { return history[i].CreatedAt.Before(history[j].CreatedAt) }) {
		return history
	}
	sorted := append([]store.AnalysisRecord(nil), history...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].CreatedAt.Before(sorted[j].CreatedAt) })
	return sorted
}

func analysesCompleted(history []store.AnalysisRecord, threshold int) bool {
	return len(history) >= max(threshold, 1)
}

func scoreAtLeast(history []store.AnalysisRecord, threshold int) bool {
	for _, r := range history {
		if r.FinalScore >= threshold {
			return true
		}
	}
	return false
}

// consecutiveWeeks looks for activity in threshold consecutive UTC weeks starting on Monday.
func consecutiveWeeks(history []store.AnalysisRecord, threshold int) bool {
	threshold = max(threshold, 1)

	weeks := make(map[time.Time]struct{}, len(history))
	for _, r := range history {
		weeks[weekStart(r.CreatedAt)] = struct{}{}
	}

	starts := make([]time.Time, 0, len(weeks))
	for w := range weeks {
		starts = append(starts, w)
	}
	sort.Slice(starts, func(i, j int) bool { return starts[i].Before(starts[j]) })

	run := 0
	for i, w := range starts {
		if i > 0 && w.Sub(starts[i-1]) == 7*24*time.Hour {
			run++
		} else {
			run = 1
		}
		if run >= threshold {
			return true
		}
	}
	return false
}

func weekStart(t time.Time) time.Time {
	t = t.UTC()
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

// scoreImprovement is satisfied when a record beats an earlier record by threshold points.
func scoreImprovement(history []store.AnalysisRecord, threshold int) bool {
	threshold = max(threshold, 1)
	if len(history) < 2 {
		return false
	}

	lowest := history[0].FinalScore
	for _, r := range history[1:] {
		if r.FinalScore-lowest >= threshold {
			return true
		}
		lowest = min(lowest, r.FinalScore)
	}
	return false
}

func aiReviewed(history []store.AnalysisRecord, threshold int) bool {
	threshold = max(threshold, 1)
	count := 0
	for _, r := range history {
		if r.AIStatus == store.AIStatusSuccess {
			count++
			if count >= threshold {
				return true
			}
		}
	}
	return false
}
