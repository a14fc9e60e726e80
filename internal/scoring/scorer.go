// Package scoring computes a deterministic resume score from text alone.
package scoring

import "sort"

// Scorer evaluates resume text against the check table. It holds no state and
// is safe for concurrent use.
type Scorer struct{}

// NewScorer creates a new scorer instance.
func NewScorer() *Scorer {
	return &Scorer{}
}

// Score never fails: empty or malformed input produces a low score with
// weaknesses that explain why.
func (s *Scorer) Score(resumeText string) Result {
	doc := parseDocument(resumeText)

	res := Result{
		Strengths:   []string{},
		Weaknesses:  []string{},
		Suggestions: []Suggestion{},
		Checks:      make([]CheckResult, 0, len(checks)),
	}

	if doc.empty() {
		res.Weaknesses = append(res.Weaknesses, "No readable resume text was provided")
	}

	for _, c := range checks {
		f := c.evaluate(doc)
		points := max(0, min(f.points, c.max))

		res.Score += points
		res.Checks = append(res.Checks, CheckResult{Name: c.name, Points: points, Max: c.max})
		res.Strengths = append(res.Strengths, f.strengths...)
		res.Weaknesses = append(res.Weaknesses, f.weaknesses...)
		res.Suggestions = append(res.Suggestions, f.suggestions...)
	}

	res.Score = max(0, min(res.Score, 100))

	sort.SliceStable(res.Suggestions, func(i, j int) bool {
		return res.Suggestions[i].Priority.rank() < res.Suggestions[j].Priority.rank()
	})

	return res
}
