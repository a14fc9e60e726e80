package scoring

// Priority ranks a rewrite suggestion.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

func (p Priority) rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	default:
		return 2
	}
}

// Suggestion is a concrete rewrite proposal.
type Suggestion struct {
	Title    string   `json:"title"`
	Before   string   `json:"before"`
	After    string   `json:"after"`
	Priority Priority `json:"priority"`
}

// CheckResult is the per-check breakdown of a local score.
type CheckResult struct {
	Name   string `json:"name"`
	Points int    `json:"points"`
	Max    int    `json:"max"`
}

// Result is the output of the local scorer.
type Result struct {
	Score       int           `json:"localScore"`
	Strengths   []string      `json:"strengths"`
	Weaknesses  []string      `json:"weaknesses"`
	Suggestions []Suggestion  `json:"suggestions"`
	Checks      []CheckResult `json:"checks"`
}
