// Package help serves the static help topics.
package help

import (
	"strings"

	"github.com/spigell/resume-coach/internal/apperr"
)

type Topic struct {
	Key     string   `json:"topic"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
	Related []string `json:"related"`
}

// order is the listing order of topic keys.
var order = []string{"scoring", "ai-review", "achievements", "suggestions", "privacy"}

var topics = map[string]Topic{
	"scoring": {
		Title:   "How scoring works",
		Content: "Every resume gets a local score from 0 to 100 based on contact details, core sections, quantified impact, action verbs, length and structure. The breakdown shows how many points each check earned.",
		Related: []string{"ai-review", "suggestions"},
	},
	"ai-review": {
		Title:   "AI review",
		Content: "When AI review is enabled, a language model refines the local result and its score becomes the final score. If the model cannot be reached the analysis fails instead of returning a partial result, so try again later.",
		Related: []string{"scoring", "privacy"},
	},
	"achievements": {
		Title:   "Achievements",
		Content: "Badges unlock from your analysis history, for example your first analysis, reaching a score of 90 or analyzing a resume three weeks in a row. Once earned, a badge stays earned.",
		Related: []string{"scoring"},
	},
	"suggestions": {
		Title:   "Rewrite suggestions",
		Content: "Suggestions show a line from your resume and an improved version. HIGH priority items usually move the score the most.",
		Related: []string{"scoring", "ai-review"},
	},
	"privacy": {
		Title:   "Privacy",
		Content: "Resume text is sent to the AI provider only when AI review is enabled. Only scores and feedback are stored with your account; the resume text itself is not kept.",
		Related: []string{"ai-review"},
	},
}

// Keys lists the known topic keys.
func Keys() []string {
	return append([]string(nil), order...)
}

// Lookup returns the topic for key. Unknown keys are a validation error.
func Lookup(key string) (Topic, error) {
	key = strings.ToLower(strings.TrimSpace(key))
	t, ok := topics[key]
	if !ok {
		return Topic{}, apperr.Validation("unknown help topic")
	}
	t.Key = key
	t.Related = append([]string(nil), t.Related...)
	return t, nil
}
