package achievements

import "github.com/spigell/resume-coach/internal/store"

// Catalogue returns the built-in badge definitions. Ids are the display order.
func Catalogue() []store.BadgeDefinition {
	return []store.BadgeDefinition{
		{ID: 1, Slug: "first-steps", Name: "First Steps", Description: "Complete your first resume analysis.", RuleKind: string(RuleAnalysesCompleted), Threshold: 1},
		{ID: 2, Slug: "getting-serious", Name: "Getting Serious", Description: "Complete 5 resume analyses.", RuleKind: string(RuleAnalysesCompleted), Threshold: 5},
		{ID: 3, Slug: "solid-draft", Name: "Solid Draft", Description: "Reach a score of 75 or more.", RuleKind: string(RuleScoreAtLeast), Threshold: 75},
		{ID: 4, Slug: "high-achiever", Name: "High Achiever", Description: "Reach a score of 90 or more.", RuleKind: string(RuleScoreAtLeast), Threshold: 90},
		{ID: 5, Slug: "consistent", Name: "Consistent", Description: "Analyze a resume in 3 consecutive weeks.", RuleKind: string(RuleConsecutiveWeeks), Threshold: 3},
		{ID: 6, Slug: "comeback", Name: "Comeback", Description: "Improve your score by 20 points over an earlier analysis.", RuleKind: string(RuleScoreImprovement), Threshold: 20},
		{ID: 7, Slug: "second-opinion", Name: "Second Opinion", Description: "Get a resume reviewed by AI.", RuleKind: string(RuleAIReviewed), Threshold: 1},
		{ID: 8, Slug: "dedicated", Name: "Dedicated", Description: "Complete 20 resume analyses.", RuleKind: string(RuleAnalysesCompleted), Threshold: 20},
	}
}
