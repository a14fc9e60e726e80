package scoring

import (
	"reflect"
	"strings"
	"testing"
)

const strongResume = `Jane Doe
jane.doe@example.com | +1 555 010 0199 | linkedin.com/in/janedoe

Summary
Backend engineer with eight years of experience building payment systems in Go.

Experience
Senior Software Engineer, Acme Payments (2019 - 2024)
- Led migration of the settlement pipeline to Go, reducing batch latency by 45%
- Built a fraud scoring service handling 12,000 requests per second
- Reduced infrastructure cost by $250k per year by consolidating 14 clusters
- Mentored 6 engineers and introduced structured code review
- Designed an idempotent ledger API adopted by 9 product teams
- Automated release checks, cutting rollback rate from 8% to 1%

Software Engineer, Globex (2016 - 2019)
- Developed inventory sync workers processing 3 million events per day
- Improved test coverage from 40% to 85% across 20 services

Education
B.Sc. Computer Science, State University, 2016

Skills
Go, PostgreSQL, Kafka, Kubernetes, gRPC, Terraform, AWS, observability, distributed systems design
`

func TestScoreBoundsAndNeverFails(t *testing.T) {
	inputs := []string{
		"",
		"   \n\t  ",
		"\xff\xfe\xfd invalid utf8",
		"\x00\x01\x02",
		"a",
		strings.Repeat("word ", 5000),
		strings.Repeat("- responsible for things\n", 300),
		"1.\n2)\n- \n* \n•",
		strongResume,
	}

	s := NewScorer()
	for _, in := range inputs {
		res := s.Score(in)
		if res.Score < 0 || res.Score > 100 {
			t.Fatalf("score out of range for %q: %d", truncate(in), res.Score)
		}
		total := 0
		for _, c := range res.Checks {
			if c.Points < 0 || c.Points > c.Max {
				t.Fatalf("check %s out of range: %+v", c.Name, c)
			}
			total += c.Points
		}
		if total != res.Score {
			t.Fatalf("breakdown %d does not add up to score %d", total, res.Score)
		}
	}
}

func TestScoreEmptyInputExplainsItself(t *testing.T) {
	res := NewScorer().Score("")

	if res.Score != 0 {
		t.Fatalf("expected zero score for empty input, got %d", res.Score)
	}
	if len(res.Weaknesses) == 0 || res.Weaknesses[0] != "No readable resume text was provided" {
		t.Fatalf("expected explanatory weakness first, got %v", res.Weaknesses)
	}
	if res.Strengths == nil || res.Suggestions == nil {
		t.Fatalf("slices must be non-nil for stable JSON")
	}
}

func TestScoreDeterministic(t *testing.T) {
	s := NewScorer()
	first := s.Score(strongResume)
	second := s.Score(strongResume)

	if !reflect.DeepEqual(first, second) {
		t.Fatalf("expected identical results, got %+v and %+v", first, second)
	}
}

func TestScoreStrongResume(t *testing.T) {
	res := NewScorer().Score(strongResume)

	if res.Score < 85 {
		t.Fatalf("expected a high score for a complete resume, got %d (%+v)", res.Score, res.Checks)
	}

	for _, c := range res.Checks {
		if c.Name == "contact" && c.Points != c.Max {
			t.Fatalf("expected full contact points, got %+v", c)
		}
		if c.Name == "sections" && c.Points != c.Max {
			t.Fatalf("expected all sections detected, got %+v", c)
		}
	}
}

func TestScoreWeakResumeSuggestions(t *testing.T) {
	weak := "John Smith\n\nWork history\n- Responsible for the billing system\n- Worked on reports\n"
	res := NewScorer().Score(weak)

	if res.Score >= 50 {
		t.Fatalf("expected a low score, got %d", res.Score)
	}

	var rewrite *Suggestion
	for i := range res.Suggestions {
		if res.Suggestions[i].Title == "Lead with an action verb" {
			rewrite = &res.Suggestions[i]
		}
	}
	if rewrite == nil {
		t.Fatalf("expected an action verb rewrite, got %+v", res.Suggestions)
	}
	if rewrite.Before != "Responsible for the billing system" || rewrite.After != "Owned the billing system" {
		t.Fatalf("unexpected rewrite: %+v", rewrite)
	}

	for i := 1; i < len(res.Suggestions); i++ {
		if res.Suggestions[i-1].Priority.rank() > res.Suggestions[i].Priority.rank() {
			t.Fatalf("suggestions not ordered by priority: %+v", res.Suggestions)
		}
	}
}

func TestDateRangesAreNotPhoneNumbers(t *testing.T) {
	if hasPhoneNumber("Acme (2019 - 2023)") {
		t.Fatalf("date range detected as phone number")
	}
	if !hasPhoneNumber("call +44 20 7946 0958") {
		t.Fatalf("expected phone number to be detected")
	}
}

func TestBulletBody(t *testing.T) {
	cases := []struct {
		line string
		body string
		ok   bool
	}{
		{line: "- Led team", body: "Led team", ok: true},
		{line: "• Built API", body: "Built API", ok: true},
		{line: "3. Shipped", body: "Shipped", ok: true},
		{line: "12) Cut cost", body: "Cut cost", ok: true},
		{line: "2019 - 2023", ok: false},
		{line: "Experience", ok: false},
	}

	for _, tc := range cases {
		body, ok := bulletBody(tc.line)
		if ok != tc.ok || body != tc.body {
			t.Fatalf("bulletBody(%q) = %q, %v; want %q, %v", tc.line, body, ok, tc.body, tc.ok)
		}
	}
}

func truncate(s string) string {
	if len(s) > 20 {
		return s[:20]
	}
	return s
}
