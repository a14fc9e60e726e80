package scoring

import (
	"fmt"
	"regexp"
	"strings"
)

// finding is what a single check contributes to the result.
type finding struct {
	points      int
	strengths   []string
	weaknesses  []string
	suggestions []Suggestion
}

// check is one row of the scoring table.
type check struct {
	name     string
	max      int
	evaluate func(d *document) finding
}

var (
	emailPattern  = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phonePattern  = regexp.MustCompile(`\+?\d[\d\s().\-]{7,}\d`)
	metricPattern = regexp.MustCompile(`\d|%|\$|€|£`)
)

var actionVerbs = map[string]struct{}{
	"led": {}, "built": {}, "designed": {}, "implemented": {}, "developed": {}, "launched": {},
	"improved": {}, "reduced": {}, "increased": {}, "delivered": {}, "managed": {}, "created": {},
	"automated": {}, "optimized": {}, "optimised": {}, "migrated": {}, "mentored": {}, "architected": {},
	"owned": {}, "shipped": {}, "scaled": {}, "drove": {}, "negotiated": {}, "streamlined": {},
	"established": {}, "spearheaded": {}, "grew": {}, "cut": {}, "saved": {}, "won": {},
}

// weakOpeners maps passive bullet openers to a stronger replacement.
var weakOpeners = []struct {
	prefix      string
	replacement string
}{
	{prefix: "responsible for", replacement: "Owned"},
	{prefix: "worked on", replacement: "Built"},
	{prefix: "helped with", replacement: "Contributed to"},
	{prefix: "helped", replacement: "Contributed to"},
	{prefix: "duties included", replacement: "Delivered"},
	{prefix: "tasked with", replacement: "Drove"},
	{prefix: "involved in", replacement: "Contributed to"},
}

type section struct {
	label    string
	points   int
	headings []string
	priority Priority
}

var sections = []section{
	{label: "experience", points: 10, headings: []string{"experience", "work experience", "professional experience", "work history", "employment"}, priority: PriorityHigh},
	{label: "education", points: 5, headings: []string{"education", "academic background"}, priority: PriorityMedium},
	{label: "skills", points: 5, headings: []string{"skills", "technical skills", "technologies", "tech stack", "core competencies"}, priority: PriorityMedium},
	{label: "summary", points: 5, headings: []string{"summary", "profile", "objective", "about", "about me", "professional summary"}, priority: PriorityLow},
}

// checks is the scoring table. The maxima add up to 100.
var checks = []check{
	{name: "contact", max: 15, evaluate: checkContact},
	{name: "sections", max: 25, evaluate: checkSections},
	{name: "quantified_impact", max: 20, evaluate: checkQuantifiedImpact},
	{name: "action_verbs", max: 15, evaluate: checkActionVerbs},
	{name: "length", max: 15, evaluate: checkLength},
	{name: "structure", max: 10, evaluate: checkStructure},
}

func checkContact(d *document) finding {
	var f finding
	hasEmail := emailPattern.MatchString(d.text)
	hasPhone := hasPhoneNumber(d.text)

	if hasEmail {
		f.points += 8
	} else {
		f.weaknesses = append(f.weaknesses, "No email address found")
	}
	if hasPhone {
		f.points += 7
	} else {
		f.weaknesses = append(f.weaknesses, "No phone number found")
	}

	switch {
	case hasEmail && hasPhone:
		f.strengths = append(f.strengths, "Contact details include both email and phone")
	default:
		f.suggestions = append(f.suggestions, Suggestion{
			Title:    "Add complete contact details",
			Before:   firstLine(d),
			After:    "Jane Doe | jane.doe@example.com | +1 555 010 0199 | linkedin.com/in/janedoe",
			Priority: PriorityHigh,
		})
	}

	return f
}

func checkSections(d *document) finding {
	var f finding
	var found []string

	for _, s := range sections {
		if d.hasHeading(s.headings...) {
			f.points += s.points
			found = append(found, s.label)
			continue
		}
		f.weaknesses = append(f.weaknesses, fmt.Sprintf("Missing a clear %s section", s.label))
		f.suggestions = append(f.suggestions, Suggestion{
			Title:    fmt.Sprintf("Add a %s section", s.label),
			After:    strings.ToUpper(s.label[:1]) + s.label[1:],
			Priority: s.priority,
		})
	}

	if len(found) == len(sections) {
		f.strengths = append(f.strengths, "All core sections are present")
	} else if len(found) > 0 {
		f.strengths = append(f.strengths, fmt.Sprintf("Has clear sections: %s", strings.Join(found, ", ")))
	}

	return f
}

func checkQuantifiedImpact(d *document) finding {
	var f finding
	quantified := 0
	unquantified := ""

	for _, b := range d.bullets {
		if metricPattern.MatchString(b) {
			quantified++
			continue
		}
		if unquantified == "" {
			unquantified = b
		}
	}

	f.points = min(quantified*4, 20)

	switch {
	case quantified >= 3:
		f.strengths = append(f.strengths, fmt.Sprintf("%d achievements are backed by numbers", quantified))
	case len(d.bullets) == 0:
		f.weaknesses = append(f.weaknesses, "No achievement bullets to quantify")
	default:
		f.weaknesses = append(f.weaknesses, "Few achievements are quantified with numbers")
	}

	if quantified < 5 && unquantified != "" {
		f.suggestions = append(f.suggestions, Suggestion{
			Title:    "Quantify the impact",
			Before:   unquantified,
			After:    strings.TrimRight(unquantified, ". ") + ", cutting processing time by 30%",
			Priority: PriorityHigh,
		})
	}

	return f
}

func checkActionVerbs(d *document) finding {
	var f finding
	if len(d.bullets) == 0 {
		f.weaknesses = append(f.weaknesses, "No bullet points start with action verbs")
		return f
	}

	strong := 0
	var weakBullet, replacement string
	for _, b := range d.bullets {
		lower := strings.ToLower(b)
		if fields := strings.Fields(lower); len(fields) > 0 {
			if _, ok := actionVerbs[strings.Trim(fields[0], ",.;:")]; ok {
				strong++
				continue
			}
		}
		if weakBullet != "" {
			continue
		}
		for _, w := range weakOpeners {
			if len(b) >= len(w.prefix) && strings.EqualFold(b[:len(w.prefix)], w.prefix) {
				weakBullet = b
				replacement = w.replacement + b[len(w.prefix):]
				break
			}
		}
	}

	f.points = strong * 15 / len(d.bullets)

	if strong*2 >= len(d.bullets) {
		f.strengths = append(f.strengths, "Bullets lead with strong action verbs")
	} else {
		f.weaknesses = append(f.weaknesses, "Most bullets do not start with an action verb")
	}

	if weakBullet != "" {
		f.suggestions = append(f.suggestions, Suggestion{
			Title:    "Lead with an action verb",
			Before:   weakBullet,
			After:    replacement,
			Priority: PriorityMedium,
		})
	}

	return f
}

func checkLength(d *document) finding {
	var f finding
	switch w := d.words; {
	case w == 0:
		f.weaknesses = append(f.weaknesses, "Resume is empty")
	case w < 150:
		f.points = 5
		f.weaknesses = append(f.weaknesses, fmt.Sprintf("Resume is too short (%d words)", w))
	case w < 300:
		f.points = 10
		f.weaknesses = append(f.weaknesses, fmt.Sprintf("Resume is on the short side (%d words)", w))
	case w <= 900:
		f.points = 15
		f.strengths = append(f.strengths, "Length is within the recommended range")
	case w <= 1200:
		f.points = 10
		f.weaknesses = append(f.weaknesses, fmt.Sprintf("Resume is long (%d words)", w))
	default:
		f.points = 5
		f.weaknesses = append(f.weaknesses, fmt.Sprintf("Resume is too long (%d words)", w))
		f.suggestions = append(f.suggestions, Suggestion{
			Title:    "Trim to the most relevant experience",
			Priority: PriorityLow,
		})
	}
	return f
}

func checkStructure(d *document) finding {
	var f finding
	switch n := len(d.bullets); {
	case n >= 5:
		f.points = 10
		f.strengths = append(f.strengths, "Achievements are organised as bullet points")
	case n > 0:
		f.points = 5
		f.weaknesses = append(f.weaknesses, "Only a few bullet points")
	default:
		if !d.empty() {
			f.weaknesses = append(f.weaknesses, "Experience is written as paragraphs instead of bullet points")
			f.suggestions = append(f.suggestions, Suggestion{
				Title:    "Break paragraphs into bullet points",
				Before:   longestLine(d),
				After:    "- One achievement per line, starting with an action verb",
				Priority: PriorityMedium,
			})
		}
	}
	return f
}

// hasPhoneNumber looks for a run of 9 to 15 digits so that date ranges do not count.
func hasPhoneNumber(text string) bool {
	for _, candidate := range phonePattern.FindAllString(text, -1) {
		digits := 0
		for _, r := range candidate {
			if r >= '0' && r <= '9' {
				digits++
			}
		}
		if digits >= 9 && digits <= 15 {
			return true
		}
	}
	return false
}

func firstLine(d *document) string {
	if len(d.lines) == 0 {
		return ""
	}
	return d.lines[0]
}

func longestLine(d *document) string {
	longest := ""
	for _, l := range d.lines {
		if len(l) > len(longest) {
			longest = l
		}
	}
	return longest
}
