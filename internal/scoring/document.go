package scoring

import (
	"strings"
	"unicode"
)

// maxInputRunes bounds the text the scorer looks at.
const maxInputRunes = 100_000

type document struct {
	text    string
	lower   string
	lines   []string
	bullets []string
	words   int
}

func parseDocument(raw string) *document {
	text := strings.ToValidUTF8(raw, "�")
	if runes := []rune(text); len(runes) > maxInputRunes {
		text = string(runes[:maxInputRunes])
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")

	doc := &document{
		text:  text,
		lower: strings.ToLower(text),
		words: len(strings.FieldsFunc(text, func(r rune) bool {
			return unicode.IsSpace(r) || unicode.IsControl(r)
		})),
	}

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		doc.lines = append(doc.lines, line)
		if body, ok := bulletBody(line); ok {
			doc.bullets = append(doc.bullets, body)
		}
	}

	return doc
}

func (d *document) empty() bool {
	return d.words == 0
}

// bulletBody strips a list marker from line.
func bulletBody(line string) (string, bool) {
	for _, marker := range []string{"- ", "* ", "• ", "· ", "– ", "— "} {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker)), true
		}
	}

	// "1. text" or "1) text"
	i := 0
	for i < len(line) && line[i] >= '0' && line[i] <= '9' {
		i++
	}
	if i > 0 && i < 3 && i+1 < len(line) && (line[i] == '.' || line[i] == ')') && line[i+1] == ' ' {
		return strings.TrimSpace(line[i+2:]), true
	}

	return "", false
}

// hasHeading reports whether any short line names one of the given section headings.
func (d *document) hasHeading(names ...string) bool {
	for _, line := range d.lines {
		if len(strings.Fields(line)) > 4 {
			continue
		}
		heading := strings.ToLower(strings.Trim(line, "#:*=_- \t"))
		for _, name := range names {
			if heading == name || strings.HasPrefix(heading, name+" ") || strings.HasSuffix(heading, " "+name) {
				return true
			}
		}
	}
	return false
}
