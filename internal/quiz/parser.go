package quiz

import (
	"strconv"
	"strings"
)

// Field labels of the quiz definition text format. Matching is exact on
// the trimmed line prefix.
const (
	labelTitle   = "سؤال:"
	labelChoices = "اختيارات:"
	labelAnswer  = "إجابة:"
	labelPoints  = "نقاط:"
)

// Parse extracts questions from free-form pasted text. It never fails:
// blocks missing a title or choices are dropped, unrecognized lines are
// ignored. Choice order is preserved verbatim.
func Parse(raw string) Definition {
	var def Definition
	for _, block := range splitBlocks(raw) {
		if q, ok := parseBlock(block); ok {
			def = append(def, q)
		}
	}
	return def
}

// splitBlocks splits on runs of blank lines (whitespace-only counts as
// blank).
func splitBlocks(raw string) []string {
	var blocks []string
	var cur []string
	for _, line := range strings.Split(strings.TrimSpace(raw), "\n") {
		if strings.TrimSpace(line) == "" {
			if len(cur) > 0 {
				blocks = append(blocks, strings.Join(cur, "\n"))
				cur = nil
			}
			continue
		}
		cur = append(cur, line)
	}
	if len(cur) > 0 {
		blocks = append(blocks, strings.Join(cur, "\n"))
	}
	return blocks
}

func parseBlock(block string) (Question, bool) {
	var q Question
	for _, line := range strings.Split(block, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, labelTitle):
			q.Title = Sanitize(strings.TrimSpace(strings.TrimPrefix(line, labelTitle)))
		case strings.HasPrefix(line, labelChoices):
			q.Choices = parseChoices(strings.TrimPrefix(line, labelChoices))
		case strings.HasPrefix(line, labelAnswer):
			q.Correct = Sanitize(strings.TrimSpace(strings.TrimPrefix(line, labelAnswer)))
		case strings.HasPrefix(line, labelPoints):
			q.Points = parsePoints(strings.TrimPrefix(line, labelPoints))
		}
	}
	if q.Title == "" || len(q.Choices) == 0 {
		return Question{}, false
	}
	return q, true
}

func parseChoices(s string) []string {
	var choices []string
	for _, part := range strings.Split(s, "|") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		choices = append(choices, Sanitize(part))
	}
	return choices
}

// parsePoints accepts only strings of decimal digits; anything else
// (including signs) means 0. The format's audience writes Arabic-Indic
// numerals as naturally as ASCII ones, so both are decimal digits here.
func parsePoints(s string) int64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	digits := make([]rune, 0, len(s))
	for _, r := range s {
		d := digitValue(r)
		if d < 0 {
			return 0
		}
		digits = append(digits, rune('0'+d))
	}
	n, err := strconv.ParseInt(string(digits), 10, 64)
	if err != nil {
		return 0
	}
	return n
}

func digitValue(r rune) int {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0')
	case r >= '٠' && r <= '٩': // Arabic-Indic
		return int(r - '٠')
	case r >= '۰' && r <= '۹': // Extended Arabic-Indic
		return int(r - '۰')
	}
	return -1
}
