package quiz

import "strings"

// Question is one parsed multiple-choice question. Correct is advisory
// until the compiler matches it against the choices.
type Question struct {
	Title   string
	Choices []string
	Correct string
	Points  int64
}

// Definition is an ordered list of questions. Empty is a valid definition.
type Definition []Question

// Sanitize strips the control characters the forms provider rejects.
// Idempotent.
func Sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r <= 0x08,
			r == 0x0B, r == 0x0C,
			r >= 0x0E && r <= 0x1F,
			r == 0x7F:
			return -1
		}
		return r
	}, s)
}
