package validation

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	phonePattern = regexp.MustCompile(`^[0-9+()\-.\s]{7,20}$`)
	e164Pattern  = regexp.MustCompile(`^\+[1-9]\d{6,14}$`)
)

// SanitizeText trims s and strips control characters and angle brackets. Line
// breaks and tabs survive when multiline is true.
func SanitizeText(s string, multiline bool) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		switch {
		case r == '<' || r == '>':
			continue
		case r == '\n' || r == '\t':
			if multiline {
				b.WriteRune(r)
			} else {
				b.WriteRune(' ')
			}
		case r == '\r':
			continue
		case unicode.IsControl(r):
			continue
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// IsPhone reports whether s looks like a phone number fit for display.
func IsPhone(s string) bool {
	return phonePattern.MatchString(s)
}

// IsE164 reports whether s is a strict E.164 number as the SMS gateway requires.
func IsE164(s string) bool {
	return e164Pattern.MatchString(s)
}

// NormalizeE164 strips display punctuation from a relaxed phone number and returns
// it when the result is valid E.164.
func NormalizeE164(s string) (string, bool) {
	var b strings.Builder
	for i, r := range strings.TrimSpace(s) {
		switch {
		case r == '+' && i == 0:
			b.WriteRune(r)
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '-' || r == '.' || r == '(' || r == ')':
		default:
			return "", false
		}
	}
	out := b.String()
	return out, IsE164(out)
}
