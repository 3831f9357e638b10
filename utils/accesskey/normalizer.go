package accesskey

import (
	"strings"
	"unicode"
)

// DigitsOnly returns s with every character other than an ASCII digit removed.
func DigitsOnly(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if c := s[i]; c >= '0' && c <= '9' {
			b.WriteByte(c)
		}
	}
	return b.String()
}

// stripSpace removes whitespace, including no-break and other Unicode spaces.
func stripSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

// digitsAndSpace keeps digits and whitespace only.
func digitsAndSpace(s string) string {
	return strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || unicode.IsSpace(r) {
			return r
		}
		return -1
	}, s)
}

// Clean reduces a candidate to its digits and applies the length policy of the
// default rules. See Extractor.Clean.
func Clean(candidate string) (string, bool) {
	return defaultExtractor.Clean(candidate)
}

// Clean reduces a candidate to its digits. A run longer than the expected length
// is cut to its leading digits; the trailing digits are assumed to be noise from
// a neighbouring field, which is a heuristic and not checked against the key's
// check digit. Runs shorter than the minimum length are rejected.
func (e *Extractor) Clean(candidate string) (string, bool) {
	digits := DigitsOnly(candidate)

	switch {
	case len(digits) == e.rules.ExpectedLength:
		return digits, true
	case len(digits) > e.rules.ExpectedLength:
		return digits[:e.rules.ExpectedLength], true
	case len(digits) >= e.rules.MinLength:
		return digits, true
	}
	return "", false
}
