package accesskey

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// SearchNear looks for the key in the lines that follow the label line at
// labelIndex. Each following line is tried on its own first; only when none of
// them qualifies are the next few lines searched as one joined window.
func (e *Extractor) SearchNear(lines []string, labelIndex int) (string, bool) {
	if labelIndex < 0 || labelIndex >= len(lines) {
		return "", false
	}

	for i := 1; i <= e.rules.MaxLinesAfterLabel && labelIndex+i < len(lines); i++ {
		line := strings.TrimSpace(lines[labelIndex+i])
		if utf8.RuneCountInString(line) < e.rules.MinLineLength {
			continue
		}
		if key, ok := e.keyFromLine(line); ok {
			return key, true
		}
		e.rejected(StageProximity, labelIndex+i, line)
	}

	return e.searchCombined(lines, labelIndex)
}

func (e *Extractor) keyFromLine(line string) (string, bool) {
	digits := DigitsOnly(line)
	if len(digits) >= e.rules.MinLength && len(digits) <= e.rules.ExpectedLength {
		return digits, true
	}

	if m := e.formatted.FindString(line); m != "" {
		if cleaned := stripSpace(m); len(cleaned) == e.rules.ExpectedLength {
			return cleaned, true
		}
	}
	return "", false
}

func (e *Extractor) searchCombined(lines []string, labelIndex int) (string, bool) {
	window := make([]string, 0, e.rules.MaxLinesCombined)
	for i := 1; i <= e.rules.MaxLinesCombined && labelIndex+i < len(lines); i++ {
		window = append(window, lines[labelIndex+i])
	}
	if len(window) == 0 {
		return "", false
	}
	combined := strings.Join(window, " ")

	if m := e.formatted.FindString(combined); m != "" {
		if cleaned := stripSpace(m); len(cleaned) == e.rules.ExpectedLength {
			return cleaned, true
		}
	}

	// Keep digits and whitespace only, with every kind of space folded to ' ',
	// so digit groups broken by labels or punctuation can still line up.
	flattened := strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return ' '
		}
		return r
	}, digitsAndSpace(combined))

	if m := e.flexible.FindString(flattened); m != "" {
		if cleaned := stripSpace(m); len(cleaned) == e.rules.ExpectedLength {
			return cleaned, true
		}
		e.rejected(StageProximity, -1, m)
	}
	return "", false
}
