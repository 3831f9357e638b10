package accesskey

import (
	"strings"
)

const (
	labelFirstWord  = "CHAVE"
	labelSecondWord = "ACESSO"
)

// SplitLines splits text on LF and CRLF boundaries.
func SplitLines(text string) []string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		lines[i] = strings.TrimSuffix(l, "\r")
	}
	return lines
}

// Locate returns the index of the first line that carries both words of the
// "chave de acesso" label, in any case and with anything between them.
func Locate(lines []string) (int, bool) {
	for i, line := range lines {
		upper := strings.ToUpper(strings.TrimSpace(line))
		if strings.Contains(upper, labelFirstWord) && strings.Contains(upper, labelSecondWord) {
			return i, true
		}
	}
	return -1, false
}
