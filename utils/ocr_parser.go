package utils

import (
	"strings"
	"unicode"
)

// ocrDigitLookalikes maps characters Tesseract commonly reads in place of digits.
var ocrDigitLookalikes = map[rune]rune{
	'O': '0', 'o': '0', 'Q': '0', 'D': '0',
	'I': '1', 'l': '1', '|': '1', 'i': '1',
	'Z': '2', 'z': '2',
	'S': '5', 's': '5',
	'G': '6', 'b': '6',
	'B': '8',
	'g': '9', 'q': '9',
}

// fiscalKeywords are words printed on almost every DANFE / NFC-e page.
var fiscalKeywords = []string{
	"chave", "acesso", "danfe", "nf-e", "nfc-e", "cnpj",
	"protocolo", "emissão", "emitente", "destinatário", "consulta",
}

// RepairOCRDigits rewrites letter lookalikes as digits inside tokens that are
// mostly digits already, e.g. "35240I12345678OO01". Other tokens are left
// untouched so labels such as "CHAVE DE ACESSO" survive.
func RepairOCRDigits(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	start := -1
	flush := func(end int) {
		if start >= 0 {
			b.WriteString(repairToken(text[start:end]))
			start = -1
		}
	}

	for i, r := range text {
		if unicode.IsSpace(r) {
			flush(i)
			b.WriteRune(r)
			continue
		}
		if start < 0 {
			start = i
		}
	}
	flush(len(text))

	return b.String()
}

func repairToken(tok string) string {
	digits, fixable, total := 0, 0, 0
	for _, r := range tok {
		total++
		switch {
		case r >= '0' && r <= '9':
			digits++
		case ocrDigitLookalikes[r] != 0:
			fixable++
		}
	}

	// Short tokens and words are not numbers.
	if total < 4 || digits*2 < total || digits+fixable != total {
		return tok
	}

	return strings.Map(func(r rune) rune {
		if d, ok := ocrDigitLookalikes[r]; ok {
			return d
		}
		return r
	}, tok)
}

// EvaluateTextQuality scores extracted text from 0 to 100 based on its length
// and how many fiscal document keywords it contains.
func EvaluateTextQuality(text string) float64 {
	if strings.TrimSpace(text) == "" {
		return 0.0
	}

	score := 0.0

	// Length score (max 40 points)
	textLen := len([]rune(strings.TrimSpace(text)))
	if textLen > 500 {
		score += 40.0
	} else if textLen > 100 {
		score += 20.0
	} else if textLen > 20 {
		score += 10.0
	}

	// Keyword presence score (10 points each, total capped at 100)
	textLower := strings.ToLower(text)
	keywordCount := 0
	for _, keyword := range fiscalKeywords {
		if strings.Contains(textLower, keyword) {
			keywordCount++
		}
	}
	score += float64(keywordCount) * 10.0

	if score > 100.0 {
		score = 100.0
	}

	return score
}
