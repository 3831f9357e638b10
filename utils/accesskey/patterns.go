package accesskey

// SearchLabeled tries each label variant in order and returns the digit run that
// follows the first variant found in text.
func (e *Extractor) SearchLabeled(text string) (string, bool) {
	for _, p := range e.labeled {
		m := p.re.FindStringSubmatch(text)
		if len(m) < 2 || m[1] == "" {
			continue
		}
		if key, ok := e.Clean(m[1]); ok {
			e.diag.Trace(Event{Kind: EventLabel, Stage: StageLabeled, Line: -1, Detail: p.variant})
			return key, true
		}
		e.rejected(StageLabeled, -1, m[1])
	}
	return "", false
}

// SearchFallback looks for a key without relying on the label line: the labeled
// search again, then an isolated run of exactly the expected length, then any
// run of at least the minimum length.
func (e *Extractor) SearchFallback(text string) (string, bool) {
	key, _, ok := e.fallback(&document{text: text})
	return key, ok
}

func (e *Extractor) fallback(doc *document) (string, Stage, bool) {
	if key, ok := e.SearchLabeled(doc.text); ok {
		return key, StageFallbackLabeled, true
	}

	if m := e.isolated.FindStringSubmatch(doc.text); len(m) > 1 {
		if key, ok := e.Clean(m[1]); ok && len(key) == e.rules.ExpectedLength {
			return key, StageFallbackIsolated, true
		}
		e.rejected(StageFallbackIsolated, -1, m[1])
	}

	if m := e.longRun.FindString(doc.text); m != "" {
		if key, ok := e.Clean(m); ok {
			return key, StageFallbackLongRun, true
		}
		e.rejected(StageFallbackLongRun, -1, m)
	}
	return "", "", false
}
