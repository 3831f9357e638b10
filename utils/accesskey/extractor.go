// Package accesskey finds the 44 to 48 digit access key printed on fiscal
// documents inside text extracted from those documents.
//
// The search runs in fixed priority order and stops at the first stage that
// yields a key of acceptable length:
//
//  1. the line carrying the "chave de acesso" label, then the lines below it
//  2. label variants followed by a digit run anywhere in the text
//  3. context-free digit runs (labeled retry, isolated 48 digits, any 44+ run)
//
// An Extractor holds no per-call state and may be shared between goroutines.
package accesskey

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

// Stage names the search stage that produced a key.
type Stage string

const (
	StageProximity        Stage = "proximity"
	StageLabeled          Stage = "labeled"
	StageFallbackLabeled  Stage = "fallback_labeled"
	StageFallbackIsolated Stage = "fallback_isolated"
	StageFallbackLongRun  Stage = "fallback_long_run"
)

// Result is the outcome of one extraction. When Found is false the key is absent
// and Key and Stage are empty.
type Result struct {
	Key   string
	Found bool
	Stage Stage
}

// space matches ASCII whitespace plus Unicode separators such as the no-break
// space that PDF text layers often emit between digit groups.
const space = `[\s\p{Z}]`

type labelPattern struct {
	variant string
	re      *regexp.Regexp
}

// Extractor runs the layered access key search.
type Extractor struct {
	rules Rules
	diag  Diagnostics

	formatted *regexp.Regexp
	flexible  *regexp.Regexp
	labeled   []labelPattern
	isolated  *regexp.Regexp
	longRun   *regexp.Regexp

	stages []strategy
}

// document is the per-call view of the input text. Lines are split lazily.
type document struct {
	text  string
	lines []string
}

func (d *document) Lines() []string {
	if d.lines == nil {
		d.lines = SplitLines(d.text)
	}
	return d.lines
}

type strategy func(doc *document) (string, Stage, bool)

// Option configures an Extractor.
type Option func(*Extractor)

// WithDiagnostics routes trace events to d.
func WithDiagnostics(d Diagnostics) Option {
	return func(e *Extractor) {
		if d != nil {
			e.diag = d
		}
	}
}

var defaultExtractor = mustNew(DefaultRules())

func mustNew(rules Rules) *Extractor {
	e, err := New(rules)
	if err != nil {
		panic(err)
	}
	return e
}

// New compiles the search patterns for rules.
func New(rules Rules, opts ...Option) (*Extractor, error) {
	if err := rules.Validate(); err != nil {
		return nil, err
	}

	rules.LabelVariants = append([]string(nil), rules.LabelVariants...)
	e := &Extractor{
		rules: rules,
		diag:  NopDiagnostics{},
	}
	for _, opt := range opts {
		opt(e)
	}

	groups := rules.ExpectedLength / 4
	e.formatted = regexp.MustCompile(fmt.Sprintf(`(?:\d{4}%s+){%d}\d{4}`, space, groups-1))
	e.flexible = regexp.MustCompile(fmt.Sprintf(`[0-9 ]{%d,%d}`, rules.FlexibleMinRun, rules.FlexibleMaxRun))
	e.isolated = regexp.MustCompile(fmt.Sprintf(`\b(\d{%d})\b`, rules.ExpectedLength))
	e.longRun = regexp.MustCompile(fmt.Sprintf(`\d{%d,}`, rules.MinLength))

	keyRun := fmt.Sprintf(`(\d{%d}%s?\d{%d}|\d{%d})`,
		rules.MinLength, space, rules.ExpectedLength-rules.MinLength, rules.ExpectedLength)
	for _, variant := range rules.LabelVariants {
		if e.hasVariant(variant) {
			continue
		}
		expr := regexp.QuoteMeta(variant) + space + `*:?` + space + fmt.Sprintf(`*[^0-9]{0,%d}?`, rules.MaxLabelGap) + keyRun
		re, err := compileFold(expr)
		if err != nil {
			return nil, fmt.Errorf("label variant %q: %w", variant, err)
		}
		e.labeled = append(e.labeled, labelPattern{variant: variant, re: re})
	}

	e.stages = []strategy{
		e.proximityStage,
		e.labeledStage,
		e.fallback,
	}
	return e, nil
}

// compileFold compiles expr with case folding enabled.
func compileFold(expr string) (*regexp.Regexp, error) {
	return regexp.Compile("(?i)" + expr)
}

// hasVariant reports whether an equivalent variant is already compiled. Matching
// is case-insensitive, so case variants collapse onto the earliest spelling.
func (e *Extractor) hasVariant(variant string) bool {
	for _, p := range e.labeled {
		if strings.EqualFold(p.variant, variant) {
			return true
		}
	}
	return false
}

// Rules returns the rules the extractor was built with.
func (e *Extractor) Rules() Rules {
	r := e.rules
	r.LabelVariants = append([]string(nil), e.rules.LabelVariants...)
	return r
}

// Extract searches text with the default rules.
func Extract(text string) Result {
	return defaultExtractor.Extract(text)
}

// Extract returns the most probable access key in text. A missing key is a
// normal outcome reported through Result.Found, never an error.
func (e *Extractor) Extract(text string) Result {
	e.traceSample(text)

	doc := &document{text: text}
	for _, stage := range e.stages {
		if key, name, ok := stage(doc); ok {
			e.diag.Trace(Event{Kind: EventAccepted, Stage: name, Line: -1, Key: key})
			return Result{Key: key, Found: true, Stage: name}
		}
	}

	e.diag.Trace(Event{Kind: EventNotFound, Line: -1})
	return Result{}
}

func (e *Extractor) traceSample(text string) {
	if text == "" {
		return
	}
	sample := text
	if utf8.RuneCountInString(sample) > e.rules.SampleLength {
		sample = string([]rune(sample)[:e.rules.SampleLength])
	}
	e.diag.Trace(Event{Kind: EventSample, Line: -1, Detail: sample})
}

func (e *Extractor) proximityStage(doc *document) (string, Stage, bool) {
	lines := doc.Lines()
	idx, ok := Locate(lines)
	if !ok {
		return "", "", false
	}
	e.diag.Trace(Event{Kind: EventLabel, Stage: StageProximity, Line: idx, Detail: strings.TrimSpace(lines[idx])})

	key, ok := e.SearchNear(lines, idx)
	return key, StageProximity, ok
}

func (e *Extractor) labeledStage(doc *document) (string, Stage, bool) {
	key, ok := e.SearchLabeled(doc.text)
	return key, StageLabeled, ok
}

func (e *Extractor) rejected(stage Stage, line int, candidate string) {
	e.diag.Trace(Event{
		Kind:   EventRejected,
		Stage:  stage,
		Line:   line,
		Detail: fmt.Sprintf("%d digits: %s", len(DigitsOnly(candidate)), candidate),
	})
}
