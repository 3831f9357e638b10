package accesskey

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Rules holds the label variants and thresholds used by the search stages.
// A Rules value is never modified after an Extractor is built from it.
type Rules struct {
	// LabelVariants are tried in order; the first variant that matches wins.
	LabelVariants []string `yaml:"label_variants"`

	ExpectedLength     int `yaml:"expected_length"`
	MinLength          int `yaml:"min_length"`
	MinLineLength      int `yaml:"min_line_length"`
	MaxLinesAfterLabel int `yaml:"max_lines_after_label"`
	MaxLinesCombined   int `yaml:"max_lines_combined"`

	// MaxLabelGap is the number of non-digit characters allowed between a label and the key.
	MaxLabelGap int `yaml:"max_label_gap"`

	FlexibleMinRun int `yaml:"flexible_min_run"`
	FlexibleMaxRun int `yaml:"flexible_max_run"`

	// SampleLength bounds the text sample reported to diagnostics.
	SampleLength int `yaml:"sample_length"`
}

// DefaultRules returns the rules used for NF-e style documents.
func DefaultRules() Rules {
	return Rules{
		LabelVariants: []string{
			"chave de acesso",
			"chave acesso",
			"chaveacesso",
			"CHAVE DE ACESSO",
			"Chave de Acesso",
			"Chave De Acesso",
		},
		ExpectedLength:     48,
		MinLength:          44,
		MinLineLength:      20,
		MaxLinesAfterLabel: 10,
		MaxLinesCombined:   5,
		MaxLabelGap:        200,
		FlexibleMinRun:     50,
		FlexibleMaxRun:     100,
		SampleLength:       500,
	}
}

// LoadRules reads a YAML rules file. Fields missing from the file keep their defaults.
func LoadRules(path string) (Rules, error) {
	rules := DefaultRules()

	data, err := os.ReadFile(path)
	if err != nil {
		return rules, fmt.Errorf("failed to read rules file: %w", err)
	}

	if err := yaml.Unmarshal(data, &rules); err != nil {
		return rules, fmt.Errorf("failed to parse rules file %s: %w", path, err)
	}

	if err := rules.Validate(); err != nil {
		return rules, err
	}
	return rules, nil
}

// maxRepeat is the largest repeat count RE2 accepts in a pattern.
const maxRepeat = 1000

// Validate reports thresholds that would make the search stages inconsistent.
func (r Rules) Validate() error {
	if len(r.LabelVariants) == 0 {
		return errors.New("rules: at least one label variant is required")
	}
	for _, v := range r.LabelVariants {
		if v == "" {
			return errors.New("rules: label variants must not be empty")
		}
	}
	if r.MinLength <= 0 || r.ExpectedLength <= 0 {
		return errors.New("rules: key lengths must be positive")
	}
	if r.MinLength > r.ExpectedLength {
		return fmt.Errorf("rules: min_length %d exceeds expected_length %d", r.MinLength, r.ExpectedLength)
	}
	if r.ExpectedLength > maxRepeat {
		return fmt.Errorf("rules: expected_length %d exceeds %d", r.ExpectedLength, maxRepeat)
	}
	if r.ExpectedLength <= 4 || r.ExpectedLength%4 != 0 {
		return fmt.Errorf("rules: expected_length %d must be a multiple of 4 greater than 4", r.ExpectedLength)
	}
	if r.MaxLinesAfterLabel < 0 || r.MaxLinesCombined < 0 || r.MaxLabelGap < 0 || r.MinLineLength < 0 {
		return errors.New("rules: window sizes must not be negative")
	}
	if r.MaxLabelGap > maxRepeat {
		return fmt.Errorf("rules: max_label_gap %d exceeds %d", r.MaxLabelGap, maxRepeat)
	}
	if r.FlexibleMinRun <= 0 || r.FlexibleMinRun > r.FlexibleMaxRun || r.FlexibleMaxRun > maxRepeat {
		return fmt.Errorf("rules: invalid flexible run range [%d, %d]", r.FlexibleMinRun, r.FlexibleMaxRun)
	}
	return nil
}
