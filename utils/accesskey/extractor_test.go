package accesskey

import (
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	spacedKey = "1234 5678 9012 3456 7890 1234 5678 9012 3456 7890 1234 5678"
	plainKey  = "123456789012345678901234567890123456789012345678"
)

// recorder keeps every trace event for inspection.
type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) Trace(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) kinds() []EventKind {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]EventKind, 0, len(r.events))
	for _, ev := range r.events {
		out = append(out, ev.Kind)
	}
	return out
}

func TestExtractKeyBelowLabel(t *testing.T) {
	text := strings.Join([]string{
		"DANFE",
		"Documento Auxiliar da Nota Fiscal Eletrônica",
		"CHAVE DE ACESSO",
		"",
		spacedKey,
		"Consulte a autenticidade no portal nacional",
	}, "\n")

	rec := &recorder{}
	e, err := New(DefaultRules(), WithDiagnostics(rec))
	require.NoError(t, err)

	res := e.Extract(text)

	assert.True(t, res.Found)
	assert.Equal(t, plainKey, res.Key)
	assert.Equal(t, StageProximity, res.Stage)

	require.NotEmpty(t, rec.events)
	assert.Equal(t, EventSample, rec.events[0].Kind)
	labelLine := -1
	for _, ev := range rec.events {
		if ev.Kind == EventLabel {
			labelLine = ev.Line
			break
		}
	}
	assert.Equal(t, 2, labelLine)
	assert.Equal(t, EventAccepted, rec.events[len(rec.events)-1].Kind)
}

func TestExtractInlineLabel(t *testing.T) {
	key44 := "12345678901234567890123456789012345678901234"

	res := Extract("Chave de Acesso: " + key44)

	assert.True(t, res.Found)
	assert.Equal(t, key44, res.Key)
	assert.Equal(t, StageFallbackLongRun, res.Stage)
}

func TestExtractIsolatedRunWithoutLabel(t *testing.T) {
	text := "Recibo de entrega\nNúmero " + plainKey + " emitido\nObrigado"

	res := Extract(text)

	assert.True(t, res.Found)
	assert.Equal(t, plainKey, res.Key)
	assert.Equal(t, StageFallbackIsolated, res.Stage)
}

func TestExtractNotFound(t *testing.T) {
	rec := &recorder{}
	e, err := New(DefaultRules(), WithDiagnostics(rec))
	require.NoError(t, err)

	res := e.Extract("Nota fiscal 12345\nValor total R$ 1.234,56\nCPF 123.456.789-00")

	assert.False(t, res.Found)
	assert.Empty(t, res.Key)
	assert.Empty(t, res.Stage)
	assert.Contains(t, rec.kinds(), EventNotFound)
}

func TestExtractTruncatesLabeledOverlongRun(t *testing.T) {
	run52 := plainKey + "9876"

	res := Extract("Chave de Acesso: " + run52)

	assert.True(t, res.Found)
	assert.Equal(t, plainKey, res.Key)
	assert.Equal(t, StageLabeled, res.Stage)
}

func TestExtractOverlongRunOnFollowingLine(t *testing.T) {
	res := Extract("CHAVE DE ACESSO\n" + plainKey + "9876")

	assert.True(t, res.Found)
	assert.Equal(t, plainKey, res.Key)
	assert.Equal(t, StageLabeled, res.Stage)
}

func TestExtractLongRunTruncated(t *testing.T) {
	res := Extract(strings.Repeat("7", 1000))

	assert.True(t, res.Found)
	assert.Equal(t, strings.Repeat("7", 48), res.Key)
	assert.Equal(t, StageFallbackLongRun, res.Stage)
}

func TestExtractNeverFailsOnOddInput(t *testing.T) {
	inputs := []string{
		"",
		"\n\n\r\n",
		"CHAVE DE ACESSO",
		"chave de acesso\n" + strings.Repeat("x", 5000),
		strings.Repeat("1", 43),
		strings.Repeat("1234 ", 11) + "123",
		"\x00\xff\xfe chave acesso   ",
	}

	for _, in := range inputs {
		assert.NotPanics(t, func() {
			res := Extract(in)
			if res.Found {
				assert.GreaterOrEqual(t, len(res.Key), 44)
				assert.LessOrEqual(t, len(res.Key), 48)
			}
		})
	}
}

func TestExtractIsIdempotent(t *testing.T) {
	texts := []string{
		"CHAVE DE ACESSO\n\n" + spacedKey,
		"Chave de Acesso: " + plainKey + "12",
		"nada aqui",
	}
	for _, text := range texts {
		assert.Equal(t, Extract(text), Extract(text))
	}
}

func TestExtractDoesNotMutateInput(t *testing.T) {
	lines := []string{"CHAVE DE ACESSO", "  " + spacedKey + "  "}
	snapshot := append([]string(nil), lines...)

	key, ok := defaultExtractor.SearchNear(lines, 0)

	assert.True(t, ok)
	assert.Equal(t, plainKey, key)
	assert.Equal(t, snapshot, lines)
}

func TestExtractConcurrentUse(t *testing.T) {
	text := "CHAVE DE ACESSO\n" + spacedKey

	var wg sync.WaitGroup
	results := make([]Result, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = Extract(text)
		}(i)
	}
	wg.Wait()

	for _, res := range results {
		assert.Equal(t, plainKey, res.Key)
	}
}

func TestExtractWithNFeRules(t *testing.T) {
	rules := DefaultRules()
	rules.ExpectedLength = 44
	rules.MinLength = 44

	e, err := New(rules)
	require.NoError(t, err)

	key44 := plainKey[:44]

	res := e.Extract("CHAVE DE ACESSO\n" + spacedKey[:len(spacedKey)-5])
	assert.True(t, res.Found)
	assert.Equal(t, key44, res.Key)

	res = e.Extract("Chave de acesso: " + plainKey)
	assert.True(t, res.Found)
	assert.Equal(t, key44, res.Key)
}

func TestNewRejectsInvalidRules(t *testing.T) {
	rules := DefaultRules()
	rules.MinLength = 50

	_, err := New(rules)
	assert.Error(t, err)
}

func TestRulesReturnsCopy(t *testing.T) {
	e, err := New(DefaultRules())
	require.NoError(t, err)

	r := e.Rules()
	r.LabelVariants[0] = "changed"

	assert.Equal(t, "chave de acesso", e.Rules().LabelVariants[0])
}
