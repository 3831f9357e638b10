package accesskey

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestZapDiagnostics(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	e, err := New(DefaultRules(), WithDiagnostics(NewZapDiagnostics(zap.New(core))))
	require.NoError(t, err)

	res := e.Extract("CHAVE DE ACESSO\n" + spacedKey)
	require.True(t, res.Found)

	label := logs.FilterMessage(string(EventLabel)).All()
	require.Len(t, label, 1)
	assert.Equal(t, "accesskey", label[0].LoggerName)
	assert.Equal(t, int64(0), label[0].ContextMap()["line"])

	accepted := logs.FilterMessage(string(EventAccepted)).All()
	require.Len(t, accepted, 1)
	assert.Equal(t, plainKey, accepted[0].ContextMap()["key"])
	assert.Equal(t, string(StageProximity), accepted[0].ContextMap()["stage"])
}

func TestZapDiagnosticsSilentAboveDebug(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	e, err := New(DefaultRules(), WithDiagnostics(NewZapDiagnostics(zap.New(core))))
	require.NoError(t, err)

	e.Extract("nada")
	assert.Zero(t, logs.Len())
}

func TestDiagnosticsDoNotChangeResult(t *testing.T) {
	text := "Chave de Acesso: " + plainKey + "77"
	traced, err := New(DefaultRules(), WithDiagnostics(&recorder{}))
	require.NoError(t, err)

	assert.Equal(t, Extract(text), traced.Extract(text))
}
