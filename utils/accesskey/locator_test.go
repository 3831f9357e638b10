package accesskey

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLocate(t *testing.T) {
	tests := []struct {
		name   string
		lines  []string
		want   int
		wantOK bool
	}{
		{
			name:   "spaced label",
			lines:  []string{"DANFE", "Documento Auxiliar", "NF-e 000.123", "CHAVE   DE    ACESSO:", "1234"},
			want:   3,
			wantOK: true,
		},
		{
			name:   "lower case without connector",
			lines:  []string{"emitente", "chave acesso nfe"},
			want:   1,
			wantOK: true,
		},
		{
			name:   "earliest line wins",
			lines:  []string{"Chave de Acesso", "CHAVE DE ACESSO"},
			want:   0,
			wantOK: true,
		},
		{
			name:   "words on different lines",
			lines:  []string{"chave", "acesso"},
			want:   -1,
			wantOK: false,
		},
		{
			name:   "no lines",
			lines:  nil,
			want:   -1,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Locate(tt.lines)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSplitLines(t *testing.T) {
	assert.Equal(t, []string{"a", "b", "", "c"}, SplitLines("a\r\nb\n\nc"))
	assert.Equal(t, []string{""}, SplitLines(""))
}
