package accesskey

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean(t *testing.T) {
	key48 := strings.Repeat("1234", 12)

	tests := []struct {
		name      string
		candidate string
		want      string
		wantOK    bool
	}{
		{name: "exact length", candidate: key48, want: key48, wantOK: true},
		{name: "over length keeps leading digits", candidate: key48 + "99", want: key48, wantOK: true},
		{name: "too short", candidate: strings.Repeat("1", 43), wantOK: false},
		{name: "minimum length", candidate: strings.Repeat("1", 44), want: strings.Repeat("1", 44), wantOK: true},
		{name: "strips separators", candidate: "1234 5678.9012-3456/7890 1234 5678 9012 3456 7890 1234 5678", want: "123456789012345678901234567890123456789012345678", wantOK: true},
		{name: "empty", candidate: "", wantOK: false},
		{name: "letters only", candidate: "chave de acesso", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Clean(tt.candidate)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDigitsOnly(t *testing.T) {
	assert.Equal(t, "0123456789", DigitsOnly("a0b1 2-3\t4 5６6789"))
	assert.Equal(t, "", DigitsOnly("sem digitos"))
}

func TestStripSpace(t *testing.T) {
	assert.Equal(t, "12345678", stripSpace("1234 5678"))
	assert.Equal(t, "12345678", stripSpace(" 1234\t\n5678 "))
}
