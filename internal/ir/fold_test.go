package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFoldCase(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"The Bard", "the bard"},
		{"STRASSE", "strasse"},
		{"Stra\u00dfe", "strasse"},
		{"\u212aelvin", "kelvin"},
		{"CAF\u00c9", "caf\u00e9"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FoldCase(tt.in))
		})
	}
}
