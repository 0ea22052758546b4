package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseInt(t *testing.T) {
	tests := []struct {
		input string
		want  int64
	}{
		{"0", 0},
		{"42", 42},
		{"010", 10},
		{"08", 8},
		{"-12", -12},
		{"+7", 7},
		{"0x10", 16},
		{"0XfF", 255},
		{"-0x10", -16},
		{"0o17", 15},
		{"0b101", 5},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseInt(tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseIntRejects(t *testing.T) {
	for _, in := range []string{"", "1_0", "0x_10", "0x", "0x-5", "-", "ten", "1.5", "0b102", "99999999999999999999"} {
		_, err := ParseInt(in)
		assert.Error(t, err, in)
	}
}
