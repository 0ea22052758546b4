package queryerr

import (
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorFormatting(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "message only",
			err:  Syntax("invalid ordering syntax"),
			want: "SYNTAX_ERROR: invalid ordering syntax",
		},
		{
			name: "with token",
			err:  Syntax("invalid extended argument count").WithToken("Limit"),
			want: `SYNTAX_ERROR: invalid extended argument count (at "Limit")`,
		},
		{
			name: "with suggestions",
			err:  &Error{Code: CodeBinding, Message: "unknown property", Token: "nmae", Suggestions: []string{"name"}},
			want: `BINDING_ERROR: unknown property (at "nmae"); did you mean [name]?`,
		},
		{
			name: "with cause",
			err:  &Error{Code: CodeSemantic, Message: "load failed", Err: io.EOF},
			want: "SEMANTIC_ERROR: load failed: EOF",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Error())
		})
	}
}

func TestPredicatesSeeThroughWrapping(t *testing.T) {
	wrapped := fmt.Errorf("parse: %w", Semantic("no base type"))

	assert.True(t, IsSemantic(wrapped))
	assert.False(t, IsSyntax(wrapped))
	assert.False(t, IsBinding(wrapped))
	assert.Equal(t, CodeSemantic, CodeOf(wrapped))
	assert.Equal(t, Code(""), CodeOf(errors.New("plain")))
}

func TestUnwrap(t *testing.T) {
	err := &Error{Code: CodeBinding, Message: "x", Err: io.ErrUnexpectedEOF}
	assert.ErrorIs(t, err, io.ErrUnexpectedEOF)
}
