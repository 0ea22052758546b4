package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResultDigestDeterministic(t *testing.T) {
	rows := []IRObject{
		{"serial": IRInt(1), "name": IRString("Iolo")},
		{"serial": IRInt(2), "name": IRNull{}},
	}

	a, err := ResultDigest(rows)
	require.NoError(t, err)
	b, err := ResultDigest([]IRObject{
		{"name": IRString("Iolo"), "serial": IRInt(1)},
		{"name": IRNull{}, "serial": IRInt(2)},
	})
	require.NoError(t, err)

	assert.Equal(t, a, b, "key order must not matter")
	assert.Len(t, a, 64)
}

func TestResultDigestOrderSensitive(t *testing.T) {
	r1 := IRObject{"serial": IRInt(1)}
	r2 := IRObject{"serial": IRInt(2)}

	a, err := ResultDigest([]IRObject{r1, r2})
	require.NoError(t, err)
	b, err := ResultDigest([]IRObject{r2, r1})
	require.NoError(t, err)
	assert.NotEqual(t, a, b)
}

func TestHashWithDomainSeparation(t *testing.T) {
	assert.NotEqual(t, hashWithDomain("a", []byte("bc")), hashWithDomain("ab", []byte("c")))
}
