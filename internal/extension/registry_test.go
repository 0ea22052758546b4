package extension

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryLookupIgnoresCase(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)

	for _, name := range []string{"Where", "where", "WHERE", "wHeRe"} {
		d, ok := r.Lookup(name)
		require.True(t, ok, name)
		assert.Equal(t, "Where", d.Name)
		assert.Equal(t, OrderWhere, d.Order)
		assert.True(t, d.IsVariadic())
	}

	d, ok := r.Lookup("limit")
	require.True(t, ok)
	assert.Equal(t, 1, d.Arity)

	_, ok = r.Lookup("Having")
	assert.False(t, ok)
}

func TestRegistryRegisterIsIdempotentUpsert(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)
	RegisterBuiltins(r)
	assert.Equal(t, 4, r.Len())

	r.Register(Descriptor{Name: "LIMIT", Order: 90, Arity: 1, New: func() Extension { return &Limit{} }})
	assert.Equal(t, 4, r.Len(), "registration is keyed case-insensitively")

	d, ok := r.Lookup("Limit")
	require.True(t, ok)
	assert.Equal(t, 90, d.Order)
}

func TestRegistryDescriptorsSorted(t *testing.T) {
	r := NewRegistry()
	RegisterBuiltins(r)
	r.Register(Descriptor{Name: "Top", Order: OrderLimit, Arity: 1, New: func() Extension { return &Limit{} }})

	var names []string
	for _, d := range r.Descriptors() {
		names = append(names, d.Name)
	}
	assert.Equal(t, []string{"Where", "Distinct", "Sort", "Limit", "Top"}, names)
}

func TestRegistryRejectsInvalidDescriptors(t *testing.T) {
	r := NewRegistry()
	assert.Panics(t, func() { r.Register(Descriptor{Name: "", New: func() Extension { return &Limit{} }}) })
	assert.Panics(t, func() { r.Register(Descriptor{Name: "Limit"}) })
	assert.Panics(t, func() { r.Register(Descriptor{Name: "Limit", Arity: -2, New: func() Extension { return &Limit{} }}) })
}

func TestDefaultRegistry(t *testing.T) {
	Initialize()
	Initialize()
	assert.Equal(t, 4, Default().Len())
	assert.Same(t, Default(), Default())
}

func TestDescriptorString(t *testing.T) {
	assert.Equal(t, "Where(order=20, arity=variadic)",
		Descriptor{Name: "Where", Order: 20, Arity: Variadic}.String())
	assert.Equal(t, "Limit(order=80, arity=1)",
		Descriptor{Name: "Limit", Order: 80, Arity: 1}.String())
}
