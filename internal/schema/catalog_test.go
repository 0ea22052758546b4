package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
)

func loadTestCatalog(t *testing.T) *Catalog {
	t.Helper()
	c, err := LoadDir("../../testdata/types")
	require.NoError(t, err)
	return c
}

func TestLoadDir(t *testing.T) {
	c := loadTestCatalog(t)
	assert.Equal(t, []string{"Container", "Entity", "Item", "Mobile", "PlayerMobile"}, c.Names())
	assert.Equal(t, 5, c.Len())
}

func TestLoadDirErrors(t *testing.T) {
	_, err := LoadDir("does/not/exist")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")

	_, err = LoadDir(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no CUE files")
}

func TestCatalogLookupIgnoresCase(t *testing.T) {
	c := loadTestCatalog(t)

	spec, ok := c.Lookup("playermobile")
	require.True(t, ok)
	assert.Equal(t, "PlayerMobile", spec.Name)

	_, ok = c.Lookup("Spellbook")
	assert.False(t, ok)
}

func TestCatalogIsA(t *testing.T) {
	c := loadTestCatalog(t)

	tests := []struct {
		typ, ancestor string
		want          bool
	}{
		{"PlayerMobile", "Mobile", true},
		{"PlayerMobile", "entity", true},
		{"Mobile", "Mobile", true},
		{"Mobile", "PlayerMobile", false},
		{"Container", "Mobile", false},
		{"Unknown", "Entity", false},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, c.IsA(tt.typ, tt.ancestor), "%s is-a %s", tt.typ, tt.ancestor)
	}
}

func TestCatalogSubtypes(t *testing.T) {
	c := loadTestCatalog(t)

	assert.Equal(t, []string{"Container", "Entity", "Item", "Mobile", "PlayerMobile"}, c.Subtypes("Entity"))
	assert.Equal(t, []string{"Mobile", "PlayerMobile"}, c.Subtypes("mobile"))
	assert.Equal(t, []string{"Container"}, c.Subtypes("Container"))
	assert.Nil(t, c.Subtypes("Unknown"))
}

func TestCatalogPropertyWalksParents(t *testing.T) {
	c := loadTestCatalog(t)

	p, ok := c.Property("PlayerMobile", "hits")
	require.True(t, ok)
	assert.Equal(t, ir.KindInt, p.Kind)

	p, ok = c.Property("PlayerMobile", "Name")
	require.True(t, ok)
	assert.Equal(t, ir.KindString, p.Kind)

	_, ok = c.Property("Mobile", "guild")
	assert.False(t, ok, "properties do not flow down to parents")

	p, ok = c.Property("Item", "serial")
	require.True(t, ok, "built-ins are visible on every type")
	assert.Equal(t, ir.KindInt, p.Kind)

	_, ok = c.Property("Unknown", "serial")
	assert.False(t, ok)
}

func TestCatalogPropertyNames(t *testing.T) {
	c := loadTestCatalog(t)
	assert.Equal(t,
		[]string{"maxItems", "amount", "hue", "movable", "weight", "owner", "name", "location", "deleted", "serial", "type"},
		c.PropertyNames("Container"))
	assert.Empty(t, c.PropertyNames("Unknown"))
}

func TestNewCatalogErrors(t *testing.T) {
	tests := []struct {
		name    string
		specs   []ir.TypeSpec
		wantMsg string
	}{
		{
			name:    "duplicate",
			specs:   []ir.TypeSpec{{Name: "Item"}, {Name: "ITEM"}},
			wantMsg: "duplicate type name",
		},
		{
			name:    "unknown parent",
			specs:   []ir.TypeSpec{{Name: "Item", Parent: "Entity"}},
			wantMsg: "unknown parent",
		},
		{
			name:    "cycle",
			specs:   []ir.TypeSpec{{Name: "A", Parent: "B"}, {Name: "B", Parent: "A"}},
			wantMsg: "inheritance cycle",
		},
		{
			name: "redeclared inherited property",
			specs: []ir.TypeSpec{
				{Name: "Entity", Properties: []ir.PropertySpec{{Name: "name", Kind: ir.KindString}}},
				{Name: "Item", Parent: "Entity", Properties: []ir.PropertySpec{{Name: "Name", Kind: ir.KindInt}}},
			},
			wantMsg: "redeclares property",
		},
		{
			name:    "reserved name",
			specs:   []ir.TypeSpec{{Name: "Item", Properties: []ir.PropertySpec{{Name: "Serial", Kind: ir.KindInt}}}},
			wantMsg: "reserved",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewCatalog(tt.specs)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestLoadString(t *testing.T) {
	c, err := LoadString(`type: Gold: properties: amount: int`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Gold"}, c.Names())
}
