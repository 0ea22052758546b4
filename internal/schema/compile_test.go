package schema

import (
	"testing"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
)

func TestCompileTypeBasic(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		type: Mobile: {
			parent: "Entity"
			properties: {
				hits:    int
				title:   string
				female:  bool
				account: {kind: "string", access: "Administrator"}
				stats:   {str: int, dex: int}
			}
		}
	`)
	require.NoError(t, v.Err())

	spec, err := CompileType(v.LookupPath(cue.ParsePath("type.Mobile")))
	require.NoError(t, err)

	assert.Equal(t, "Mobile", spec.Name)
	assert.Equal(t, "Entity", spec.Parent)
	require.Len(t, spec.Properties, 5)

	hits, ok := spec.Property("hits")
	require.True(t, ok)
	assert.Equal(t, ir.KindInt, hits.Kind)
	assert.Equal(t, ir.AccessPlayer, hits.Access)

	account, ok := spec.Property("ACCOUNT")
	require.True(t, ok, "property lookup ignores case")
	assert.Equal(t, ir.KindString, account.Kind)
	assert.Equal(t, ir.AccessAdministrator, account.Access)

	stats, ok := spec.Property("stats")
	require.True(t, ok)
	assert.Equal(t, ir.KindObject, stats.Kind)
	assert.Equal(t, []string{"str", "dex"}, stats.Names())
}

func TestCompileTypeDescriptorWithNestedProperties(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		type: Player: {
			properties: {
				skills: {
					kind:   "object"
					access: "counselor"
					properties: {magery: int}
				}
			}
		}
	`)

	spec, err := CompileType(v.LookupPath(cue.ParsePath("type.Player")))
	require.NoError(t, err)

	skills, ok := spec.Property("skills")
	require.True(t, ok)
	assert.Equal(t, ir.KindObject, skills.Kind)
	assert.Equal(t, ir.AccessCounselor, skills.Access)

	magery, ok := skills.Property("magery")
	require.True(t, ok)
	assert.Equal(t, ir.KindInt, magery.Kind)
}

func TestCompileTypeNestedPropertyNamedKind(t *testing.T) {
	ctx := cuecontext.New()
	v := ctx.CompileString(`
		type: Spell: {
			properties: {
				reagent: {kind: string, amount: int}
			}
		}
	`)

	spec, err := CompileType(v.LookupPath(cue.ParsePath("type.Spell")))
	require.NoError(t, err)

	reagent, ok := spec.Property("reagent")
	require.True(t, ok)
	assert.Equal(t, ir.KindObject, reagent.Kind, "a non-concrete kind field is an ordinary property")
	assert.Equal(t, []string{"kind", "amount"}, reagent.Names())
}

func TestCompileTypeErrors(t *testing.T) {
	tests := []struct {
		name    string
		src     string
		wantMsg string
	}{
		{
			name:    "float forbidden",
			src:     `type: Bad: properties: weight: float`,
			wantMsg: "float",
		},
		{
			name:    "number forbidden",
			src:     `type: Bad: properties: weight: number`,
			wantMsg: "float",
		},
		{
			name:    "unknown kind",
			src:     `type: Bad: properties: weight: {kind: "decimal"}`,
			wantMsg: "unknown kind",
		},
		{
			name:    "unknown access",
			src:     `type: Bad: properties: weight: {kind: "int", access: "Emperor"}`,
			wantMsg: "unknown access level",
		},
		{
			name:    "nested properties on scalar",
			src:     `type: Bad: properties: weight: {kind: "int", properties: {x: int}}`,
			wantMsg: "only object properties",
		},
		{
			name:    "list unsupported",
			src:     `type: Bad: properties: tags: [...string]`,
			wantMsg: "unsupported type kind",
		},
		{
			name:    "case-insensitive duplicate",
			src:     `type: Bad: properties: {hits: int, Hits: int}`,
			wantMsg: "declared twice",
		},
		{
			name:    "non-string parent",
			src:     `type: Bad: parent: 3`,
			wantMsg: "parent must be a concrete string",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := cuecontext.New().CompileString(tt.src)
			require.NoError(t, v.Err())
			_, err := CompileTypes(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestCompileErrorCarriesPosition(t *testing.T) {
	v := cuecontext.New().CompileString("type: Bad: {\n\tproperties: weight: float\n}", cue.Filename("bad.cue"))
	_, err := CompileTypes(v)
	require.Error(t, err)

	var compileErr *CompileError
	require.ErrorAs(t, err, &compileErr)
	assert.True(t, compileErr.Pos.IsValid())
	assert.Equal(t, 2, compileErr.Pos.Line())
	assert.Contains(t, err.Error(), "bad.cue:2:")
}

func TestCompileTypesWithoutTypeField(t *testing.T) {
	v := cuecontext.New().CompileString(`other: 1`)
	specs, err := CompileTypes(v)
	require.NoError(t, err)
	assert.Empty(t, specs)
}
