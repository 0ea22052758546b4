package binder

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryerr"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
)

type fakeObject struct {
	typeName string
	props    ir.IRObject
}

func (o fakeObject) TypeName() string { return o.typeName }

func (o fakeObject) Property(name string) (ir.IRValue, bool) {
	v, ok := o.props[name]
	return v, ok
}

func newTestBinder(t *testing.T) *Binder {
	t.Helper()
	c, err := schema.LoadDir("../../testdata/types")
	require.NoError(t, err)
	return New(c)
}

func TestBindTopLevel(t *testing.T) {
	b := newTestBinder(t)

	acc, err := b.Bind("Mobile", "HITS")
	require.NoError(t, err)
	assert.Equal(t, "Mobile", acc.Type)
	assert.Equal(t, []string{"hits"}, acc.Path)
	assert.Equal(t, ir.KindInt, acc.Kind)
	assert.Equal(t, ir.AccessPlayer, acc.Access)
	assert.Equal(t, "hits", acc.String())
}

func TestBindInheritedAndNested(t *testing.T) {
	b := newTestBinder(t)

	acc, err := b.Bind("playermobile", "location.X")
	require.NoError(t, err)
	assert.Equal(t, "PlayerMobile", acc.Type)
	assert.Equal(t, []string{"location", "x"}, acc.Path)
	assert.Equal(t, ir.KindInt, acc.Kind)
}

func TestBindAccessIsMaxAlongPath(t *testing.T) {
	b := newTestBinder(t)

	acc, err := b.Bind("PlayerMobile", "skills.magery")
	require.NoError(t, err)
	assert.Equal(t, ir.AccessCounselor, acc.Access)

	require.NoError(t, acc.CheckAccess(ir.Actor{Name: "gm", Access: ir.AccessGameMaster}))

	err = acc.CheckAccess(ir.Actor{Name: "player", Access: ir.AccessPlayer})
	require.Error(t, err)
	assert.True(t, queryerr.IsBinding(err))
	assert.Contains(t, err.Error(), "access denied")
	assert.Contains(t, err.Error(), "Counselor")
}

func TestBindErrors(t *testing.T) {
	b := newTestBinder(t)

	tests := []struct {
		name      string
		typeName  string
		path      string
		wantCode  queryerr.Code
		wantToken string
		wantHints []string
	}{
		{
			name:      "unknown property with typo",
			typeName:  "Mobile",
			path:      "hitz",
			wantCode:  queryerr.CodeBinding,
			wantToken: "hitz",
			wantHints: []string{"hits"},
		},
		{
			name:      "unknown nested property",
			typeName:  "Mobile",
			path:      "stats.strength",
			wantCode:  queryerr.CodeBinding,
			wantToken: "strength",
		},
		{
			name:      "descend into scalar",
			typeName:  "Mobile",
			path:      "hits.max",
			wantCode:  queryerr.CodeBinding,
			wantToken: "hits.max",
		},
		{
			name:      "empty segment",
			typeName:  "Mobile",
			path:      "stats..str",
			wantCode:  queryerr.CodeBinding,
			wantToken: "stats..str",
		},
		{
			name:      "unknown type",
			typeName:  "Mobil",
			path:      "hits",
			wantCode:  queryerr.CodeSemantic,
			wantToken: "Mobil",
			wantHints: []string{"Mobile"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Bind(tt.typeName, tt.path)
			require.Error(t, err)

			var qe *queryerr.Error
			require.ErrorAs(t, err, &qe)
			assert.Equal(t, tt.wantCode, qe.Code)
			assert.Equal(t, tt.wantToken, qe.Token)
			for _, h := range tt.wantHints {
				assert.Contains(t, qe.Suggestions, h)
			}
		})
	}
}

func TestBindCachesAccessors(t *testing.T) {
	b := newTestBinder(t)

	a1, err := b.Bind("Mobile", "hits")
	require.NoError(t, err)
	a2, err := b.Bind("MOBILE", "Hits")
	require.NoError(t, err)

	assert.Same(t, a1, a2)
	assert.Equal(t, 1, b.Cached())

	_, err = b.Bind("Mobile", "nope")
	require.Error(t, err)
	assert.Equal(t, 1, b.Cached(), "failed bindings are not cached")
}

func TestBindConcurrent(t *testing.T) {
	b := newTestBinder(t)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, p := range []string{"hits", "stats.str", "name", "serial"} {
				_, err := b.Bind("Mobile", p)
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 4, b.Cached())
}

func TestAccessorRead(t *testing.T) {
	b := newTestBinder(t)
	obj := fakeObject{typeName: "Mobile", props: ir.IRObject{
		"hits":  ir.IRInt(42),
		"stats": ir.IRObject{"str": ir.IRInt(90)},
		"title": ir.IRString("the Bard"),
	}}

	tests := []struct {
		path string
		want ir.IRValue
	}{
		{"hits", ir.IRInt(42)},
		{"stats.str", ir.IRInt(90)},
		{"stats.dex", ir.IRNull{}},
		{"location.x", ir.IRNull{}},
		{"female", ir.IRNull{}},
	}
	for _, tt := range tests {
		acc, err := b.Bind("Mobile", tt.path)
		require.NoError(t, err)
		assert.Equal(t, tt.want, acc.Read(obj), tt.path)
	}
}

func TestAccessorCompare(t *testing.T) {
	b := newTestBinder(t)
	acc, err := b.Bind("Mobile", "hits")
	require.NoError(t, err)

	weak := fakeObject{typeName: "Mobile", props: ir.IRObject{"hits": ir.IRInt(5)}}
	strong := fakeObject{typeName: "Mobile", props: ir.IRObject{"hits": ir.IRInt(50)}}
	missing := fakeObject{typeName: "Mobile", props: ir.IRObject{}}

	assert.Equal(t, -1, acc.Compare(weak, strong))
	assert.Equal(t, 1, acc.Compare(strong, weak))
	assert.Equal(t, 0, acc.Compare(weak, weak))
	assert.Equal(t, -1, acc.Compare(missing, weak), "missing values sort first")
}
