package extension

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/binder"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

var (
	owner  = ir.Actor{Name: "owner", Access: ir.AccessOwner}
	player = ir.Actor{Name: "player", Access: ir.AccessPlayer}
)

func newTestParser(t testing.TB) *Parser {
	t.Helper()
	c, err := schema.LoadDir("../../testdata/types")
	require.NoError(t, err)

	r := NewRegistry()
	RegisterBuiltins(r)
	return NewParser(r, binder.New(c))
}

// mob builds a Mobile with the given hits and title.
func mob(serial int64, title string, hits int64) *world.Object {
	props := ir.IRObject{"hits": ir.IRInt(hits)}
	if title != "" {
		props["title"] = ir.IRString(title)
	}
	return &world.Object{Serial: serial, Type: "Mobile", Props: props}
}

func objects(objs ...*world.Object) []Object {
	out := make([]Object, len(objs))
	for i, o := range objs {
		out[i] = o
	}
	return out
}

func serials(objs []Object) []int64 {
	out := make([]int64, len(objs))
	for i, o := range objs {
		out[i] = o.(*world.Object).Serial
	}
	return out
}

// run parses src as owner and executes it over objs.
func run(t *testing.T, p *Parser, src string, objs []Object) []int64 {
	t.Helper()
	_, pipeline, err := p.Parse(owner, strings.Fields(src))
	require.NoError(t, err)
	result, err := pipeline.Execute(objs)
	require.NoError(t, err)
	return serials(result)
}
