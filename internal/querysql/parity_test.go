package querysql_test

import (
	"context"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/binder"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/extension"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/queryir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/querysql"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/store"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/testutil"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

// TestSQLMatchesInMemory runs each command both through the in-memory
// pipeline and as rendered SQL over the same imported world.
func TestSQLMatchesInMemory(t *testing.T) {
	ctx := context.Background()

	catalog := testutil.LoadCatalog(t)
	snap := testutil.LoadWorld(t, catalog, "britain")

	s, err := store.Open(filepath.Join(t.TempDir(), "world.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	_, err = s.ImportSnapshot(ctx, "parity", "britain.yaml", snap.Objects())
	require.NoError(t, err)

	candidates, err := s.Candidates(ctx)
	require.NoError(t, err)

	parser := extension.NewParser(nil, binder.New(catalog))
	compiler := querysql.NewSQLCompiler()
	actor := ir.Actor{Name: "parity", Access: ir.AccessOwner}

	commands := [][]string{
		strings.Fields("Where Mobile"),
		strings.Fields("Where Entity Sort name"),
		strings.Fields("Where Mobile hits > 50 Sort hits desc"),
		strings.Fields("Where Mobile hits <= 60 and not female"),
		strings.Fields("Where PlayerMobile Distinct guild"),
		strings.Fields("Where Mobile Distinct female Sort hits desc"),
		strings.Fields("Where Mobile Sort title Distinct female Limit 2"),
		strings.Fields("Where Entity Distinct type Sort type desc"),
		strings.Fields("Where Item amount >= 500 Sort amount desc"),
		strings.Fields("Where Item owner == Iolo"),
		strings.Fields("Where Item movable == false"),
		strings.Fields("Where Item movable != false"),
		strings.Fields("Where Entity not deleted Sort serial desc Limit 4"),
		strings.Fields("Where Mobile title starts the"),
		strings.Fields("Where Mobile title contains a or hits < 50"),
		strings.Fields("Where Mobile title ends~ D"),
		strings.Fields("Where Mobile title != null Sort title"),
		strings.Fields("Where Mobile title == null"),
		strings.Fields("Where Mobile female"),
		strings.Fields("Where Mobile stats.str >= 50 Sort stats.str"),
		strings.Fields("Where PlayerMobile skills.magery > 50 or skills.fencing > 50"),
		strings.Fields("Where Entity location.map == Trammel Sort location.x desc name"),
		strings.Fields("Where Mobile Sort hits desc Limit 0"),
		strings.Fields("Limit 3"),
		{"Where", "Mobile", "title", "==~", `"THE BARD"`},
		{"Where", "Entity", "name", "!=", `"Lord British"`, "Distinct", "type", "Sort", "name", "desc"},
	}

	for _, tokens := range commands {
		name := strings.Join(tokens, " ")
		t.Run(name, func(t *testing.T) {
			_, pipeline, err := parser.Parse(actor, tokens)
			require.NoError(t, err)

			mem, err := pipeline.Execute(candidates)
			require.NoError(t, err)

			sel, err := pipeline.Query()
			require.NoError(t, err)
			require.True(t, queryir.Validate(sel).IsPortable, queryir.Validate(sel).Warnings)

			query, params, err := compiler.Compile(sel)
			require.NoError(t, err)
			rows, err := s.QueryObjects(ctx, query, params...)
			require.NoError(t, err, query)

			assert.Equal(t, serialsOf(mem), serialsOfRows(rows), query)
		})
	}
}

func serialsOf(objs []extension.Object) []int64 {
	out := []int64{}
	for _, o := range objs {
		out = append(out, o.(*world.Object).Serial)
	}
	return out
}

func serialsOfRows(objs []*world.Object) []int64 {
	out := []int64{}
	for _, o := range objs {
		out = append(out, o.Serial)
	}
	return out
}
