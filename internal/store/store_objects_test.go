package store

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/ir"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/schema"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/world"
)

func TestPutObjects_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	lb := &world.Object{
		Serial: 0x1,
		Type:   "PlayerMobile",
		Props: ir.IRObject{
			"name":  ir.IRString("Lord British"),
			"stats": ir.IRObject{"str": ir.IRInt(100), "dex": ir.IRInt(100)},
			"title": ir.IRNull{},
		},
	}
	require.NoError(t, s.PutObjects(ctx, []*world.Object{lb}))

	got, err := s.ReadObject(ctx, 0x1)
	require.NoError(t, err)
	assert.Equal(t, lb, got)

	_, err = s.ReadObject(ctx, 0x2)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestPutObjects_ReplacesBySerial(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutObjects(ctx, []*world.Object{createTestObject(1, "Dupre", 80)}))
	require.NoError(t, s.PutObjects(ctx, []*world.Object{createTestObject(1, "Dupre", 20)}))

	n, err := s.CountObjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.ReadObject(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, ir.IRInt(20), got.Props["hits"])
}

func TestCandidates_OrderedBySerial(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	objs := []*world.Object{
		createTestObject(30, "Shamino", 60),
		createTestObject(10, "Iolo", 45),
		createTestObject(20, "Dupre", 80),
	}
	require.NoError(t, s.PutObjects(ctx, objs))

	candidates, err := s.Candidates(ctx)
	require.NoError(t, err)
	require.Len(t, candidates, 3)

	var serials []int64
	for _, c := range candidates {
		serials = append(serials, c.(*world.Object).Serial)
	}
	assert.Equal(t, []int64{10, 20, 30}, serials)
}

func TestCandidates_EmptyStore(t *testing.T) {
	s := createTestStore(t)

	candidates, err := s.Candidates(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, candidates)
	assert.Empty(t, candidates)
}

func TestQueryObjects_PreservesRowOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	require.NoError(t, s.PutObjects(ctx, []*world.Object{
		createTestObject(1, "Dupre", 80),
		createTestObject(2, "Iolo", 45),
		createTestObject(3, "Shamino", 60),
	}))

	objs, err := s.QueryObjects(ctx, `
		SELECT serial, type, props, json_extract(props, '$.hits') AS k
		FROM objects
		WHERE json_extract(props, '$.hits') > ?
		ORDER BY k DESC
	`, 50)
	require.NoError(t, err)
	require.Len(t, objs, 2)
	assert.Equal(t, int64(1), objs[0].Serial)
	assert.Equal(t, int64(3), objs[1].Serial)

	_, err = s.QueryObjects(ctx, `SELECT serial FROM objects`)
	assert.Error(t, err)
}

func TestImportSnapshot(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	c, err := schema.LoadDir("../../testdata/types")
	require.NoError(t, err)
	snap, err := world.LoadFile("../../testdata/worlds/britain.yaml", c)
	require.NoError(t, err)

	imp, err := s.ImportSnapshot(ctx, "imp-1", "britain.yaml", snap.Objects())
	require.NoError(t, err)
	assert.Equal(t, int64(1), imp.Seq)
	assert.Equal(t, 11, imp.Objects)
	assert.Len(t, imp.Digest, 64)

	stored, err := s.ReadObjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, snap.Objects(), stored, "britain.yaml lists objects in serial order")

	// A second import replaces the objects and appends to the log.
	imp2, err := s.ImportSnapshot(ctx, "imp-2", "small", []*world.Object{createTestObject(5, "Katrina", 50)})
	require.NoError(t, err)
	assert.Equal(t, int64(2), imp2.Seq)

	n, err := s.CountObjects(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	imports, err := s.ReadImports(ctx)
	require.NoError(t, err)
	require.Len(t, imports, 2)
	assert.Equal(t, imp, imports[0])
	assert.Equal(t, imp2, imports[1])
}

func TestImportSnapshot_DigestIgnoresInputOrder(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	a := createTestObject(1, "Dupre", 80)
	b := createTestObject(2, "Iolo", 45)

	imp1, err := s.ImportSnapshot(ctx, "x", "ab", []*world.Object{a, b})
	require.NoError(t, err)
	imp2, err := s.ImportSnapshot(ctx, "y", "ba", []*world.Object{b, a})
	require.NoError(t, err)
	assert.Equal(t, imp1.Digest, imp2.Digest)
}

func TestImportSnapshot_DuplicateIDRollsBack(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	_, err := s.ImportSnapshot(ctx, "same", "first", []*world.Object{createTestObject(1, "Dupre", 80)})
	require.NoError(t, err)
	_, err = s.ImportSnapshot(ctx, "same", "second", []*world.Object{createTestObject(2, "Iolo", 45)})
	require.Error(t, err)

	objs, err := s.ReadObjects(ctx)
	require.NoError(t, err)
	require.Len(t, objs, 1)
	assert.Equal(t, int64(1), objs[0].Serial, "failed import must not clear existing objects")
}
