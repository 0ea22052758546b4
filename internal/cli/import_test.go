package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/store"
	"github.com/aasr-admin/uoAvox-Server-Development-sub001/internal/testutil"
)

// importWorld imports the britain world into db.
func importWorld(t *testing.T, db string) {
	t.Helper()
	cmd := NewImportCommand(&RootOptions{Format: "text"})
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetArgs([]string{"--types", testutil.TypesDir(t), "--db", db, testutil.WorldPath(t, "britain")})
	require.NoError(t, cmd.Execute())
}

func TestImportText(t *testing.T) {
	db := filepath.Join(t.TempDir(), "world.db")

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewImportCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--types", testutil.TypesDir(t), "--db", db, "--id", "imp-1", testutil.WorldPath(t, "britain")})

	require.NoError(t, cmd.Execute())

	output := buf.String()
	assert.Contains(t, output, "\u2713 Imported 11 object(s) into "+db)
	assert.Contains(t, output, "  import imp-1 (seq 1)")
	assert.Regexp(t, `  digest [0-9a-f]{64}\n`, output)
}

func TestImportTwiceAppendsLog(t *testing.T) {
	db := filepath.Join(t.TempDir(), "world.db")
	importWorld(t, db)

	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "json"}
	cmd := NewImportCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--types", testutil.TypesDir(t), "--db", db, "--id", "imp-2", testutil.WorldPath(t, "britain")})
	require.NoError(t, cmd.Execute())

	var resp struct {
		Status string       `json:"status"`
		Data   store.Import `json:"data"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.Equal(t, "imp-2", resp.Data.ID)
	assert.Equal(t, int64(2), resp.Data.Seq)
	assert.Equal(t, "britain.yaml", resp.Data.Source)
	assert.Equal(t, 11, resp.Data.Objects)

	st, err := store.Open(db)
	require.NoError(t, err)
	defer st.Close()

	n, err := st.CountObjects(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 11, n, "an import replaces the world")
}

func TestImportRequiresDB(t *testing.T) {
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewImportCommand(rootOpts)
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{testutil.WorldPath(t, "britain")})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `required flag(s) "db" not set`)
}

func TestImportMissingWorld(t *testing.T) {
	buf := &bytes.Buffer{}
	rootOpts := &RootOptions{Format: "text"}
	cmd := NewImportCommand(rootOpts)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--types", testutil.TypesDir(t), "--db", filepath.Join(t.TempDir(), "w.db"), "/nonexistent/world.yaml"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Equal(t, ExitCommandError, GetExitCode(err))
	assert.Contains(t, buf.String(), "Error [E005]")
}
