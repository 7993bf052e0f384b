package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o600))
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(t.Context())
	return out.String(), err
}

func TestGenNeighborCommand(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "wikipedia")
	require.NoError(t, os.MkdirAll(dir, 0o755))

	writeFile(t, dir, "test.json", `[{"id":100,"emb":[0,0]}]`)
	writeFile(t, dir, "train-00.json", `[{"id":1,"emb":[1,0],"cat":5},{"id":2,"emb":[2,0],"cat":6},{"id":3,"emb":[3,0],"cat":5}]`)

	out, err := execute(t, "gen-neighbor",
		"--dataset", dir,
		"--query-file", "test.json",
		"--dimension", "2",
		"--nearest-neighbor-num", "1",
		"--filter-field", "cat:int:6:eq",
		"--log-level", "error",
	)
	require.NoError(t, err)
	assert.Contains(t, out, "total_count: 3 filter_count: 2")

	data, err := os.ReadFile(filepath.Join(dir, "test.json.neighbor"))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"neighbors":[{"id":2,"distance":4}]`)
	assert.Contains(t, string(data), `"filter":"cat:int:6:eq"`)
}

func TestGenNeighborCommandRejectsUnknownDataset(t *testing.T) {
	_, err := execute(t, "gen-neighbor", "--dataset", t.TempDir(), "--query-file", "q.json", "--dimension", "2", "--log-level", "error")
	assert.Error(t, err)
}

func TestSplitCommand(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "base.json", `[{"id":1},{"id":2},{"id":3}]`)

	out, err := execute(t, "split", "base.json", "--dataset", dir, "--split-num", "1", "--log-level", "error")
	require.NoError(t, err)
	assert.Contains(t, out, "left: 1 right: 2")

	_, err = os.Stat(filepath.Join(dir, "base.json.right"))
	assert.NoError(t, err)
}

func TestUnknownStorageBackend(t *testing.T) {
	_, err := execute(t, "split", "base.json", "--storage", "ftp", "--log-level", "error")
	assert.Error(t, err)
}
