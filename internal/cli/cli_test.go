package cli

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docindex/internal/domain"
	"docindex/internal/service"
)

// testEnv writes a config pointing the index into a temp dir and returns the
// config path and a directory holding the sample documents.
func testEnv(t *testing.T, backend string) (cfgPath, docs string) {
	t.Helper()
	root := t.TempDir()
	cfgPath = filepath.Join(root, "config.yaml")
	index := filepath.Join(root, "data", "index."+backend)
	content := fmt.Sprintf("index:\n  path: %s\n  backend: %s\nsearch:\n  top_k: 3\n", index, backend)
	require.NoError(t, os.WriteFile(cfgPath, []byte(content), 0o644))

	docs = filepath.Join(root, "docs")
	_, err := service.WriteSamples(docs)
	require.NoError(t, err)
	return cfgPath, docs
}

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfgFile, verbose = "", false
	buildOut, searchTopK, searchJSON, agentTopK, mcpHTTPAddr = "", 0, false, 0, ""

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.Execute()
	return buf.String(), err
}

func TestBuildThenSearch(t *testing.T) {
	for _, backend := range []string{"json", "sqlite"} {
		t.Run(backend, func(t *testing.T) {
			cfgPath, docs := testEnv(t, backend)

			out, err := run(t, "--config", cfgPath, "build", docs)
			require.NoError(t, err)
			assert.Contains(t, out, "indexed 5 chunks from 5 documents (dim 128)")

			query := "Runbook: How to restart payment gateway. Step 1: check pods. Step 2: restart service."
			out, err = run(t, "--config", cfgPath, "search", "--json", query)
			require.NoError(t, err)

			var results []domain.SearchResult
			require.NoError(t, json.Unmarshal([]byte(out), &results))
			require.Len(t, results, 3)
			assert.Equal(t, "runbook_001.txt::chunk::0", results[0].ChunkID)
			assert.Equal(t, "runbook_001.txt", results[0].SourceDocID)
			assert.InDelta(t, 1.0, results[0].Score, 1e-9)
		})
	}
}

func TestBuild_OutFlag(t *testing.T) {
	cfgPath, docs := testEnv(t, "json")
	out := filepath.Join(t.TempDir(), "elsewhere", "idx.json")

	_, err := run(t, "--config", cfgPath, "build", "--out", out, docs)
	require.NoError(t, err)
	_, err = os.Stat(out)
	assert.NoError(t, err)
}

func TestSearch_Table(t *testing.T) {
	cfgPath, docs := testEnv(t, "json")
	_, err := run(t, "--config", cfgPath, "build", docs)
	require.NoError(t, err)

	out, err := run(t, "--config", cfgPath, "search", "-k", "1", "payment")
	require.NoError(t, err)
	assert.Contains(t, out, "[1]")
	assert.NotContains(t, out, "[2]")
	assert.Contains(t, out, "source:")
}

func TestSearch_EmptyIndex(t *testing.T) {
	cfgPath, _ := testEnv(t, "json")
	out, err := run(t, "--config", cfgPath, "search", "anything")
	require.NoError(t, err)
	assert.Contains(t, out, "No results found.")
}

func TestSearch_RequiresExactlyOneArg(t *testing.T) {
	cfgPath, _ := testEnv(t, "json")
	_, err := run(t, "--config", cfgPath, "search")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 1 arg(s)")
}

func TestAgent(t *testing.T) {
	cfgPath, docs := testEnv(t, "json")
	_, err := run(t, "--config", cfgPath, "build", docs)
	require.NoError(t, err)

	out, err := run(t, "--config", cfgPath, "agent", "planner")
	require.NoError(t, err)
	assert.Contains(t, out, `"strategy": "serial"`)

	out, err = run(t, "--config", cfgPath, "agent", "retrieval", "--top-k", "2", "gateway", "timeout")
	require.NoError(t, err)
	var res struct {
		Results []domain.SearchResult `json:"results"`
		RunID   string                `json:"run_id"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &res))
	assert.Len(t, res.Results, 2)
	assert.NotEmpty(t, res.RunID)

	_, err = run(t, "--config", cfgPath, "agent", "reasoning")
	assert.ErrorIs(t, err, domain.ErrUnknownAgent)
}

func TestSample(t *testing.T) {
	cfgPath, _ := testEnv(t, "json")
	dir := filepath.Join(t.TempDir(), "samples")
	out, err := run(t, "--config", cfgPath, "sample", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote 5 sample files")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 5)
}

func TestInvalidConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("index:\n  backend: redis\n"), 0o644))
	_, err := run(t, "--config", path, "search", "x")
	assert.Error(t, err)
}

func TestSnippet(t *testing.T) {
	assert.Equal(t, "a b c", snippet("a\n b\t c", 10))
	assert.Equal(t, "abc...", snippet("abcdef", 3))
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{"agent", "build", "mcp", "sample", "search", "tui", "version", "watch"}
	var got []string
	for _, c := range rootCmd.Commands() {
		got = append(got, c.Name())
	}
	for _, name := range want {
		assert.Contains(t, got, name)
	}
}
