package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	t.Chdir(t.TempDir())

	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestRoot_Version(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "weaversite v"+Version)
}

func TestRoot_CatalogResultsMarkdown(t *testing.T) {
	out, err := execute(t, "catalog", "results", "--dataset", "finqa")
	require.NoError(t, err)

	assert.Contains(t, out, "## FinQA / ")
	assert.Contains(t, out, "| Method | Accuracy |")
	assert.Contains(t, out, "Weaver (Ours)")
	assert.NotContains(t, out, "ReAcTable")
	assert.NotContains(t, out, "WikiTQ")
}

func TestRoot_CatalogJSON(t *testing.T) {
	out, err := execute(t, "catalog", "install", "-o", "json")
	require.NoError(t, err)

	var tables []struct {
		Title string     `json:"title"`
		Rows  [][]string `json:"rows"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &tables))
	require.Len(t, tables, 4)
	assert.Equal(t, "Quick Start", tables[0].Title)
	assert.Equal(t, "clone", tables[0].Rows[0][0])
}

func TestRoot_CatalogErrors(t *testing.T) {
	_, err := execute(t, "catalog", "results", "--dataset", "spider")
	assert.Error(t, err)

	_, err = execute(t, "catalog", "pricing")
	assert.Error(t, err)
}

func TestRoot_CatalogFileValidation(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("examples: []\n"), 0o600))

	_, err := execute(t, "catalog", "--catalog", path)
	assert.Error(t, err)
}

func TestRoot_PlayTranscript(t *testing.T) {
	out, err := execute(t, "play", "racing")
	require.NoError(t, err)

	assert.Contains(t, out, "# Racing Competition Analysis")
	assert.Contains(t, out, "`1.5s` step 1 [SQL]")
	assert.Contains(t, out, "`3s` step 2 [LLM]")
	assert.Contains(t, out, "`4.5s` step 3 [SQL]")
	assert.Contains(t, out, "- **Answer:** France")
}

func TestRoot_PlayJSON(t *testing.T) {
	out, err := execute(t, "play", "--speed", "2", "-o", "json")
	require.NoError(t, err)

	var lines []struct {
		AtMillis int64  `json:"at_ms"`
		Event    string `json:"event"`
		Step     int    `json:"step"`
		Answer   string `json:"answer"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &lines))
	require.Len(t, lines, 5)
	assert.Equal(t, "started", lines[0].Event)
	assert.Equal(t, int64(750), lines[1].AtMillis)
	assert.Equal(t, 3, lines[3].Step)
	assert.Equal(t, "completed", lines[4].Event)
	assert.Equal(t, int64(2750), lines[4].AtMillis)
	assert.Equal(t, "France", lines[4].Answer)
}

func TestRoot_PlayErrors(t *testing.T) {
	_, err := execute(t, "play", "chess")
	assert.Error(t, err)

	_, err = execute(t, "play", "--speed", "0")
	assert.Error(t, err)
}

func TestRoot_InvalidConfig(t *testing.T) {
	_, err := execute(t, "catalog", "--log-level", "shout")
	assert.Error(t, err)
}

func TestRoot_Completion(t *testing.T) {
	out, err := execute(t, "completion", "bash")
	require.NoError(t, err)
	assert.Contains(t, out, "weaversite")
}
