package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func executeCommand(args ...string) (string, error) {
	outputFormat = "tree"
	buf := new(bytes.Buffer)
	root := RootCmd()
	root.SetOut(buf)
	root.SetErr(buf)
	root.SetArgs(args)
	err := root.Execute()
	return buf.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := executeCommand("version")
	require.NoError(t, err)
	assert.Contains(t, out, "flexctl version")
}

func TestBuildWritesFlexBuffersDocument(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.json")
	require.NoError(t, os.WriteFile(input, []byte(`{"name":"Ada","tags":["math","computing"]}`), 0o644))

	out, err := executeCommand("build", input)
	require.NoError(t, err)
	assert.NotEmpty(t, out)
}

func TestBuildAndGet(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.json")
	output := filepath.Join(dir, "doc.fxb")
	require.NoError(t, os.WriteFile(input, []byte(`{"name":"Ada","age":36}`), 0o644))

	_, err := executeCommand("build", input, "-O", output)
	require.NoError(t, err)

	out, err := executeCommand("get", output, "name")
	require.NoError(t, err)
	assert.Equal(t, "Ada\n", out)

	out, err = executeCommand("get", output, "age")
	require.NoError(t, err)
	assert.Equal(t, "36\n", out)
}

func TestBuildAndGetIndexesVectors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.json")
	output := filepath.Join(dir, "doc.fxb")
	require.NoError(t, os.WriteFile(input, []byte(`{"tags":["math","computing"]}`), 0o644))

	_, err := executeCommand("build", input, "-O", output)
	require.NoError(t, err)

	out, err := executeCommand("get", output, "tags[1]")
	require.NoError(t, err)
	assert.Equal(t, "computing\n", out)
}

func TestGetMissingKeyErrors(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.json")
	output := filepath.Join(dir, "doc.fxb")
	require.NoError(t, os.WriteFile(input, []byte(`{"name":"Ada"}`), 0o644))

	_, err := executeCommand("build", input, "-O", output)
	require.NoError(t, err)

	_, err = executeCommand("get", output, "missing")
	assert.Error(t, err)
}

func TestInspectRendersTree(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.json")
	output := filepath.Join(dir, "doc.fxb")
	require.NoError(t, os.WriteFile(input, []byte(`{"name":"Ada","tags":["math","computing"]}`), 0o644))

	_, err := executeCommand("build", input, "-O", output)
	require.NoError(t, err)

	out, err := executeCommand("inspect", output)
	require.NoError(t, err)
	assert.True(t, strings.Contains(out, "name") && strings.Contains(out, "Ada"))
}

func TestInspectJSONOutputFormat(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "doc.json")
	output := filepath.Join(dir, "doc.fxb")
	require.NoError(t, os.WriteFile(input, []byte(`{"name":"Ada"}`), 0o644))

	_, err := executeCommand("build", input, "-O", output)
	require.NoError(t, err)

	out, err := executeCommand("inspect", output, "-o", "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"name"`)
}
