package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const lesson = "**Respiration**\n\n" +
	"[TABLE_DATA]{\"headers\":[\"Gas\"],\"rows\":[[\"O2\"]]}[/TABLE_DATA]\n\n" +
	"[CHART_DATA]{oops[/CHART_DATA]"

func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	t.Setenv("LESSONRENDER_CONFIG", "")
	var stdout, stderr bytes.Buffer
	code := run(args, strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRun_StdinHTML(t *testing.T) {
	code, out, errOut := runCLI(t, lesson)
	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "<h2>Respiration</h2>")
	assert.Contains(t, out, "<td>O2</td>")
	assert.Contains(t, out, "Could not display the chart.")
	assert.Contains(t, errOut, "payload decode failed")
}

func TestRun_Quiet(t *testing.T) {
	code, _, errOut := runCLI(t, lesson, "-q")
	require.Equal(t, 0, code)
	assert.Empty(t, errOut)
}

func TestRun_TextFormatFromFile(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "resp.md")
	require.NoError(t, os.WriteFile(in, []byte("# Respiration\n\n- inhale\n- exhale\n"), 0o644))

	code, out, errOut := runCLI(t, "", "-format", "text", in)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, "Respiration\n\n- inhale\n- exhale\n", out)
}

func TestRun_OutputFile(t *testing.T) {
	out := filepath.Join(t.TempDir(), "out.json")
	code, stdout, errOut := runCLI(t, "**A**", "-format", "json", "-o", out)
	require.Equal(t, 0, code, errOut)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"kind": "heading2"`)
}

func TestRun_Errors(t *testing.T) {
	code, _, _ := runCLI(t, "", "-format", "pdf")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", filepath.Join(t.TempDir(), "missing.txt"))
	assert.Equal(t, 1, code)

	code, _, _ = runCLI(t, "", "lesson.exe")
	assert.Equal(t, 1, code)

	code, _, _ = runCLI(t, "", "a.txt", "b.txt")
	assert.Equal(t, 2, code)

	code, _, _ = runCLI(t, "", "-nope")
	assert.Equal(t, 2, code)
}
