package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dd0wney/cluso-orbitcount/pkg/engine"
	"github.com/dd0wney/cluso-orbitcount/pkg/reference"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// paw is a triangle 0-1-2 with a tail 2-3.
var paw = [][2]int{{0, 1}, {1, 2}, {2, 0}, {2, 3}}

func writeInput(t *testing.T, dir, name string, n int, edges [][2]int) string {
	t.Helper()
	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	require.NoError(t, reference.WriteEdgeList(f, n, edges))
	require.NoError(t, f.Close())
	return path
}

func readOutput(t *testing.T, path string, rows, cols int) *engine.Matrix {
	t.Helper()
	f, err := reference.OpenOutput(path)
	require.NoError(t, err)
	defer f.Close()
	m, err := reference.ReadCounts(f, rows, cols)
	require.NoError(t, err)
	return m
}

func TestRun_SingleGraph(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "paw.in", 4, paw)
	out := filepath.Join(dir, "paw.out")

	var stderr bytes.Buffer
	code := run([]string{"-log-level", "info", "-digest", "node", "4", in, out}, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	want, err := engine.NewEnumerator().MotifCounts(engine.ModeNode, 4, 4, paw)
	require.NoError(t, err)
	got := readOutput(t, out, 4, 15)
	assert.True(t, want.Equal(got))

	assert.Contains(t, stderr.String(), `"counts written"`)
	assert.Contains(t, stderr.String(), `"digest"`)
}

func TestRun_BatchWithCompressedOutput(t *testing.T) {
	dir := t.TempDir()
	graphs := [][][2]int{paw, {{0, 1}, {1, 2}, {2, 3}, {3, 4}}, nil}
	nodes := []int{4, 5, 2}

	args := []string{"-workers", "2", "edge", "5"}
	for i, edges := range graphs {
		name := string(rune('a' + i))
		args = append(args,
			writeInput(t, dir, name+".in", nodes[i], edges),
			filepath.Join(dir, name+".out"+reference.CompressedSuffix))
	}

	var stderr bytes.Buffer
	require.Equal(t, exitOK, run(args, &stderr), stderr.String())

	for i, edges := range graphs {
		want, err := engine.NewEnumerator().MotifCounts(engine.ModeEdge, 5, nodes[i], edges)
		require.NoError(t, err)
		got := readOutput(t, args[5+2*i], len(edges), 68)
		assert.True(t, want.Equal(got), "graph %d", i)
	}
}

func TestRun_MetricsFile(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, "g.in", 4, paw)
	metricsFile := filepath.Join(dir, "orbitcount.prom")

	var stderr bytes.Buffer
	code := run([]string{"-metrics-file", metricsFile, "node", "5", in, filepath.Join(dir, "g.out")}, &stderr)
	require.Equal(t, exitOK, code, stderr.String())

	data, err := os.ReadFile(metricsFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), `orbitcount_counts_total{mode="node",size="5",status="success"} 1`)
}

func TestRun_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "orbitcount.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("logging:\n  level: error\nbatch:\n  workers: 2\n"), 0o644))
	in := writeInput(t, dir, "g.in", 4, paw)

	var stderr bytes.Buffer
	code := run([]string{"-config", cfgPath, "node", "4", in, filepath.Join(dir, "g.out")}, &stderr)
	require.Equal(t, exitOK, code)
	assert.Empty(t, stderr.String(), "info lines are below the configured level")
}

func TestRun_Failures(t *testing.T) {
	dir := t.TempDir()
	good := writeInput(t, dir, "good.in", 4, paw)
	loop := writeInput(t, dir, "loop.in", 2, [][2]int{{0, 1}, {1, 1}})
	bad := filepath.Join(dir, "bad.in")
	require.NoError(t, os.WriteFile(bad, []byte("3 2\n0 1\n"), 0o644))
	out := filepath.Join(dir, "out")

	tests := []struct {
		name string
		args []string
		code int
		msg  string
	}{
		{"no arguments", nil, exitUsage, "expected mode"},
		{"odd pairs", []string{"node", "4", good}, exitUsage, "expected mode"},
		{"bad mode", []string{"vertex", "4", good, out}, exitUsage, "unsupported counting mode"},
		{"bad size", []string{"node", "6", good, out}, exitUsage, "unsupported graphlet size"},
		{"size not a number", []string{"node", "four", good, out}, exitUsage, "graphlet size"},
		{"bad workers", []string{"-workers", "-3", "node", "4", good, out}, exitUsage, "batch.workers"},
		{"bad log level", []string{"-log-level", "loud", "node", "4", good, out}, exitUsage, "logging.level"},
		{"missing input", []string{"node", "4", filepath.Join(dir, "nope"), out}, exitError, "counting failed"},
		{"truncated input", []string{"node", "4", bad, out}, exitError, "malformed"},
		{"self-loop", []string{"edge", "4", loop, out}, exitError, "self-loop"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stderr bytes.Buffer
			assert.Equal(t, tt.code, run(tt.args, &stderr))
			assert.True(t, strings.Contains(stderr.String(), tt.msg), "stderr: %s", stderr.String())
		})
	}
}
