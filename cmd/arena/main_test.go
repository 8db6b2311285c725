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

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var buf bytes.Buffer
	a := newApp()
	a.Writer = &buf
	err := a.Run(append([]string{"arena"}, args...))
	return buf.String(), err
}

func TestValue(t *testing.T) {
	out, err := run(t, "value", "--delay", "0s")
	require.NoError(t, err)
	assert.Equal(t, "Initial Value: 0\nFinal Value: 200\n", out)
}

func TestValueTicket(t *testing.T) {
	out, err := run(t, "value", "--guard", "ticket", "--workers", "4", "--iterations", "50", "--delay", "1ms")
	require.NoError(t, err)
	assert.Equal(t, "Initial Value: 0\nFinal Value: 200\n", out)
}

func TestValueUnknownGuard(t *testing.T) {
	_, err := run(t, "value", "--guard", "futex")
	assert.Error(t, err)
}

func TestNegativeCounts(t *testing.T) {
	for _, args := range [][]string{
		{"value", "--workers", "-1"},
		{"array", "--workers", "-1"},
		{"race", "--workers", "-1"},
		{"value", "--iterations", "-1"},
	} {
		out, err := run(t, args...)
		assert.Error(t, err, args)
		assert.Empty(t, out, args)
	}
}

func TestArray(t *testing.T) {
	out, err := run(t, "array", "--delay", "1ms")
	require.NoError(t, err)
	assert.Equal(t, "Array at beginning: [0 100 200]\nArray at end: [200 300 400]\n", out)
}

func TestPool(t *testing.T) {
	out, err := run(t, "pool", "--workers", "3")
	require.NoError(t, err)
	assert.Equal(t, "[0 1 8 27 64 125 216 343 512 729]\n", out)
}

func TestSpawn(t *testing.T) {
	out, err := run(t, "spawn")
	require.NoError(t, err)
	assert.Equal(t, "End main process\n", out)
}

func TestRace(t *testing.T) {
	out, err := run(t, "race", "--workers", "2", "--iterations", "10", "--trials", "2")
	require.NoError(t, err)
	assert.Contains(t, out, "trial 0: ")
	assert.Contains(t, out, "of 2 trials lost updates\n")
}

func TestRunConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	data := `
scenarios:
  - name: value
    initial: [0]
    workers: 2
    iterations: 100
    target: "0"
    amount: 1
    guard: spin
  - name: array
    initial: [0, 100, 200]
    workers: 2
    iterations: 100
    target: all
    amount: 1
    guard: semaphore
pool:
  workers: 2
  size: 4
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))

	out, err := run(t, "run", "--config", path, "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "value at beginning: [0]\n")
	assert.Contains(t, out, "value at end: [200]\n")
	assert.Contains(t, out, "array at end: [200 300 400]\n")
	assert.Contains(t, out, "Increments: 600\n")
	assert.Contains(t, out, "Guard: \"semaphore\"\n")
	assert.True(t, strings.HasSuffix(out, "[0 1 8 27]\n"), out)
}

func TestRunRepeatedName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	data := `
scenarios:
  - {name: twice, initial: [0], workers: 1, iterations: 1, amount: 1}
  - {name: twice, initial: [0], workers: 1, iterations: 1, amount: 1}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	_, err := run(t, "run", "--config", path)
	assert.ErrorContains(t, err, `duplicate scenario "twice"`)
}

func TestRunBadGuard(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.yaml")
	data := `
scenarios:
  - {name: x, initial: [0], workers: 1, iterations: 1, amount: 1, guard: futex}
`
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	_, err := run(t, "run", "--config", path)
	assert.Error(t, err)
}
