package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"
	"unicode"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const catText = "the cat sat on the mat the cat ran"

// runCLI runs the command with a private config file and returns the exit
// code and both output streams.
func runCLI(t *testing.T, stdin string, args ...string) (int, string, string) {
	t.Helper()
	configPath := filepath.Join(t.TempDir(), "config.json")
	var stdout, stderr bytes.Buffer
	code := run(context.Background(), append([]string{"-config", configPath}, args...), strings.NewReader(stdin), &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func writeInput(t *testing.T, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.txt")
	require.NoError(t, os.WriteFile(path, []byte(text), 0o644))
	return path
}

func assertFromVocabulary(t *testing.T, text string, generated []string) {
	t.Helper()
	vocab := make(map[string]bool)
	for _, w := range strings.Fields(text) {
		vocab[w] = true
	}
	for _, w := range generated {
		assert.True(t, vocab[w], "generated word %q is not in the input", w)
	}
}

func TestRunGenerates(t *testing.T) {
	input := writeInput(t, catText)

	code, stdout, stderr := runCLI(t, "", "-seed", "42", "-length", "9", "-order", "3", input)
	require.Equal(t, exitOK, code, stderr)

	generated := strings.Fields(stdout)
	assert.Len(t, generated, 9)
	assertFromVocabulary(t, catText, generated)

	_, again, _ := runCLI(t, "", "-seed", "42", "-length", "9", "-order", "3", "-file", input)
	assert.Equal(t, stdout, again, "equal seeds should reproduce the output")
}

func TestRunDefaultLength(t *testing.T) {
	input := writeInput(t, catText)

	code, stdout, stderr := runCLI(t, "", input)
	require.Equal(t, exitOK, code, stderr)
	assert.Len(t, strings.Fields(stdout), 200)
}

func TestRunUsageErrors(t *testing.T) {
	input := writeInput(t, catText)

	testCases := []struct {
		name          string
		args          []string
		errorContains string
	}{
		{name: "No input", args: nil, errorContains: "missing input"},
		{name: "Unreadable file", args: []string{filepath.Join(t.TempDir(), "nope.txt")}, errorContains: "missing input"},
		{name: "Directory as input", args: []string{t.TempDir()}, errorContains: "is a directory"},
		{name: "Order one", args: []string{"-order", "1", input}, errorContains: "order must be at least 2"},
		{name: "Length below order", args: []string{"-order", "3", "-length", "2", input}, errorContains: "length must be at least the order"},
		{name: "File and corpus", args: []string{"-corpus", "cats", input}, errorContains: "either a file or -corpus"},
		{name: "Import without file", args: []string{"-import", "cats"}, errorContains: "-import needs an input file"},
		{name: "Record without corpus", args: []string{"-record", input}, errorContains: "-record needs"},
		{name: "REPL with out", args: []string{"-repl", "-out", "x.txt", input}, errorContains: "-out cannot be used with -repl"},
		{name: "History without corpus", args: []string{"-history", "3"}, errorContains: "-history needs -corpus"},
		{name: "Two arguments", args: []string{input, input}, errorContains: "unexpected arguments"},
		{name: "Unknown flag", args: []string{"-bogus"}, errorContains: "flag provided but not defined"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			code, stdout, stderr := runCLI(t, "", tc.args...)
			assert.Equal(t, exitUsage, code)
			assert.Empty(t, stdout)
			assert.Contains(t, stderr, tc.errorContains)
		})
	}
}

func TestRunUnwritableConfig(t *testing.T) {
	input := writeInput(t, catText)
	configPath := filepath.Join(t.TempDir(), "missing", "config.json")

	var stdout, stderr bytes.Buffer
	code := run(context.Background(), []string{"-config", configPath, "-length", "5", input}, strings.NewReader(""), &stdout, &stderr)
	require.Equal(t, exitOK, code, stderr.String())
	assert.Len(t, strings.Fields(stdout.String()), 5)
	assert.Contains(t, stderr.String(), "Using default configuration")
	assert.Contains(t, stderr.String(), "failed to write default config file")
}

func TestRunInsufficientSymbols(t *testing.T) {
	input := writeInput(t, "a b")

	code, stdout, stderr := runCLI(t, "", "-order", "3", "-length", "5", input)
	assert.Equal(t, exitFailure, code)
	assert.Empty(t, stdout)
	assert.Contains(t, stderr, "insufficient symbols")
}

func TestRunOut(t *testing.T) {
	input := writeInput(t, catText)
	out := filepath.Join(t.TempDir(), "out.txt")

	code, stdout, stderr := runCLI(t, "", "-seed", "3", "-length", "12", "-out", out, input)
	require.Equal(t, exitOK, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Len(t, strings.Fields(string(data)), 12)
	assert.True(t, strings.HasSuffix(string(data), "\n"))
}

func TestRunStats(t *testing.T) {
	input := writeInput(t, catText)

	code, stdout, stderr := runCLI(t, "", "-stats", "-length", "5", input)
	require.Equal(t, exitOK, code, stderr)

	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "order=3 symbols=9 vocabulary=6 prefixes=8 transitions=9 wrapped_windows=2 max_successors=2", lines[0])
	assert.Len(t, strings.Fields(lines[1]), 5)
}

func TestRunSentenceStart(t *testing.T) {
	text := "once upon a time There was a cat. It sat on a mat. the end"
	input := writeInput(t, text)

	for seed := 1; seed <= 10; seed++ {
		code, stdout, stderr := runCLI(t, "", "-sentence", "-seed", strconv.Itoa(seed), "-length", "8", input)
		require.Equal(t, exitOK, code, stderr)
		first := []rune(strings.Fields(stdout)[0])[0]
		assert.True(t, unicode.IsUpper(first), "output %q should start with a capital", stdout)
	}
}

func TestRunCorpusLifecycle(t *testing.T) {
	input := writeInput(t, catText)
	db := filepath.Join(t.TempDir(), "corpus.db")

	code, stdout, stderr := runCLI(t, "", "-db", db, "-import", "cats", "-record", "-seed", "1", "-length", "9", input)
	require.Equal(t, exitOK, code, stderr)
	assert.Len(t, strings.Fields(stdout), 9)

	code, stdout, stderr = runCLI(t, "", "-db", db, "-corpus", "cats", "-record", "-seed", "2", "-length", "6")
	require.Equal(t, exitOK, code, stderr)
	assert.Len(t, strings.Fields(stdout), 6)

	code, stdout, stderr = runCLI(t, "", "-db", db, "-list")
	require.Equal(t, exitOK, code, stderr)
	assert.True(t, strings.HasPrefix(stdout, "cats\t9 symbols\t"), "unexpected listing %q", stdout)

	code, stdout, stderr = runCLI(t, "", "-db", db, "-corpus", "cats", "-history", "10")
	require.Equal(t, exitOK, code, stderr)
	history := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, history, 2)
	assert.Contains(t, history[0], "order=3\tlength=6\t")
	assert.Contains(t, history[1], "order=3\tlength=9\t")

	code, stdout, stderr = runCLI(t, "", "-db", db, "-remove", "cats")
	require.Equal(t, exitOK, code, stderr)
	assert.Equal(t, "removed cats\n", stdout)

	code, _, stderr = runCLI(t, "", "-db", db, "-corpus", "cats")
	assert.Equal(t, exitFailure, code)
	assert.Contains(t, stderr, "not found")
}

func TestRunREPL(t *testing.T) {
	input := writeInput(t, catText)

	code, stdout, stderr := runCLI(t, "\ny\n4\ny\n\ny\nabc\n2\n5\nn\n", "-repl", "-seed", "7", "-length", "6", input)
	require.Equal(t, exitOK, code, stderr)

	var generated [][]string
	retries := 0
	for _, line := range strings.Split(stdout, "\n") {
		switch {
		case strings.Contains(line, "Please enter"):
			retries++
		case strings.TrimSpace(line) == "", strings.Contains(line, "?"):
		default:
			generated = append(generated, strings.Fields(line))
		}
	}

	require.Len(t, generated, 4)
	assert.Len(t, generated[0], 6, "an empty answer should keep the -length value")
	assert.Len(t, generated[1], 4)
	assert.Len(t, generated[2], 4, "an empty answer should reuse the last length")
	assert.Len(t, generated[3], 5)
	assert.Equal(t, 2, retries, "invalid lengths should be asked again")
	for _, g := range generated {
		assertFromVocabulary(t, catText, g)
	}
}

func TestRunREPLEndOfInput(t *testing.T) {
	input := writeInput(t, catText)

	code, stdout, stderr := runCLI(t, "", "-repl", input)
	assert.Equal(t, exitOK, code, stderr)
	assert.Contains(t, stdout, promptLength)
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "", "-version")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, stdout, "markovtext dev")
}
