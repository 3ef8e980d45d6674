package markov

import (
	"go/build"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

const catText = "the cat sat on the mat the cat ran"

// scriptedSource replays a fixed list of values and records every bound it
// was asked for, so walks can be traced by hand.
type scriptedSource struct {
	t      testing.TB
	values []int
	index  int
	bounds []int
}

func (s *scriptedSource) IntN(n int) int {
	s.t.Helper()
	s.bounds = append(s.bounds, n)
	if s.index >= len(s.values) {
		s.t.Fatalf("scriptedSource exhausted, needed value for n=%d", n)
	}
	v := s.values[s.index]
	s.index++
	if v < 0 || v >= n {
		s.t.Fatalf("scriptedSource value %d out of range for n=%d", v, n)
	}
	return v
}

// fixedSeed always starts walks at the same index.
type fixedSeed[T comparable] struct {
	index int
}

func (f fixedSeed[T]) SeedIndex([]T, int, Source) int {
	return f.index
}

func words(s string) []string {
	return strings.Fields(s)
}

// newTestChain builds a chain and fails the test on error.
func newTestChain[T comparable](t testing.TB, symbols []T, order int, opts ...Option) *Chain[T] {
	t.Helper()
	c, err := New(symbols, order, opts...)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return c
}

var (
	benchmarkCorpus []string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() []string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				sb.Reset()
				sb.WriteString("this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. ")
				break
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus, _ = ReadSymbols(NewWhitespaceTokenizer(), strings.NewReader(sb.String()))
	})
	return benchmarkCorpus
}
