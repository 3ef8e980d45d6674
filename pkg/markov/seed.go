package markov

import (
	"unicode"
	"unicode/utf8"
)

// SeedStrategy picks the index at which a walk starts. The walk reads its
// first Order() symbols circularly from that index, so any index in
// [0, len(symbols)) is valid. Out of range results are reduced modulo
// len(symbols).
type SeedStrategy[T comparable] interface {
	SeedIndex(symbols []T, order int, src Source) int
}

// UniformSeed picks a start uniformly from [0, len(symbols)-order], the
// positions whose first n-gram does not wrap around.
type UniformSeed[T comparable] struct{}

// SeedIndex implements SeedStrategy.
func (UniformSeed[T]) SeedIndex(symbols []T, order int, src Source) int {
	return src.IntN(len(symbols) - order + 1)
}

// PredicateSeed starts a walk at a symbol satisfying Match. It picks a random
// index and scans forward circularly, visiting each position at most once.
// If no symbol matches, the choice is delegated to Fallback, or to
// UniformSeed when Fallback is nil.
type PredicateSeed[T comparable] struct {
	Match    func(T) bool
	Fallback SeedStrategy[T]
}

// SeedIndex implements SeedStrategy.
func (p PredicateSeed[T]) SeedIndex(symbols []T, order int, src Source) int {
	if i, ok := p.Find(symbols, src); ok {
		return i
	}
	if p.Fallback != nil {
		return p.Fallback.SeedIndex(symbols, order, src)
	}
	return UniformSeed[T]{}.SeedIndex(symbols, order, src)
}

// Find runs the bounded circular scan. It draws exactly one value from src
// when symbols is not empty.
func (p PredicateSeed[T]) Find(symbols []T, src Source) (int, bool) {
	l := len(symbols)
	if l == 0 || p.Match == nil {
		return 0, false
	}
	start := src.IntN(l)
	for k := 0; k < l; k++ {
		i := (start + k) % l
		if p.Match(symbols[i]) {
			return i, true
		}
	}
	return 0, false
}

// SentenceStart returns the word-level seed strategy: walks begin at a word
// whose first rune is upper case, falling back to UniformSeed when the input
// has none.
func SentenceStart() PredicateSeed[string] {
	return PredicateSeed[string]{Match: startsUpper}
}

func startsUpper(s string) bool {
	r, _ := utf8.DecodeRuneInString(s)
	return r != utf8.RuneError && unicode.IsUpper(r)
}
