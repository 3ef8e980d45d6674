package markov

import (
	"iter"
	"log/slog"
	"slices"
	"sync/atomic"
)

// DefaultLength is the number of symbols Generate produces when no length is
// given.
const DefaultLength = 200

// generateOptions Is used by the generate functions to configure default options.
type generateOptions struct {
	length int
	source Source
}

// GenerateOption is a function that configures a single Generate call.
type GenerateOption func(*generateOptions)

// WithLength sets the number of symbols to generate, the seed prefix
// included. Lengths below Order()-1 are raised to Order()-1, the smallest
// output that still contains a whole prefix.
func WithLength(n int) GenerateOption {
	return func(o *generateOptions) { o.length = n }
}

// UseSource overrides the chain's random source for one call. Concurrent
// callers can pass their own source to avoid contending on the chain's.
func UseSource(src Source) GenerateOption {
	return func(o *generateOptions) { o.source = src }
}

// Generate returns a lazily generated sequence of symbols. The walk is seeded
// when iteration starts, and each symbol after the seed n-gram is drawn
// uniformly from the successors recorded for the preceding Order()-1 symbols.
//
// Every call produces an independent walk. The returned sequence itself is
// single-use: ranging over it a second time, from any goroutine, yields
// nothing.
func (c *Chain[T]) Generate(opts ...GenerateOption) iter.Seq[T] {
	options := &generateOptions{
		length: DefaultLength,
		source: c.source,
	}
	for _, opt := range opts {
		opt(options)
	}
	if options.source == nil {
		options.source = c.source
	}
	length := max(options.length, c.order-1)

	var used atomic.Bool
	return func(yield func(T) bool) {
		if !used.CompareAndSwap(false, true) {
			return
		}
		c.walk(length, options.source, yield)
	}
}

// GenerateAll is the eager form of Generate.
func (c *Chain[T]) GenerateAll(opts ...GenerateOption) []T {
	return slices.Collect(c.Generate(opts...))
}

// walk contains the main loop for generating a sequence.
func (c *Chain[T]) walk(length int, src Source, yield func(T) bool) {
	n := len(c.ids)
	seed := c.seeder.SeedIndex(c.symbols, c.order, src) % n
	if seed < 0 {
		seed += n
	}
	c.logger.Debug("Generation seeded",
		slog.Int("seed", seed),
		slog.Int("length", length),
	)

	prefix := make([]int, c.order-1)
	for k := range prefix {
		prefix[k] = c.ids[(seed+k)%n]
	}
	emitted := 0
	for _, id := range prefix {
		if !yield(c.vocab[id]) {
			return
		}
		emitted++
	}

	next := c.ids[(seed+c.order-1)%n]
	var keyBuf []byte
	for emitted < length {
		if !yield(c.vocab[next]) {
			return
		}
		emitted++
		if emitted == length {
			break
		}

		copy(prefix, prefix[1:])
		prefix[len(prefix)-1] = next
		keyBuf = appendKey(keyBuf[:0], prefix)
		// Every circular prefix is a key, see build.
		choices := c.table[string(keyBuf)]
		next = choices[src.IntN(len(choices))]
	}

	c.logger.Debug("Generation finished", slog.Int("generated_length", emitted))
}
