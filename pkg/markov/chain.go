package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
)

// MinOrder is the smallest accepted chain order. An order of 1 would have an
// empty prefix and degrade to uniform sampling of the input.
const MinOrder = 2

var (
	// ErrInvalidOrder is returned when the requested order is below MinOrder.
	ErrInvalidOrder = errors.New("markov: order must be at least 2")
	// ErrInsufficientSymbols is returned when the input has fewer symbols
	// than the requested order.
	ErrInsufficientSymbols = errors.New("markov: insufficient symbols for order")
)

// Chain is an n-gram Markov chain over symbols of type T. It is built once by
// New and never modified afterwards, apart from the state of its random
// Source, so a single Chain can serve any number of Generate calls.
type Chain[T comparable] struct {
	order   int
	symbols []T
	ids     []int     // symbols, interned into vocab
	vocab   []T       // id -> symbol
	index   map[T]int // symbol -> id
	table   map[string][]int
	wrapped int
	seeder  SeedStrategy[T]
	source  Source
	logger  *slog.Logger
}

type chainOptions struct {
	source Source
	logger *slog.Logger
}

// Option configures a Chain at construction.
type Option func(*chainOptions)

// WithSource sets the random source used by Generate. By default every chain
// gets its own source seeded from the runtime's random state.
func WithSource(src Source) Option {
	return func(o *chainOptions) { o.source = src }
}

// WithLogger sets the logger for the chain. By default all logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(o *chainOptions) { o.logger = logger }
}

// New builds a chain of the given order from symbols. The slice is copied, so
// the caller may reuse it. New fails with ErrInvalidOrder if order < MinOrder
// and with ErrInsufficientSymbols if len(symbols) < order.
func New[T comparable](symbols []T, order int, opts ...Option) (*Chain[T], error) {
	if order < MinOrder {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}
	if len(symbols) < order {
		return nil, fmt.Errorf("%w: order %d needs at least %d symbols, got %d",
			ErrInsufficientSymbols, order, order, len(symbols))
	}

	options := &chainOptions{}
	for _, opt := range opts {
		opt(options)
	}
	if options.source == nil {
		options.source = newRuntimeSource()
	}
	if options.logger == nil {
		options.logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	c := &Chain[T]{
		order:   order,
		symbols: slices.Clone(symbols),
		seeder:  UniformSeed[T]{},
		source:  options.source,
		logger:  options.logger,
	}
	c.intern()
	c.build()

	c.logger.Info("Chain built",
		slog.Int("order", c.order),
		slog.Int("symbols", len(c.symbols)),
		slog.Int("vocabulary", len(c.vocab)),
		slog.Int("prefixes", len(c.table)),
		slog.Int("wrapped_windows", c.wrapped),
	)
	return c, nil
}

// SetLogger replaces the chain's logger. A nil logger is ignored.
func (c *Chain[T]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// SetSeedStrategy replaces the strategy used to pick the starting index of
// each walk. A nil strategy restores UniformSeed. It must not be called while
// a generated sequence is being consumed.
func (c *Chain[T]) SetSeedStrategy(s SeedStrategy[T]) {
	if s == nil {
		s = UniformSeed[T]{}
	}
	c.seeder = s
}

// Order returns the n-gram length of the chain.
func (c *Chain[T]) Order() int {
	return c.order
}

// Len returns the number of symbols the chain was built from.
func (c *Chain[T]) Len() int {
	return len(c.symbols)
}

// Symbols returns a copy of the input sequence.
func (c *Chain[T]) Symbols() []T {
	return slices.Clone(c.symbols)
}

// Successors returns the suffixes recorded for prefix, in the order they were
// encountered, duplicates included. It returns nil if prefix does not have
// exactly Order()-1 symbols or was never seen.
func (c *Chain[T]) Successors(prefix ...T) []T {
	if len(prefix) != c.order-1 {
		return nil
	}
	ids := make([]int, len(prefix))
	for i, s := range prefix {
		id, ok := c.index[s]
		if !ok {
			return nil
		}
		ids[i] = id
	}
	next, ok := c.table[string(appendKey(nil, ids))]
	if !ok {
		return nil
	}
	out := make([]T, len(next))
	for i, id := range next {
		out[i] = c.vocab[id]
	}
	return out
}

// intern assigns every distinct symbol a dense id in order of first appearance.
func (c *Chain[T]) intern() {
	c.index = make(map[T]int)
	c.ids = make([]int, len(c.symbols))
	for i, s := range c.symbols {
		id, ok := c.index[s]
		if !ok {
			id = len(c.vocab)
			c.index[s] = id
			c.vocab = append(c.vocab, s)
		}
		c.ids[i] = id
	}
}

// appendKey appends the table key for a prefix of symbol ids to buf.
func appendKey(buf []byte, prefix []int) []byte {
	for j, id := range prefix {
		if j > 0 {
			buf = append(buf, ' ')
		}
		buf = strconv.AppendInt(buf, int64(id), 10)
	}
	return buf
}
