package markov

// ChainStats holds aggregated statistics for a single chain.
type ChainStats struct {
	Order          int // The n-gram length.
	Symbols        int // The number of symbols in the input sequence.
	Vocabulary     int // The number of distinct symbols.
	Prefixes       int // The number of distinct prefixes; the size of the transition table.
	Transitions    int // The number of recorded prefix->suffix occurrences, one per window.
	WrappedWindows int // The number of windows that wrapped around the end of the input.
	MaxSuccessors  int // The length of the longest suffix list, duplicates included.
}

// Stats returns a snapshot of the chain's statistics.
func (c *Chain[T]) Stats() ChainStats {
	stats := ChainStats{
		Order:          c.order,
		Symbols:        len(c.symbols),
		Vocabulary:     len(c.vocab),
		Prefixes:       len(c.table),
		WrappedWindows: c.wrapped,
	}
	for _, next := range c.table {
		stats.Transitions += len(next)
		stats.MaxSuccessors = max(stats.MaxSuccessors, len(next))
	}
	return stats
}
