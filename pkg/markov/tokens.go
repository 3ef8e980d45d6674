package markov

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"strings"
)

// Tokenizer is an interface that defines the contract for splitting input text
// into symbols and joining generated symbols back into text. This allows the
// chain to stay independent of the tokenization strategy.
type Tokenizer interface {
	// NewStream returns a stateful StreamTokenizer for processing an io.Reader.
	NewStream(io.Reader) StreamTokenizer
	// Separator returns the string placed between the previous and the
	// current symbol when building the final output.
	Separator(prev, current string) string
}

// StreamTokenizer is an interface for a stateful tokenizer that processes a
// stream of data, returning one symbol at a time.
type StreamTokenizer interface {
	// Next returns the next symbol from the stream. It returns io.EOF as the
	// error when the stream is fully consumed.
	Next() (string, error)
}

// ReadSymbols drains r through tok and returns every symbol in order.
func ReadSymbols(tok Tokenizer, r io.Reader) ([]string, error) {
	stream := tok.NewStream(r)
	var symbols []string
	for {
		symbol, err := stream.Next()
		if errors.Is(err, io.EOF) {
			return symbols, nil
		}
		if err != nil {
			return nil, fmt.Errorf("tokenizer error: %w", err)
		}
		symbols = append(symbols, symbol)
	}
}

// Join consumes seq and builds the output string, asking tok for the
// separator between each pair of symbols.
func Join(seq iter.Seq[string], tok Tokenizer) string {
	var builder strings.Builder
	first := true
	var last string
	for symbol := range seq {
		if !first {
			builder.WriteString(tok.Separator(last, symbol))
		}
		first = false
		builder.WriteString(symbol)
		last = symbol
	}
	return builder.String()
}
