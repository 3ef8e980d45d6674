package markov

import (
	"bufio"
	"io"
)

// DefaultMaxTokenSize is the longest symbol a WhitespaceTokenizer accepts
// unless configured otherwise.
const DefaultMaxTokenSize = 1 << 20

// WhitespaceTokenizer is the default implementation of the Tokenizer
// interface. It splits input on Unicode white space, keeping punctuation
// attached to its word, and joins output with a single separator.
type WhitespaceTokenizer struct {
	separator    string
	maxTokenSize int
}

// TokenizerOption is a function that configures a WhitespaceTokenizer.
type TokenizerOption func(*WhitespaceTokenizer)

// WithSeparator sets the string used for joining symbols during generation.
// Default: " "
func WithSeparator(sep string) TokenizerOption {
	return func(t *WhitespaceTokenizer) {
		t.separator = sep
	}
}

// WithMaxTokenSize sets the longest symbol the stream accepts. Longer runs of
// non-space input make Next fail with bufio.ErrTooLong.
// Default: DefaultMaxTokenSize
func WithMaxTokenSize(n int) TokenizerOption {
	return func(t *WhitespaceTokenizer) {
		t.maxTokenSize = n
	}
}

// NewWhitespaceTokenizer creates a new tokenizer with default settings, which
// can be overridden by providing one or more TokenizerOption functions.
func NewWhitespaceTokenizer(opts ...TokenizerOption) *WhitespaceTokenizer {
	t := &WhitespaceTokenizer{
		separator:    " ",
		maxTokenSize: DefaultMaxTokenSize,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Separator returns the configured separator string.
func (t *WhitespaceTokenizer) Separator(_, _ string) string {
	return t.separator
}

// NewStream returns the stream processor.
func (t *WhitespaceTokenizer) NewStream(r io.Reader) StreamTokenizer {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, min(4096, t.maxTokenSize)), t.maxTokenSize)
	scanner.Split(bufio.ScanWords)
	return &WhitespaceStreamTokenizer{scanner: scanner}
}

// WhitespaceStreamTokenizer is the StreamTokenizer returned by
// WhitespaceTokenizer. It wraps a bufio.Scanner split on words.
type WhitespaceStreamTokenizer struct {
	scanner *bufio.Scanner
}

// Next returns the next symbol from the stream. When the stream is exhausted
// it returns io.EOF. Any other error indicates a problem reading from the
// underlying stream.
func (s *WhitespaceStreamTokenizer) Next() (string, error) {
	if !s.scanner.Scan() {
		if err := s.scanner.Err(); err != nil {
			return "", err
		}
		return "", io.EOF
	}
	return s.scanner.Text(), nil
}
