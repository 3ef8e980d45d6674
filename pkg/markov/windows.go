package markov

import "iter"

// LinearWindows yields every window of n consecutive symbols that fits inside
// symbols without wrapping, in index order. The yielded slices alias symbols
// and are capped at length n.
func LinearWindows[T any](symbols []T, n int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		if n <= 0 {
			return
		}
		for i := 0; i+n <= len(symbols); i++ {
			if !yield(symbols[i : i+n : i+n]) {
				return
			}
		}
	}
}

// WrappedWindows yields the windows that start at the last n-1 positions of
// symbols and continue from its front, in index order. The window starting at
// i is symbols[i:] followed by symbols[:(i+n)%len(symbols)]. Each yielded
// slice is freshly allocated.
//
// Nothing is yielded when len(symbols) < n.
func WrappedWindows[T any](symbols []T, n int) iter.Seq[[]T] {
	return func(yield func([]T) bool) {
		l := len(symbols)
		if n <= 0 || l < n {
			return
		}
		for i := l - n + 1; i < l; i++ {
			window := make([]T, 0, n)
			window = append(window, symbols[i:]...)
			window = append(window, symbols[:(i+n)%l]...)
			if !yield(window) {
				return
			}
		}
	}
}
