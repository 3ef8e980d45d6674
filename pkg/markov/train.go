package markov

// build fills the transition table from the interned sequence. Linear windows
// are inserted first, then the wrapped ones, so every suffix list keeps the
// order in which its windows start in the input.
func (c *Chain[T]) build() {
	c.table = make(map[string][]int)

	var keyBuf []byte
	for window := range LinearWindows(c.ids, c.order) {
		keyBuf = c.insert(keyBuf, window)
	}
	for window := range WrappedWindows(c.ids, c.order) {
		keyBuf = c.insert(keyBuf, window)
		c.wrapped++
	}
}

// insert records the last id of window as a successor of the rest of it.
func (c *Chain[T]) insert(keyBuf []byte, window []int) []byte {
	keyBuf = appendKey(keyBuf[:0], window[:len(window)-1])
	key := string(keyBuf)
	c.table[key] = append(c.table[key], window[len(window)-1])
	return keyBuf
}
