/*
Package markov builds n-gram Markov chains over a sequence of symbols and
walks them to generate new sequences that statistically resemble the input.

A Chain is built once from a slice of comparable symbols and an order n. Every
window of n consecutive symbols contributes one prefix -> suffix transition,
and the input is treated as circular so that the windows straddling the end
and the start of the sequence are recorded as well. Because of this, every
prefix the generator can reach is a key of the transition table and a walk
never runs into a dead end.

Suffixes are kept as plain lists in encounter order, so choosing uniformly
from a list reproduces the empirical next-symbol frequencies of the input.

Randomness comes from an injected Source. Seed selection is pluggable through
SeedStrategy; SentenceStart provides the word-level heuristic that begins
generation at an upper case word.

	words, _ := markov.ReadSymbols(markov.NewWhitespaceTokenizer(), file)
	chain, err := markov.New(words, 3, markov.WithSource(markov.NewSource(42)))
	if err != nil {
		return err
	}
	chain.SetSeedStrategy(markov.SentenceStart())
	text := markov.Join(chain.Generate(markov.WithLength(50)), markov.NewWhitespaceTokenizer())
*/
package markov
