/*
Package corpus stores source texts for markov chains in a SQLite database.

A corpus is a named, tokenized text. Storing it lets a chain be rebuilt
later without the original file; the chain itself is never persisted and is
always rebuilt from the stored symbols. The store can also record the output
of generation runs against a corpus.
*/
package corpus
