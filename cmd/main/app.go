package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"slices"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/CTAG07/markovtext/pkg/corpus"
	"github.com/CTAG07/markovtext/pkg/markov"
)

// app holds the collaborators of a single invocation.
type app struct {
	opts   *options
	logger *slog.Logger
	tok    *markov.WhitespaceTokenizer
	store  *corpus.Store
	chain  *markov.Chain[string]
	stdout io.Writer
}

// execute runs a validated invocation.
func execute(ctx context.Context, opts *options, logger *slog.Logger, stdin io.Reader, stdout io.Writer) error {
	a := &app{
		opts:   opts,
		logger: logger,
		tok:    markov.NewWhitespaceTokenizer(),
		stdout: stdout,
	}

	if opts.needsStore() {
		store, closeStore, err := openStore(opts.dbPath, logger)
		if err != nil {
			return err
		}
		defer closeStore()
		a.store = store
	}

	if opts.admin() {
		return a.manage(ctx)
	}

	symbols, err := a.loadSymbols(ctx)
	if err != nil {
		return err
	}

	chainOpts := []markov.Option{markov.WithLogger(logger)}
	if opts.seed != 0 {
		chainOpts = append(chainOpts, markov.WithSource(markov.NewSource(opts.seed)))
	}
	a.chain, err = markov.New(symbols, opts.order, chainOpts...)
	if err != nil {
		return fmt.Errorf("failed to build chain: %w", err)
	}
	if opts.sentence {
		a.chain.SetSeedStrategy(markov.SentenceStart())
	}

	if opts.stats {
		a.printStats()
	}

	if opts.repl {
		return a.repl(ctx, stdin)
	}

	text, err := a.generate(ctx, opts.length)
	if err != nil {
		return err
	}
	return a.write(text)
}

// loadSymbols reads the input from the file or the store, importing the file
// into the store when asked to.
func (a *app) loadSymbols(ctx context.Context) ([]string, error) {
	if a.opts.corpus != "" {
		return a.store.Symbols(ctx, a.opts.corpus)
	}

	f, err := os.Open(a.opts.file)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMissingInput, err)
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)

	if a.opts.importName != "" {
		if _, err = a.store.Import(ctx, a.opts.importName, f, a.tok); err != nil {
			return nil, err
		}
		return a.store.Symbols(ctx, a.opts.importName)
	}

	symbols, err := markov.ReadSymbols(a.tok, f)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", a.opts.file, err)
	}
	a.logger.Debug("Input read", "file", a.opts.file, "symbols", len(symbols))
	return symbols, nil
}

// generate produces one text of the given length and records it if asked to.
func (a *app) generate(ctx context.Context, length int) (string, error) {
	output := a.chain.GenerateAll(markov.WithLength(length))

	if a.opts.record {
		id, err := a.store.RecordGeneration(ctx, a.opts.corpusName(), a.chain.Order(), output)
		if err != nil {
			return "", err
		}
		a.logger.Info("Generation recorded", "run_id", id.String(), "corpus", a.opts.corpusName())
	}

	return markov.Join(slices.Values(output), a.tok), nil
}

// write sends text to -out, atomically, or to stdout.
func (a *app) write(text string) error {
	if a.opts.out == "" {
		_, err := fmt.Fprintln(a.stdout, text)
		return err
	}
	if err := atomic.WriteFile(a.opts.out, strings.NewReader(text+"\n")); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	a.logger.Info("Output written", "path", a.opts.out, "bytes", len(text)+1)
	return nil
}

func (a *app) printStats() {
	stats := a.chain.Stats()
	_, _ = fmt.Fprintf(a.stdout, "order=%d symbols=%d vocabulary=%d prefixes=%d transitions=%d wrapped_windows=%d max_successors=%d\n",
		stats.Order, stats.Symbols, stats.Vocabulary, stats.Prefixes, stats.Transitions, stats.WrappedWindows, stats.MaxSuccessors)
}

// manage runs the corpus database commands.
func (a *app) manage(ctx context.Context) error {
	switch {
	case a.opts.list:
		infos, err := a.store.List(ctx)
		if err != nil {
			return fmt.Errorf("failed to list corpora: %w", err)
		}
		for _, info := range infos {
			_, _ = fmt.Fprintf(a.stdout, "%s\t%d symbols\t%s\n", info.Name, info.SymbolCount, info.CreatedAt.Format("2006-01-02 15:04:05"))
		}
	case a.opts.remove != "":
		if err := a.store.Remove(ctx, a.opts.remove); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(a.stdout, "removed %s\n", a.opts.remove)
	case a.opts.history > 0:
		generations, err := a.store.Generations(ctx, a.opts.corpus, a.opts.history)
		if err != nil {
			return err
		}
		for _, gen := range generations {
			_, _ = fmt.Fprintf(a.stdout, "%s\torder=%d\tlength=%d\t%s\n", gen.ID, gen.Order, gen.Length, gen.Output)
		}
	}
	return nil
}
