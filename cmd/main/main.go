package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/CTAG07/markovtext/pkg/markov"
)

var (
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2
)

var (
	// ErrMissingInput is returned when no readable input file or corpus was given.
	ErrMissingInput = errors.New("missing input: give a readable file or -corpus")
	// ErrLengthTooSmall is returned when the requested length is below the order.
	ErrLengthTooSmall = errors.New("length must be at least the order")
	// ErrConflictingFlags is returned for flag combinations that cannot be honoured.
	ErrConflictingFlags = errors.New("conflicting flags")
)

// options holds everything parsed from the command line.
type options struct {
	configPath string
	file       string
	corpus     string
	importName string
	dbPath     string
	out        string
	remove     string
	length     int
	order      int
	history    int
	seed       uint64
	sentence   bool
	repl       bool
	record     bool
	stats      bool
	list       bool
	version    bool

	set map[string]bool // flags given explicitly
}

func parseFlags(args []string, stderr io.Writer) (*options, error) {
	defaults := DefaultConfig()
	opts := &options{set: make(map[string]bool)}

	fs := flag.NewFlagSet("markovtext", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		_, _ = fmt.Fprintln(fs.Output(), "Usage: markovtext [flags] [file]")
		_, _ = fmt.Fprintln(fs.Output(), "Generates text from an n-gram Markov chain built over the words of a file or stored corpus.")
		fs.PrintDefaults()
	}

	fs.StringVar(&opts.configPath, "config", "./markovtext.json", "path of the JSON config file")
	fs.StringVar(&opts.file, "file", "", "input text file (may also be given as the first argument)")
	fs.StringVar(&opts.corpus, "corpus", "", "read the input from the named stored corpus")
	fs.StringVar(&opts.importName, "import", "", "store the input file as a corpus with this name")
	fs.StringVar(&opts.dbPath, "db", defaults.DatabasePath, "corpus database data source")
	fs.StringVar(&opts.out, "out", "", "write the generated text to this file instead of stdout")
	fs.StringVar(&opts.remove, "remove", "", "delete the named corpus and exit")
	fs.IntVar(&opts.length, "length", defaults.DefaultLength, "number of words to generate")
	fs.IntVar(&opts.order, "order", defaults.DefaultOrder, "n-gram order, at least 2")
	fs.IntVar(&opts.history, "history", 0, "print the last N recorded generations of -corpus and exit")
	fs.Uint64Var(&opts.seed, "seed", 0, "random seed for reproducible output (0 picks one)")
	fs.BoolVar(&opts.sentence, "sentence", defaults.SentenceStart, "start generation at a capitalised word")
	fs.BoolVar(&opts.repl, "repl", false, "keep generating from the same chain interactively")
	fs.BoolVar(&opts.record, "record", false, "record generated text in the corpus database")
	fs.BoolVar(&opts.stats, "stats", false, "print chain statistics before generating")
	fs.BoolVar(&opts.list, "list", false, "list stored corpora and exit")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) { opts.set[f.Name] = true })

	switch fs.NArg() {
	case 0:
	case 1:
		if opts.file != "" {
			return nil, fmt.Errorf("%w: both -file and a file argument given", ErrConflictingFlags)
		}
		opts.file = fs.Arg(0)
	default:
		return nil, fmt.Errorf("%w: unexpected arguments %q", ErrConflictingFlags, fs.Args()[1:])
	}
	return opts, nil
}

// applyConfig fills every flag that was not given explicitly from config.
func (o *options) applyConfig(config *Config) {
	if !o.set["db"] {
		o.dbPath = config.DatabasePath
	}
	if !o.set["length"] {
		o.length = config.DefaultLength
	}
	if !o.set["order"] {
		o.order = config.DefaultOrder
	}
	if !o.set["sentence"] {
		o.sentence = config.SentenceStart
	}
}

// admin reports whether the invocation only manages the corpus database.
func (o *options) admin() bool {
	return o.list || o.remove != "" || o.history > 0
}

func (o *options) needsStore() bool {
	return o.admin() || o.corpus != "" || o.importName != "" || o.record
}

// corpusName is the corpus that generations are read from or recorded against.
func (o *options) corpusName() string {
	if o.corpus != "" {
		return o.corpus
	}
	return o.importName
}

// validate rejects bad invocations before any input is read.
func (o *options) validate() error {
	if o.admin() {
		if o.history > 0 && o.corpus == "" {
			return fmt.Errorf("%w: -history needs -corpus", ErrConflictingFlags)
		}
		return nil
	}

	switch {
	case o.file != "" && o.corpus != "":
		return fmt.Errorf("%w: use either a file or -corpus", ErrConflictingFlags)
	case o.importName != "" && o.file == "":
		return fmt.Errorf("%w: -import needs an input file", ErrConflictingFlags)
	case o.record && o.corpusName() == "":
		return fmt.Errorf("%w: -record needs -corpus or -import", ErrConflictingFlags)
	case o.repl && o.out != "":
		return fmt.Errorf("%w: -out cannot be used with -repl", ErrConflictingFlags)
	}

	if o.file == "" && o.corpus == "" {
		return ErrMissingInput
	}
	if o.file != "" {
		info, err := os.Stat(o.file)
		if err != nil {
			return fmt.Errorf("%w: %v", ErrMissingInput, err)
		}
		if info.IsDir() {
			return fmt.Errorf("%w: %s is a directory", ErrMissingInput, o.file)
		}
	}
	if o.order < markov.MinOrder {
		return fmt.Errorf("%w: got %d", markov.ErrInvalidOrder, o.order)
	}
	if o.length < o.order {
		return fmt.Errorf("%w: length %d, order %d", ErrLengthTooSmall, o.length, o.order)
	}
	return nil
}

func isUsageError(err error) bool {
	return errors.Is(err, ErrMissingInput) ||
		errors.Is(err, ErrLengthTooSmall) ||
		errors.Is(err, ErrConflictingFlags) ||
		errors.Is(err, markov.ErrInvalidOrder)
}

// run executes one invocation and returns the process exit code.
func run(ctx context.Context, args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	opts, err := parseFlags(args, stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return exitOK
		}
		if !errors.Is(err, ErrConflictingFlags) {
			// flag already reported it
			return exitUsage
		}
		_, _ = fmt.Fprintf(stderr, "usage error: %v\n", err)
		return exitUsage
	}

	if opts.version {
		_, _ = fmt.Fprintf(stdout, "markovtext %s (commit %s, built %s)\n", Version, Commit, BuildDate)
		return exitOK
	}

	config, configErr := LoadConfig(opts.configPath)
	if configErr != nil && !errors.Is(configErr, ErrConfigNotWritten) {
		_, _ = fmt.Fprintf(stderr, "error: failed to load configuration: %v\n", configErr)
		return exitFailure
	}
	opts.applyConfig(config)

	logger := slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: parseLevel(config.LogLevel)}))
	if configErr != nil {
		// The defaults are still usable.
		logger.Warn("Using default configuration", "path", opts.configPath, "error", configErr)
	}

	if err = opts.validate(); err != nil {
		_, _ = fmt.Fprintf(stderr, "usage error: %v\n", err)
		_, _ = fmt.Fprintln(stderr, "Run 'markovtext -help' for usage.")
		return exitUsage
	}

	if err = execute(ctx, opts, logger, stdin, stdout); err != nil {
		_, _ = fmt.Fprintf(stderr, "error: %v\n", err)
		if isUsageError(err) {
			return exitUsage
		}
		return exitFailure
	}
	return exitOK
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
	stop()
	os.Exit(code)
}
