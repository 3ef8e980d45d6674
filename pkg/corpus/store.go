package corpus

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/CTAG07/markovtext/pkg/markov"
)

var (
	// ErrCorpusNotFound is returned when no corpus has the requested name.
	ErrCorpusNotFound = errors.New("corpus: not found")
	// ErrEmptyCorpus is returned when an imported text has no symbols.
	ErrEmptyCorpus = errors.New("corpus: text has no symbols")
)

// Info holds the metadata of a stored corpus.
type Info struct {
	Id          int
	Name        string
	SymbolCount int
	CreatedAt   time.Time
}

// SetupSchema initializes the corpus tables in the provided database. It is
// idempotent and safe to call on an already-initialized database.
func SetupSchema(db *sql.DB) error {

	const (
		schemaTexts = `
CREATE TABLE IF NOT EXISTS corpus_texts (
    corpus_id INTEGER PRIMARY KEY,
    corpus_name TEXT NOT NULL UNIQUE,
    symbol_count INTEGER NOT NULL,
    content TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`
		schemaGenerations = `
CREATE TABLE IF NOT EXISTS corpus_generations (
    run_id TEXT PRIMARY KEY,
    corpus_id INTEGER NOT NULL,
    model_order INTEGER NOT NULL,
    length INTEGER NOT NULL,
    output TEXT NOT NULL,
    created_at INTEGER NOT NULL
);
`
		indexGenerations = `CREATE INDEX IF NOT EXISTS idx_corpus_generations_corpus ON corpus_generations (corpus_id, created_at);`
	)

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("could not begin transaction: %w", err)
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.Exec(schemaTexts); err != nil {
		return fmt.Errorf("could not create texts schema: %w", err)
	}
	if _, err = tx.Exec(schemaGenerations); err != nil {
		return fmt.Errorf("could not create generations schema: %w", err)
	}
	if _, err = tx.Exec(indexGenerations); err != nil {
		return fmt.Errorf("could not create generations index: %w", err)
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("could not commit transaction: %w", err)
	}
	return nil
}

// Store is the entry point for reading and writing corpora. It holds the
// database connection and prepared statements.
type Store struct {
	db                 *sql.DB
	stmtUpsertText     *sql.Stmt
	stmtGetText        *sql.Stmt
	stmtGetInfo        *sql.Stmt
	stmtListTexts      *sql.Stmt
	stmtAddGeneration  *sql.Stmt
	stmtGetGenerations *sql.Stmt
	logger             *slog.Logger
}

// NewStore creates a Store on a database prepared with SetupSchema. It
// pre-compiles all SQL statements, returning an error if any preparation fails.
func NewStore(db *sql.DB) (*Store, error) {
	stmtUpsertText, err := db.Prepare(`
INSERT INTO corpus_texts (corpus_name, symbol_count, content, created_at) VALUES (?, ?, ?, ?)
ON CONFLICT(corpus_name) DO UPDATE SET symbol_count = excluded.symbol_count, content = excluded.content, created_at = excluded.created_at
RETURNING corpus_id;`)
	if err != nil {
		return nil, err
	}

	stmtGetText, err := db.Prepare(`SELECT content FROM corpus_texts WHERE corpus_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtGetInfo, err := db.Prepare(`SELECT corpus_id, symbol_count, created_at FROM corpus_texts WHERE corpus_name = ?;`)
	if err != nil {
		return nil, err
	}

	stmtListTexts, err := db.Prepare(`SELECT corpus_id, corpus_name, symbol_count, created_at FROM corpus_texts ORDER BY corpus_name;`)
	if err != nil {
		return nil, err
	}

	stmtAddGeneration, err := db.Prepare(`INSERT INTO corpus_generations (run_id, corpus_id, model_order, length, output, created_at) VALUES (?, ?, ?, ?, ?, ?);`)
	if err != nil {
		return nil, err
	}

	stmtGetGenerations, err := db.Prepare(`
SELECT g.run_id, g.model_order, g.length, g.output, g.created_at
FROM corpus_generations g JOIN corpus_texts t ON t.corpus_id = g.corpus_id
WHERE t.corpus_name = ?
ORDER BY g.created_at DESC, g.rowid DESC
LIMIT ?;`)
	if err != nil {
		return nil, err
	}

	return &Store{
		db:                 db,
		stmtUpsertText:     stmtUpsertText,
		stmtGetText:        stmtGetText,
		stmtGetInfo:        stmtGetInfo,
		stmtListTexts:      stmtListTexts,
		stmtAddGeneration:  stmtAddGeneration,
		stmtGetGenerations: stmtGetGenerations,
		logger:             slog.New(slog.NewTextHandler(io.Discard, nil)),
	}, nil
}

// Close releases all prepared SQL statements held by the Store. The database
// itself is left open.
func (s *Store) Close() {
	_ = s.stmtUpsertText.Close()
	_ = s.stmtGetText.Close()
	_ = s.stmtGetInfo.Close()
	_ = s.stmtListTexts.Close()
	_ = s.stmtAddGeneration.Close()
	_ = s.stmtGetGenerations.Close()
}

// SetLogger sets the logger for the Store. By default, all logs are discarded.
func (s *Store) SetLogger(logger *slog.Logger) {
	if logger != nil {
		s.logger = logger
	}
}

// Import tokenizes r with tok and stores the symbols under name, replacing
// any corpus with the same name.
func (s *Store) Import(ctx context.Context, name string, r io.Reader, tok markov.Tokenizer) (Info, error) {
	symbols, err := markov.ReadSymbols(tok, r)
	if err != nil {
		return Info{}, fmt.Errorf("failed to read corpus '%s': %w", name, err)
	}
	if len(symbols) == 0 {
		return Info{}, fmt.Errorf("%w: '%s'", ErrEmptyCorpus, name)
	}

	// Stored as a JSON array, symbols may contain any character.
	content, err := json.Marshal(symbols)
	if err != nil {
		return Info{}, fmt.Errorf("failed to encode corpus '%s': %w", name, err)
	}

	now := time.Now().Unix()
	var id int
	err = s.stmtUpsertText.QueryRowContext(ctx, name, len(symbols), string(content), now).Scan(&id)
	if err != nil {
		return Info{}, fmt.Errorf("failed to store corpus '%s': %w", name, err)
	}

	s.logger.InfoContext(ctx, "Corpus imported",
		slog.String("corpus_name", name),
		slog.Int("corpus_id", id),
		slog.Int("symbols", len(symbols)),
	)

	return Info{
		Id:          id,
		Name:        name,
		SymbolCount: len(symbols),
		CreatedAt:   time.Unix(now, 0),
	}, nil
}

// Symbols returns the stored symbols of a corpus in their original order.
func (s *Store) Symbols(ctx context.Context, name string) ([]string, error) {
	var content string
	err := s.stmtGetText.QueryRowContext(ctx, name).Scan(&content)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: '%s'", ErrCorpusNotFound, name)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load corpus '%s': %w", name, err)
	}
	var symbols []string
	if err = json.Unmarshal([]byte(content), &symbols); err != nil {
		return nil, fmt.Errorf("failed to decode corpus '%s': %w", name, err)
	}
	return symbols, nil
}

// Info retrieves the metadata of a single corpus.
func (s *Store) Info(ctx context.Context, name string) (Info, error) {
	info := Info{Name: name}
	var createdAt int64
	err := s.stmtGetInfo.QueryRowContext(ctx, name).Scan(&info.Id, &info.SymbolCount, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return Info{}, fmt.Errorf("%w: '%s'", ErrCorpusNotFound, name)
	}
	if err != nil {
		return Info{}, err
	}
	info.CreatedAt = time.Unix(createdAt, 0)
	return info, nil
}

// List returns the metadata of every stored corpus, ordered by name.
func (s *Store) List(ctx context.Context) ([]Info, error) {
	rows, err := s.stmtListTexts.QueryContext(ctx)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var infos []Info
	for rows.Next() {
		var info Info
		var createdAt int64
		if err = rows.Scan(&info.Id, &info.Name, &info.SymbolCount, &createdAt); err != nil {
			return nil, err
		}
		info.CreatedAt = time.Unix(createdAt, 0)
		infos = append(infos, info)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return infos, nil
}

// Remove deletes a corpus and every generation recorded against it. The
// operation is performed within a transaction.
func (s *Store) Remove(ctx context.Context, name string) error {
	info, err := s.Info(ctx, name)
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func(tx *sql.Tx) {
		_ = tx.Rollback()
	}(tx)

	if _, err = tx.ExecContext(ctx, "DELETE FROM corpus_generations WHERE corpus_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove generations for corpus %d: %w", info.Id, err)
	}
	if _, err = tx.ExecContext(ctx, "DELETE FROM corpus_texts WHERE corpus_id = ?", info.Id); err != nil {
		return fmt.Errorf("failed to remove corpus %d: %w", info.Id, err)
	}

	s.logger.InfoContext(ctx, "Corpus removed",
		slog.String("corpus_name", name),
		slog.Int("corpus_id", info.Id),
	)

	return tx.Commit()
}
