package corpus

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Generation is one recorded generation run.
type Generation struct {
	ID        uuid.UUID
	Corpus    string
	Order     int
	Length    int
	Output    string
	CreatedAt time.Time
}

// RecordGeneration stores the output of a generation run against the named
// corpus and returns the id assigned to the run.
func (s *Store) RecordGeneration(ctx context.Context, name string, order int, output []string) (uuid.UUID, error) {
	info, err := s.Info(ctx, name)
	if err != nil {
		return uuid.Nil, err
	}

	id := uuid.New()
	_, err = s.stmtAddGeneration.ExecContext(ctx, id.String(), info.Id, order, len(output), strings.Join(output, " "), time.Now().Unix())
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to record generation for corpus '%s': %w", name, err)
	}

	s.logger.DebugContext(ctx, "Generation recorded",
		slog.String("corpus_name", name),
		slog.String("run_id", id.String()),
		slog.Int("order", order),
		slog.Int("length", len(output)),
	)
	return id, nil
}

// Generations returns up to limit recorded runs for the named corpus, newest
// first. A limit <= 0 returns every run.
func (s *Store) Generations(ctx context.Context, name string, limit int) ([]Generation, error) {
	if _, err := s.Info(ctx, name); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = -1 // SQLite: no limit
	}

	rows, err := s.stmtGetGenerations.QueryContext(ctx, name, limit)
	if err != nil {
		return nil, err
	}
	defer func(rows *sql.Rows) {
		_ = rows.Close()
	}(rows)

	var generations []Generation
	for rows.Next() {
		gen := Generation{Corpus: name}
		var runID string
		var createdAt int64
		if err = rows.Scan(&runID, &gen.Order, &gen.Length, &gen.Output, &createdAt); err != nil {
			return nil, err
		}
		if gen.ID, err = uuid.Parse(runID); err != nil {
			return nil, fmt.Errorf("invalid run id '%s': %w", runID, err)
		}
		gen.CreatedAt = time.Unix(createdAt, 0)
		generations = append(generations, gen)
	}
	if err = rows.Err(); err != nil {
		return nil, err
	}
	return generations, nil
}
