package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/CTAG07/markovtext/pkg/corpus"
)

// openStore opens the corpus database with the driver selected at build time
// and prepares its schema. The returned close function releases both.
func openStore(dataSource string, logger *slog.Logger) (*corpus.Store, func(), error) {
	db, err := sql.Open(sqliteDriver, dataSource)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err = corpus.SetupSchema(db); err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to setup corpus schema: %w", err)
	}
	store, err := corpus.NewStore(db)
	if err != nil {
		_ = db.Close()
		return nil, nil, fmt.Errorf("failed to prepare corpus store: %w", err)
	}
	store.SetLogger(logger)

	return store, func() {
		store.Close()
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database", "error", err)
		}
	}, nil
}
