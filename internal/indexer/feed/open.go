package feed

import (
	"context"
	"fmt"

	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/config"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/postgres"
	"github.com/imamaawais/Boolean-Retrieval-Model/pkg/resilience"
)

// Open builds the Source selected by cfg.Indexer.Source. The returned close
// function releases any connection the source holds.
func Open(ctx context.Context, cfg *config.Config) (Source, func() error, error) {
	noop := func() error { return nil }
	switch cfg.Indexer.Source {
	case "", "dir":
		return NewDirSource(cfg.Indexer.CorpusDir, cfg.Indexer.CorpusPattern), noop, nil
	case "postgres":
		var client *postgres.Client
		err := resilience.Retry(ctx, "postgres-connect", resilience.RetryConfig{}, func() error {
			var err error
			client, err = postgres.New(ctx, cfg.Postgres)
			return err
		})
		if err != nil {
			return nil, noop, fmt.Errorf("connecting to postgres: %w", err)
		}
		pg := cfg.Postgres
		return NewPostgresSource(client, pg.DocumentTable, pg.IDColumn, pg.TextColumn), client.Close, nil
	default:
		return nil, noop, fmt.Errorf("unknown document source %q", cfg.Indexer.Source)
	}
}
