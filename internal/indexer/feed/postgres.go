package feed

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/lib/pq"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

// Querier is the subset of *sql.DB a PostgresSource needs.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// PostgresSource reads documents from a table with an integer id column and
// a text column.
type PostgresSource struct {
	db         Querier
	table      string
	idColumn   string
	textColumn string
}

func NewPostgresSource(db Querier, table, idColumn, textColumn string) *PostgresSource {
	return &PostgresSource{db: db, table: table, idColumn: idColumn, textColumn: textColumn}
}

func (s *PostgresSource) Name() string {
	return "postgres:" + s.table
}

func (s *PostgresSource) query() string {
	return fmt.Sprintf("SELECT %s, %s FROM %s ORDER BY %s",
		pq.QuoteIdentifier(s.idColumn),
		pq.QuoteIdentifier(s.textColumn),
		pq.QuoteIdentifier(s.table),
		pq.QuoteIdentifier(s.idColumn),
	)
}

func (s *PostgresSource) Fetch(ctx context.Context) ([]RawDocument, error) {
	rows, err := s.db.QueryContext(ctx, s.query())
	if err != nil {
		return nil, fmt.Errorf("%w: querying documents: %v", apperrors.ErrSourceFailed, err)
	}
	defer rows.Close()

	var docs []RawDocument
	for rows.Next() {
		var (
			id   int64
			text sql.NullString
		)
		if err := rows.Scan(&id, &text); err != nil {
			return nil, fmt.Errorf("%w: scanning document row: %v", apperrors.ErrSourceFailed, err)
		}
		if id <= 0 || id > int64(^uint32(0)) {
			return nil, fmt.Errorf("%w: document id %d out of range", apperrors.ErrInvalidInput, id)
		}
		docs = append(docs, RawDocument{ID: index.DocID(id), Text: text.String})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterating document rows: %v", apperrors.ErrSourceFailed, err)
	}
	return docs, nil
}
