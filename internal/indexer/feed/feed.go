// Package feed supplies the normalized document feed the index builder
// consumes: (doc ID, ordered terms) pairs in ascending ID order.
package feed

import (
	"context"
	"fmt"
	"sort"

	"github.com/imamaawais/Boolean-Retrieval-Model/internal/indexer/index"
	apperrors "github.com/imamaawais/Boolean-Retrieval-Model/pkg/errors"
)

// RawDocument is a document before normalization.
type RawDocument struct {
	ID   index.DocID
	Text string
}

// Source produces raw documents. Implementations may return them in any
// order.
type Source interface {
	Name() string
	Fetch(ctx context.Context) ([]RawDocument, error)
}

// NormalizeFunc turns document text into its ordered term sequence.
type NormalizeFunc func(text string) []string

// Normalize sorts raws by ID and normalizes each document. IDs must be
// positive and unique. progress, when set, is called once per document.
func Normalize(raws []RawDocument, norm NormalizeFunc, progress func()) ([]index.Document, error) {
	sorted := make([]RawDocument, len(raws))
	copy(sorted, raws)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	docs := make([]index.Document, 0, len(sorted))
	for i, raw := range sorted {
		if raw.ID == 0 {
			return nil, fmt.Errorf("%w: document id must be positive", apperrors.ErrInvalidInput)
		}
		if i > 0 && sorted[i-1].ID == raw.ID {
			return nil, fmt.Errorf("%w: duplicate document id %d", apperrors.ErrInvalidInput, raw.ID)
		}
		docs = append(docs, index.Document{ID: raw.ID, Terms: norm(raw.Text)})
		if progress != nil {
			progress()
		}
	}
	return docs, nil
}

// Load fetches from src and normalizes the result.
func Load(ctx context.Context, src Source, norm NormalizeFunc, progress func()) ([]index.Document, error) {
	raws, err := src.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching from %s: %w", src.Name(), err)
	}
	return Normalize(raws, norm, progress)
}

// StaticSource serves a fixed document set.
type StaticSource []RawDocument

func (s StaticSource) Name() string { return "static" }

func (s StaticSource) Fetch(ctx context.Context) ([]RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s, nil
}
