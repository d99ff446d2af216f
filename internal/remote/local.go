package remote

import (
	"context"
	"fmt"

	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
)

// Catalog answers queries against the personal catalog. *catalog.Actor
// satisfies it.
type Catalog interface {
	Query(ctx context.Context, q query.Query, maxHits int) ([]paper.LocalHit, error)
}

// Local exposes the catalog as a provider.
type Local struct {
	catalog Catalog
}

// NewLocal wraps a catalog.
func NewLocal(c Catalog) *Local {
	return &Local{catalog: c}
}

func (l *Local) Source() paper.Source { return paper.SourceLocal }

// Fetch queries the catalog and wraps the entries as hits.
func (l *Local) Fetch(ctx context.Context, q query.Query, maxHits int) (Result, error) {
	res := Result{Source: paper.SourceLocal, Query: q}
	entries, err := l.catalog.Query(ctx, q, maxHits)
	if err != nil {
		return res, fmt.Errorf("local catalog: %w", err)
	}
	for _, e := range entries {
		res.Hits = append(res.Hits, e)
	}
	return res, nil
}
