// Package remote turns a query into hits from one provider: the arXiv and
// DBLP search APIs, or the local catalog.
package remote

import (
	"context"
	"regexp"
	"strings"

	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
)

// Fetcher is the single capability shared by every provider.
type Fetcher interface {
	Source() paper.Source
	Fetch(ctx context.Context, q query.Query, maxHits int) (Result, error)
}

// Result is one provider's answer, tagged with the query it answers so that
// stale results can be recognised regardless of arrival order.
type Result struct {
	Source paper.Source
	Query  query.Query
	Hits   []paper.Hit
	// Err is set when the provider failed; Hits is then empty.
	Err error
}

var (
	yearNoise  = regexp.MustCompile(`^\d{4}$`)
	whitespace = regexp.MustCompile(`\s+`)
)

// cleanAuthor drops the 4-digit disambiguation tokens providers append to
// homonymous names, e.g. "Wei Wang 0001".
func cleanAuthor(name string) string {
	fields := strings.Fields(name)
	kept := fields[:0]
	for _, f := range fields {
		if yearNoise.MatchString(f) {
			continue
		}
		kept = append(kept, f)
	}
	return strings.Join(kept, " ")
}

func normalizeWhitespace(s string) string {
	return whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
}
