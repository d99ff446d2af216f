// Package aggregate merges per-source hits into ranked papers and tracks
// when every source has answered the live query.
package aggregate

import (
	"sort"
	"strconv"
	"strings"

	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
	"github.com/csheth/litfind/internal/remote"
)

// Merge folds incoming into existing. A result for any query other than
// live is stale and leaves existing untouched.
func Merge(existing []paper.Paper, incoming remote.Result, live query.Query) []paper.Paper {
	if !incoming.Query.Equal(live) {
		return existing
	}
	var hits []paper.Hit
	for _, p := range existing {
		hits = append(hits, p.Hits...)
	}
	hits = append(hits, incoming.Hits...)
	return Group(hits)
}

// Group clusters hits by normalized title. A group holds at most one hit per
// source; a later hit from the same source replaces the earlier one.
// Papers are ordered newest first.
func Group(hits []paper.Hit) []paper.Paper {
	var keys []string
	groups := make(map[string][]paper.Hit)
	for _, h := range hits {
		key := h.Metadata().Title.Normalized()
		group, seen := groups[key]
		if !seen {
			keys = append(keys, key)
		}
		replaced := false
		for i := range group {
			if group[i].Source() == h.Source() {
				group[i] = h
				replaced = true
				break
			}
		}
		if !replaced {
			group = append(group, h)
		}
		groups[key] = group
	}

	papers := make([]paper.Paper, 0, len(keys))
	for _, key := range keys {
		papers = append(papers, paper.New(groups[key]))
	}
	SortByYear(papers)
	return papers
}

// SortByYear orders papers by descending numeric year. Papers whose year is
// missing or not a number go last; ties are broken by title.
func SortByYear(papers []paper.Paper) {
	sort.SliceStable(papers, func(i, j int) bool {
		yi, okI := year(papers[i])
		yj, okJ := year(papers[j])
		if okI != okJ {
			return okI
		}
		if yi != yj {
			return yi > yj
		}
		return papers[i].Key() < papers[j].Key()
	})
}

func year(p paper.Paper) (int, bool) {
	y, err := strconv.Atoi(strings.TrimSpace(p.Metadata().Year))
	if err != nil {
		return 0, false
	}
	return y, true
}
