package aggregate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
	"github.com/csheth/litfind/internal/remote"
)

func info(title, year string) paper.Info {
	return paper.Info{Title: paper.NewTitle(title), Year: year}
}

func result(src paper.Source, q string, hits ...paper.Hit) remote.Result {
	return remote.Result{Source: src, Query: query.Parse(q), Hits: hits}
}

func TestMergeCaseInsensitiveTitles(t *testing.T) {
	t.Parallel()

	live := query.Parse("attention is all you need")
	arxiv := paper.ArxivHit{Info: info("Attention Is All You Need", "2017")}
	dblp := paper.DblpHit{Info: info("Attention is all you need.", "2017")}

	papers := Merge(nil, result(paper.SourceDblp, "attention is all you need", dblp), live)
	papers = Merge(papers, result(paper.SourceArxiv, "attention is all you need", arxiv), live)

	require.Len(t, papers, 1)
	assert.Equal(t, []paper.Source{paper.SourceArxiv, paper.SourceDblp}, papers[0].Sources())
}

func TestMergePriorityIndependentOfArrival(t *testing.T) {
	t.Parallel()

	live := query.Parse("x")
	hits := map[paper.Source]paper.Hit{
		paper.SourceLocal: paper.LocalHit{Info: info("X", "2000")},
		paper.SourceArxiv: paper.ArxivHit{Info: info("X", "2000")},
		paper.SourceDblp:  paper.DblpHit{Info: info("X", "2000")},
	}
	orders := [][]paper.Source{
		{paper.SourceDblp, paper.SourceArxiv, paper.SourceLocal},
		{paper.SourceArxiv, paper.SourceLocal, paper.SourceDblp},
		{paper.SourceLocal, paper.SourceDblp, paper.SourceArxiv},
	}
	for _, order := range orders {
		var papers []paper.Paper
		for _, src := range order {
			papers = Merge(papers, result(src, "x", hits[src]), live)
		}
		require.Len(t, papers, 1)
		assert.Equal(t, paper.Sources, papers[0].Sources())
	}
}

func TestMergeIsIdempotentPerSource(t *testing.T) {
	t.Parallel()

	live := query.Parse("graph")
	first := paper.DblpHit{Info: info("Graph Networks", "2018"), ListingURL: "old"}
	again := paper.DblpHit{Info: info("graph networks", "2018"), ListingURL: "new"}

	papers := Merge(nil, result(paper.SourceDblp, "graph", first), live)
	papers = Merge(papers, result(paper.SourceDblp, "graph", first), live)
	papers = Merge(papers, result(paper.SourceDblp, "graph", again), live)

	require.Len(t, papers, 1)
	require.Len(t, papers[0].Hits, 1)
	assert.Equal(t, "new", papers[0].Hits[0].(paper.DblpHit).ListingURL)
}

func TestMergeDropsStaleResults(t *testing.T) {
	t.Parallel()

	existing := Merge(nil, result(paper.SourceArxiv, "b", paper.ArxivHit{Info: info("B", "2020")}), query.Parse("b"))
	stale := result(paper.SourceDblp, "a", paper.DblpHit{Info: info("A", "2021")})

	merged := Merge(existing, stale, query.Parse("b"))
	require.Len(t, merged, 1)
	assert.Equal(t, "b", merged[0].Key())

	assert.Empty(t, Merge(nil, stale, nil))
}

func TestGroupSortsByNumericYear(t *testing.T) {
	t.Parallel()

	papers := Group([]paper.Hit{
		paper.DblpHit{Info: info("Old", "999")},
		paper.DblpHit{Info: info("Unknown", "")},
		paper.DblpHit{Info: info("New", "2021")},
		paper.DblpHit{Info: info("Beta", "2019")},
		paper.DblpHit{Info: info("Alpha", "2019")},
		paper.DblpHit{Info: info("Weird", "n.d.")},
	})

	var keys []string
	for _, p := range papers {
		keys = append(keys, p.Key())
	}
	assert.Equal(t, []string{"new", "alpha", "beta", "old", "unknown", "weird"}, keys)
}

func TestRound(t *testing.T) {
	t.Parallel()

	r := NewRound(3)
	r.Reset(query.Parse("graph"))
	assert.False(t, r.Complete())

	r.Record(result(paper.SourceArxiv, "graph"))
	r.Record(result(paper.SourceArxiv, "graph"))
	r.Record(result(paper.SourceDblp, "gra"))
	assert.Equal(t, 1, r.Reported())

	r.Record(result(paper.SourceDblp, "graph"))
	assert.False(t, r.Complete())
	r.SetExpected(2)
	assert.True(t, r.Complete())
	assert.Equal(t, 2, r.Expected())

	r.Reset(query.Parse("graph n"))
	assert.Equal(t, 0, r.Reported())
}
