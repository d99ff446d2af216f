package aggregate

import (
	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
	"github.com/csheth/litfind/internal/remote"
)

// Round counts the distinct sources that answered the live query.
type Round struct {
	live     query.Query
	expected int
	reported map[paper.Source]bool
}

// NewRound starts tracking with the given number of configured sources.
func NewRound(expected int) Round {
	return Round{expected: expected, reported: make(map[paper.Source]bool)}
}

// Reset begins a new round for q.
func (r *Round) Reset(q query.Query) {
	r.live = q
	r.reported = make(map[paper.Source]bool)
}

// SetExpected changes the number of sources, e.g. when the catalog failed
// to load.
func (r *Round) SetExpected(n int) {
	r.expected = n
}

// Expected is the number of configured sources.
func (r *Round) Expected() int {
	return r.expected
}

// Record notes a result. Results for another query do not count.
func (r *Round) Record(res remote.Result) {
	if !res.Query.Equal(r.live) {
		return
	}
	if r.reported == nil {
		r.reported = make(map[paper.Source]bool)
	}
	r.reported[res.Source] = true
}

// Reported is the number of sources heard from.
func (r *Round) Reported() int {
	return len(r.reported)
}

// Complete reports whether every configured source answered.
func (r *Round) Complete() bool {
	return len(r.reported) >= r.expected
}
