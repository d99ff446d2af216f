// Package paper holds the source-independent paper model: identifiers,
// titles, metadata, per-source hits and merged papers.
package paper

import "sort"

// Paper groups hits believed to denote the same work, ordered by source
// priority. A Paper is never empty.
type Paper struct {
	Hits []Hit
}

// New orders hits by source priority. Hits from the same source keep their
// relative order. New panics on an empty slice.
func New(hits []Hit) Paper {
	if len(hits) == 0 {
		panic("paper: empty hit list")
	}
	ordered := append([]Hit(nil), hits...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].Source() < ordered[j].Source()
	})
	return Paper{Hits: ordered}
}

// Best is the highest-priority variant.
func (p Paper) Best() Hit {
	return p.Hits[0]
}

// Metadata is the metadata of the best variant.
func (p Paper) Metadata() Info {
	return p.Best().Metadata()
}

// Key is the normalized title shared by all variants.
func (p Paper) Key() string {
	return p.Metadata().Title.Normalized()
}

// Variant returns the n-th variant counting from 1.
func (p Paper) Variant(n int) (Hit, bool) {
	if n < 1 || n > len(p.Hits) {
		return nil, false
	}
	return p.Hits[n-1], true
}

// Sources lists the source of every variant in order.
func (p Paper) Sources() []Source {
	out := make([]Source, 0, len(p.Hits))
	for _, h := range p.Hits {
		out = append(out, h.Source())
	}
	return out
}
