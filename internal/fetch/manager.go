package fetch

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/csheth/litfind/internal/query"
	"github.com/csheth/litfind/internal/remote"
)

// Manager drives one fetcher from a live term channel.
type Manager struct {
	fetcher remote.Fetcher
	terms   <-chan query.Query
	out     chan<- remote.Result
	maxHits int
	logger  zerolog.Logger
}

// NewManager wires a fetcher between the live term channel and the shared
// result channel.
func NewManager(f remote.Fetcher, terms <-chan query.Query, out chan<- remote.Result, maxHits int, logger zerolog.Logger) *Manager {
	return &Manager{
		fetcher: f,
		terms:   terms,
		out:     out,
		maxHits: maxHits,
		logger:  logger.With().Str("component", "fetch").Str("source", f.Source().String()).Logger(),
	}
}

// Run serves until ctx is cancelled. Fetch errors are logged and reported
// downstream as an empty result so the search round still completes.
func (m *Manager) Run(ctx context.Context) error {
	var machine Machine
	done := make(chan remote.Result, 1)

	start := func(q query.Query) {
		m.logger.Debug().Str("query", q.String()).Msg("fetch started")
		go func() {
			res, err := m.fetcher.Fetch(ctx, q, m.maxHits)
			if err != nil {
				m.logger.Warn().Err(err).Str("query", q.String()).Msg("fetch failed")
				res = remote.Result{Source: m.fetcher.Source(), Query: q, Err: err}
			}
			done <- res
		}()
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case q := <-m.terms:
			if next, ok := machine.OnTerm(q); ok {
				start(next)
			}
		case res := <-done:
			m.logger.Debug().Str("query", res.Query.String()).Int("hits", len(res.Hits)).Msg("fetch done")
			select {
			case m.out <- res:
			case <-ctx.Done():
				return nil
			}
			if next, ok := machine.OnDone(); ok {
				start(next)
			}
		}
	}
}
