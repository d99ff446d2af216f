package tui

import (
	"context"
	"errors"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/csheth/litfind/internal/catalog"
	"github.com/csheth/litfind/internal/fetch"
	"github.com/csheth/litfind/internal/live"
	"github.com/csheth/litfind/internal/query"
	"github.com/csheth/litfind/internal/remote"
)

// Searcher is what the event loop needs from the background machinery.
type Searcher interface {
	Publish(q query.Query)
	Results() <-chan remote.Result
	Loaded() <-chan catalog.LoadResult
}

// Engine owns the background tasks of an interactive session: the catalog
// actor and one fetch manager per source, all under one cancellable group.
type Engine struct {
	actor   *catalog.Actor
	online  []remote.Fetcher
	maxHits int
	logger  zerolog.Logger

	terms   live.Broadcaster[query.Query]
	results chan remote.Result
	loaded  chan catalog.LoadResult

	cancel    context.CancelFunc
	group     *errgroup.Group
	loadErr   error
	closeOnce sync.Once
	closeErr  error
}

// NewEngine prepares the engine. Nothing runs until Start.
func NewEngine(actor *catalog.Actor, online []remote.Fetcher, maxHits int, logger zerolog.Logger) *Engine {
	return &Engine{
		actor:   actor,
		online:  online,
		maxHits: maxHits,
		logger:  logger.With().Str("component", "engine").Logger(),
		results: make(chan remote.Result, 8),
		loaded:  make(chan catalog.LoadResult, 1),
	}
}

// Start launches the catalog actor and the fetch managers. The local
// manager only starts once the catalog loaded; on failure the session runs
// with the online sources alone.
func (e *Engine) Start(parent context.Context) {
	ctx, cancel := context.WithCancel(parent)
	g, ctx := errgroup.WithContext(ctx)
	e.cancel = cancel
	e.group = g

	g.Go(func() error {
		// An open failure is reported on Loaded; it must not stop the
		// online sources.
		_ = e.actor.Run(ctx)
		return nil
	})

	localSlot := e.terms.Subscribe()
	g.Go(func() error {
		var res catalog.LoadResult
		select {
		case res = <-e.actor.Loaded():
		case <-ctx.Done():
			return nil
		}
		e.loadErr = res.Err
		e.loaded <- res
		if res.Err != nil {
			e.logger.Warn().Err(res.Err).Msg("catalog unavailable, local source disabled")
			return nil
		}
		local := remote.NewLocal(e.actor)
		return fetch.NewManager(local, localSlot.C(), e.results, e.maxHits, e.logger).Run(ctx)
	})

	for _, f := range e.online {
		m := fetch.NewManager(f, e.terms.Subscribe().C(), e.results, e.maxHits, e.logger)
		g.Go(func() error { return m.Run(ctx) })
	}
	e.logger.Info().Int("online", len(e.online)).Msg("engine started")
}

// Publish makes q the live term for every source.
func (e *Engine) Publish(q query.Query) {
	e.terms.Publish(q)
}

// Results delivers tagged results from all sources.
func (e *Engine) Results() <-chan remote.Result {
	return e.results
}

// Loaded delivers the catalog load outcome once.
func (e *Engine) Loaded() <-chan catalog.LoadResult {
	return e.loaded
}

// Shutdown cancels every task, waits for them and returns the error of the
// catalog's final save.
func (e *Engine) Shutdown() error {
	e.closeOnce.Do(func() {
		if e.cancel == nil {
			return
		}
		e.cancel()
		closeErr := e.actor.Close()
		waitErr := e.group.Wait()
		if e.loadErr != nil {
			// Already reported when the catalog failed to load.
			closeErr = nil
		}
		e.closeErr = errors.Join(closeErr, waitErr)
		e.logger.Info().Err(e.closeErr).Msg("engine stopped")
	})
	return e.closeErr
}
