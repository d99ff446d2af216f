package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
)

// ErrClosed is returned for requests sent after the actor stopped.
var ErrClosed = errors.New("catalog closed")

// Request is a message served by the Actor.
type Request interface {
	isRequest()
}

// SaveRequest adds an entry and persists the catalog. The save error, if
// any, is delivered on Done.
type SaveRequest struct {
	Entry paper.LocalHit
	Done  chan<- error
}

// QueryRequest asks for entries matching Query, at most MaxHits of them.
type QueryRequest struct {
	Query   query.Query
	MaxHits int
	Reply   chan<- []paper.LocalHit
}

// CleanRequest removes entries whose files are gone, or every entry when
// All is set, and persists the result.
type CleanRequest struct {
	All   bool
	Reply chan<- CleanResult
}

// CleanResult carries the removed entries and the save error.
type CleanResult struct {
	Removed []paper.LocalHit
	Err     error
}

func (SaveRequest) isRequest()  {}
func (QueryRequest) isRequest() {}
func (CleanRequest) isRequest() {}

// LoadResult is reported once, after the actor tried to open the catalog.
type LoadResult struct {
	Size int
	Err  error
}

// Actor is the only goroutine that touches the catalog.
type Actor struct {
	dir    string
	logger zerolog.Logger

	requests chan Request
	loaded   chan LoadResult
	quit     chan struct{}
	done     chan struct{}

	closeOnce sync.Once
	finalErr  error
}

// NewActor prepares an actor for the catalog in dir. Call Run to start it.
func NewActor(dir string, logger zerolog.Logger) *Actor {
	return &Actor{
		dir:      dir,
		logger:   logger.With().Str("component", "catalog").Logger(),
		requests: make(chan Request, 8),
		loaded:   make(chan LoadResult, 1),
		quit:     make(chan struct{}),
		done:     make(chan struct{}),
	}
}

// Loaded delivers the outcome of opening the catalog exactly once.
func (a *Actor) Loaded() <-chan LoadResult {
	return a.loaded
}

// Done is closed once the actor stopped serving requests.
func (a *Actor) Done() <-chan struct{} {
	return a.done
}

// Run opens the catalog and serves requests until ctx is cancelled or Close
// is called. The catalog is saved one last time on the way out. If the
// catalog cannot be opened the error is reported on Loaded and returned.
func (a *Actor) Run(ctx context.Context) error {
	defer close(a.done)

	cat, err := Open(a.dir)
	if err != nil {
		a.logger.Error().Err(err).Msg("open failed")
		a.loaded <- LoadResult{Err: err}
		a.finalErr = err
		return err
	}
	a.logger.Debug().Int("entries", cat.Len()).Str("path", cat.Path()).Msg("loaded")
	a.loaded <- LoadResult{Size: cat.Len()}

	for {
		select {
		case req := <-a.requests:
			a.serve(cat, req)
		case <-ctx.Done():
			a.finalErr = a.shutdown(cat)
			return a.finalErr
		case <-a.quit:
			a.finalErr = a.shutdown(cat)
			return a.finalErr
		}
	}
}

func (a *Actor) serve(cat *Catalog, req Request) {
	switch r := req.(type) {
	case SaveRequest:
		cat.Add(r.Entry)
		err := cat.Save()
		if err != nil {
			a.logger.Error().Err(err).Msg("save failed")
		} else {
			a.logger.Info().Str("location", r.Entry.Location).Msg("entry saved")
		}
		if r.Done != nil {
			r.Done <- err
		}
	case QueryRequest:
		hits := cat.Query(r.Query, r.MaxHits)
		a.logger.Debug().Str("query", r.Query.String()).Int("hits", len(hits)).Msg("query")
		r.Reply <- hits
	case CleanRequest:
		var removed []paper.LocalHit
		if r.All {
			removed = cat.Clear()
		} else {
			removed = cat.Clean()
		}
		err := cat.Save()
		a.logger.Info().Int("removed", len(removed)).Bool("all", r.All).Msg("cleaned")
		r.Reply <- CleanResult{Removed: removed, Err: err}
	default:
		a.logger.Warn().Str("type", fmt.Sprintf("%T", req)).Msg("unknown request")
	}
}

func (a *Actor) shutdown(cat *Catalog) error {
	// Drain what was already queued so callers are not left waiting.
	for {
		select {
		case req := <-a.requests:
			a.serve(cat, req)
			continue
		default:
		}
		break
	}
	if err := cat.Save(); err != nil {
		a.logger.Error().Err(err).Msg("final save failed")
		return err
	}
	return nil
}

// Close stops the actor and returns the error of the final save. It must
// only be called after Run was started.
func (a *Actor) Close() error {
	a.closeOnce.Do(func() { close(a.quit) })
	<-a.done
	return a.finalErr
}

func (a *Actor) send(ctx context.Context, req Request) error {
	select {
	case a.requests <- req:
		return nil
	case <-a.done:
		return ErrClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

func await[T any](ctx context.Context, a *Actor, reply <-chan T) (T, error) {
	var zero T
	select {
	case v := <-reply:
		return v, nil
	case <-a.done:
		select {
		case v := <-reply:
			return v, nil
		default:
			return zero, ErrClosed
		}
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Save adds entry and waits until it is persisted.
func (a *Actor) Save(ctx context.Context, entry paper.LocalHit) error {
	done := make(chan error, 1)
	if err := a.send(ctx, SaveRequest{Entry: entry, Done: done}); err != nil {
		return err
	}
	saveErr, err := await(ctx, a, done)
	if err != nil {
		return err
	}
	return saveErr
}

// Query returns up to maxHits entries matching q.
func (a *Actor) Query(ctx context.Context, q query.Query, maxHits int) ([]paper.LocalHit, error) {
	reply := make(chan []paper.LocalHit, 1)
	if err := a.send(ctx, QueryRequest{Query: q, MaxHits: maxHits, Reply: reply}); err != nil {
		return nil, err
	}
	return await(ctx, a, reply)
}

// Clean removes missing entries, or all of them, and returns what was removed.
func (a *Actor) Clean(ctx context.Context, all bool) ([]paper.LocalHit, error) {
	reply := make(chan CleanResult, 1)
	if err := a.send(ctx, CleanRequest{All: all, Reply: reply}); err != nil {
		return nil, err
	}
	res, err := await(ctx, a, reply)
	if err != nil {
		return nil, err
	}
	return res.Removed, res.Err
}
