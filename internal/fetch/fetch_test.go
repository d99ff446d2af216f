package fetch

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/csheth/litfind/internal/live"
	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
	"github.com/csheth/litfind/internal/remote"
)

func TestMachineTransitions(t *testing.T) {
	t.Parallel()

	var m Machine
	start, ok := m.OnTerm(query.Parse("a"))
	require.True(t, ok)
	assert.Equal(t, "a", start.String())
	assert.Equal(t, Fetching, m.State)

	_, ok = m.OnTerm(query.Parse("at"))
	assert.False(t, ok)
	_, ok = m.OnTerm(query.Parse("att"))
	assert.False(t, ok)
	assert.Equal(t, FetchingPending, m.State)
	assert.Equal(t, "att", m.Pending.String())

	start, ok = m.OnDone()
	require.True(t, ok)
	assert.Equal(t, "att", start.String())
	assert.Equal(t, Fetching, m.State)

	_, ok = m.OnDone()
	assert.False(t, ok)
	assert.Equal(t, Idle, m.State)
}

func TestMachineEmptyTermClearsPending(t *testing.T) {
	t.Parallel()

	var m Machine
	m.OnTerm(query.Parse("graph"))
	m.OnTerm(query.Parse("graph n"))
	_, ok := m.OnTerm(nil)
	assert.False(t, ok)
	assert.Equal(t, Fetching, m.State)
	assert.Nil(t, m.Pending)

	_, ok = m.OnDone()
	assert.False(t, ok)
	assert.Equal(t, Idle, m.State)

	_, ok = m.OnTerm(nil)
	assert.False(t, ok)
	assert.Equal(t, Idle, m.State)
}

// gatedFetcher blocks every fetch until the test releases it.
type gatedFetcher struct {
	mu      sync.Mutex
	calls   []string
	started chan string
	release chan struct{}
	err     error
}

func newGatedFetcher() *gatedFetcher {
	return &gatedFetcher{started: make(chan string, 16), release: make(chan struct{})}
}

func (g *gatedFetcher) Source() paper.Source { return paper.SourceDblp }

func (g *gatedFetcher) Fetch(ctx context.Context, q query.Query, _ int) (remote.Result, error) {
	g.mu.Lock()
	g.calls = append(g.calls, q.String())
	g.mu.Unlock()
	g.started <- q.String()
	select {
	case <-g.release:
	case <-ctx.Done():
		return remote.Result{}, ctx.Err()
	}
	if g.err != nil {
		return remote.Result{}, g.err
	}
	hit := paper.DblpHit{Info: paper.Info{Title: paper.NewTitle(q.String())}}
	return remote.Result{Source: paper.SourceDblp, Query: q, Hits: []paper.Hit{hit}}, nil
}

func (g *gatedFetcher) Calls() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return append([]string(nil), g.calls...)
}

func waitFor[T any](t *testing.T, ch <-chan T) T {
	t.Helper()
	select {
	case v := <-ch:
		return v
	case <-time.After(5 * time.Second):
		t.Fatal("timed out")
	}
	var zero T
	return zero
}

func TestManagerCollapsesBurstToLatestTerm(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slot := live.NewSlot[query.Query]()
	out := make(chan remote.Result, 4)
	f := newGatedFetcher()
	m := NewManager(f, slot.C(), out, 10, zerolog.Nop())
	go m.Run(ctx)

	slot.Publish(query.Parse("a"))
	assert.Equal(t, "a", waitFor(t, f.started))

	for _, term := range []string{"at", "att", "atte", "atten"} {
		slot.Publish(query.Parse(term))
	}
	// Let the manager observe the burst before the first fetch finishes.
	require.Eventually(t, func() bool { return len(slot.C()) == 0 }, 5*time.Second, time.Millisecond)

	f.release <- struct{}{}
	first := waitFor(t, out)
	assert.Equal(t, "a", first.Query.String())

	assert.Equal(t, "atten", waitFor(t, f.started))
	f.release <- struct{}{}
	second := waitFor(t, out)
	assert.Equal(t, "atten", second.Query.String())
	require.Len(t, second.Hits, 1)

	assert.Equal(t, []string{"a", "atten"}, f.Calls())
}

func TestManagerEmitsErrorsAsEmptyResults(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	slot := live.NewSlot[query.Query]()
	out := make(chan remote.Result, 1)
	f := newGatedFetcher()
	f.err = errors.New("connection refused")
	go NewManager(f, slot.C(), out, 10, zerolog.Nop()).Run(ctx)

	slot.Publish(query.Parse("graph"))
	waitFor(t, f.started)
	f.release <- struct{}{}

	res := waitFor(t, out)
	assert.Equal(t, paper.SourceDblp, res.Source)
	assert.Equal(t, "graph", res.Query.String())
	assert.Empty(t, res.Hits)
	assert.ErrorContains(t, res.Err, "connection refused")
}

func TestManagerStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	slot := live.NewSlot[query.Query]()
	stopped := make(chan error, 1)
	go func() {
		stopped <- NewManager(newGatedFetcher(), slot.C(), make(chan remote.Result), 10, zerolog.Nop()).Run(ctx)
	}()

	cancel()
	assert.NoError(t, waitFor(t, stopped))
}
