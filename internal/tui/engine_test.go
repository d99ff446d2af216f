package tui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/csheth/litfind/internal/catalog"
	"github.com/csheth/litfind/internal/paper"
	"github.com/csheth/litfind/internal/query"
	"github.com/csheth/litfind/internal/remote"
)

type stubFetcher struct {
	source paper.Source
}

func (s stubFetcher) Source() paper.Source { return s.source }

func (s stubFetcher) Fetch(_ context.Context, q query.Query, _ int) (remote.Result, error) {
	hit := paper.ArxivHit{Info: attentionInfo(), AbsURL: "http://arxiv.org/abs/1706.03762"}
	return remote.Result{Source: s.source, Query: q, Hits: []paper.Hit{hit}}, nil
}

func seedCatalog(t *testing.T, dir string) {
	t.Helper()
	cat, err := catalog.Open(dir)
	if err != nil {
		t.Fatalf("open catalog: %v", err)
	}
	cat.Add(paper.LocalHit{Info: attentionInfo(), Location: filepath.Join(dir, "a.pdf")})
	if err := cat.Save(); err != nil {
		t.Fatalf("save catalog: %v", err)
	}
}

func collectSources(t *testing.T, results <-chan remote.Result, q query.Query, want int) map[paper.Source]remote.Result {
	t.Helper()
	got := map[paper.Source]remote.Result{}
	deadline := time.After(5 * time.Second)
	for len(got) < want {
		select {
		case res := <-results:
			if res.Query.Equal(q) {
				got[res.Source] = res
			}
		case <-deadline:
			t.Fatalf("timed out with %d of %d sources", len(got), want)
		}
	}
	return got
}

func TestEngineSearchesCatalogAndOnlineSources(t *testing.T) {
	dir := t.TempDir()
	seedCatalog(t, dir)

	engine := NewEngine(catalog.NewActor(dir, zerolog.Nop()), []remote.Fetcher{stubFetcher{source: paper.SourceArxiv}}, 10, zerolog.Nop())
	engine.Start(context.Background())

	select {
	case res := <-engine.Loaded():
		if res.Err != nil || res.Size != 1 {
			t.Fatalf("unexpected load result %+v", res)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("catalog never loaded")
	}

	q := query.Parse("attention")
	engine.Publish(q)
	got := collectSources(t, engine.Results(), q, 2)
	if len(got[paper.SourceLocal].Hits) != 1 {
		t.Fatalf("expected the catalog entry, got %+v", got[paper.SourceLocal])
	}
	if len(got[paper.SourceArxiv].Hits) != 1 {
		t.Fatalf("expected the online hit, got %+v", got[paper.SourceArxiv])
	}

	if err := engine.Shutdown(); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	if err := engine.Shutdown(); err != nil {
		t.Fatalf("second shutdown: %v", err)
	}
}

func TestEngineRunsOnlineWhenCatalogFails(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, catalog.FileName), []byte{0, 0, 0, 9}, 0o600); err != nil {
		t.Fatal(err)
	}

	engine := NewEngine(catalog.NewActor(dir, zerolog.Nop()), []remote.Fetcher{stubFetcher{source: paper.SourceDblp}}, 10, zerolog.Nop())
	engine.Start(context.Background())

	res := <-engine.Loaded()
	if !errors.Is(res.Err, catalog.ErrUnsupportedVersion) {
		t.Fatalf("expected unsupported version, got %v", res.Err)
	}

	q := query.Parse("attention")
	engine.Publish(q)
	got := collectSources(t, engine.Results(), q, 1)
	if _, ok := got[paper.SourceDblp]; !ok {
		t.Fatal("online source should still answer")
	}

	if err := engine.Shutdown(); err != nil {
		t.Fatalf("shutdown should not repeat the load failure: %v", err)
	}
}
