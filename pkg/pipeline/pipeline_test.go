package pipeline

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/cyclograph/pkg/cache"
)

// memCache is a trivial in-memory Cache for exercising hit/miss paths.
type memCache struct {
	mu      sync.Mutex
	entries map[string][]byte
}

func newMemCache() *memCache {
	return &memCache{entries: make(map[string][]byte)}
}

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[key]
	return data, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, key)
	return nil
}

func (c *memCache) Close() error { return nil }

func TestExecuteBasic(t *testing.T) {
	r := NewRunner(cache.NewNullCache(), nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{Nodes: 4, Cycles: 1, Target: 1})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.RunID == "" {
		t.Error("Execute() produced empty run ID")
	}
	if res.GraphHash == "" {
		t.Error("Execute() produced empty graph hash")
	}
	if res.Matrix == nil || res.Matrix.Size() != 4 {
		t.Errorf("Execute() matrix size = %v, want 4", res.Matrix)
	}
	if !res.Search.Found || res.Search.Step != 1 {
		t.Errorf("Search = %+v, want found at step 1", res.Search)
	}
	if res.CacheInfo.SearchHit {
		t.Error("first run reported a search cache hit")
	}
}

func TestExecuteNotFound(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	// generate(5, 0) is acyclic, so no target >= 1 can be found.
	res, err := r.Execute(context.Background(), Options{Nodes: 5, Cycles: 0, Target: 3})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.Search.Found {
		t.Errorf("Search = %+v, want not found", res.Search)
	}
	if res.Search.Step != 5 {
		t.Errorf("Search.Step = %d, want 5", res.Search.Step)
	}
}

func TestExecuteInvalidOptions(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	tests := []struct {
		name string
		opts Options
	}{
		{"zero nodes", Options{Nodes: 0, Cycles: 0, Target: 1}},
		{"negative cycles", Options{Nodes: 4, Cycles: -1, Target: 1}},
		{"cycles exceed nodes", Options{Nodes: 3, Cycles: 4, Target: 1}},
		{"negative target", Options{Nodes: 4, Cycles: 1, Target: -1}},
		{"unknown format", Options{Nodes: 4, Cycles: 1, Target: 1, Formats: []string{"bmp"}}},
		{"unknown engine", Options{Nodes: 4, Cycles: 1, Target: 1, Engine: "sfdp"}},
		{"over node bound", Options{Nodes: 100, Cycles: 1, Target: 1, MaxNodes: 50}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := r.Execute(context.Background(), tt.opts); err == nil {
				t.Errorf("Execute(%+v) expected error", tt.opts)
			}
		})
	}
}

func TestSearchCacheRoundTrip(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Nodes: 6, Cycles: 3, Target: 3}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	if first.CacheInfo.SearchHit {
		t.Error("first run reported a search cache hit")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.SearchHit {
		t.Error("second run did not hit the search cache")
	}
	if second.Search.Found != first.Search.Found || second.Search.Step != first.Search.Step || second.Search.Count != first.Search.Count {
		t.Errorf("cached search = %+v, want %+v", second.Search, first.Search)
	}
}

func TestSearchCacheRefresh(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	if _, err := r.Execute(ctx, Options{Nodes: 6, Cycles: 3, Target: 3}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	res, err := r.Execute(ctx, Options{Nodes: 6, Cycles: 3, Target: 3, Refresh: true})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.CacheInfo.SearchHit {
		t.Error("refresh run reported a search cache hit")
	}
}

func TestSearchCacheKeyedByTarget(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	if _, err := r.Execute(ctx, Options{Nodes: 6, Cycles: 3, Target: 3}); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// Same graph, different target: must not reuse the cached entry.
	res, err := r.Execute(ctx, Options{Nodes: 6, Cycles: 3, Target: 99})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if res.CacheInfo.SearchHit {
		t.Error("different target reported a search cache hit")
	}
	if res.Search.Found {
		t.Errorf("Search = %+v, want not found for target 99", res.Search)
	}
}

func TestRenderDOTArtifact(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	defer r.Close()

	ctx := context.Background()
	opts := Options{Nodes: 4, Cycles: 2, Target: 2, Formats: []string{FormatDOT}}

	first, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	dot, ok := first.Artifacts[FormatDOT]
	if !ok || len(dot) == 0 {
		t.Fatalf("Artifacts[%q] = %q, want non-empty DOT", FormatDOT, dot)
	}
	if first.CacheInfo.RenderHit {
		t.Error("first run reported a render cache hit")
	}

	second, err := r.Execute(ctx, opts)
	if err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if !second.CacheInfo.RenderHit {
		t.Error("second run did not hit the artifact cache")
	}
	if string(second.Artifacts[FormatDOT]) != string(dot) {
		t.Error("cached DOT artifact differs from the rendered one")
	}
}

func TestExecuteSkipsRenderWithoutFormats(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	defer r.Close()

	res, err := r.Execute(context.Background(), Options{Nodes: 4, Cycles: 1, Target: 1})
	if err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if len(res.Artifacts) != 0 {
		t.Errorf("Artifacts = %v, want none", res.Artifacts)
	}
	if res.Stats.RenderTime != 0 {
		t.Errorf("RenderTime = %v, want 0", res.Stats.RenderTime)
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"dot", "svg", "png"}); err != nil {
		t.Errorf("ValidateFormats(all valid) error = %v", err)
	}
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("ValidateFormats(nil) error = %v", err)
	}
	if err := ValidateFormats([]string{"svg", "jpeg"}); err == nil {
		t.Error("ValidateFormats(jpeg) expected error")
	}
}
