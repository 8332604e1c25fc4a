package observability

import (
	"context"
	"testing"
	"time"
)

type recordingPipelineHooks struct {
	NoopPipelineHooks
	searches int
}

func (h *recordingPipelineHooks) OnSearchStart(ctx context.Context, nodes int, target int64) {
	h.searches++
}

type recordingCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *recordingCacheHooks) OnCacheHit(ctx context.Context, keyType string) {
	h.hits++
}

func TestSetPipelineHooks(t *testing.T) {
	defer SetPipelineHooks(nil)

	rec := &recordingPipelineHooks{}
	SetPipelineHooks(rec)

	Pipeline().OnSearchStart(context.Background(), 10, 3)
	if rec.searches != 1 {
		t.Errorf("searches = %d, want 1", rec.searches)
	}
}

func TestSetCacheHooks(t *testing.T) {
	defer SetCacheHooks(nil)

	rec := &recordingCacheHooks{}
	SetCacheHooks(rec)

	Cache().OnCacheHit(context.Background(), "search")
	if rec.hits != 1 {
		t.Errorf("hits = %d, want 1", rec.hits)
	}
}

func TestNilRegistrationRestoresNoop(t *testing.T) {
	SetPipelineHooks(nil)
	SetCacheHooks(nil)

	// Must not panic.
	Pipeline().OnGenerateComplete(context.Background(), 5, 1, time.Millisecond, nil)
	Cache().OnCacheMiss(context.Background(), "artifact")
}
