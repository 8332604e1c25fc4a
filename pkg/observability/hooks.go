// Package observability provides hooks for metrics and instrumentation.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers register hooks at
// startup to receive events about pipeline execution and cache operations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main (the serve command installs a Prometheus
// implementation), never by libraries, which keeps the core packages free of
// observability framework imports.
//
// # Usage
//
//	func main() {
//	    observability.SetPipelineHooks(&myPipelineHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Pipeline().OnSearchStart(ctx, nodes, target)
//	// ... run the search ...
//	observability.Pipeline().OnSearchComplete(ctx, found, step, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline Hooks
// =============================================================================

// PipelineHooks receives events from the generate → search → render pipeline.
type PipelineHooks interface {
	// Generation events
	OnGenerateStart(ctx context.Context, nodes, cycles int)
	OnGenerateComplete(ctx context.Context, nodes, cycles int, duration time.Duration, err error)

	// Search events
	OnSearchStart(ctx context.Context, nodes int, target int64)
	OnSearchComplete(ctx context.Context, found bool, step int, duration time.Duration, err error)

	// Render events
	OnRenderStart(ctx context.Context, formats []string)
	OnRenderComplete(ctx context.Context, formats []string, duration time.Duration, err error)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopPipelineHooks is a PipelineHooks implementation that does nothing.
type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnGenerateStart(context.Context, int, int) {}
func (NoopPipelineHooks) OnGenerateComplete(context.Context, int, int, time.Duration, error) {
}
func (NoopPipelineHooks) OnSearchStart(context.Context, int, int64)                       {}
func (NoopPipelineHooks) OnSearchComplete(context.Context, bool, int, time.Duration, error) {}
func (NoopPipelineHooks) OnRenderStart(context.Context, []string)                         {}
func (NoopPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
}

// NoopCacheHooks is a CacheHooks implementation that does nothing.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)       {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)      {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// =============================================================================
// Registration
// =============================================================================

var (
	mu            sync.RWMutex
	pipelineHooks PipelineHooks = NoopPipelineHooks{}
	cacheHooks    CacheHooks    = NoopCacheHooks{}
)

// SetPipelineHooks registers pipeline hooks. Call at startup, before the
// pipeline runs; registration is not synchronized with in-flight emissions
// beyond the read lock.
func SetPipelineHooks(h PipelineHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopPipelineHooks{}
	}
	pipelineHooks = h
}

// SetCacheHooks registers cache hooks.
func SetCacheHooks(h CacheHooks) {
	mu.Lock()
	defer mu.Unlock()
	if h == nil {
		h = NoopCacheHooks{}
	}
	cacheHooks = h
}

// Pipeline returns the registered pipeline hooks.
func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return pipelineHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return cacheHooks
}
