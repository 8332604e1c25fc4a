// Package pipeline orchestrates the generate → search → render pipeline with
// caching. The CLI, TUI, and HTTP API all go through a [Runner], so caching
// and instrumentation behave the same from every entry point.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/cyclograph/pkg/cache"
	"github.com/matzehuels/cyclograph/pkg/cycles"
	"github.com/matzehuels/cyclograph/pkg/graph"
	"github.com/matzehuels/cyclograph/pkg/graphgen"
	"github.com/matzehuels/cyclograph/pkg/matrix"
	"github.com/matzehuels/cyclograph/pkg/observability"
	"github.com/matzehuels/cyclograph/pkg/render/nodelink"
)

// Runner executes the pipeline with caching.
//
// The Runner is stateless except for the cache and logger; it doesn't store
// run results. Multiple goroutines can safely use the same Runner with
// different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If c is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Close releases the cache backend.
func (r *Runner) Close() error {
	return r.Cache.Close()
}

// Stats carries per-stage timings for a run.
type Stats struct {
	GenerateTime time.Duration `json:"generate_time"`
	SearchTime   time.Duration `json:"search_time"`
	RenderTime   time.Duration `json:"render_time"`
}

// CacheInfo reports which stages were served from cache.
type CacheInfo struct {
	SearchHit bool `json:"search_hit"`
	RenderHit bool `json:"render_hit"`
}

// Result is the outcome of a complete pipeline run.
type Result struct {
	RunID     string
	Matrix    *matrix.Matrix
	GraphHash string
	Search    cycles.Result
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Execute runs generate → search → render.
// Rendering is skipped when opts.Formats is empty.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	logger := r.logger(opts)

	result := &Result{
		RunID:     uuid.NewString(),
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Generate
	genStart := time.Now()
	m, err := r.Generate(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("generate: %w", err)
	}
	result.Matrix = m
	result.Stats.GenerateTime = time.Since(genStart)

	// Content hash keys the cacheable stages
	graphData, err := graph.Marshal(m)
	if err != nil {
		return nil, fmt.Errorf("serialize graph: %w", err)
	}
	result.GraphHash = cache.Hash(graphData)

	logger.Info("generated graph",
		"run", result.RunID,
		"nodes", opts.Nodes,
		"cycles", opts.Cycles,
		"edges", graph.FromMatrix(m).EdgeCount(),
		"duration", result.Stats.GenerateTime)

	// Stage 2: Search
	searchStart := time.Now()
	searchRes, searchHit, err := r.SearchWithCacheInfo(ctx, m, result.GraphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	result.Search = searchRes
	result.Stats.SearchTime = time.Since(searchStart)
	result.CacheInfo.SearchHit = searchHit

	logger.Info("searched cycles",
		"run", result.RunID,
		"target", opts.Target,
		"found", searchRes.Found,
		"step", searchRes.Step,
		"duration", result.Stats.SearchTime)

	// Stage 3: Render
	if len(opts.Formats) > 0 {
		renderStart := time.Now()
		artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, m, result.GraphHash, opts)
		if err != nil {
			return nil, fmt.Errorf("render: %w", err)
		}
		result.Artifacts = artifacts
		result.Stats.RenderTime = time.Since(renderStart)
		result.CacheInfo.RenderHit = renderHit

		logger.Info("rendered artifacts",
			"run", result.RunID,
			"formats", opts.Formats,
			"duration", result.Stats.RenderTime)
	}

	return result, nil
}

// Generate builds the adjacency matrix for the options.
// Generation is deterministic and cheap, so it is never cached.
func (r *Runner) Generate(ctx context.Context, opts Options) (*matrix.Matrix, error) {
	if err := opts.Spec().ValidateBounded(opts.MaxNodes); err != nil {
		return nil, err
	}

	start := time.Now()
	observability.Pipeline().OnGenerateStart(ctx, opts.Nodes, opts.Cycles)
	m, err := graphgen.Generate(opts.Spec())
	observability.Pipeline().OnGenerateComplete(ctx, opts.Nodes, opts.Cycles, time.Since(start), err)
	return m, err
}

// SearchWithCacheInfo runs the cycle search with caching and reports whether
// the result came from cache. The cached entry keeps the elapsed time of the
// original computation.
func (r *Runner) SearchWithCacheInfo(ctx context.Context, m *matrix.Matrix, graphHash string, opts Options) (cycles.Result, bool, error) {
	key := r.Keyer.SearchKey(graphHash, opts.Target)

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached cycles.Result
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "search")
				return cached, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "search")
	}

	start := time.Now()
	observability.Pipeline().OnSearchStart(ctx, m.Size(), opts.Target)
	res, err := cycles.Search(ctx, m, opts.Target)
	observability.Pipeline().OnSearchComplete(ctx, res.Found, res.Step, time.Since(start), err)
	if err != nil {
		return cycles.Result{}, false, err
	}

	if data, err := json.Marshal(res); err == nil {
		_ = r.Cache.Set(ctx, key, data, cache.TTLSearch)
		observability.Cache().OnCacheSet(ctx, "search", len(data))
	}

	return res, false, nil
}

// Search is a convenience wrapper that discards the cache hit info.
func (r *Runner) Search(ctx context.Context, m *matrix.Matrix, graphHash string, opts Options) (cycles.Result, error) {
	res, _, err := r.SearchWithCacheInfo(ctx, m, graphHash, opts)
	return res, err
}

// RenderWithCacheInfo renders every requested format with caching. The hit
// flag is true only when all formats were served from cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, m *matrix.Matrix, graphHash string, opts Options) (map[string][]byte, bool, error) {
	if err := ValidateFormats(opts.Formats); err != nil {
		return nil, false, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))

	if !opts.Refresh {
		allCached := true
		for _, format := range opts.Formats {
			key := r.Keyer.ArtifactKey(graphHash, format, opts.Engine)
			data, hit, err := r.Cache.Get(ctx, key)
			if err != nil || !hit {
				allCached = false
				break
			}
			artifacts[format] = data
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	start := time.Now()
	observability.Pipeline().OnRenderStart(ctx, opts.Formats)
	rendered, err := renderFormats(ctx, m, opts)
	observability.Pipeline().OnRenderComplete(ctx, opts.Formats, time.Since(start), err)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		key := r.Keyer.ArtifactKey(graphHash, format, opts.Engine)
		_ = r.Cache.Set(ctx, key, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// renderFormats produces every requested artifact from a single DOT export.
func renderFormats(ctx context.Context, m *matrix.Matrix, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(m, nodelink.Options{Engine: opts.Engine})

	out := make(map[string][]byte, len(opts.Formats))
	for _, format := range opts.Formats {
		switch format {
		case FormatDOT:
			out[format] = []byte(dot)
		case FormatSVG:
			svg, err := nodelink.RenderSVG(ctx, dot)
			if err != nil {
				return nil, fmt.Errorf("render svg: %w", err)
			}
			out[format] = svg
		case FormatPNG:
			png, err := nodelink.RenderPNG(ctx, dot)
			if err != nil {
				return nil, fmt.Errorf("render png: %w", err)
			}
			out[format] = png
		}
	}
	return out, nil
}

// logger returns the per-run logger, falling back to the runner's.
func (r *Runner) logger(opts Options) *log.Logger {
	if opts.Logger != nil {
		return opts.Logger
	}
	return r.Logger
}
