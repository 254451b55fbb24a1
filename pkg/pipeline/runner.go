package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/lockrank/pkg/analysis"
	"github.com/matzehuels/lockrank/pkg/cache"
	"github.com/matzehuels/lockrank/pkg/depgraph"
	"github.com/matzehuels/lockrank/pkg/errors"
	"github.com/matzehuels/lockrank/pkg/graphio"
	"github.com/matzehuels/lockrank/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
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
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete load → analyze → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid options")
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	// Stage 1: Load
	loadStart := time.Now()
	g, loadHit, err := r.LoadWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Graph = g
	result.Stats.LoadTime = time.Since(loadStart)
	result.Stats.NodeCount = g.NodeCount()
	result.Stats.EdgeCount = g.EdgeCount()
	result.CacheInfo.LoadHit = loadHit

	// Compute graph hash for cache keys and API responses
	if graphData, err := graphio.MarshalGraph(g); err == nil {
		result.GraphHash = cache.Hash(graphData)
	}

	r.Logger.Info("loaded dependency graph",
		"nodes", g.NodeCount(),
		"edges", g.EdgeCount(),
		"duration", result.Stats.LoadTime)

	// Stage 2: Analyze
	analyzeStart := time.Now()
	res, analyzeHit, err := r.AnalyzeWithCacheInfo(ctx, g, result.GraphHash, opts)
	if err != nil {
		return nil, err
	}
	result.Analysis = res
	result.Stats.AnalyzeTime = time.Since(analyzeStart)
	result.CacheInfo.AnalyzeHit = analyzeHit

	r.Logger.Info("computed analysis",
		"metrics", len(res.PageRank),
		"duration", result.Stats.AnalyzeTime)

	// Stage 3: Render
	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, res, result.GraphHash, opts)
	if err != nil {
		return nil, err
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// LoadWithCacheInfo loads the dependency graph with caching and returns cache hit info.
func (r *Runner) LoadWithCacheInfo(ctx context.Context, opts Options) (*depgraph.Graph, bool, error) {
	if err := opts.ValidateForLoad(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	data, err := r.fetchLockfile(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	lockfileHash := cache.Hash(data)
	cacheKey := r.Keyer.GraphKey(opts.Source, lockfileHash, opts.GraphKeyOpts())

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if g, err := graphio.ReadGraph(bytes.NewReader(cached)); err == nil {
				observability.Cache().OnCacheHit(ctx, "graph")
				return g, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "graph")
	}

	// Parse
	g, _, err := r.load(ctx, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache the result
	if serialized, err := graphio.MarshalGraph(g); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, serialized, cache.TTLGraph)
		observability.Cache().OnCacheSet(ctx, "graph", len(serialized))
	}

	return g, false, nil
}

// Load is a convenience wrapper that calls LoadWithCacheInfo and discards the cache hit info.
func (r *Runner) Load(ctx context.Context, opts Options) (*depgraph.Graph, error) {
	g, _, err := r.LoadWithCacheInfo(ctx, opts)
	return g, err
}

// AnalyzeWithCacheInfo computes analysis results with caching and returns cache hit info.
// The graphHash identifies the graph; pass "" to have it computed here.
func (r *Runner) AnalyzeWithCacheInfo(ctx context.Context, g *depgraph.Graph, graphHash string, opts Options) (*analysis.Result, bool, error) {
	opts.SetAnalyzeDefaults()
	r.applyLogger(&opts)

	if graphHash == "" {
		data, err := graphio.MarshalGraph(g)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph for cache key")
		}
		graphHash = cache.Hash(data)
	}
	cacheKey := r.Keyer.AnalysisKey(graphHash, opts.AnalysisKeyOpts())

	if !opts.Refresh {
		if cached, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var res analysis.Result
			if err := json.Unmarshal(cached, &res); err == nil {
				res.Errors = make(map[string]error)
				observability.Cache().OnCacheHit(ctx, "analysis")
				return &res, true, nil
			}
		}
		observability.Cache().OnCacheMiss(ctx, "analysis")
	}

	res, err := r.analyze(ctx, g, opts)
	if err != nil {
		return nil, false, err
	}

	// Only cache fully successful runs: a degraded result would silently
	// mask its failures on the next read.
	if len(res.Errors) == 0 {
		if data, err := json.Marshal(res); err == nil {
			_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLAnalysis)
			observability.Cache().OnCacheSet(ctx, "analysis", len(data))
		}
	}

	return res, false, nil
}

// Analyze is a convenience wrapper that calls AnalyzeWithCacheInfo and discards the cache hit info.
func (r *Runner) Analyze(ctx context.Context, g *depgraph.Graph, opts Options) (*analysis.Result, error) {
	res, _, err := r.AnalyzeWithCacheInfo(ctx, g, "", opts)
	return res, err
}

// RenderWithCacheInfo generates artifacts with caching and returns cache hit info.
// The graphHash identifies the graph; pass "" to have it computed here.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *depgraph.Graph, res *analysis.Result, graphHash string, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	opts.SetAnalyzeDefaults()
	r.applyLogger(&opts)

	if graphHash == "" {
		data, err := graphio.MarshalGraph(g)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeInternal, err, "serialize graph for cache key")
		}
		graphHash = cache.Hash(data)
	}

	// Artifacts depend on the analysis settings as well as the graph, so the
	// parent hash chains both together.
	parentHash := cache.Hash([]byte(r.Keyer.AnalysisKey(graphHash, opts.AnalysisKeyOpts())))

	// Try to get all formats from cache
	allCached := true
	artifacts := make(map[string][]byte)

	if !opts.Refresh {
		for _, format := range opts.Formats {
			cacheKey := r.Keyer.ArtifactKey(parentHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
				artifacts[format] = data
			} else {
				allCached = false
				break
			}
		}
		if allCached && len(artifacts) == len(opts.Formats) {
			observability.Cache().OnCacheHit(ctx, "artifact")
			return artifacts, true, nil
		}
		observability.Cache().OnCacheMiss(ctx, "artifact")
	}

	// Render all formats
	rendered, err := r.render(ctx, g, res, opts)
	if err != nil {
		return nil, false, err
	}

	// Cache each format
	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(parentHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *depgraph.Graph, res *analysis.Result, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, res, "", opts)
	return artifacts, err
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
