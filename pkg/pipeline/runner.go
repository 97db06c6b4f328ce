package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	json "github.com/goccy/go-json"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/conceptree/pkg/cache"
	errs "github.com/matzehuels/conceptree/pkg/errors"
	"github.com/matzehuels/conceptree/pkg/hierarchy"
	"github.com/matzehuels/conceptree/pkg/layout"
	"github.com/matzehuels/conceptree/pkg/observability"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use it, so caching and hooks behave the same everywhere.
//
// The Runner is stateless except for the cache and logger; multiple
// goroutines can use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner. A nil keyer uses the default keyer, a nil
// cache disables caching, a nil logger uses log.Default().
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

// Execute builds the hierarchy, then resolves and lays it out concurrently,
// then renders the requested formats.
func (r *Runner) Execute(ctx context.Context, in Input, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	result := &Result{}

	// Stage 1: Build
	buildStart := time.Now()
	h, err := r.Build(ctx, in)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Hierarchy = h
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.NodeCount = h.Len()
	result.Stats.EdgeCount = len(in.Edges)
	if hash, err := in.Hash(); err == nil {
		result.HierarchyHash = hash
	}

	r.Logger.Info("built hierarchy",
		"concepts", len(in.Concepts),
		"edges", len(in.Edges),
		"roots", len(h.Roots()),
		"duration", result.Stats.BuildTime)

	// Stages 2 and 3 only read h.
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		start := time.Now()
		res, dc, cfg, err := r.Resolve(gctx, h, in.Categories, opts)
		if err != nil {
			return fmt.Errorf("resolve: %w", err)
		}
		result.Resolution, result.DisplayConfig, result.Config = res, dc, cfg
		result.Stats.ResolveTime = time.Since(start)
		result.Stats.RowCount = len(res.AllRows)
		result.Stats.VisibleRows = len(res.Rows)
		return nil
	})
	if !opts.SkipLayout {
		g.Go(func() error {
			start := time.Now()
			l, hit, err := r.LayoutWithCacheInfo(gctx, h, result.HierarchyHash, opts)
			if err != nil {
				return fmt.Errorf("layout: %w", err)
			}
			result.Layout = l
			result.Stats.LayoutTime = time.Since(start)
			result.CacheInfo.LayoutHit = hit
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.Logger.Info("resolved rows",
		"visible", result.Stats.VisibleRows,
		"total", result.Stats.RowCount,
		"duration", result.Stats.ResolveTime)

	if opts.SkipLayout || len(opts.Formats) == 0 {
		return result, nil
	}

	// Stage 4: Render
	renderStart := time.Now()
	artifacts, hit, err := r.RenderWithCacheInfo(ctx, result.Layout, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = hit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"cached", hit,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Build constructs the hierarchy, computes its attributes and applies the
// input's highlight paths.
func (r *Runner) Build(ctx context.Context, in Input) (*hierarchy.Hierarchy, error) {
	hooks := observability.Pipeline()
	hooks.OnBuildStart(ctx, len(in.Concepts))
	start := time.Now()

	h, err := hierarchy.New(in.Concepts, in.Edges)
	n := 0
	if h != nil {
		n = h.Len()
	}
	hooks.OnBuildComplete(ctx, n, time.Since(start), err)
	if err != nil {
		return nil, err
	}
	if len(in.HighlightPaths) > 0 {
		h.SetHighlightPaths(in.HighlightPaths)
	}
	return h, nil
}

// Resolve runs one visibility pass and computes the display statistics. The
// returned configuration has missing treatments seeded from the defaults (or
// from opts.PreviousDisplay).
func (r *Runner) Resolve(ctx context.Context, h *hierarchy.Hierarchy, cats hierarchy.Categories, opts Options) (*hierarchy.Resolution, *hierarchy.DisplayConfig, hierarchy.Config, error) {
	start := time.Now()
	res, err := h.Resolve(cats, opts.Config)
	visible, total := 0, 0
	if res != nil {
		visible, total = len(res.Rows), len(res.AllRows)
	}
	observability.Pipeline().OnResolveComplete(ctx, total, visible, time.Since(start), err)
	if err != nil {
		return nil, nil, hierarchy.Config{}, err
	}
	dc, cfg := hierarchy.ComputeDisplayConfig(h, res.Categories, res, opts.Config, opts.PreviousDisplay)
	return res, dc, cfg, nil
}

// Layout builds the hierarchy and lays it out without resolving. Unlike
// [Runner.Execute] it accepts cyclic input: attribute computation failing on
// a cycle is logged and the layout drops the nodes it cannot place.
func (r *Runner) Layout(ctx context.Context, in Input, opts Options) (*layout.Layout, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, fmt.Errorf("invalid options: %w", err)
	}

	h, err := hierarchy.Build(in.Concepts, in.Edges)
	if err != nil {
		return nil, false, fmt.Errorf("build: %w", err)
	}
	if err := h.ComputeAttributes(); err != nil {
		if !errs.Is(err, errs.ErrCodeCycleDetected) {
			return nil, false, fmt.Errorf("build: %w", err)
		}
		r.Logger.Warn("hierarchy has cycles, laying out what can be placed", "err", err)
	}
	hash, err := in.Hash()
	if err != nil {
		hash = ""
	}
	return r.LayoutWithCacheInfo(ctx, h, hash, opts)
}

// LayoutWithCacheInfo lays out h, reading and writing the layout cache, and
// reports whether the result came from the cache. An empty hierarchyHash
// disables caching.
func (r *Runner) LayoutWithCacheInfo(ctx context.Context, h *hierarchy.Hierarchy, hierarchyHash string, opts Options) (*layout.Layout, bool, error) {
	r.applyLogger(&opts)
	key := r.Keyer.LayoutKey(hierarchyHash, opts.LayoutKeyOpts())
	useCache := hierarchyHash != ""

	if useCache && !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			var cached layout.Layout
			if err := json.Unmarshal(data, &cached); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return &cached, true, nil
			}
		} else if err != nil {
			r.Logger.Warn("layout cache read failed", "err", err)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	hooks := observability.Pipeline()
	hooks.OnLayoutStart(ctx, h.Len())
	start := time.Now()
	l := layout.Compute(h, opts.LayoutOptions())
	hooks.OnLayoutComplete(ctx, len(l.Dropped), time.Since(start), nil)

	if useCache {
		r.store(ctx, "layout", key, l, cache.LayoutTTL)
	}
	return l, false, nil
}

// RenderWithCacheInfo renders every requested format of l and reports
// whether all of them came from the cache.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, l *layout.Layout, opts Options) (map[string][]byte, bool, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}

	layoutData, err := json.Marshal(l)
	if err != nil {
		return nil, false, fmt.Errorf("serialize layout for cache key: %w", err)
	}
	layoutHash := cache.Hash(layoutData)

	artifacts := make(map[string][]byte, len(opts.Formats))
	var missing []string
	for _, format := range opts.Formats {
		if !opts.Refresh {
			key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "artifact")
				artifacts[format] = data
				continue
			}
			observability.Cache().OnCacheMiss(ctx, "artifact")
		}
		missing = append(missing, format)
	}
	if len(missing) == 0 {
		return artifacts, true, nil
	}

	rendered, err := Render(ctx, l, missing, opts)
	if err != nil {
		return nil, false, err
	}
	for format, data := range rendered {
		artifacts[format] = data
		key := r.Keyer.ArtifactKey(layoutHash, opts.ArtifactKeyOpts(format))
		if err := r.Cache.Set(ctx, key, data, cache.ArtifactTTL); err != nil {
			r.Logger.Warn("artifact cache write failed", "format", format, "err", err)
			continue
		}
		observability.Cache().OnCacheSet(ctx, "artifact", len(data))
	}
	return artifacts, false, nil
}

func (r *Runner) store(ctx context.Context, keyType, key string, v any, ttl time.Duration) {
	data, err := json.Marshal(v)
	if err != nil {
		r.Logger.Warn("cache encode failed", "type", keyType, "err", err)
		return
	}
	err = cache.RetryWithBackoff(ctx, func() error {
		return r.Cache.Set(ctx, key, data, ttl)
	})
	if err != nil {
		r.Logger.Warn("cache write failed", "type", keyType, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, keyType, len(data))
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
