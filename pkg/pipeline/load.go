package pipeline

import (
	"context"
	"os"
	"time"

	"github.com/matzehuels/lockrank/pkg/cache"
	"github.com/matzehuels/lockrank/pkg/depgraph"
	"github.com/matzehuels/lockrank/pkg/errors"
	"github.com/matzehuels/lockrank/pkg/httputil"
	"github.com/matzehuels/lockrank/pkg/observability"
	"github.com/matzehuels/lockrank/pkg/source/npm"
)

// fetchLockfile returns the raw lockfile bytes for the configured input.
// URL fetches go through the HTTP cache so repeated runs against the same
// remote lockfile do not refetch it.
func (r *Runner) fetchLockfile(ctx context.Context, opts Options) ([]byte, error) {
	switch {
	case len(opts.Data) > 0:
		return opts.Data, nil

	case opts.Path != "":
		data, err := os.ReadFile(opts.Path)
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "lockfile %s", opts.Path)
		}
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "read lockfile %s", opts.Path)
		}
		return data, nil

	case opts.URL != "":
		key := r.Keyer.HTTPKey(opts.Source, opts.URL)
		if !opts.Refresh {
			if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
				observability.Cache().OnCacheHit(ctx, "http")
				return data, nil
			}
			observability.Cache().OnCacheMiss(ctx, "http")
		}
		data, err := httputil.Fetch(ctx, opts.URL)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeNetwork, err, "fetch lockfile %s", opts.URL)
		}
		_ = r.Cache.Set(ctx, key, data, cache.TTLHTTP)
		observability.Cache().OnCacheSet(ctx, "http", len(data))
		return data, nil

	default:
		return nil, errors.New(errors.ErrCodeInvalidInput, "no lockfile input configured")
	}
}

// parseLockfile builds a dependency graph from raw lockfile bytes.
func parseLockfile(data []byte, opts Options) (*depgraph.Graph, error) {
	switch opts.Source {
	case SourceNpm:
		return npm.Load(data, npm.Options{Dev: opts.Dev, Peer: opts.Peer})
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unsupported source: %q", opts.Source)
	}
}

// load runs the full load stage: fetch bytes, then parse into a graph,
// emitting pipeline events around the work.
func (r *Runner) load(ctx context.Context, opts Options) (*depgraph.Graph, []byte, error) {
	start := time.Now()
	observability.Pipeline().OnLoadStart(ctx, opts.Source, opts.Input())

	data, err := r.fetchLockfile(ctx, opts)
	if err != nil {
		observability.Pipeline().OnLoadComplete(ctx, opts.Source, opts.Input(), 0, time.Since(start), err)
		return nil, nil, err
	}

	g, err := parseLockfile(data, opts)
	nodes := 0
	if g != nil {
		nodes = g.NodeCount()
	}
	observability.Pipeline().OnLoadComplete(ctx, opts.Source, opts.Input(), nodes, time.Since(start), err)
	if err != nil {
		return nil, nil, err
	}
	return g, data, nil
}
