package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/itfstack/pkg/cache"
	"github.com/matzehuels/itfstack/pkg/errors"
	itfio "github.com/matzehuels/itfstack/pkg/io"
	"github.com/matzehuels/itfstack/pkg/itf"
	"github.com/matzehuels/itfstack/pkg/observability"
	"github.com/matzehuels/itfstack/pkg/stack"
)

// Runner parses ITF sources with caching.
//
// The Runner holds no per-run state, so multiple goroutines can use the
// same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Logger *log.Logger
}

// NewRunner creates a runner. Cache entries are scoped by the JSON schema
// version. If c is nil caching is disabled; if logger is nil log.Default is
// used.
func NewRunner(c cache.Cache, logger *log.Logger) *Runner {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  cache.NewScoped(c, fmt.Sprintf("itfstack/v%d:", itfio.SchemaVersion)),
		Logger: logger,
	}
}

// ParseFile reads path and parses it. The returned error is non-nil only
// when the file cannot be read or ctx is done; problems in the document
// are reported in Result.Errors.
func (r *Runner) ParseFile(ctx context.Context, path string, opts Options) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := ReadSource(path)
	if err != nil {
		return nil, err
	}
	return r.ParseSource(ctx, path, src, opts)
}

// ParseSource parses src, using the cache when possible. name labels the
// source in logs and hooks.
func (r *Runner) ParseSource(ctx context.Context, name string, src []byte, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	start := time.Now()
	res := &Result{Source: name, Hash: cache.Hash(src)}
	key := cache.SourceKey(src)
	hooks := observability.Pipeline()
	hooks.OnParseStart(ctx, name, len(src))

	if !opts.Refresh {
		if s, ok := r.lookup(ctx, key); ok {
			res.Stack = s
			res.CacheHit = true
			res.Duration = time.Since(start)
			r.Logger.Debug("cache hit", "source", name, "layers", len(s.Layers()))
			hooks.OnParseComplete(ctx, name, len(s.Layers()), 0, res.Duration, nil)
			return res, nil
		}
	}

	s, errs := itf.CheckSource(src)
	res.Stack = s
	res.Errors = errs
	res.Duration = time.Since(start)

	layers := 0
	if s != nil {
		layers = len(s.Layers())
		r.store(ctx, key, res, opts.TTL)
	}
	r.Logger.Debug("parsed",
		"source", name,
		"layers", layers,
		"problems", len(errs),
		"duration", res.Duration)
	hooks.OnParseComplete(ctx, name, layers, len(errs), res.Duration, errs.Err())
	return res, nil
}

// ParseAll parses paths concurrently and returns one result per path, in
// the same order. Read failures become a single-entry Result.Errors rather
// than aborting the run; only cancellation of ctx returns an error.
func (r *Runner) ParseAll(ctx context.Context, paths []string, opts Options) ([]*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}

	results := make([]*Result, len(paths))
	var finished atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)

	for i, path := range paths {
		g.Go(func() error {
			res, err := r.ParseFile(gctx, path, opts)
			if err != nil {
				if ctxErr := gctx.Err(); ctxErr != nil {
					return ctxErr
				}
				res = &Result{Source: path, Errors: errors.List{asError(err)}}
				r.Logger.Warn("skipping unreadable file", "path", path, "err", err)
			}
			results[i] = res
			if opts.Progress != nil {
				opts.Progress(int(finished.Add(1)), len(paths))
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func (r *Runner) lookup(ctx context.Context, key string) (*stack.Stack, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	s, err := itfio.ReadJSON(bytes.NewReader(data))
	if err != nil {
		// Stale or corrupt entry; fall through to a fresh parse.
		r.Logger.Debug("discarding cache entry", "key", key, "err", err)
		_ = r.Cache.Delete(ctx, key)
		observability.Cache().OnCacheMiss(ctx, key)
		return nil, false
	}
	observability.Cache().OnCacheHit(ctx, key)
	return s, true
}

func (r *Runner) store(ctx context.Context, key string, res *Result, ttl time.Duration) {
	var buf bytes.Buffer
	if err := itfio.WriteJSON(res.Stack, &buf); err != nil {
		r.Logger.Warn("cache encode failed", "source", res.Source, "err", err)
		return
	}
	if err := r.Cache.Set(ctx, key, buf.Bytes(), ttl); err != nil {
		r.Logger.Warn("cache write failed", "source", res.Source, "err", err)
		return
	}
	observability.Cache().OnCacheSet(ctx, key, buf.Len())
}

func asError(err error) *errors.Error {
	if list, ok := errors.AsList(err); ok && len(list) > 0 {
		return list[0]
	}
	return errors.Wrap(errors.KindIO, err, "read failed")
}
