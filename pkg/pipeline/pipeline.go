// Package pipeline runs the ITF parser over files with caching, hooks and
// bounded concurrency.
//
// The core packages (itf, stack) are pure functions of their input text.
// This package adds what the CLI and the HTTP server share around them:
// reading files, looking results up by content hash, emitting
// observability events and fanning out over many files.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, logger)
//	defer runner.Close()
//
//	res, err := runner.ParseFile(ctx, "tech.itf", pipeline.Options{})
//	if err != nil {
//	    return err // could not read the file
//	}
//	if !res.OK() {
//	    for _, e := range res.Errors { ... }
//	}
//
// Check many files at once:
//
//	results, err := runner.ParseAll(ctx, paths, pipeline.Options{Concurrency: 8})
package pipeline

import (
	"fmt"
	"runtime"
	"time"

	"github.com/matzehuels/itfstack/pkg/errors"
	"github.com/matzehuels/itfstack/pkg/stack"
)

const (
	// DefaultTTL is how long a parsed stack stays in the cache. Entries are
	// keyed by content, so expiry only bounds disk usage.
	DefaultTTL = 30 * 24 * time.Hour

	// MaxConcurrency caps Options.Concurrency.
	MaxConcurrency = 64
)

// DefaultConcurrency is the number of files ParseAll parses at once when
// Options.Concurrency is zero.
var DefaultConcurrency = min(runtime.NumCPU(), 8)

// Options configures a run.
type Options struct {
	// Refresh skips the cache lookup; successful results are still stored.
	Refresh bool

	// TTL for cache entries. Zero means DefaultTTL.
	TTL time.Duration

	// Concurrency bounds ParseAll. Zero means DefaultConcurrency.
	Concurrency int

	// Progress, when set, is called by ParseAll after each file with the
	// number of files finished so far. It runs on worker goroutines.
	Progress func(done, total int)
}

// ValidateAndSetDefaults checks the options and fills in zero values.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.TTL < 0 {
		return fmt.Errorf("invalid ttl: %s (must not be negative)", o.TTL)
	}
	if o.Concurrency < 0 || o.Concurrency > MaxConcurrency {
		return fmt.Errorf("invalid concurrency: %d (must be between 1 and %d)", o.Concurrency, MaxConcurrency)
	}
	if o.TTL == 0 {
		o.TTL = DefaultTTL
	}
	if o.Concurrency == 0 {
		o.Concurrency = DefaultConcurrency
	}
	return nil
}

// Result is the outcome of parsing one source.
type Result struct {
	// Source is the file path, or the name given to ParseSource.
	Source string

	// Hash is the SHA-256 of the source bytes.
	Hash string

	// Stack is set only when the source parsed without problems.
	Stack *stack.Stack

	// Errors lists every problem in stage order. For ParseAll it also
	// carries read failures as a single IO error.
	Errors errors.List

	// CacheHit reports whether Stack came from the cache.
	CacheHit bool

	Duration time.Duration
}

// OK reports whether the source produced a stack.
func (r *Result) OK() bool { return r.Stack != nil && len(r.Errors) == 0 }
