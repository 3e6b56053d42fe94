package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/itfstack/pkg/cache"
	"github.com/matzehuels/itfstack/pkg/errors"
	"github.com/matzehuels/itfstack/pkg/observability"
)

const goodDoc = `TECHNOLOGY = t1
DIELECTRIC ox { THICKNESS = 1.0 ER = 4.0 }
CONDUCTOR m1 { THICKNESS = 0.5 RPSQ = 0.1 }
VIA v { FROM = ox TO = m1 AREA = 0.01 RPV = 1 }
`

const badDoc = `DIELECTRIC ox { THICKNESS = 1.0 ER = 4.0 }
VIA v { FROM = ox TO = nowhere AREA = 0.01 RPV = 1 }
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func newFileRunner(t *testing.T) *Runner {
	t.Helper()
	c, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return NewRunner(c, nil)
}

func TestOptionsValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name    string
		opts    Options
		wantErr bool
	}{
		{"zero", Options{}, false},
		{"explicit", Options{TTL: time.Hour, Concurrency: 2}, false},
		{"negative ttl", Options{TTL: -time.Second}, true},
		{"negative concurrency", Options{Concurrency: -1}, true},
		{"too much concurrency", Options{Concurrency: MaxConcurrency + 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := tt.opts
			err := opts.ValidateAndSetDefaults()
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateAndSetDefaults() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				return
			}
			if opts.TTL <= 0 || opts.Concurrency <= 0 {
				t.Errorf("defaults not applied: %+v", opts)
			}
			again := opts
			if err := again.ValidateAndSetDefaults(); err != nil || again.Refresh != opts.Refresh || again.TTL != opts.TTL || again.Concurrency != opts.Concurrency {
				t.Errorf("second call changed options: %+v -> %+v (%v)", opts, again, err)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	defer r.Close()
	path := writeFile(t, t.TempDir(), "good.itf", goodDoc)

	first, err := r.ParseFile(ctx, path, Options{})
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if !first.OK() || first.CacheHit {
		t.Fatalf("first parse: ok=%v hit=%v errs=%v", first.OK(), first.CacheHit, first.Errors)
	}
	if first.Source != path || len(first.Hash) != 64 {
		t.Errorf("Source = %q, Hash = %q", first.Source, first.Hash)
	}

	second, err := r.ParseFile(ctx, path, Options{})
	if err != nil {
		t.Fatalf("ParseFile: %v", err)
	}
	if !second.CacheHit {
		t.Error("second parse should hit the cache")
	}
	if got, want := second.Stack.Summary(), first.Stack.Summary(); got.TotalHeight != want.TotalHeight || got.ViaCount != want.ViaCount {
		t.Errorf("cached summary = %+v, want %+v", got, want)
	}

	refreshed, err := r.ParseFile(ctx, path, Options{Refresh: true})
	if err != nil {
		t.Fatal(err)
	}
	if refreshed.CacheHit {
		t.Error("Refresh should bypass the cache")
	}
}

func TestParseFileProblemsAreNotCached(t *testing.T) {
	ctx := context.Background()
	r := newFileRunner(t)
	path := writeFile(t, t.TempDir(), "bad.itf", badDoc)

	for i := 0; i < 2; i++ {
		res, err := r.ParseFile(ctx, path, Options{})
		if err != nil {
			t.Fatalf("ParseFile: %v", err)
		}
		if res.OK() || res.Stack != nil {
			t.Fatal("bad document should not produce a stack")
		}
		if res.CacheHit {
			t.Error("failed parses must not be cached")
		}
		if !errors.Is(res.Errors, errors.KindDanglingViaReference) {
			t.Errorf("Errors = %v, want DanglingViaReference", res.Errors)
		}
	}
}

func TestParseFileReadErrors(t *testing.T) {
	r := NewRunner(nil, nil)
	dir := t.TempDir()

	tests := []struct {
		name string
		path string
		want errors.Kind
	}{
		{"missing", filepath.Join(dir, "missing.itf"), errors.KindNotFound},
		{"bad extension", filepath.Join(dir, "tech.png"), errors.KindInvalidInput},
		{"empty", "", errors.KindInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.ParseFile(context.Background(), tt.path, Options{})
			if got := errors.KindOf(err); got != tt.want {
				t.Errorf("KindOf(err) = %q, want %q (err = %v)", got, tt.want, err)
			}
		})
	}
}

func TestParseAll(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.itf", goodDoc),
		writeFile(t, dir, "b.itf", badDoc),
		filepath.Join(dir, "missing.itf"),
		writeFile(t, dir, "c.itf", goodDoc),
	}

	results, err := NewRunner(nil, nil).ParseAll(context.Background(), paths, Options{Concurrency: 2})
	if err != nil {
		t.Fatalf("ParseAll: %v", err)
	}
	if len(results) != len(paths) {
		t.Fatalf("len(results) = %d, want %d", len(results), len(paths))
	}
	for i, res := range results {
		if res.Source != paths[i] {
			t.Errorf("results[%d].Source = %q, want %q", i, res.Source, paths[i])
		}
	}

	wantOK := []bool{true, false, false, true}
	for i, want := range wantOK {
		if got := results[i].OK(); got != want {
			t.Errorf("results[%d].OK() = %v, want %v (%v)", i, got, want, results[i].Errors)
		}
	}
	if got := errors.KindOf(results[2].Errors[0]); got != errors.KindNotFound {
		t.Errorf("missing file kind = %q, want NotFound", got)
	}
}

func TestParseAllProgress(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		writeFile(t, dir, "a.itf", goodDoc),
		writeFile(t, dir, "b.itf", badDoc),
		filepath.Join(dir, "missing.itf"),
	}

	var (
		mu    sync.Mutex
		seen  []int
		total int
	)
	opts := Options{Concurrency: 2, Progress: func(done, n int) {
		mu.Lock()
		defer mu.Unlock()
		seen = append(seen, done)
		total = n
	}}
	if _, err := NewRunner(nil, nil).ParseAll(context.Background(), paths, opts); err != nil {
		t.Fatalf("ParseAll: %v", err)
	}

	slices.Sort(seen)
	if want := []int{1, 2, 3}; !slices.Equal(seen, want) {
		t.Errorf("progress calls = %v, want %v", seen, want)
	}
	if total != len(paths) {
		t.Errorf("progress total = %d, want %d", total, len(paths))
	}
}

func TestParseAllCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	path := writeFile(t, t.TempDir(), "a.itf", goodDoc)

	if _, err := NewRunner(nil, nil).ParseAll(ctx, []string{path}, Options{}); err == nil {
		t.Error("ParseAll with a cancelled context should fail")
	}
}

type recordingHooks struct {
	observability.NoopPipelineHooks
	observability.NoopCacheHooks

	mu     sync.Mutex
	events []string
}

func (h *recordingHooks) record(e string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.events = append(h.events, e)
}

func (h *recordingHooks) OnParseStart(context.Context, string, int) { h.record("start") }
func (h *recordingHooks) OnParseComplete(context.Context, string, int, int, time.Duration, error) {
	h.record("complete")
}
func (h *recordingHooks) OnCacheHit(context.Context, string)      { h.record("hit") }
func (h *recordingHooks) OnCacheMiss(context.Context, string)     { h.record("miss") }
func (h *recordingHooks) OnCacheSet(context.Context, string, int) { h.record("set") }

func TestParseSourceHooks(t *testing.T) {
	h := &recordingHooks{}
	observability.SetPipelineHooks(h)
	observability.SetCacheHooks(h)
	defer observability.Reset()

	ctx := context.Background()
	r := newFileRunner(t)
	for i := 0; i < 2; i++ {
		if _, err := r.ParseSource(ctx, "<test>", []byte(goodDoc), Options{}); err != nil {
			t.Fatal(err)
		}
	}

	want := []string{"start", "miss", "set", "complete", "start", "hit", "complete"}
	if len(h.events) != len(want) {
		t.Fatalf("events = %v, want %v", h.events, want)
	}
	for i := range want {
		if h.events[i] != want[i] {
			t.Errorf("events[%d] = %q, want %q", i, h.events[i], want[i])
		}
	}
}
