package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner draws "⠋ Checking 3/12 files" on one terminal line while a batch
// of files is parsed. It stops on Stop or when its context ends.
type Spinner struct {
	w     io.Writer
	verb  string
	total int
	done  atomic.Int64

	parent  context.Context
	ctx     context.Context
	cancel  context.CancelFunc
	started atomic.Bool
	stopped chan struct{}
	once    sync.Once
	mu      sync.Mutex
	width   int
}

// newSpinner creates a spinner counting up to total files.
func newSpinner(ctx context.Context, w io.Writer, verb string, total int) *Spinner {
	sctx, cancel := context.WithCancel(ctx)
	return &Spinner{
		w:       w,
		verb:    verb,
		total:   total,
		parent:  ctx,
		ctx:     sctx,
		cancel:  cancel,
		stopped: make(chan struct{}),
	}
}

// Progress records done finished files. It matches pipeline.Options.Progress
// and may be called from several goroutines.
func (s *Spinner) Progress(done, _ int) {
	s.done.Store(int64(done))
}

// Done returns the number of finished files reported so far.
func (s *Spinner) Done() int { return int(s.done.Load()) }

func (s *Spinner) line(frame string) string {
	return fmt.Sprintf("%s %s", styleIconSpinner.Render(frame),
		StyleDim.Render(fmt.Sprintf("%s %d/%d files", s.verb, s.Done(), s.total)))
}

// Start begins drawing.
func (s *Spinner) Start() {
	if !s.started.CompareAndSwap(false, true) {
		return
	}
	go func() {
		defer close(s.stopped)
		ticker := time.NewTicker(80 * time.Millisecond)
		defer ticker.Stop()

		for i := 0; ; i++ {
			select {
			case <-s.ctx.Done():
				s.clearLine()
				return
			case <-ticker.C:
				l := s.line(spinnerFrames[i%len(spinnerFrames)])
				s.mu.Lock()
				s.width = max(s.width, len(l))
				fmt.Fprint(s.w, "\r"+l)
				s.mu.Unlock()
			}
		}
	}()
}

// Stop ends drawing and clears the line. It may be called more than once.
func (s *Spinner) Stop() {
	s.once.Do(func() {
		s.cancel()
		if s.started.Load() {
			<-s.stopped
		}
	})
}

func (s *Spinner) clearLine() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.width > 0 {
		fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", s.width))
	}
}

// Cancelled reports whether the spinner's parent context has ended.
func (s *Spinner) Cancelled() bool {
	return s.parent.Err() != nil
}
