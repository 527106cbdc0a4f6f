package testsupport

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-lawnquote/pkg/preview"
	"github.com/goliatone/go-lawnquote/pkg/quote"
)

// CompareGolden returns a diff string if the values differ.
func CompareGolden(want, got any) string {
	return cmp.Diff(want, got)
}

// MustReadGolden reads a golden file and returns its raw bytes.
func MustReadGolden(t *testing.T, path string) []byte {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return data
}

// MustReadGoldenString reads a golden file and returns its string content.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	return string(MustReadGolden(t, path))
}

// WriteMaybeGolden updates a golden file when UPDATE_GOLDENS is set. Returns
// true if the golden was written (test should exit early).
func WriteMaybeGolden(t *testing.T, path string, data []byte) bool {
	t.Helper()
	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// CaptureTemplateOutput executes a render function that writes to an
// io.Writer, returning both the string result and the writer contents.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}

// Photos builds in-memory photos whose content is their own name.
func Photos(names ...string) []quote.Photo {
	out := make([]quote.Photo, 0, len(names))
	for _, name := range names {
		out = append(out, quote.Photo{Name: name, ContentType: "image/jpeg", Data: []byte(name)})
	}
	return out
}

// SequentialIDs returns a generator yielding prefix1, prefix2, ...
func SequentialIDs(prefix string) func() string {
	var (
		mu sync.Mutex
		n  int
	)
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("%s%d", prefix, n)
	}
}

// NewPreviewStore returns a memory store with deterministic ids p1, p2, ...
func NewPreviewStore() *preview.MemoryStore {
	return preview.NewMemoryStore(preview.WithIDGenerator(SequentialIDs("p")))
}

// ManualScheduler is a quote.Scheduler whose tasks only run when Fire is
// called.
type ManualScheduler struct {
	mu     sync.Mutex
	timers []*ManualTimer
}

var _ quote.Scheduler = (*ManualScheduler)(nil)

// ManualTimer is a task recorded by ManualScheduler.
type ManualTimer struct {
	mu      sync.Mutex
	Delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

// Stop implements quote.Timer.
func (t *ManualTimer) Stop() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// Stopped reports whether Stop cancelled the task.
func (t *ManualTimer) Stopped() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.stopped
}

// AfterFunc implements quote.Scheduler.
func (m *ManualScheduler) AfterFunc(d time.Duration, fn func()) quote.Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	timer := &ManualTimer{Delay: d, fn: fn}
	m.timers = append(m.timers, timer)
	return timer
}

// Fire runs every pending task once and returns how many ran.
func (m *ManualScheduler) Fire() int {
	m.mu.Lock()
	pending := append([]*ManualTimer(nil), m.timers...)
	m.mu.Unlock()

	ran := 0
	for _, timer := range pending {
		timer.mu.Lock()
		skip := timer.stopped || timer.fired
		timer.fired = true
		timer.mu.Unlock()
		if skip {
			continue
		}
		timer.fn()
		ran++
	}
	return ran
}

// Timers returns the recorded tasks.
func (m *ManualScheduler) Timers() []*ManualTimer {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]*ManualTimer(nil), m.timers...)
}

// ExpirableCleanupFunction names the background loop started by
// expirable.NewLRU, for goleak.IgnoreAnyFunction.
const ExpirableCleanupFunction = "github.com/hashicorp/golang-lru/v2/expirable.NewLRU[...].func1"
