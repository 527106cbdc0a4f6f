package quote

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goliatone/go-lawnquote/pkg/preview"
)

type manualTimer struct {
	delay   time.Duration
	fn      func()
	stopped bool
	fired   bool
}

func (t *manualTimer) Stop() bool {
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	return true
}

// manualScheduler records scheduled tasks and runs them on demand.
type manualScheduler struct {
	mu     sync.Mutex
	timers []*manualTimer
}

func (m *manualScheduler) AfterFunc(d time.Duration, fn func()) Timer {
	m.mu.Lock()
	defer m.mu.Unlock()
	timer := &manualTimer{delay: d, fn: fn}
	m.timers = append(m.timers, timer)
	return timer
}

func (m *manualScheduler) fireAll() {
	m.mu.Lock()
	pending := append([]*manualTimer(nil), m.timers...)
	m.mu.Unlock()
	for _, timer := range pending {
		if timer.stopped || timer.fired {
			continue
		}
		timer.fired = true
		timer.fn()
	}
}

// fireStopped runs every task, including stopped ones, to simulate a timer
// that raced past Stop.
func (m *manualScheduler) fireStopped() {
	m.mu.Lock()
	pending := append([]*manualTimer(nil), m.timers...)
	m.mu.Unlock()
	for _, timer := range pending {
		timer.fn()
	}
}

func (m *manualScheduler) count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.timers)
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("p%d", n)
	}
}

func newTestSession(opts ...Option) (*Session, *manualScheduler, *preview.MemoryStore) {
	scheduler := &manualScheduler{}
	store := preview.NewMemoryStore(preview.WithIDGenerator(sequentialIDs()))
	base := []Option{WithID("test"), WithScheduler(scheduler), WithPreviewStore(store)}
	return New(append(base, opts...)...), scheduler, store
}

func photos(names ...string) []Photo {
	out := make([]Photo, 0, len(names))
	for _, name := range names {
		out = append(out, Photo{Name: name, ContentType: "image/jpeg", Data: []byte(name)})
	}
	return out
}

// failingStore fails every Issue after the first `allow` calls.
type failingStore struct {
	*preview.MemoryStore
	allow int
	calls int
}

func (f *failingStore) Issue(ctx context.Context, blob preview.Blob) (preview.Ref, error) {
	f.calls++
	if f.calls > f.allow {
		return preview.Ref{}, errors.New("disk full")
	}
	return f.MemoryStore.Issue(ctx, blob)
}
