package sessions

import (
	"context"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-lawnquote/internal/metrics"
	"github.com/goliatone/go-lawnquote/pkg/quote"
	"github.com/goliatone/go-lawnquote/pkg/testsupport"
)

func gaugeValue(t *testing.T, reg *prometheus.Registry, name string) float64 {
	t.Helper()
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() != name {
			continue
		}
		for _, metric := range family.GetMetric() {
			return metric.GetGauge().GetValue()
		}
	}
	return 0
}

func TestCreateAndGet(t *testing.T) {
	m := New(Config{Max: 4, TTL: time.Minute}, WithIDGenerator(testsupport.SequentialIDs("s")))

	session := m.Create()
	assert.Equal(t, "s1", session.ID())

	got, ok := m.Get("s1")
	require.True(t, ok)
	assert.Same(t, session, got)

	_, ok = m.Get("missing")
	assert.False(t, ok)
	_, ok = m.Get("")
	assert.False(t, ok)
}

func TestGetOrCreate(t *testing.T) {
	m := New(Config{}, WithIDGenerator(testsupport.SequentialIDs("s")))

	first, created := m.GetOrCreate("")
	require.True(t, created)

	again, created := m.GetOrCreate(first.ID())
	assert.False(t, created)
	assert.Same(t, first, again)

	other, created := m.GetOrCreate("gone")
	assert.True(t, created)
	assert.NotEqual(t, first.ID(), other.ID())
}

func TestRemoveClosesSessionAndRevokesPreviews(t *testing.T) {
	store := testsupport.NewPreviewStore()
	reg := prometheus.NewRegistry()
	m := New(Config{Max: 4, TTL: time.Minute},
		WithPreviewStore(store),
		WithMetrics(metrics.MustNewMetrics(reg)),
	)

	session := m.Create()
	_, err := session.SelectPhotos(context.Background(), testsupport.Photos("front.jpg", "back.jpg"))
	require.NoError(t, err)
	require.Equal(t, 2, store.Len())
	assert.Equal(t, float64(1), gaugeValue(t, reg, "lawnquote_sessions_active"))

	assert.True(t, m.Remove(session.ID()))
	assert.True(t, session.Closed())
	assert.Equal(t, 0, store.Len())
	assert.Equal(t, float64(0), gaugeValue(t, reg, "lawnquote_sessions_active"))
	assert.False(t, m.Remove(session.ID()))
}

func TestCapacityEvictionClosesOldest(t *testing.T) {
	m := New(Config{Max: 2, TTL: time.Minute})

	oldest := m.Create()
	m.Create()
	m.Create()

	assert.Equal(t, 2, m.Len())
	assert.True(t, oldest.Closed())
	_, ok := m.Get(oldest.ID())
	assert.False(t, ok)
}

func TestExpiredSessionsAreClosed(t *testing.T) {
	m := New(Config{Max: 4, TTL: 20 * time.Millisecond})
	session := m.Create()

	require.Eventually(t, session.Closed, time.Second, 5*time.Millisecond)
	_, ok := m.Get(session.ID())
	assert.False(t, ok)
}

func TestCloseAllCancelsPendingSubmission(t *testing.T) {
	scheduler := &testsupport.ManualScheduler{}
	m := New(Config{}, WithSessionOptions(quote.WithScheduler(scheduler)))

	session := m.Create()
	require.NoError(t, session.SetLength("10"))
	require.NoError(t, session.SetArea(quote.AreaFront))
	_, err := session.SelectPhotos(context.Background(), testsupport.Photos("front.png"))
	require.NoError(t, err)
	state, err := session.Submit(context.Background())
	require.NoError(t, err)
	require.Equal(t, quote.StateSubmitting, state)

	m.CloseAll()

	assert.Equal(t, 0, m.Len())
	timers := scheduler.Timers()
	require.Len(t, timers, 1)
	assert.True(t, timers[0].Stopped())
	scheduler.Fire()
	assert.Equal(t, quote.StateSubmitting, session.State())
}

func TestSubmitDelayIsApplied(t *testing.T) {
	scheduler := &testsupport.ManualScheduler{}
	m := New(Config{SubmitDelay: 250 * time.Millisecond}, WithSessionOptions(quote.WithScheduler(scheduler)))

	session := m.Create()
	require.NoError(t, session.SetLength("1"))
	require.NoError(t, session.SetArea(quote.AreaBoth))
	_, err := session.SelectPhotos(context.Background(), testsupport.Photos("back.png"))
	require.NoError(t, err)
	_, err = session.Submit(context.Background())
	require.NoError(t, err)

	timers := scheduler.Timers()
	require.Len(t, timers, 1)
	assert.Equal(t, 250*time.Millisecond, timers[0].Delay)
}
