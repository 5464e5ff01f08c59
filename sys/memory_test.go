package sys

import (
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUsage struct {
	used  atomic.Value
	err   atomic.Value
	calls atomic.Int64
}

func newFakeUsage(used float64) *fakeUsage {
	f := &fakeUsage{}
	f.used.Store(used)
	f.err.Store(errBox{})
	return f
}

type errBox struct{ err error }

func (f *fakeUsage) set(used float64) { f.used.Store(used) }

func (f *fakeUsage) fail(err error) { f.err.Store(errBox{err}) }

func (f *fakeUsage) sample() (float64, error) {
	f.calls.Add(1)
	if e := f.err.Load().(errBox); e.err != nil {
		return 0, e.err
	}
	return f.used.Load().(float64), nil
}

func TestMemoryWatcher_Check(t *testing.T) {
	usage := newFakeUsage(0.5)
	w := NewMemoryWatcher(MemoryWatcherOptions{HighWatermarkRatio: 0.8, Sampler: usage.sample})

	hit, err := w.Check()
	require.NoError(t, err)
	assert.False(t, hit)
	assert.False(t, w.HitHighWatermark())

	before := highWatermarkHits.Value()
	usage.set(0.9)
	hit, err = w.Check()
	require.NoError(t, err)
	assert.True(t, hit)
	assert.True(t, w.HitHighWatermark())
	assert.Equal(t, before+1, highWatermarkHits.Value())

	_, err = w.Check()
	require.NoError(t, err)
	assert.Equal(t, before+1, highWatermarkHits.Value(), "staying above the watermark counts once")

	usage.set(0.1)
	hit, err = w.Check()
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestMemoryWatcher_CheckErrorKeepsState(t *testing.T) {
	usage := newFakeUsage(0.9)
	w := NewMemoryWatcher(MemoryWatcherOptions{HighWatermarkRatio: 0.8, Sampler: usage.sample})
	_, err := w.Check()
	require.NoError(t, err)

	usage.fail(errors.New("boom"))
	hit, err := w.Check()
	require.Error(t, err)
	assert.True(t, hit)
	assert.True(t, w.HitHighWatermark())
}

func TestMemoryWatcher_DisabledRatio(t *testing.T) {
	for _, ratio := range []float64{0, -1, 1.5} {
		usage := newFakeUsage(1)
		w := NewMemoryWatcher(MemoryWatcherOptions{HighWatermarkRatio: ratio, Sampler: usage.sample})
		hit, err := w.Check()
		require.NoError(t, err)
		assert.False(t, hit)
		assert.Zero(t, usage.calls.Load(), "ratio %v should not sample", ratio)
	}
}

func TestMemoryWatcher_PublishGlobal(t *testing.T) {
	usage := newFakeUsage(0.95)
	w := NewMemoryWatcher(MemoryWatcherOptions{HighWatermarkRatio: 0.8, Sampler: usage.sample, PublishGlobal: true})
	defer w.Stop()

	_, err := w.Check()
	require.NoError(t, err)
	assert.True(t, GlobalMemoryGuard().HitHighWatermark())

	local := NewMemoryWatcher(MemoryWatcherOptions{HighWatermarkRatio: 0.8, Sampler: newFakeUsage(0.1).sample})
	_, err = local.Check()
	require.NoError(t, err)
	assert.True(t, GlobalMemoryGuard().HitHighWatermark(), "a non-publishing watcher leaves the global state alone")

	w.Stop()
	assert.False(t, GlobalMemoryGuard().HitHighWatermark(), "stopping clears the published state")
}

func TestMemoryWatcher_StartStop(t *testing.T) {
	usage := newFakeUsage(0.2)
	w := NewMemoryWatcher(MemoryWatcherOptions{
		HighWatermarkRatio: 0.5,
		Interval:           5 * time.Millisecond,
		Sampler:            usage.sample,
	})
	w.Start()
	assert.False(t, w.HitHighWatermark())

	usage.set(0.7)
	assert.Eventually(t, w.HitHighWatermark, time.Second, 5*time.Millisecond)

	w.Stop()
	assert.False(t, w.HitHighWatermark())
	calls := usage.calls.Load()
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, calls, usage.calls.Load(), "no sampling after Stop")

	assert.NotPanics(t, w.Stop, "Stop is idempotent")
}
