package sys

import (
	"expvar"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
)

// MemoryGuard reports whether the process has crossed its memory high
// watermark. Iterators poll it to stop early under memory pressure.
type MemoryGuard interface {
	HitHighWatermark() bool
}

var (
	memUsagePercent    = expvar.NewFloat("system_mem_usage_percent")
	highWatermarkHits  = expvar.NewInt("memory_high_watermark_hits")
	highWatermarkState atomic.Bool
)

type globalGuard struct{}

func (globalGuard) HitHighWatermark() bool { return highWatermarkState.Load() }

// GlobalMemoryGuard returns the process-wide guard. It reports the state last
// published by a running MemoryWatcher and is false if none runs.
func GlobalMemoryGuard() MemoryGuard { return globalGuard{} }

// UsageSampler returns the used fraction of system memory in [0, 1].
type UsageSampler func() (float64, error)

// VirtualMemoryUsage samples system memory through gopsutil.
func VirtualMemoryUsage() (float64, error) {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0, fmt.Errorf("failed to read virtual memory stats: %w", err)
	}
	return vm.UsedPercent / 100, nil
}

// MemoryWatcher periodically samples system memory usage and publishes
// whether it is above the configured ratio of total memory.
type MemoryWatcher struct {
	ratio    float64
	interval time.Duration
	sample   UsageSampler
	hit      atomic.Bool
	global   bool
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	logger   *slog.Logger
}

// MemoryWatcherOptions configures a MemoryWatcher.
type MemoryWatcherOptions struct {
	// HighWatermarkRatio is the used/total fraction at which the watermark
	// trips. Values outside (0, 1] disable the check.
	HighWatermarkRatio float64
	Interval           time.Duration
	// Sampler defaults to VirtualMemoryUsage.
	Sampler UsageSampler
	// PublishGlobal makes the watcher drive GlobalMemoryGuard.
	PublishGlobal bool
	Logger        *slog.Logger
}

func NewMemoryWatcher(opts MemoryWatcherOptions) *MemoryWatcher {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	sampler := opts.Sampler
	if sampler == nil {
		sampler = VirtualMemoryUsage
	}
	interval := opts.Interval
	if interval <= 0 {
		interval = time.Second
	}
	return &MemoryWatcher{
		ratio:    opts.HighWatermarkRatio,
		interval: interval,
		sample:   sampler,
		global:   opts.PublishGlobal,
		stopChan: make(chan struct{}),
		logger:   logger.With("component", "MemoryWatcher"),
	}
}

// HitHighWatermark implements MemoryGuard.
func (w *MemoryWatcher) HitHighWatermark() bool { return w.hit.Load() }

// Check samples memory once and updates the published state.
func (w *MemoryWatcher) Check() (bool, error) {
	if w.ratio <= 0 || w.ratio > 1 {
		w.publish(false)
		return false, nil
	}
	used, err := w.sample()
	if err != nil {
		return w.hit.Load(), err
	}
	memUsagePercent.Set(used * 100)
	hit := used > w.ratio
	if hit && !w.hit.Load() {
		highWatermarkHits.Add(1)
		w.logger.Warn("Memory usage hits the high watermark", "used_ratio", used, "high_watermark_ratio", w.ratio)
	}
	w.publish(hit)
	return hit, nil
}

func (w *MemoryWatcher) publish(hit bool) {
	w.hit.Store(hit)
	if w.global {
		highWatermarkState.Store(hit)
	}
}

// Start begins the background sampling loop.
func (w *MemoryWatcher) Start() {
	w.logger.Info("Starting memory watcher", "interval", w.interval, "high_watermark_ratio", w.ratio)
	if _, err := w.Check(); err != nil {
		w.logger.Error("Initial memory check failed", "error", err)
	}
	w.wg.Add(1)
	go w.loop()
}

// Stop terminates the sampling loop and waits for it to finish. The last
// published state is cleared.
func (w *MemoryWatcher) Stop() {
	w.stopOnce.Do(func() {
		w.logger.Info("Stopping memory watcher")
		close(w.stopChan)
		w.wg.Wait()
		w.publish(false)
	})
}

func (w *MemoryWatcher) loop() {
	defer w.wg.Done()
	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if _, err := w.Check(); err != nil {
				w.logger.Debug("Memory check failed", "error", err)
			}
		case <-w.stopChan:
			return
		}
	}
}
