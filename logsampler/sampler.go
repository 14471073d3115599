// Package logsampler provides concurrent-safe sampling strategies for log
// statements on hot paths, where emitting every occurrence of a repeating
// failure would be prohibitively expensive.
package logsampler

import (
	"sync"
	"sync/atomic"
	"time"
)

// Sampler decides whether a log statement identified by a key should be
// emitted.
type Sampler interface {
	// ShouldLog returns true when the event should be logged, along with
	// the number of events suppressed for that key since the last emission.
	ShouldLog(key string, err error) (bool, int64)
	// Flush reports a summary of suppressed logs for every key.
	Flush()
	// Close flushes one last time and stops the sampler.
	Close()
}

// SummaryReporter receives suppression summaries from a sampler, keeping
// the sampler decoupled from any specific logging library.
type SummaryReporter interface {
	LogSummary(key string, suppressedCount int64)
}

// BackoffConfig parameterizes the quiet window applied after each emitted
// log.
type BackoffConfig struct {
	// InitialInterval is the quiet window after the first emission.
	InitialInterval time.Duration
	// MaxInterval caps the growing window.
	MaxInterval time.Duration
	// Factor multiplies the window after each emission. Values <= 1 keep
	// the window constant.
	Factor float64
	// ResetInterval shrinks the window back to InitialInterval once this
	// much time has passed since the key's last emission; suppressed calls
	// do not extend it. Zero disables resetting.
	ResetInterval time.Duration
}

// keyState carries the sampling state of one key.
type keyState struct {
	suppressed atomic.Int64
	lastLog    atomic.Int64 // unix nanos of the last emission
	window     atomic.Int64 // active quiet window in nanos
}

// DedupSampler deduplicates repeated log statements per key with an
// exponentially growing quiet window. It is event driven: no background
// goroutine, all work happens inside ShouldLog and Flush.
type DedupSampler struct {
	cfg      BackoffConfig
	reporter SummaryReporter
	keys     sync.Map // string -> *keyState

	// now is replaceable by tests
	now func() time.Time
}

// NewDedupSampler creates a deduplicating sampler. reporter may be nil, in
// which case Flush drops the summaries.
func NewDedupSampler(cfg BackoffConfig, reporter SummaryReporter) *DedupSampler {
	if cfg.InitialInterval <= 0 {
		cfg.InitialInterval = time.Second
	}
	if cfg.MaxInterval < cfg.InitialInterval {
		cfg.MaxInterval = cfg.InitialInterval
	}
	return &DedupSampler{
		cfg:      cfg,
		reporter: reporter,
		now:      time.Now,
	}
}

// ShouldLog implements Sampler.
func (s *DedupSampler) ShouldLog(key string, err error) (bool, int64) {
	v, _ := s.keys.LoadOrStore(key, &keyState{})
	st := v.(*keyState)

	now := s.now().UnixNano()
	last := st.lastLog.Load()
	window := st.window.Load()
	if window == 0 {
		window = int64(s.cfg.InitialInterval)
	}
	if s.cfg.ResetInterval > 0 && last != 0 && now-last > int64(s.cfg.ResetInterval) {
		window = int64(s.cfg.InitialInterval)
	}

	if last == 0 || now-last >= window {
		// Only one concurrent caller wins the emission; the rest count as
		// suppressed.
		if st.lastLog.CompareAndSwap(last, now) {
			next := window
			if s.cfg.Factor > 1 {
				next = int64(float64(window) * s.cfg.Factor)
				if next > int64(s.cfg.MaxInterval) {
					next = int64(s.cfg.MaxInterval)
				}
			}
			st.window.Store(next)
			return true, st.suppressed.Swap(0)
		}
	}

	st.suppressed.Add(1)
	return false, 0
}

// Flush implements Sampler.
func (s *DedupSampler) Flush() {
	s.keys.Range(func(k, v any) bool {
		st := v.(*keyState)
		if n := st.suppressed.Swap(0); n > 0 && s.reporter != nil {
			s.reporter.LogSummary(k.(string), n)
		}
		return true
	})
}

// Close implements Sampler.
func (s *DedupSampler) Close() {
	s.Flush()
}

// RateSampler emits one log per rate occurrences, with the counter
// resetting each window. It keeps no per-key state.
type RateSampler struct {
	rate   int64
	window int64
	count  atomic.Int64
	last   atomic.Int64
}

// NewRateSampler creates a rate sampler emitting every rate-th event.
func NewRateSampler(rate int, window time.Duration) *RateSampler {
	s := &RateSampler{
		rate:   int64(rate),
		window: int64(window),
	}
	s.last.Store(time.Now().UnixNano())
	return s
}

// ShouldLog implements Sampler.
func (s *RateSampler) ShouldLog(key string, err error) (bool, int64) {
	now := time.Now().UnixNano()
	lastReset := s.last.Load()
	if now-lastReset > s.window {
		if s.last.CompareAndSwap(lastReset, now) {
			s.count.Store(0)
		}
	}
	return (s.count.Add(1)-1)%s.rate == 0, 0
}

// Flush implements Sampler.
func (s *RateSampler) Flush() {}

// Close implements Sampler.
func (s *RateSampler) Close() {}
