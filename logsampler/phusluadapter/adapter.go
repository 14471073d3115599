// Package phusluadapter binds a logsampler.Sampler to phuslu/log loggers.
package phusluadapter

import (
	"sync/atomic"

	"github.com/tekert/gotracefile/logsampler"

	plog "github.com/phuslu/log"
)

// Sampler is an alias for the logsampler interface.
type Sampler = logsampler.Sampler

// SummaryReporter implements logsampler.SummaryReporter on a phuslu logger.
type SummaryReporter struct {
	Logger *plog.Logger
}

// LogSummary logs a sampler suppression summary.
func (r *SummaryReporter) LogSummary(key string, suppressedCount int64) {
	r.Logger.Info().
		Str("samplerKey", key).
		Int64("suppressedCount", suppressedCount).
		Msg("log sampler summary")
}

// SampledLogger extends plog.Logger with sampled log entry points.
type SampledLogger struct {
	*plog.Logger
	Sampler Sampler
}

// NewSampledLogger wraps a logger with a sampler.
func NewSampledLogger(baseLogger *plog.Logger, sampler Sampler) *SampledLogger {
	return &SampledLogger{
		Logger:  baseLogger,
		Sampler: sampler,
	}
}

// Sampled starts a log entry at the given level if the sampler allows the
// key through. It returns nil when the entry is suppressed or below the
// logger's level; a nil *plog.Entry is safe to chain on.
func (l *SampledLogger) Sampled(level plog.Level, key string, err error) *plog.Entry {
	// Level check first, zero allocations on the common path.
	if plog.Level(atomic.LoadUint32((*uint32)(&l.Logger.Level))) > level {
		return nil
	}

	if l.Sampler != nil {
		shouldLog, suppressed := l.Sampler.ShouldLog(key, err)
		if !shouldLog {
			return nil
		}
		entry := l.Logger.WithLevel(level)
		if suppressed > 0 {
			entry.Int64("suppressedCount", suppressed)
		}
		if err != nil {
			entry.Err(err)
		}
		return entry
	}

	entry := l.Logger.WithLevel(level)
	if err != nil {
		entry.Err(err)
	}
	return entry
}

// SampledError starts a sampled Error-level entry.
func (l *SampledLogger) SampledError(key string) *plog.Entry {
	return l.Sampled(plog.ErrorLevel, key, nil)
}

// SampledErrorWithErr starts a sampled Error-level entry carrying err.
func (l *SampledLogger) SampledErrorWithErr(key string, err error) *plog.Entry {
	return l.Sampled(plog.ErrorLevel, key, err)
}

// SampledWarn starts a sampled Warn-level entry.
func (l *SampledLogger) SampledWarn(key string) *plog.Entry {
	return l.Sampled(plog.WarnLevel, key, nil)
}
