// Package-level logging for tracefile, built on phuslu/log with a sampled
// logger for the iteration hot path.

package tracefile

import (
	"os"
	"time"

	"github.com/tekert/gotracefile/logsampler"
	"github.com/tekert/gotracefile/logsampler/phusluadapter"

	plog "github.com/phuslu/log"
)

// LoggerName identifies one of the package loggers for configuration.
const (
	ParserLogger  LoggerName = "parser"
	MapperLogger  LoggerName = "mapper"
	DefaultLogger LoggerName = "default"
)

// LoggerName identifies one of the package loggers for configuration.
type LoggerName string

// SampledLogger is an alias for the phusluadapter SampledLogger.
type SampledLogger = phusluadapter.SampledLogger

// LoggerManager owns the package loggers.
type LoggerManager struct {
	writer  plog.Writer
	sampler logsampler.Sampler
	loggers map[LoggerName]*plog.Logger
}

var (
	loggerManager *LoggerManager
	parselog      *SampledLogger // iteration hot path
	maplog        *plog.Logger   // mapping and teardown
	log           *plog.Logger   // everything else
)

func init() {
	loggerManager = NewLoggerManager()
	parselog = phusluadapter.NewSampledLogger(
		loggerManager.loggers[ParserLogger],
		loggerManager.sampler,
	)
	maplog = loggerManager.loggers[MapperLogger]
	log = loggerManager.loggers[DefaultLogger]
}

// NewLoggerManager creates the package loggers with default settings.
func NewLoggerManager() *LoggerManager {
	writer := &plog.IOWriter{Writer: os.Stderr}

	lm := &LoggerManager{
		writer:  writer,
		loggers: make(map[LoggerName]*plog.Logger),
	}

	for _, name := range []LoggerName{ParserLogger, MapperLogger, DefaultLogger} {
		level := plog.InfoLevel
		if name == ParserLogger {
			// Higher threshold for the hot path.
			level = plog.WarnLevel
		}
		lm.loggers[name] = &plog.Logger{
			Level:   level,
			Writer:  writer,
			Context: plog.NewContext(nil).Str("component", string(name)).Value(),
		}
	}

	// A malformed spill stream fails once per Next call; without sampling
	// a corrupt trace floods stderr.
	lm.sampler = logsampler.NewDedupSampler(logsampler.BackoffConfig{
		InitialInterval: 1 * time.Second,
		MaxInterval:     1 * time.Minute,
		Factor:          2.0,
		ResetInterval:   10 * time.Minute,
	}, &phusluadapter.SummaryReporter{Logger: lm.loggers[DefaultLogger]})

	return lm
}

// SetLogLevels sets the level of one or more package loggers. Use the
// exported LoggerName constants as keys.
func (lm *LoggerManager) SetLogLevels(levels map[LoggerName]plog.Level) {
	for name, level := range levels {
		if logger, ok := lm.loggers[name]; ok {
			logger.SetLevel(level)
		}
	}
}

// SetWriter changes the writer of every package logger.
func (lm *LoggerManager) SetWriter(writer plog.Writer) {
	lm.writer = writer
	for _, logger := range lm.loggers {
		logger.Writer = writer
	}
}

// SetLogLevels sets levels on the global logger manager.
func SetLogLevels(levels map[LoggerName]plog.Level) {
	loggerManager.SetLogLevels(levels)
}

// SetLogLevelsAll sets every package logger to the given level.
func SetLogLevelsAll(level plog.Level) {
	levels := make(map[LoggerName]plog.Level)
	for name := range loggerManager.loggers {
		levels[name] = level
	}
	SetLogLevels(levels)
}

// SetLogWriter sets the writer of every package logger.
func SetLogWriter(writer plog.Writer) { loggerManager.SetWriter(writer) }

// DisableLogging silences every package logger.
func DisableLogging() { SetLogLevelsAll(99) }

// GetLogManager returns the global logger manager.
func GetLogManager() *LoggerManager { return loggerManager }
