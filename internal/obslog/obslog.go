// Package obslog provides the structured logging used outside the codec's
// decode/encode hot path: block registry construction and opt-in facade
// instrumentation. It is grounded on github.com/ausocean/av's pattern of
// feeding a *lumberjack.Logger rotating sink into a structured logger
// (cmd/rv/main.go builds a lumberjack.Logger and passes it to a logging
// wrapper); here the wrapper is zap itself rather than a bespoke type.
//
// The core codec (header, spectrum, block decode/encode, preprocess) never
// logs — per the format's propagation policy, errors are returned, not
// narrated. A Logger is only ever consulted at block.NewRegistry
// construction time and by the Load/Dump facade, around (never inside) its
// header and spectrum codec calls, when WithLogger is supplied.
package obslog

import (
	"gopkg.in/natefinch/lumberjack.v2"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps a zap.Logger with the sugar API the rest of this module
// uses for structured key-value logging.
type Logger struct {
	z *zap.SugaredLogger
}

// Noop returns a Logger that discards everything, used as the default when
// no logger is configured.
func Noop() *Logger {
	return &Logger{z: zap.NewNop().Sugar()}
}

// New builds a Logger that writes JSON-encoded entries to a rotating file
// sink via lumberjack. filename, maxSizeMB, maxBackups and maxAgeDays mirror
// the lumberjack.Logger fields ausocean-av's rv command configures.
func New(filename string, maxSizeMB, maxBackups, maxAgeDays int) *Logger {
	sink := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    maxSizeMB,
		MaxBackups: maxBackups,
		MaxAge:     maxAgeDays,
	}

	encoderCfg := zap.NewProductionEncoderConfig()
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderCfg), zapcore.AddSync(sink), zapcore.DebugLevel)

	return &Logger{z: zap.New(core).Sugar()}
}

// Debugw logs a debug-level structured line, used for registry construction
// bookkeeping (each tag registered).
func (l *Logger) Debugw(msg string, kv ...any) {
	if l == nil {
		return
	}
	l.z.Debugw(msg, kv...)
}

// Infow logs an info-level structured line, used for facade instrumentation.
func (l *Logger) Infow(msg string, kv ...any) {
	if l == nil {
		return
	}
	l.z.Infow(msg, kv...)
}

// Sync flushes any buffered log entries.
func (l *Logger) Sync() error {
	if l == nil {
		return nil
	}
	return l.z.Sync()
}
