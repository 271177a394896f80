// Package logging builds the zap loggers used by the CLI. Diagnostics go to
// stderr so report output on stdout stays clean.
package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log levels accepted by New.
const (
	DEBUG = zapcore.DebugLevel
	WARN  = zapcore.WarnLevel
)

// New returns a console logger writing to stderr. debug lowers the level from
// warn to debug and adds caller information.
func New(debug bool) *zap.Logger {
	return NewWithSink(debug, zapcore.Lock(os.Stderr))
}

// NewWithSink is New with an explicit destination.
func NewWithSink(debug bool, sink zapcore.WriteSyncer) *zap.Logger {
	level := WARN
	if debug {
		level = DEBUG
	}
	enc := zap.NewDevelopmentEncoderConfig()
	enc.TimeKey = ""
	if !debug {
		enc.CallerKey = ""
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(enc), sink, zap.NewAtomicLevelAt(level))
	var opts []zap.Option
	if debug {
		opts = append(opts, zap.AddCaller())
	}
	return zap.New(core, opts...).Named("paradox")
}

// Nop returns a logger that discards everything.
func Nop() *zap.Logger { return zap.NewNop() }
