// Package hpacklog adapts structured loggers to the two-method interface
// the hpack codec accepts for dynamic-table eviction, clear and max-size
// diagnostics.
package hpacklog

import "go.uber.org/zap"

// Logger is a sink accepting (level, format, args). It matches the
// hpack.Logger interface the hpack package accepts via SetLogger,
// so any type implementing these two methods can be passed there directly.
type Logger interface {
	Debugf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
}

// NopLogger discards everything. It is useful as an explicit default when
// a caller wants to be clear that logging is off, rather than passing nil.
type NopLogger struct{}

func (NopLogger) Debugf(string, ...interface{}) {}
func (NopLogger) Errorf(string, ...interface{}) {}

// zapLogger adapts a *zap.Logger (sugared) to Logger.
type zapLogger struct {
	sugar *zap.SugaredLogger
}

// NewZap wraps z for use as an hpack.Logger.
func NewZap(z *zap.Logger) Logger {
	return &zapLogger{sugar: z.Sugar()}
}

func (l *zapLogger) Debugf(format string, args ...interface{}) {
	l.sugar.Debugf(format, args...)
}

func (l *zapLogger) Errorf(format string, args ...interface{}) {
	l.sugar.Errorf(format, args...)
}
