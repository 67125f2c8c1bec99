package logger

import (
	"github.com/golang-devkit/logconv/convention"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Log is a leveled facade over a zap.Logger. Functions passed to the lazy
// variants run only when the level is enabled, so callers can build
// expensive messages without paying for them in production.
type Log struct {
	zap       *zap.Logger
	formatter *convention.Formatter
}

func NewLog(zlg *zap.Logger) *Log {
	if zlg == nil {
		zlg = Base()
	}
	return &Log{zap: zlg}
}

// Zap exposes the underlying logger.
func (l *Log) Zap() *zap.Logger {
	return l.zap
}

// With returns a Log carrying the additional fields.
func (l *Log) With(fields ...zap.Field) *Log {
	return &Log{zap: l.zap.With(fields...), formatter: l.formatter}
}

// WithFormatter returns a Log rendering values with f instead of the
// package default.
func (l *Log) WithFormatter(f *convention.Formatter) *Log {
	return &Log{zap: l.zap, formatter: f}
}

func (l *Log) conv() *convention.Formatter {
	if l.formatter == nil {
		return convention.Default()
	}
	return l.formatter
}

func (l *Log) render(message string, v any) func() string {
	return func() string { return l.conv().FormatForLog(message, v, true) }
}

func (l *Log) renderMapping(message string, pairs *convention.Mapping) func() string {
	return func() string { return l.conv().FormatMapping(message, pairs, true) }
}

func (l *Log) Enabled(level zapcore.Level) bool {
	return l.zap.Core().Enabled(level)
}

func (l *Log) write(level zapcore.Level, message func() string, err error) {
	if !l.Enabled(level) {
		return
	}
	var fields []zap.Field
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	if ce := l.zap.Check(level, message()); ce != nil {
		ce.Write(fields...)
	}
}

func static(message string) func() string {
	return func() string { return message }
}

func (l *Log) Trace(message func() string) {
	l.write(TraceLevel, message, nil)
}

func (l *Log) TraceErr(message func() string, err error) {
	l.write(TraceLevel, message, err)
}

func (l *Log) Debug(message func() string) {
	l.write(zapcore.DebugLevel, message, nil)
}

func (l *Log) DebugErr(message func() string, err error) {
	l.write(zapcore.DebugLevel, message, err)
}

func (l *Log) Info(message string) {
	l.write(zapcore.InfoLevel, static(message), nil)
}

func (l *Log) InfoFunc(message func() string) {
	l.write(zapcore.InfoLevel, message, nil)
}

func (l *Log) InfoErr(message string, err error) {
	l.write(zapcore.InfoLevel, static(message), err)
}

func (l *Log) Warn(message string) {
	l.write(zapcore.WarnLevel, static(message), nil)
}

func (l *Log) WarnErr(message string, err error) {
	l.write(zapcore.WarnLevel, static(message), err)
}

func (l *Log) Error(message string) {
	l.write(zapcore.ErrorLevel, static(message), nil)
}

func (l *Log) ErrorErr(message string, err error) {
	l.write(zapcore.ErrorLevel, static(message), err)
}

// Fatal logs and terminates the process.
func (l *Log) Fatal(message string) {
	l.zap.Fatal(message)
}

func (l *Log) FatalErr(message string, err error) {
	l.zap.Fatal(message, zap.Error(err))
}

// The *Value variants append v rendered with the logging convention,
// e.g. log.InfoValue("user created", user) -> user created id=7, email="a@b.c".
// Rendering is skipped when the level is disabled.

func (l *Log) TraceValue(message string, v any) {
	l.write(TraceLevel, l.render(message, v), nil)
}

func (l *Log) DebugValue(message string, v any) {
	l.write(zapcore.DebugLevel, l.render(message, v), nil)
}

func (l *Log) InfoValue(message string, v any) {
	l.write(zapcore.InfoLevel, l.render(message, v), nil)
}

func (l *Log) WarnValue(message string, v any) {
	l.write(zapcore.WarnLevel, l.render(message, v), nil)
}

func (l *Log) ErrorValue(message string, v any, err error) {
	l.write(zapcore.ErrorLevel, l.render(message, v), err)
}

// InfoMapping appends the mapping rendered as key=value pairs.
func (l *Log) InfoMapping(message string, pairs *convention.Mapping) {
	l.write(zapcore.InfoLevel, l.renderMapping(message, pairs), nil)
}

func (l *Log) WarnMapping(message string, pairs *convention.Mapping) {
	l.write(zapcore.WarnLevel, l.renderMapping(message, pairs), nil)
}

func (l *Log) ErrorMapping(message string, pairs *convention.Mapping, err error) {
	l.write(zapcore.ErrorLevel, l.renderMapping(message, pairs), err)
}
