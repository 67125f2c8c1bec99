package net

import (
	"testing"

	"github.com/golang-devkit/logconv/logger"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

// observeLogs routes the process logger into an observer for the test.
func observeLogs(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	previous := logger.Base()
	core, logs := observer.New(zapcore.DebugLevel)
	logger.SetLogEntry(zap.New(core))
	t.Cleanup(func() { logger.SetLogEntry(previous) })
	return logs
}
