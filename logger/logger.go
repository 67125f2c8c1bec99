package logger

import (
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	logOnce sync.Once
	logMu   sync.RWMutex
	logger  *zap.Logger
)

// TraceLevel sits below zap's debug level.
const TraceLevel = zapcore.DebugLevel - 1

// Config describes how the process logger is built.
type Config struct {
	// trace, debug, info, warn, error. Anything else means info.
	Level string
	// json or console, json when empty.
	Encoding    string
	Development bool
}

func parseLevel(level string) zapcore.Level {
	switch strings.ToLower(level) {
	case "trace":
		return TraceLevel
	case "debug":
		return zap.DebugLevel
	case "warn", "warning":
		return zap.WarnLevel
	case "error":
		return zap.ErrorLevel
	default:
		return zap.InfoLevel
	}
}

// Build creates a zap logger from cfg with ISO8601 timestamps.
func Build(cfg Config) (*zap.Logger, error) {
	encoderCfg := zap.NewProductionEncoderConfig()
	if cfg.Development {
		encoderCfg = zap.NewDevelopmentEncoderConfig()
	}
	encoderCfg.TimeKey = KeyTimestamp
	encoderCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encoderCfg.EncodeLevel = encodeLevel

	encoding := cfg.Encoding
	if encoding == "" {
		encoding = "json"
	}

	zcfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(parseLevel(cfg.Level)),
		Development:      cfg.Development,
		Encoding:         encoding,
		EncoderConfig:    encoderCfg,
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	}
	zlg, err := zcfg.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return zlg, nil
}

func encodeLevel(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	if l == TraceLevel {
		enc.AppendString("TRACE")
		return
	}
	zapcore.CapitalLevelEncoder(l, enc)
}

func SetLogEntry(zlg *zap.Logger) {
	if zlg == nil {
		fmt.Println("entry logger set is unavailable, skipping logger setup")
		return
	}

	logMu.Lock()
	// cache the logger
	buffered := logger
	// Set the logger by the given zap.Logger
	logger = zlg
	logMu.Unlock()

	// Flush any buffered entry entries
	if buffered != nil && buffered != zlg {
		if err := buffered.Sync(); err != nil {
			zlg.Debug("Flush the buffered entry entries", zap.Error(err))
		}
	}
}

func initDefault() {
	logMu.Lock()
	defer logMu.Unlock()
	if logger != nil {
		// If logger is already initialized, skip re-initialization
		return
	}
	val := os.Getenv(EnvDeploymentKey)
	switch val {
	case "development", "dev":
		dev, err := Build(Config{Level: "debug", Development: true})
		if err != nil {
			logger = zap.NewExample()
			logger.Debug("failed to initialize development logger", zap.Error(err))
		} else {
			logger = dev
		}
	default:
		// Consider production environment
		prod, err := zap.NewProduction()
		if err != nil {
			logger = zap.NewExample()
			logger.Debug("failed to initialize production logger", zap.Error(err))
		} else {
			logger = prod
		}
	}
}

// Base returns the process logger without per entry fields.
func Base() *zap.Logger {
	logOnce.Do(initDefault)
	logMu.RLock()
	defer logMu.RUnlock()
	return logger
}

func NewEntry() *zap.Logger {
	return Base().With(
		zap.Time(KeyTimestamp, time.Now()),
		zap.String(KeyEnvironment, os.Getenv(EnvDeploymentKey)))
}
