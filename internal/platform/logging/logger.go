// Package logging provides the process zap logger and request-scoped loggers
// that emit Cloud Logging compatible JSON.
package logging

import (
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/janisto/legalhelp-api/internal/platform/timeutil"
)

// Options controls the process logger.
type Options struct {
	// Development lowers the level to debug.
	Development bool
	// ProjectID links log entries to Cloud Trace. Empty falls back to the
	// usual Google Cloud environment variables.
	ProjectID string
}

var (
	current  atomic.Pointer[zap.Logger]
	initOnce sync.Once
)

// Configure replaces the process logger. Loggers already bound to a request
// context keep their previous core.
func Configure(o Options) {
	current.Store(build(o.Development, zapcore.Lock(os.Stdout)))
	setProjectID(o.ProjectID)
}

// Logger returns the process logger, building it from APP_ENV on first use
// when Configure was never called.
func Logger() *zap.Logger {
	if l := current.Load(); l != nil {
		return l
	}
	initOnce.Do(func() {
		current.CompareAndSwap(nil, build(isDevelopment(), zapcore.Lock(os.Stdout)))
	})
	return current.Load()
}

// Sync flushes buffered log entries. Call during shutdown.
func Sync() error {
	return Logger().Sync()
}

func build(development bool, out zapcore.WriteSyncer) *zap.Logger {
	level := zapcore.InfoLevel
	if development {
		level = zapcore.DebugLevel
	}
	core := zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig()), out, level)
	return zap.New(core, zap.AddCaller(), zap.ErrorOutput(out))
}

func encoderConfig() zapcore.EncoderConfig {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = encodeTimeMicros
	cfg.LevelKey = "severity"
	cfg.EncodeLevel = encodeSeverity
	cfg.MessageKey = "message"
	cfg.CallerKey = "caller"
	return cfg
}

func isDevelopment() bool {
	return strings.EqualFold(strings.TrimSpace(os.Getenv("APP_ENV")), "development")
}

func encodeTimeMicros(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.UTC().Format(timeutil.RFC3339Micros))
}

// encodeSeverity maps zap levels to Cloud Logging severity names.
func encodeSeverity(level zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
	var severity string
	switch level {
	case zapcore.DebugLevel:
		severity = "DEBUG"
	case zapcore.InfoLevel:
		severity = "INFO"
	case zapcore.WarnLevel:
		severity = "WARNING"
	case zapcore.ErrorLevel:
		severity = "ERROR"
	case zapcore.DPanicLevel:
		severity = "CRITICAL"
	case zapcore.PanicLevel:
		severity = "ALERT"
	case zapcore.FatalLevel:
		severity = "EMERGENCY"
	default:
		severity = "DEFAULT"
	}
	enc.AppendString(severity)
}
