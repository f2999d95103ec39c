package logging

import (
	"os"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	sugar = newLogger("console", "").Sugar()
)

// InitFromEnv configures the package logger from LOG_LEVEL (debug|info|warn|error),
// LOG_FORMAT (console|json) and LOG_FILE (optional rotating file).
func InitFromEnv() {
	SetLevel(os.Getenv("LOG_LEVEL"))
	sugar = newLogger(os.Getenv("LOG_FORMAT"), os.Getenv("LOG_FILE")).Sugar()
}

// SetLevel changes the minimum level; unknown values fall back to info.
func SetLevel(name string) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "debug":
		level.SetLevel(zapcore.DebugLevel)
	case "warn", "warning":
		level.SetLevel(zapcore.WarnLevel)
	case "error":
		level.SetLevel(zapcore.ErrorLevel)
	default:
		level.SetLevel(zapcore.InfoLevel)
	}
}

// Use replaces the underlying core, mostly for tests with zaptest/observer.
// It returns a func that restores the previous logger.
func Use(core zapcore.Core) func() {
	prev := sugar
	sugar = zap.New(core).Sugar()
	return func() { sugar = prev }
}

func newLogger(format, file string) *zap.Logger {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	if strings.EqualFold(format, "json") {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	cores := []zapcore.Core{zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level)}
	if file = strings.TrimSpace(file); file != "" {
		rotating := &lumberjack.Logger{
			Filename:   file,
			MaxSize:    50,
			MaxBackups: 5,
			MaxAge:     30,
			Compress:   true,
		}
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(rotating), level))
	}
	return zap.New(zapcore.NewTee(cores...))
}

func Debugf(format string, args ...interface{}) {
	sugar.Debugf(format, args...)
}

func Infof(format string, args ...interface{}) {
	sugar.Infof(format, args...)
}

func Warnf(format string, args ...interface{}) {
	sugar.Warnf(format, args...)
}

func Errorf(format string, args ...interface{}) {
	sugar.Errorf(format, args...)
}

func Fatalf(format string, args ...interface{}) {
	sugar.Fatalf(format, args...)
}

// Sync flushes buffered entries.
func Sync() {
	_ = sugar.Sync()
}
