// Package logger holds the process-wide zap logger. Entries are JSON on
// stdout, and also go to a rotated file when Config.OutputPath is set.
package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	globalLogger *zap.Logger
	once         sync.Once
)

// LogLevel is one of debug, info, warn, error. Case is ignored.
type LogLevel string

// Config 定义日志配置
type Config struct {
	Level      LogLevel
	OutputPath string
	MaxSize    int // megabytes per file before rotation
	MaxBackups int
	MaxAge     int // days
	Compress   bool
}

// parseLevel falls back to debug for anything zap does not recognise.
func parseLevel(l LogLevel) zapcore.Level {
	level, err := zapcore.ParseLevel(string(l))
	if err != nil {
		return zapcore.DebugLevel
	}
	return level
}

func encoder() zapcore.Encoder {
	cfg := zap.NewProductionEncoderConfig()
	cfg.TimeKey = "timestamp"
	cfg.EncodeTime = zapcore.RFC3339TimeEncoder
	cfg.EncodeDuration = zapcore.StringDurationEncoder
	return zapcore.NewJSONEncoder(cfg)
}

// newCore tees stdout with the rotated log file, if any.
func newCore(config Config) (zapcore.Core, error) {
	level := parseLevel(config.Level)
	stdout := zapcore.NewCore(encoder(), zapcore.Lock(os.Stdout), level)
	if config.OutputPath == "" {
		return stdout, nil
	}

	if err := os.MkdirAll(filepath.Dir(config.OutputPath), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}
	rotated := &lumberjack.Logger{
		Filename:   config.OutputPath,
		MaxSize:    config.MaxSize,
		MaxBackups: config.MaxBackups,
		MaxAge:     config.MaxAge,
		Compress:   config.Compress,
	}
	file := zapcore.NewCore(encoder(), zapcore.AddSync(rotated), level)
	return zapcore.NewTee(stdout, file), nil
}

// InitLogger 初始化日志系统. Only the first call has an effect.
func InitLogger(config Config) error {
	var initErr error
	once.Do(func() {
		core, err := newCore(config)
		if err != nil {
			initErr = err
			return
		}
		globalLogger = zap.New(core,
			zap.AddCaller(),
			zap.AddCallerSkip(1),
			zap.AddStacktrace(zapcore.ErrorLevel),
		)
	})
	return initErr
}

// L returns the global logger, or a no-op logger before InitLogger has run.
func L() *zap.Logger {
	if globalLogger == nil {
		return zap.NewNop()
	}
	return globalLogger
}

// Sync flushes buffered entries.
func Sync() {
	if globalLogger != nil {
		_ = globalLogger.Sync()
	}
}

func Debug(msg string, fields ...zap.Field) { L().Debug(msg, fields...) }

func Info(msg string, fields ...zap.Field) { L().Info(msg, fields...) }

func Warn(msg string, fields ...zap.Field) { L().Warn(msg, fields...) }

func Error(msg string, fields ...zap.Field) { L().Error(msg, fields...) }

func String(key, val string) zap.Field { return zap.String(key, val) }

func Strings(key string, val []string) zap.Field { return zap.Strings(key, val) }

func Int(key string, val int) zap.Field { return zap.Int(key, val) }

func Duration(key string, val time.Duration) zap.Field { return zap.Duration(key, val) }

func Any(key string, val any) zap.Field { return zap.Any(key, val) }

// ErrorField 创建错误字段
func ErrorField(err error) zap.Field { return zap.Error(err) }
