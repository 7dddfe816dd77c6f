package glog

import (
	"os"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	loggerValue atomic.Value // *zap.Logger
	atomicLevel zap.AtomicLevel
)

func init() {
	Init(DefaultConfig())
}

// Init (re)builds the global logger from cfg. Safe to call again at
// runtime, e.g. after reloading configuration.
func Init(cfg *Config) {
	if cfg == nil {
		return
	}
	atomicLevel = zap.NewAtomicLevelAt(parseLevel(cfg.Level))
	encoderConfig := zapcore.EncoderConfig{
		MessageKey:     "msg",
		LevelKey:       "level",
		TimeKey:        "ts",
		CallerKey:      "caller",
		NameKey:        "logger",
		StacktraceKey:  "stack",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.TimeEncoderOfLayout("2006-01-02T15:04:05.000Z0700"),
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	writer := newWriter(cfg.Path, cfg.File)

	cores := make([]zapcore.Core, 0, 2)
	cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encoderConfig), zapcore.AddSync(writer), atomicLevel))
	if cfg.PrintConsole {
		cores = append(cores, zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig), zapcore.AddSync(os.Stdout), atomicLevel))
	}
	logger := zap.New(zapcore.NewTee(cores...), zap.AddCaller(), zap.AddCallerSkip(1))
	loggerValue.Store(logger)
}

// L returns the current global logger, or a no-op logger before Init
// has ever run (which init() guarantees never happens in practice).
func L() *zap.Logger {
	if l, ok := loggerValue.Load().(*zap.Logger); ok && l != nil {
		return l
	}
	return zap.NewNop()
}

func SetLevel(level zapcore.Level) {
	atomicLevel.SetLevel(level)
}

func Sync() {
	_ = L().Sync()
}
