package utils

import (
	"os"

	"github.com/edaniels/golog"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

// Size limits of a log file written by NewFileLogger.
const (
	logFileMaxSizeMB  = 64
	logFileMaxBackups = 2
)

// NewFileLogger returns a logger writing to both stderr and a rotated file at path. stdout is
// left alone since commands write their documents there.
func NewFileLogger(path, name string, debug bool) golog.Logger {
	level := zap.InfoLevel
	if debug {
		level = zap.DebugLevel
	}
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "ts",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
	file := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    logFileMaxSizeMB,
		MaxBackups: logFileMaxBackups,
	}
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encoderCfg),
		zapcore.NewMultiWriteSyncer(zapcore.AddSync(file), zapcore.Lock(os.Stderr)),
		zap.NewAtomicLevelAt(level),
	)
	return zap.New(core, zap.AddCaller()).Sugar().Named(name)
}
