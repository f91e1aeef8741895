package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	sugar *zap.SugaredLogger
	once  sync.Once
)

// Init builds the process-wide logger (called once from main). Debug mode
// lowers the level so Debugf output becomes visible.
func Init(debug bool) {
	level := zapcore.InfoLevel
	if debug {
		level = zapcore.DebugLevel
	}

	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		panic("failed to build logger: " + err.Error())
	}

	sugar = l.Sugar()
}

// get lazily initializes the logger so packages under test can log without
// requiring main's Init to have run.
func get() *zap.SugaredLogger {
	once.Do(func() {
		if sugar == nil {
			Init(false)
		}
	})
	return sugar
}

func Infof(format string, v ...any) {
	get().Infof(format, v...)
}

func Warnf(format string, v ...any) {
	get().Warnf(format, v...)
}

func Errorf(format string, v ...any) {
	get().Errorf(format, v...)
}

func Debugf(format string, v ...any) {
	get().Debugf(format, v...)
}

func Fatalf(format string, v ...any) {
	get().Fatalf(format, v...)
}
