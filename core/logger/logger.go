package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log *zap.SugaredLogger

func init() {
	// Usable before Init so early startup paths can log.
	l, _ := zap.NewProduction(zap.AddCallerSkip(1))
	log = l.Sugar()
}

// Init replaces the default production logger. Call once at startup.
func Init(level string, development bool) {
	var cfg zap.Config
	if development {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}

	if lvl, err := zapcore.ParseLevel(level); err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return
	}
	log = l.Sugar()
}

func Debug(msg string, keysAndValues ...any) {
	log.Debugw(msg, keysAndValues...)
}

func Info(msg string, keysAndValues ...any) {
	log.Infow(msg, keysAndValues...)
}

func Warn(msg string, keysAndValues ...any) {
	log.Warnw(msg, keysAndValues...)
}

func Error(msg string, keysAndValues ...any) {
	log.Errorw(msg, keysAndValues...)
}

func Fatal(msg string, keysAndValues ...any) {
	log.Fatalw(msg, keysAndValues...)
}

// Sync flushes buffered log entries. Call on shutdown.
func Sync() {
	_ = log.Sync()
}
