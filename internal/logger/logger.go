// Package logger is the structured logger shared by the server and its adapters.
package logger

import (
	"strings"

	"go.uber.org/zap"
)

// Logger takes a message plus alternating key/value pairs.
type Logger struct {
	sugar *zap.SugaredLogger
}

// New picks a development console encoder for ENV=development and JSON otherwise.
func New(env string) (*Logger, error) {
	cfg := zap.NewProductionConfig()
	if strings.EqualFold(env, "development") {
		cfg = zap.NewDevelopmentConfig()
	}
	z, err := cfg.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	return &Logger{sugar: z.Sugar()}, nil
}

func Nop() *Logger {
	return &Logger{sugar: zap.NewNop().Sugar()}
}

// Sync flushes buffered entries; call it before exit.
func (l *Logger) Sync() { _ = l.sugar.Sync() }

func (l *Logger) With(kv ...any) *Logger { return &Logger{sugar: l.sugar.With(kv...)} }

func (l *Logger) Debug(msg string, kv ...any) { l.sugar.Debugw(msg, kv...) }
func (l *Logger) Info(msg string, kv ...any)  { l.sugar.Infow(msg, kv...) }
func (l *Logger) Warn(msg string, kv ...any)  { l.sugar.Warnw(msg, kv...) }
func (l *Logger) Error(msg string, kv ...any) { l.sugar.Errorw(msg, kv...) }
func (l *Logger) Fatal(msg string, kv ...any) { l.sugar.Fatalw(msg, kv...) }
