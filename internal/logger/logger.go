// Package logger holds the process-wide zap logger.
package logger

import (
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu    sync.Mutex
	sugar *zap.SugaredLogger
)

// Init builds the global logger once. Production gets JSON output with ISO
// timestamps; every other env gets the colored console encoder. level
// overrides the env default when it parses.
func Init(env, level string) {
	mu.Lock()
	defer mu.Unlock()
	if sugar != nil {
		return
	}
	sugar = build(env, level).Sugar().With("service", "stockstalk", "env", env)
}

func build(env, level string) *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	if env == "production" {
		cfg = zap.NewProductionConfig()
		cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	if lvl, err := zapcore.ParseLevel(level); level != "" && err == nil {
		cfg.Level = zap.NewAtomicLevelAt(lvl)
	}

	l, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return l
}

// Get returns the global logger, initializing a development one if Init was
// never called.
func Get() *zap.SugaredLogger {
	mu.Lock()
	l := sugar
	mu.Unlock()
	if l == nil {
		Init("development", "")
		return Get()
	}
	return l
}

// Sync flushes buffered entries. Deferred from main.
func Sync() {
	mu.Lock()
	defer mu.Unlock()
	if sugar != nil {
		_ = sugar.Sync()
	}
}
