package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu     sync.RWMutex
	global = zap.NewNop()
)

type Options struct {
	// Level is one of debug, info, warn, error. Empty means info.
	Level string
	// File is the rolling log file. Empty disables the file sink.
	File string
	// Verbose mirrors log lines to stderr.
	Verbose bool
}

// Setup builds the process logger from opts and installs it as the
// global one returned by L.
func Setup(opts Options) (*zap.Logger, error) {
	level := zapcore.InfoLevel
	if opts.Level != "" {
		if err := level.UnmarshalText([]byte(opts.Level)); err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
		}
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	cores := []zapcore.Core{}
	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0o700); err != nil {
			return nil, fmt.Errorf("couldn't create log dir: %w", err)
		}
		sink := zapcore.AddSync(&lumberjack.Logger{
			Filename:   opts.File,
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     28,
		})
		cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), sink, level))
	}
	if opts.Verbose {
		cores = append(cores, zapcore.NewCore(
			zapcore.NewConsoleEncoder(encCfg),
			zapcore.Lock(os.Stderr),
			level,
		))
	}

	var l *zap.Logger
	if len(cores) == 0 {
		l = zap.NewNop()
	} else {
		l = zap.New(zapcore.NewTee(cores...))
	}
	Set(l)
	return l, nil
}

func Set(l *zap.Logger) {
	mu.Lock()
	defer mu.Unlock()
	global = l
}

// L returns the global logger. It is a no-op logger until Setup or Set
// is called.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return global
}

// Sync flushes the global logger, ignoring the errors stderr returns
// on some terminals.
func Sync() {
	_ = L().Sync()
}
