package logging

import (
	"context"
	"io"
	"os"
	"sort"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds logger settings
type Config struct {
	// Path is the log file path; empty writes to Writer instead
	Path string
	// Format is the output format (json or text)
	Format Format
	// Level is the minimum log level
	Level Level
	// MaxSize is the maximum size in bytes before rotation (0 = no rotation)
	MaxSize int64
	// MaxBackups is the maximum number of backup files to keep
	MaxBackups int
	// Writer receives log lines when Path is empty (defaults to stderr)
	Writer io.Writer
}

// ZapLogger implements Logger on top of a zap core
type ZapLogger struct {
	base  *zap.Logger
	file  *rotatingFile
	child bool
}

// New creates a zap-backed logger writing to a rotated file or a writer
func New(cfg Config) (*ZapLogger, error) {
	var (
		sink zapcore.WriteSyncer
		file *rotatingFile
	)

	if cfg.Path != "" {
		f, err := openRotatingFile(cfg.Path, cfg.MaxSize, cfg.MaxBackups)
		if err != nil {
			return nil, err
		}
		file = f
		sink = f
	} else {
		w := cfg.Writer
		if w == nil {
			w = os.Stderr
		}
		sink = zapcore.AddSync(w)
	}

	encCfg := zapcore.EncoderConfig{
		TimeKey:        "timestamp",
		LevelKey:       "level",
		MessageKey:     "message",
		NameKey:        "logger",
		StacktraceKey:  "",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
	}

	var enc zapcore.Encoder
	if cfg.Format == FormatJSON {
		enc = zapcore.NewJSONEncoder(encCfg)
	} else {
		enc = zapcore.NewConsoleEncoder(encCfg)
	}

	core := zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(cfg.Level.zapLevel()))

	return &ZapLogger{
		base: zap.New(core),
		file: file,
	}, nil
}

// Debug logs a debug message
func (l *ZapLogger) Debug(ctx context.Context, msg string, fields Fields) {
	l.base.Debug(msg, zapFields(fields)...)
}

// Info logs an info message
func (l *ZapLogger) Info(ctx context.Context, msg string, fields Fields) {
	l.base.Info(msg, zapFields(fields)...)
}

// Warn logs a warning message
func (l *ZapLogger) Warn(ctx context.Context, msg string, fields Fields) {
	l.base.Warn(msg, zapFields(fields)...)
}

// Error logs an error message
func (l *ZapLogger) Error(ctx context.Context, msg string, err error, fields Fields) {
	zf := zapFields(fields)
	if err != nil {
		zf = append(zf, zap.Error(err))
	}
	l.base.Error(msg, zf...)
}

// WithFields returns a logger with additional fields.
// Closing the child only flushes; the parent owns the file.
func (l *ZapLogger) WithFields(fields Fields) Logger {
	return &ZapLogger{
		base:  l.base.With(zapFields(fields)...),
		file:  l.file,
		child: true,
	}
}

// Close flushes and closes the logger
func (l *ZapLogger) Close() error {
	// Sync on stderr returns EINVAL/ENOTTY on some platforms; ignore it
	_ = l.base.Sync()
	if l.child || l.file == nil {
		return nil
	}
	return l.file.Close()
}

// zapFields converts Fields in key order so output is stable
func zapFields(fields Fields) []zap.Field {
	if len(fields) == 0 {
		return nil
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := make([]zap.Field, 0, len(keys))
	for _, k := range keys {
		out = append(out, zap.Any(k, fields[k]))
	}
	return out
}
