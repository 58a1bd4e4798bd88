package logger

import (
	"log/slog"
	"os"
	"sync"
)

var (
	log  *slog.Logger
	once sync.Once
)

// Init sets up the global JSON logger. Safe to call more than once.
func Init() {
	once.Do(func() {
		log = slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
		slog.SetDefault(log)
	})
}

func get() *slog.Logger {
	if log == nil {
		Init()
	}
	return log
}

// Info logs at info level with optional key-value pairs.
func Info(msg string, args ...any) {
	get().Info(msg, args...)
}

// Warn logs at warn level with optional key-value pairs.
func Warn(msg string, args ...any) {
	get().Warn(msg, args...)
}

// Error logs at error level. The first arg may be an error or key-value pairs.
func Error(msg string, args ...any) {
	if len(args) == 1 {
		if err, ok := args[0].(error); ok {
			get().Error(msg, "error", err)
			return
		}
	}
	get().Error(msg, args...)
}
