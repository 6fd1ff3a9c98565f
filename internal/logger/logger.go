// Package logger sets up the daemon's structured logger: JSON lines to
// stdout and to a daily-rotated file under the data directory's logs/
// subdirectory, retained for 7 days (spec.md §6).
package logger

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

var Log *slog.Logger

const retainDays = 7

// rotatingFile writes to the file for the current day, reopening it at
// midnight. slog.Handler may call Write from multiple goroutines.
type rotatingFile struct {
	dir string
	mu  sync.Mutex
	day string
	f   *os.File
}

func newRotatingFile(dir string) *rotatingFile {
	return &rotatingFile{dir: dir}
}

func (r *rotatingFile) Write(p []byte) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	day := time.Now().Format("2006-01-02")
	if r.f == nil || day != r.day {
		if r.f != nil {
			r.f.Close()
		}
		path := filepath.Join(r.dir, day+".log")
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return 0, err
		}
		r.f = f
		r.day = day
		pruneOldLogs(r.dir, retainDays)
	}
	return r.f.Write(p)
}

// pruneOldLogs deletes daily log files older than keepDays.
func pruneOldLogs(dir string, keepDays int) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}
	cutoff := time.Now().AddDate(0, 0, -keepDays)
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".log") {
			continue
		}
		day := strings.TrimSuffix(e.Name(), ".log")
		t, err := time.Parse("2006-01-02", day)
		if err != nil {
			continue
		}
		if t.Before(cutoff) {
			os.Remove(filepath.Join(dir, e.Name()))
		}
	}
}

// Init initializes the global logger. logsDir may be empty to log only to stdout.
func Init(level string, logsDir string) error {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	writers := []io.Writer{os.Stdout}

	if logsDir != "" {
		if err := os.MkdirAll(logsDir, 0755); err != nil {
			return err
		}
		writers = append(writers, newRotatingFile(logsDir))
	}

	handler := slog.NewJSONHandler(io.MultiWriter(writers...), &slog.HandlerOptions{
		Level: logLevel,
	})

	Log = slog.New(handler)
	slog.SetDefault(Log)

	return nil
}

func Debug(msg string, args ...any) { Log.Debug(msg, args...) }
func Info(msg string, args ...any)  { Log.Info(msg, args...) }
func Warn(msg string, args ...any)  { Log.Warn(msg, args...) }
func Error(msg string, args ...any) { Log.Error(msg, args...) }
