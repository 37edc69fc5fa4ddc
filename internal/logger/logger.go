// Package logger is squeal's process-wide structured log.
//
// Records go to a size-rotated JSON file. Warnings and errors are also kept in a small
// in-memory window so the workbench status bar can surface them without tailing the file.
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Level is the minimum severity written.
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

func (l Level) slog() slog.Level {
	switch l {
	case LevelDebug:
		return slog.LevelDebug
	case LevelWarn:
		return slog.LevelWarn
	case LevelError:
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// ParseLevel maps a config string onto a Level. Unknown names are LevelInfo.
func ParseLevel(s string) Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LevelDebug
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	default:
		return LevelInfo
	}
}

// Notice is a captured WARN or ERROR record.
type Notice struct {
	Time    time.Time
	Level   slog.Level
	Message string
}

// String renders the notice on one line.
func (n Notice) String() string {
	return fmt.Sprintf("%s %-5s %s", n.Time.Format("15:04:05"), n.Level.String(), n.Message)
}

// window keeps the most recent notices, oldest first.
type window struct {
	mu     sync.Mutex
	items  []Notice
	limit  int
	warns  int
	errors int
}

func (w *window) push(n Notice) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if len(w.items) == w.limit {
		copy(w.items, w.items[1:])
		w.items = w.items[:w.limit-1]
	}
	w.items = append(w.items, n)
	if n.Level >= slog.LevelError {
		w.errors++
	} else {
		w.warns++
	}
}

func (w *window) snapshot() []Notice {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]Notice(nil), w.items...)
}

func (w *window) counts() (int, int) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.warns, w.errors
}

func (w *window) reset() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warns, w.errors = 0, 0
}

// capture tees WARN+ records into a window.
type capture struct {
	slog.Handler
	win *window
}

func (h capture) Handle(ctx context.Context, r slog.Record) error {
	if r.Level >= slog.LevelWarn {
		h.win.push(Notice{Time: r.Time, Level: r.Level, Message: r.Message})
	}
	return h.Handler.Handle(ctx, r)
}

func (h capture) WithAttrs(attrs []slog.Attr) slog.Handler {
	return capture{Handler: h.Handler.WithAttrs(attrs), win: h.win}
}

func (h capture) WithGroup(name string) slog.Handler {
	return capture{Handler: h.Handler.WithGroup(name), win: h.win}
}

const noticeLimit = 50

var (
	mu      sync.RWMutex
	log     *slog.Logger
	rotator *lumberjack.Logger
	recent  = &window{limit: noticeLimit}
	level   = LevelInfo

	// Path is the file the logger writes to, empty until Init.
	Path string
)

// DefaultPath returns ~/.config/squeal/<name>.log.
func DefaultPath(name string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.TempDir()
	}
	return filepath.Join(home, ".config", "squeal", name+".log")
}

// Init points the global logger at a rotating file. An empty path uses DefaultPath("squeal").
func Init(lvl Level, path string) error {
	if path == "" {
		path = DefaultPath("squeal")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create log directory: %w", err)
	}

	w := &lumberjack.Logger{
		Filename:   path,
		MaxSize:    10, // MB
		MaxBackups: 3,
		MaxAge:     7, // days
		Compress:   true,
	}

	mu.Lock()
	if rotator != nil {
		_ = rotator.Close()
	}
	rotator = w
	Path = path
	mu.Unlock()

	InitWriter(lvl, w)
	return nil
}

// InitWriter sends JSON records to w. Tests use it to capture output.
func InitWriter(lvl Level, w io.Writer) {
	h := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl.slog()})
	l := slog.New(capture{Handler: h, win: &window{limit: noticeLimit}})

	mu.Lock()
	log = l
	level = lvl
	recent = l.Handler().(capture).win
	mu.Unlock()

	slog.SetDefault(l)
}

// Close flushes and closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()
	if rotator != nil {
		_ = rotator.Close()
		rotator = nil
	}
}

func current() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	if log == nil {
		return slog.Default()
	}
	return log
}

func Debug(msg string, args ...any) { current().Debug(msg, args...) }
func Info(msg string, args ...any)  { current().Info(msg, args...) }
func Warn(msg string, args ...any)  { current().Warn(msg, args...) }
func Error(msg string, args ...any) { current().Error(msg, args...) }

// With returns a child logger carrying args.
func With(args ...any) *slog.Logger {
	return current().With(args...)
}

// DebugEnabled reports whether debug records are written.
func DebugEnabled() bool {
	mu.RLock()
	defer mu.RUnlock()
	return level == LevelDebug
}

// Notices returns the retained WARN and ERROR records, oldest first.
func Notices() []Notice {
	mu.RLock()
	win := recent
	mu.RUnlock()
	return win.snapshot()
}

// Counts returns warnings and errors seen since the last ResetCounts.
func Counts() (warns, errors int) {
	mu.RLock()
	win := recent
	mu.RUnlock()
	return win.counts()
}

// ResetCounts zeroes the counters without dropping retained notices.
func ResetCounts() {
	mu.RLock()
	win := recent
	mu.RUnlock()
	win.reset()
}
