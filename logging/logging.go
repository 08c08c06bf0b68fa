package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lixenwraith/void-fighter/config"
)

// rotationLayout suffixes a previous log file when a new session starts
const rotationLayout = "20060102-150405"

// Logger bundles the root logger with the file it writes to, if any
type Logger struct {
	zerolog.Logger
	file *os.File
}

// New builds the root logger from cfg. An empty file path writes
// human-readable lines to console; console may be nil to discard output,
// which the terminal front-end needs while it owns the screen
func New(cfg config.LogConfig, console io.Writer) (*Logger, error) {
	level, err := ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	var out io.Writer = io.Discard
	var file *os.File
	switch {
	case cfg.File != "":
		file, err = openRotated(cfg.File)
		if err != nil {
			return nil, err
		}
		out = file
	case console != nil:
		out = zerolog.ConsoleWriter{Out: console, TimeFormat: time.TimeOnly}
	}

	zl := zerolog.New(out).Level(level).With().Timestamp().Logger()
	return &Logger{Logger: zl, file: file}, nil
}

// Component returns a child logger tagged with the subsystem name
func (l *Logger) Component(name string) zerolog.Logger {
	return l.With().Str("component", name).Logger()
}

// Close flushes and releases the log file
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	if err := l.file.Sync(); err != nil {
		_ = l.file.Close()
		return err
	}
	return l.file.Close()
}

// ParseLevel accepts zerolog level names; empty means info
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(strings.ToLower(s))
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q: %w", s, err)
	}
	return level, nil
}

// openRotated moves an existing log aside with a timestamp suffix and
// opens a fresh file in its place
func openRotated(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}

	if info, err := os.Stat(path); err == nil && info.Size() > 0 {
		ext := filepath.Ext(path)
		base := strings.TrimSuffix(path, ext)
		rotated := fmt.Sprintf("%s.%s%s", base, info.ModTime().Format(rotationLayout), ext)
		if err := os.Rename(path, rotated); err != nil {
			return nil, fmt.Errorf("rotate log: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log: %w", err)
	}
	return f, nil
}
