// Package logging provides categorized structured logging for alterego.
// Every category is a named child of one process-wide zap logger, so a single
// Initialize call controls level, encoding and destination for all of them.
// Until Initialize runs, all helpers are no-ops.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Category represents a log category/system
type Category string

const (
	CategoryBoot    Category = "boot"    // Startup, config resolution
	CategoryAPI     Category = "api"     // Provider calls (chat completion, structured evaluation)
	CategoryChat    Category = "chat"    // Orchestrator state transitions
	CategoryPersona Category = "persona" // Persona context loading
	CategoryNotify  Category = "notify"  // Notification sink
	CategoryServer  Category = "server"  // Web chat surface
)

// Options mirrors config.LoggingConfig to avoid an import cycle.
type Options struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	File   string // optional; empty writes to stderr
}

var (
	mu      sync.RWMutex
	root    = zap.NewNop()
	loggers = make(map[Category]*zap.SugaredLogger)
)

// Initialize builds the process logger from opts and replaces any previous one.
func Initialize(opts Options) error {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return err
	}

	var cfg zap.Config
	switch strings.ToLower(opts.Format) {
	case "", "console", "text":
		cfg = zap.NewDevelopmentConfig()
		cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	case "json":
		cfg = zap.NewProductionConfig()
	default:
		return fmt.Errorf("unknown log format %q (valid: json, console)", opts.Format)
	}
	cfg.Level = zap.NewAtomicLevelAt(level)
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}

	if opts.File != "" {
		if err := os.MkdirAll(filepath.Dir(opts.File), 0755); err != nil {
			return fmt.Errorf("failed to create log directory: %w", err)
		}
		cfg.OutputPaths = []string{opts.File}
	}

	logger, err := cfg.Build()
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	Replace(logger)
	return nil
}

// ParseLevel maps a config level name onto a zap level. Empty means info.
func ParseLevel(name string) (zapcore.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return zapcore.DebugLevel, nil
	case "", "info":
		return zapcore.InfoLevel, nil
	case "warn", "warning":
		return zapcore.WarnLevel, nil
	case "error":
		return zapcore.ErrorLevel, nil
	}
	return zapcore.InfoLevel, fmt.Errorf("unknown log level %q", name)
}

// Replace swaps the process logger. Tests use it with an observer core.
func Replace(logger *zap.Logger) {
	if logger == nil {
		logger = zap.NewNop()
	}
	mu.Lock()
	defer mu.Unlock()
	root = logger
	loggers = make(map[Category]*zap.SugaredLogger)
}

// L returns the process logger for structured (field-based) logging.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return root
}

// Get returns the logger for a category.
func Get(category Category) *zap.SugaredLogger {
	mu.RLock()
	l, ok := loggers[category]
	mu.RUnlock()
	if ok {
		return l
	}

	mu.Lock()
	defer mu.Unlock()
	if l, ok := loggers[category]; ok {
		return l
	}
	l = root.Named(string(category)).Sugar()
	loggers[category] = l
	return l
}

// Sync flushes buffered entries. Errors from syncing stderr are ignored.
func Sync() {
	_ = L().Sync()
}

// =============================================================================
// Category helpers
// =============================================================================

func Boot(format string, args ...interface{})      { Get(CategoryBoot).Infof(format, args...) }
func BootDebug(format string, args ...interface{}) { Get(CategoryBoot).Debugf(format, args...) }
func BootWarn(format string, args ...interface{})  { Get(CategoryBoot).Warnf(format, args...) }
func BootError(format string, args ...interface{}) { Get(CategoryBoot).Errorf(format, args...) }

func API(format string, args ...interface{})      { Get(CategoryAPI).Infof(format, args...) }
func APIDebug(format string, args ...interface{}) { Get(CategoryAPI).Debugf(format, args...) }

func Chat(format string, args ...interface{})      { Get(CategoryChat).Infof(format, args...) }
func ChatDebug(format string, args ...interface{}) { Get(CategoryChat).Debugf(format, args...) }
func ChatWarn(format string, args ...interface{})  { Get(CategoryChat).Warnf(format, args...) }
func ChatError(format string, args ...interface{}) { Get(CategoryChat).Errorf(format, args...) }

func Persona(format string, args ...interface{})      { Get(CategoryPersona).Infof(format, args...) }
func PersonaDebug(format string, args ...interface{}) { Get(CategoryPersona).Debugf(format, args...) }
func PersonaWarn(format string, args ...interface{})  { Get(CategoryPersona).Warnf(format, args...) }

func Notify(format string, args ...interface{})      { Get(CategoryNotify).Infof(format, args...) }
func NotifyWarn(format string, args ...interface{})  { Get(CategoryNotify).Warnf(format, args...) }
func NotifyError(format string, args ...interface{}) { Get(CategoryNotify).Errorf(format, args...) }

func Server(format string, args ...interface{})      { Get(CategoryServer).Infof(format, args...) }
func ServerDebug(format string, args ...interface{}) { Get(CategoryServer).Debugf(format, args...) }
func ServerError(format string, args ...interface{}) { Get(CategoryServer).Errorf(format, args...) }
