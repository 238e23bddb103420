package log

import (
	"context"
	"fmt"
	"sync"

	"github.com/davecgh/go-spew/spew"
	"github.com/fatih/color"
	"go.uber.org/zap"
)

const contextKeyRequestID = "request_id"

var (
	mu      sync.RWMutex
	jsonLog *zap.SugaredLogger
	debug   bool
)

// UseJSON switches output to structured JSON lines through zap. Console output is the default.
func UseJSON(enableDebug bool) error {
	cfg := zap.NewProductionConfig()
	if enableDebug {
		cfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	}
	logger, err := cfg.Build(zap.AddCallerSkip(2))
	if err != nil {
		return fmt.Errorf("build zap logger: %w", err)
	}
	mu.Lock()
	jsonLog = logger.Sugar()
	debug = enableDebug
	mu.Unlock()
	return nil
}

// SetDebug toggles Debug output for the console sink.
func SetDebug(enabled bool) {
	mu.Lock()
	debug = enabled
	mu.Unlock()
}

// Sync flushes buffered JSON entries. Safe to call when zap is not in use.
func Sync() {
	mu.RLock()
	l := jsonLog
	mu.RUnlock()
	if l != nil {
		_ = l.Sync()
	}
}

// WithRequestID adds request ID to context for logging
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, contextKeyRequestID, requestID)
}

// getRequestID retrieves request ID from context
func getRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(contextKeyRequestID).(string); ok {
		return id
	}
	return ""
}

// formatLog formats log message with optional request ID
func formatLog(level string, requestID string, format string, a ...interface{}) string {
	msg := fmt.Sprintf(format, a...)
	if requestID != "" {
		return fmt.Sprintf("[%s] [req_id=%s] %s", level, requestID, msg)
	}
	return fmt.Sprintf("[%s] %s", level, msg)
}

func sink() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return jsonLog
}

func emit(level string, requestID string, format string, a ...interface{}) {
	if l := sink(); l != nil {
		msg := fmt.Sprintf(format, a...)
		var kv []interface{}
		if requestID != "" {
			kv = append(kv, "request_id", requestID)
		}
		switch level {
		case "DEBUG":
			l.Debugw(msg, kv...)
		case "WARN":
			l.Warnw(msg, kv...)
		case "ERROR":
			l.Errorw(msg, kv...)
		default:
			l.Infow(msg, kv...)
		}
		return
	}

	var tag string
	switch level {
	case "DEBUG":
		tag = color.New(color.FgCyan).Sprint("[DEBUG]")
	case "WARN":
		tag = color.New(color.FgWhite, color.BgYellow).Sprint("[WARN] ")
	case "ERROR":
		tag = color.New(color.FgRed).Sprint("[Error]")
	default:
		tag = color.New(color.FgWhite, color.BgGreen).Sprint("[INFO] ")
	}
	if requestID != "" {
		fmt.Printf("%s %s\n", tag, formatLog(level, requestID, format, a...))
		return
	}
	fmt.Printf("%s ", tag)
	fmt.Printf(format, a...)
	fmt.Println()
}

// Info log information
func Info(format string, a ...interface{}) {
	emit("INFO", "", format, a...)
}

// InfoWithContext logs information with context (includes request ID if available)
func InfoWithContext(ctx context.Context, format string, a ...interface{}) {
	emit("INFO", getRequestID(ctx), format, a...)
}

// Warn log warning
func Warn(format string, a ...interface{}) {
	emit("WARN", "", format, a...)
}

// WarnWithContext logs warning with context (includes request ID if available)
func WarnWithContext(ctx context.Context, format string, a ...interface{}) {
	emit("WARN", getRequestID(ctx), format, a...)
}

// Error log error
func Error(format string, a ...interface{}) {
	emit("ERROR", "", format, a...)
}

// ErrorWithContext logs error with context (includes request ID if available)
func ErrorWithContext(ctx context.Context, format string, a ...interface{}) {
	emit("ERROR", getRequestID(ctx), format, a...)
}

// Debug only prints when debug output is enabled.
func Debug(format string, a ...interface{}) {
	mu.RLock()
	on := debug
	mu.RUnlock()
	if !on {
		return
	}
	emit("DEBUG", "", format, a...)
}

// Dump renders values for debug output.
func Dump(a ...interface{}) string {
	return spew.Sdump(a...)
}
