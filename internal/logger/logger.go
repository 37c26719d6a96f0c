package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

// GinStyleFormatter renders entries as "[timestamp] LEVEL | message key=value".
type GinStyleFormatter struct {
	DisableColors bool
}

func (f *GinStyleFormatter) Format(entry *log.Entry) ([]byte, error) {
	levelColor := "\033[37m" // Default white
	resetColor := "\033[0m"

	switch entry.Level {
	case log.InfoLevel:
		levelColor = "\033[32m" // Green
	case log.WarnLevel:
		levelColor = "\033[33m" // Yellow
	case log.ErrorLevel, log.FatalLevel, log.PanicLevel:
		levelColor = "\033[31m" // Red
	case log.DebugLevel, log.TraceLevel:
		levelColor = "\033[36m" // Cyan
	}
	if f.DisableColors {
		levelColor, resetColor = "", ""
	}

	timestamp := entry.Time.Format("2006/01/02 - 15:04:05")
	level := fmt.Sprintf("% -5s", strings.ToUpper(entry.Level.String()))

	var b strings.Builder
	fmt.Fprintf(&b, "%s[%s] %s%s | %s", levelColor, timestamp, level, resetColor, entry.Message)

	keys := make([]string, 0, len(entry.Data))
	for k := range entry.Data {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&b, " %s=%v", k, entry.Data[k])
	}
	b.WriteByte('\n')
	return []byte(b.String()), nil
}

// Options selects level, format and destination of the process logger.
type Options struct {
	Level  string
	Format string // "text" or "json"
	File   string // optional, written in addition to Output
	Output io.Writer
}

func init() {
	// stdout is reserved for the stdio transport.
	log.SetOutput(os.Stderr)
	log.SetFormatter(&GinStyleFormatter{})
	log.SetReportCaller(false)
	log.SetLevel(log.InfoLevel)
}

// Setup configures the global logrus logger. The returned function closes
// the log file, if one was opened.
func Setup(opts Options) (func() error, error) {
	level, err := log.ParseLevel(defaultString(opts.Level, "info"))
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", opts.Level, err)
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}
	closeFn := func() error { return nil }
	toFile := false

	if opts.File != "" {
		f, err := os.OpenFile(opts.File, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		out = io.MultiWriter(out, f)
		closeFn = f.Close
		toFile = true
	}

	switch strings.ToLower(defaultString(opts.Format, "text")) {
	case "text":
		log.SetFormatter(&GinStyleFormatter{DisableColors: toFile})
	case "json":
		log.SetFormatter(&log.JSONFormatter{TimestampFormat: time.RFC3339Nano})
	default:
		_ = closeFn()
		return nil, fmt.Errorf("invalid log format %q", opts.Format)
	}

	log.SetOutput(out)
	log.SetLevel(level)
	return closeFn, nil
}

// Message logs one MCP protocol event. Errors are logged at error level,
// everything else at debug.
func Message(method, direction string, fields log.Fields) {
	entry := log.WithFields(fields).WithFields(log.Fields{
		"mcp_method": method,
		"direction":  direction,
	})
	if direction == "error" {
		entry.Error("MCP " + method + " " + direction)
		return
	}
	entry.Debug("MCP " + method + " " + direction)
}

// Timed logs how long an operation took once the returned func is called.
//
//	defer logger.Timed("list_tools")()
func Timed(operation string) func() {
	start := time.Now()
	return func() {
		log.WithFields(log.Fields{
			"operation":   operation,
			"duration_ms": float64(time.Since(start).Microseconds()) / 1000,
		}).Debug("operation completed")
	}
}

func defaultString(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
