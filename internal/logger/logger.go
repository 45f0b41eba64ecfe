package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"strings"
	"sync"
)

// ********************************************************
// ********* LOGGING **************************************
// ********************************************************

type LogLevel int

const (
	colorReset   = "\033[0m"
	colorRed     = "\033[31m"
	colorGreen   = "\033[32m"
	colorYellow  = "\033[33m"
	colorBlue    = "\033[34m"
	colorMagenta = "\033[35m"
	colorCyan    = "\033[36m"
	colorOrange  = "\033[38;5;208m"
)

const (
	DEBUG LogLevel = iota
	INFO
	INFORM
	HIGHLIGHT
	WARN
	ERROR
	FATAL
)

// DefaultLogPath is where file output goes unless SetLogPath says otherwise
const DefaultLogPath = "/tmp/spiro.log"

type Logger struct {
	mu          sync.Mutex
	infoLogger  *log.Logger
	errorLogger *log.Logger
	level       LogLevel
	dateTime    bool
}

var (
	defaultLogger *Logger
	logFile       *os.File
	logPath       = DefaultLogPath
)

func init() {
	defaultLogger = NewLogger(INFO, os.Stderr, os.Stderr)
}

// NewLogger builds a logger writing below-ERROR messages to out and the rest to errOut.
// Console output goes to stderr by default since stdout may carry protocol traffic.
func NewLogger(level LogLevel, out, errOut io.Writer) *Logger {
	return &Logger{
		infoLogger:  log.New(out, "", 0),
		errorLogger: log.New(errOut, "", 0),
		level:       level,
	}
}

func (l *Logger) flags() int {
	if l.dateTime {
		return log.Ldate | log.Ltime
	}
	return 0
}

func (l *Logger) setWriters(out, errOut io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.infoLogger = log.New(out, "", l.flags())
	l.errorLogger = log.New(errOut, "", l.flags())
}

func SetShowDateTime(value bool) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.dateTime = value
	defaultLogger.infoLogger.SetFlags(defaultLogger.flags())
	defaultLogger.errorLogger.SetFlags(defaultLogger.flags())
}

// SetLevel sets the minimum level that is written
func SetLevel(level LogLevel) {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	defaultLogger.level = level
}

// GetLevel returns the current minimum level
func GetLevel() LogLevel {
	defaultLogger.mu.Lock()
	defer defaultLogger.mu.Unlock()
	return defaultLogger.level
}

// SetLogPath changes the file used by the 'f' and 'b' outputs.
// Takes effect on the next SetLogOutput call.
func SetLogPath(path string) {
	if path != "" {
		logPath = path
	}
}

// SetWriter points all output at w. Mostly useful in tests.
func SetWriter(w io.Writer) {
	closeLogFile()
	defaultLogger.setWriters(w, w)
}

// SetLogOutput sets the output destination for logs
// 'c' for console, 'f' for file, 'b' for both
func SetLogOutput(outputType rune) error {
	closeLogFile()

	switch outputType {
	case 'c':
		defaultLogger.setWriters(os.Stderr, os.Stderr)
	case 'f', 'b':
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		logFile = f
		if outputType == 'f' {
			defaultLogger.setWriters(f, f)
		} else {
			defaultLogger.setWriters(io.MultiWriter(os.Stderr, f), io.MultiWriter(os.Stderr, f))
		}
	default:
		return fmt.Errorf("invalid log output type: %c", outputType)
	}
	return nil
}

// Close releases the log file if one is open
func Close() {
	closeLogFile()
}

func closeLogFile() {
	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
}

func (l *Logger) log(level LogLevel, format string, v ...any) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	_, file, line, ok := runtime.Caller(2)
	if !ok {
		file = "unknown"
		line = 0
	}
	file = filepath.Base(file)

	msg := format
	var jsonObjects []string
	if len(v) > 0 {
		var primitives []string
		primitives, jsonObjects = processArgs(v...)
		if len(primitives) > 0 {
			msg = format + " " + strings.Join(primitives, " ")
		}
	}

	colorCode := level.color()
	out := l.infoLogger
	if level >= ERROR {
		out = l.errorLogger
	}

	// metadata uncoloured, message coloured
	out.Printf("[%s] %s:%d: %s%s%s", level, file, line, colorCode, msg, colorReset)
	for _, obj := range jsonObjects {
		out.Printf("[%s] %s:%d: %s%s%s", level, file, line, colorCode, obj, colorReset)
	}
}

func (l LogLevel) color() string {
	switch l {
	case DEBUG:
		return colorBlue
	case INFO:
		return colorGreen
	case INFORM:
		return colorMagenta
	case HIGHLIGHT:
		return colorCyan
	case WARN:
		return colorYellow
	case ERROR:
		return colorOrange
	case FATAL:
		return colorRed
	default:
		return colorReset
	}
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case INFORM:
		return "INFORM"
	case HIGHLIGHT:
		return "HIGHLIGHT"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	default:
		return "UNKNOWN"
	}
}

// processArgs splits arguments into inline strings for primitives and
// indented JSON documents for everything else
func processArgs(args ...any) ([]string, []string) {
	var primitives []string
	var jsonObjects []string

	for _, arg := range args {
		if isPrimitive(arg) {
			primitives = append(primitives, formatPrimitive(arg))
			continue
		}
		jsonBytes, err := json.MarshalIndent(arg, "", "  ")
		if err != nil {
			primitives = append(primitives, fmt.Sprintf("%v", arg))
			continue
		}
		primitives = append(primitives, fmt.Sprintf("[Object of type %s]", reflect.TypeOf(arg)))
		jsonObjects = append(jsonObjects, string(jsonBytes))
	}
	return primitives, jsonObjects
}

func formatPrimitive(arg any) string {
	switch v := arg.(type) {
	case float32:
		return fmt.Sprintf("%.2f", v)
	case float64:
		return fmt.Sprintf("%.2f", v)
	case string:
		return v
	case error:
		return v.Error()
	case nil:
		return "nil"
	default:
		return fmt.Sprintf("%v", v)
	}
}

func isPrimitive(v any) bool {
	if v == nil {
		return true
	}
	switch v.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64, error, fmt.Stringer:
		return true
	default:
		return false
	}
}

// Convenience methods using the default logger
func Debug(format string, v ...any) {
	defaultLogger.log(DEBUG, format, v...)
}

func Info(format string, v ...any) {
	defaultLogger.log(INFO, format, v...)
}

func Inform(format string, v ...any) {
	defaultLogger.log(INFORM, format, v...)
}

func Highlight(format string, v ...any) {
	defaultLogger.log(HIGHLIGHT, format, v...)
}

func Warn(format string, v ...any) {
	defaultLogger.log(WARN, format, v...)
}

func Error(format string, v ...any) {
	defaultLogger.log(ERROR, format, v...)
}

func Fatal(format string, v ...any) {
	defaultLogger.log(FATAL, format, v...)
	os.Exit(1)
}
