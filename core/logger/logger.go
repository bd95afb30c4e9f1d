package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	ColorReset  = "\033[0m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorBlue   = "\033[34m"
	ColorPurple = "\033[35m"
	ColorCyan   = "\033[36m"
	ColorWhite  = "\033[37m"
	ColorGray   = "\033[90m"
)

const timestampLayout = "06-01-02 15:04:05"

type LogLevel int

const (
	DEBUG LogLevel = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
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

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case DEBUG:
		return zapcore.DebugLevel
	case INFO:
		return zapcore.InfoLevel
	case WARN:
		return zapcore.WarnLevel
	case ERROR:
		return zapcore.ErrorLevel
	default:
		return zapcore.FatalLevel
	}
}

func levelColor(level zapcore.Level) string {
	switch level {
	case zapcore.DebugLevel:
		return ColorGray
	case zapcore.InfoLevel:
		return ColorBlue
	case zapcore.WarnLevel:
		return ColorYellow
	case zapcore.ErrorLevel:
		return ColorRed
	case zapcore.FatalLevel:
		return ColorPurple
	default:
		return ColorWhite
	}
}

// ColoredLogger keeps one zap logger per level so each level can be routed
// to its own writer.
type ColoredLogger struct {
	verbose bool
	mu      sync.RWMutex
	writers map[LogLevel]zapcore.WriteSyncer
	loggers map[LogLevel]*zap.SugaredLogger
}

var globalLogger *ColoredLogger

func init() {
	globalLogger = &ColoredLogger{
		verbose: false,
		writers: make(map[LogLevel]zapcore.WriteSyncer),
		loggers: make(map[LogLevel]*zap.SugaredLogger),
	}

	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.setWriter(level, zapcore.Lock(os.Stdout))
	}
}

func encoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		TimeKey:    "ts",
		LevelKey:   "level",
		MessageKey: "msg",
		EncodeTime: func(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(fmt.Sprintf("%s[%s]%s", ColorGray, t.Format(timestampLayout), ColorReset))
		},
		EncodeLevel: func(l zapcore.Level, enc zapcore.PrimitiveArrayEncoder) {
			enc.AppendString(fmt.Sprintf("%s%-5s%s", levelColor(l), l.CapitalString(), ColorReset))
		},
		ConsoleSeparator: " ",
		LineEnding:       zapcore.DefaultLineEnding,
	}
}

// setWriter must be called with mu held (or during init).
func (cl *ColoredLogger) setWriter(level LogLevel, ws zapcore.WriteSyncer) {
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(encoderConfig()), ws, zapcore.DebugLevel)
	cl.writers[level] = ws
	cl.loggers[level] = zap.New(core).Sugar()
}

func SetVerbose(verbose bool) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.verbose = verbose
}

func IsVerbose() bool {
	globalLogger.mu.RLock()
	defer globalLogger.mu.RUnlock()
	return globalLogger.verbose
}

func SetWriter(level LogLevel, writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	globalLogger.setWriter(level, zapcore.AddSync(writer))
}

func SetWriterForAll(writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()
	ws := zapcore.AddSync(writer)
	for level := DEBUG; level <= FATAL; level++ {
		globalLogger.setWriter(level, ws)
	}
}

func AddWriter(level LogLevel, writer io.Writer) {
	globalLogger.mu.Lock()
	defer globalLogger.mu.Unlock()

	current := globalLogger.writers[level]
	globalLogger.setWriter(level, zapcore.NewMultiWriteSyncer(current, zapcore.AddSync(writer)))
}

func AddWriterForAll(writer io.Writer) {
	for level := DEBUG; level <= FATAL; level++ {
		AddWriter(level, writer)
	}
}

func SetErrorWriter() {
	SetWriter(ERROR, os.Stderr)
	SetWriter(FATAL, os.Stderr)
}

// Sync flushes every level's writer. Errors from syncing terminals are ignored.
func Sync() {
	globalLogger.mu.RLock()
	defer globalLogger.mu.RUnlock()
	for _, l := range globalLogger.loggers {
		_ = l.Sync()
	}
}

func (cl *ColoredLogger) log(level LogLevel, format string, args ...interface{}) {
	cl.mu.RLock()
	if level == DEBUG && !cl.verbose {
		cl.mu.RUnlock()
		return
	}

	l := cl.loggers[level]
	cl.mu.RUnlock()

	l.Logf(level.zapLevel(), format, args...)
}

func Debug(format string, args ...interface{}) {
	globalLogger.log(DEBUG, format, args...)
}

func Info(format string, args ...interface{}) {
	globalLogger.log(INFO, format, args...)
}

func Warn(format string, args ...interface{}) {
	globalLogger.log(WARN, format, args...)
}

func Error(format string, args ...interface{}) {
	globalLogger.log(ERROR, format, args...)
}

func Fatal(format string, args ...interface{}) {
	globalLogger.log(FATAL, format, args...)
}

func GetLogFromLevel(level LogLevel) func(format string, args ...interface{}) {
	return func(format string, args ...interface{}) {
		globalLogger.log(level, format, args...)
	}
}
