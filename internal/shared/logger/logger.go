package logger

import (
	"context"
	"io"
	"os"
	"strings"

	"welfare-cms/internal/shared/contextkeys"

	"github.com/sirupsen/logrus"
)

const (
	logFormatJSON = "json"

	envProduction = "production"
	envProd       = "prod"

	driverZap = "zap"

	timestampFormat = "2006-01-02T15:04:05.000Z07:00"
	textTimestamp   = "2006-01-02 15:04:05"
)

// Logger defines the interface for structured logging operations
type Logger interface {
	Debug(args ...interface{})
	Info(args ...interface{})
	Warn(args ...interface{})
	Error(args ...interface{})
	Fatal(args ...interface{})
	Debugf(format string, args ...interface{})
	Infof(format string, args ...interface{})
	Warnf(format string, args ...interface{})
	Errorf(format string, args ...interface{})
	Fatalf(format string, args ...interface{})
	WithFields(fields map[string]interface{}) Logger
	WithContext(ctx context.Context) Logger
	WithComponent(component string) Logger
}

// contextFields maps context keys to the field names they are logged under.
var contextFields = []struct {
	key  interface{}
	name string
}{
	{contextkeys.RequestIDKey, "request_id"},
	{contextkeys.AdminUserKey, "admin_user"},
	{contextkeys.ComponentKey, "component"},
	{contextkeys.OperationKey, "operation"},
	{contextkeys.DomainKey, "domain"},
}

func fieldsFromContext(ctx context.Context) map[string]interface{} {
	fields := make(map[string]interface{})
	if ctx == nil {
		return fields
	}
	for _, cf := range contextFields {
		if val, ok := ctx.Value(cf.key).(string); ok && val != "" {
			fields[cf.name] = val
		}
	}
	return fields
}

// LogrusLogger implements the Logger interface using logrus
type LogrusLogger struct {
	entry *logrus.Entry
}

// New returns the logger selected by LOG_DRIVER (logrus unless set to "zap").
func New() Logger {
	if strings.EqualFold(os.Getenv("LOG_DRIVER"), driverZap) {
		return NewZapLogger(os.Getenv("LOG_LEVEL"), isJSON())
	}
	return NewLogger()
}

// NewLogger creates a new logrus logger configured from the environment
func NewLogger() Logger {
	return newLogrus(os.Stdout, getLogLevel(os.Getenv("LOG_LEVEL")), getLogFormatter(isJSON()))
}

// NewLoggerWithConfig creates a logrus logger with an explicit level and format
func NewLoggerWithConfig(level string, format string) Logger {
	return newLogrus(os.Stdout, getLogLevel(level), getLogFormatter(format == logFormatJSON))
}

// NewLoggerWithWriter is used by tests to capture output.
func NewLoggerWithWriter(w io.Writer, level string) Logger {
	return newLogrus(w, getLogLevel(level), getLogFormatter(true))
}

func newLogrus(w io.Writer, level logrus.Level, formatter logrus.Formatter) Logger {
	l := logrus.New()
	l.SetLevel(level)
	l.SetFormatter(formatter)
	l.SetOutput(w)
	return &LogrusLogger{entry: logrus.NewEntry(l)}
}

func (l *LogrusLogger) Debug(args ...interface{}) { l.entry.Debug(args...) }
func (l *LogrusLogger) Info(args ...interface{}) { l.entry.Info(args...) }
func (l *LogrusLogger) Warn(args ...interface{}) { l.entry.Warn(args...) }
func (l *LogrusLogger) Error(args ...interface{}) { l.entry.Error(args...) }
func (l *LogrusLogger) Fatal(args ...interface{}) { l.entry.Fatal(args...) }

func (l *LogrusLogger) Debugf(format string, args ...interface{}) { l.entry.Debugf(format, args...) }
func (l *LogrusLogger) Infof(format string, args ...interface{}) { l.entry.Infof(format, args...) }
func (l *LogrusLogger) Warnf(format string, args ...interface{}) { l.entry.Warnf(format, args...) }
func (l *LogrusLogger) Errorf(format string, args ...interface{}) { l.entry.Errorf(format, args...) }
func (l *LogrusLogger) Fatalf(format string, args ...interface{}) { l.entry.Fatalf(format, args...) }

// WithFields adds structured fields to the logger
func (l *LogrusLogger) WithFields(fields map[string]interface{}) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(logrus.Fields(fields))}
}

// WithContext adds request scoped values (request id, admin user, ...) to the logger
func (l *LogrusLogger) WithContext(ctx context.Context) Logger {
	return &LogrusLogger{entry: l.entry.WithFields(logrus.Fields(fieldsFromContext(ctx)))}
}

// WithComponent adds component name to the logger
func (l *LogrusLogger) WithComponent(component string) Logger {
	return &LogrusLogger{entry: l.entry.WithField("component", component)}
}

func isJSON() bool {
	env := os.Getenv("ENVIRONMENT")
	return os.Getenv("LOG_FORMAT") == logFormatJSON || env == envProduction || env == envProd
}

func getLogLevel(level string) logrus.Level {
	switch strings.ToLower(level) {
	case "debug":
		return logrus.DebugLevel
	case "warn", "warning":
		return logrus.WarnLevel
	case "error":
		return logrus.ErrorLevel
	case "fatal":
		return logrus.FatalLevel
	default:
		return logrus.InfoLevel
	}
}

func getLogFormatter(json bool) logrus.Formatter {
	if json {
		return &logrus.JSONFormatter{
			TimestampFormat: timestampFormat,
			FieldMap: logrus.FieldMap{
				logrus.FieldKeyTime:  "timestamp",
				logrus.FieldKeyLevel: "level",
				logrus.FieldKeyMsg:   "message",
			},
		}
	}
	return &logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: textTimestamp,
	}
}

var defaultLogger = New()

// SetDefault replaces the package-level logger.
func SetDefault(l Logger) {
	if l != nil {
		defaultLogger = l
	}
}

// Default returns the package-level logger.
func Default() Logger { return defaultLogger }

func Info(args ...interface{}) { defaultLogger.Info(args...) }
func Warn(args ...interface{}) { defaultLogger.Warn(args...) }
func Error(args ...interface{}) { defaultLogger.Error(args...) }
func Infof(format string, args ...interface{}) { defaultLogger.Infof(format, args...) }
func Warnf(format string, args ...interface{}) { defaultLogger.Warnf(format, args...) }
func Errorf(format string, args ...interface{}) { defaultLogger.Errorf(format, args...) }
func Fatalf(format string, args ...interface{}) { defaultLogger.Fatalf(format, args...) }

// WithComponent creates a logger with component information
func WithComponent(component string) Logger {
	return defaultLogger.WithComponent(component)
}

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

type nopLogger struct{}

func (nopLogger) Debug(args ...interface{}) {}
func (nopLogger) Info(args ...interface{}) {}
func (nopLogger) Warn(args ...interface{}) {}
func (nopLogger) Error(args ...interface{}) {}
func (nopLogger) Fatal(args ...interface{}) {}
func (nopLogger) Debugf(format string, args ...interface{}) {}
func (nopLogger) Infof(format string, args ...interface{}) {}
func (nopLogger) Warnf(format string, args ...interface{}) {}
func (nopLogger) Errorf(format string, args ...interface{}) {}
func (nopLogger) Fatalf(format string, args ...interface{}) {}
func (n nopLogger) WithFields(map[string]interface{}) Logger { return n }
func (n nopLogger) WithContext(context.Context) Logger { return n }
func (n nopLogger) WithComponent(string) Logger { return n }
