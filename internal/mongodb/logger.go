package mongodb

import (
	"go.mongodb.org/mongo-driver/mongo/options"
	"log/slog"
	"strings"
)

// Logger routes driver log records into slog under the "mongo" group.
type Logger struct {
	l *slog.Logger
}

func NewSlogDriverLogger() *Logger {
	return &Logger{
		l: slog.Default().WithGroup("mongo"),
	}
}

// Info receives 0 for info and 1 for debug records.
func (l *Logger) Info(level int, msg string, keysAndValues ...interface{}) {
	if level > 0 {
		l.l.Debug(msg, keysAndValues...)
		return
	}
	l.l.Info(msg, keysAndValues...)
}

func (l *Logger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.l.Warn(msg, append(keysAndValues, "reason", err)...)
}

// loggerOptions enables driver logging for topology, server selection and
// connection events at the given level ("info" or "debug"). Anything else
// keeps the driver quiet.
func loggerOptions(level string) *options.LoggerOptions {
	var lvl options.LogLevel
	switch strings.ToLower(level) {
	case "info":
		lvl = options.LogLevelInfo
	case "debug":
		lvl = options.LogLevelDebug
	default:
		return nil
	}

	return options.Logger().
		SetSink(NewSlogDriverLogger()).
		SetComponentLevel(options.LogComponentTopology, lvl).
		SetComponentLevel(options.LogComponentServerSelection, lvl).
		SetComponentLevel(options.LogComponentConnection, lvl)
}
