package domain

import (
	"context"
)

type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

// Field is a structured logging key/value pair
type Field struct {
	Key   string
	Value interface{}
}

// Logger is the logging contract used across all layers. The conversion core
// itself never logs; controllers and infrastructure services do.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...Field)
	Info(ctx context.Context, msg string, fields ...Field)
	Warn(ctx context.Context, msg string, fields ...Field)
	Error(ctx context.Context, msg string, fields ...Field)

	WithFields(fields ...Field) Logger
}

// LoggerFactory creates loggers bound to a named component
type LoggerFactory interface {
	CreateLogger(component string) Logger
}

func NewField(key string, value interface{}) Field {
	return Field{Key: key, Value: value}
}
