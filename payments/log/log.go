package log

import (
	"context"
	"fmt"
	"strings"
)

// Logger is the structured logger consumed by engine components.
type Logger interface {
	Log(ctx context.Context, level Level, msg string, fields ...Field)
	With(fields ...Field) Logger
	Enabled(level Level) bool
	Sync(ctx context.Context) error
}

// Level is the severity of a log entry. Lower values are more severe: a
// logger at LevelInfo emits errors, warnings and info but drops debug.
type Level uint8

const (
	LevelError Level = iota
	LevelWarn
	LevelInfo
	LevelDebug
)

var levelNames = [...]string{
	LevelError: "error",
	LevelWarn:  "warn",
	LevelInfo:  "info",
	LevelDebug: "debug",
}

func (level Level) String() string {
	if int(level) < len(levelNames) {
		return levelNames[level]
	}

	return "unknown"
}

// ParseLevel converts a level name, case-insensitive, into a Level.
// "warning" is accepted as an alias of "warn".
func ParseLevel(name string) (Level, error) {
	normalized := strings.ToLower(strings.TrimSpace(name))
	if normalized == "warning" {
		return LevelWarn, nil
	}

	for level, levelName := range levelNames {
		if levelName == normalized {
			return Level(level), nil
		}
	}

	return LevelError, fmt.Errorf("not a valid Level: %q", name)
}

// Field is a key/value attribute attached to a log event.
type Field struct {
	Key   string
	Value any
}

func String(key, value string) Field {
	return Field{Key: key, Value: value}
}

func Int(key string, value int) Field {
	return Field{Key: key, Value: value}
}

// Client is the conventional field for a client id.
func Client(id uint16) Field {
	return Field{Key: "client", Value: id}
}

// Tx is the conventional field for a transaction id.
func Tx(id uint32) Field {
	return Field{Key: "tx", Value: id}
}

// Err creates the conventional `error` field.
func Err(err error) Field {
	return Field{Key: "error", Value: err}
}

// SafeErr is Err for errors whose message may echo raw input. In production
// only the error type is kept.
func SafeErr(err error, production bool) Field {
	if production && err != nil {
		return Field{Key: "error_type", Value: fmt.Sprintf("%T", err)}
	}

	return Err(err)
}
