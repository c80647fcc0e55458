package log

import "context"

// NopLogger discards every event. It is the default for components built
// without a logger.
type NopLogger struct{}

func NewNop() Logger {
	return &NopLogger{}
}

func (l *NopLogger) Log(context.Context, Level, string, ...Field) {}

//nolint:ireturn
func (l *NopLogger) With(...Field) Logger { return l }

func (l *NopLogger) Enabled(Level) bool { return false }

func (l *NopLogger) Sync(context.Context) error { return nil }
