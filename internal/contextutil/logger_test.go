package contextutil

import (
	"context"
	"io"
	"log/slog"
	"testing"
)

func TestLoggerFromContext(t *testing.T) {
	custom := slog.New(slog.NewTextHandler(io.Discard, nil))

	if got := LoggerFromContext(context.Background()); got != slog.Default() {
		t.Error("LoggerFromContext() without logger should return slog.Default()")
	}

	ctx := WithLogger(context.Background(), custom)
	if got := LoggerFromContext(ctx); got != custom {
		t.Error("LoggerFromContext() should return the logger stored by WithLogger")
	}

	wrongType := context.WithValue(context.Background(), loggerKey, "not a logger")
	if got := LoggerFromContext(wrongType); got != slog.Default() {
		t.Error("LoggerFromContext() with wrong value type should fall back to slog.Default()")
	}
}
