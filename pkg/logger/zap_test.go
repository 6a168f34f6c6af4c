package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestToZapLevel(t *testing.T) {
	for _, tc := range []struct {
		in   string
		want zapcore.Level
	}{
		{"debug", zapcore.DebugLevel},
		{"WARN", zapcore.WarnLevel},
		{"error", zapcore.ErrorLevel},
		{"nonsense", zapcore.InfoLevel},
		{"", zapcore.InfoLevel},
	} {
		if got := toZapLevel(tc.in); got != tc.want {
			t.Errorf("toZapLevel(%q) = %v, want = %v", tc.in, got, tc.want)
		}
	}
}

func TestZapLoggerKeysAndValues(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewZapLoggerFrom(zap.New(core))

	l.Info("tile fetched", "z", 3, "x", 1, "y", 2)

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("got %d entries, want 1", len(entries))
	}
	ctx := entries[0].ContextMap()
	if got, want := ctx["z"], int64(3); got != want {
		t.Errorf("z = %v, want = %v", got, want)
	}
}

func TestFromContext(t *testing.T) {
	if _, ok := FromContext(context.Background()).(*noOpLogger); !ok {
		t.Errorf("FromContext(empty) is not a no-op logger")
	}

	l := NewZapLoggerFrom(zap.NewNop())
	ctx := WithLogger(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Errorf("FromContext returned %v, want %v", got, l)
	}
}
