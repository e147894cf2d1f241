package logger

import (
	"context"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_Environments(t *testing.T) {
	for _, env := range []string{"prod", "local", "dev", "docker"} {
		l, err := NewLogger(env, "")
		if err != nil {
			t.Errorf("NewLogger(%q): %v", env, err)
			continue
		}
		_ = l.Sync()
	}

	if _, err := NewLogger("staging", ""); err == nil {
		t.Error("expected error for unknown environment")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info must be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn must be enabled at warn level")
	}

	if _, err := NewLogger("local", "loud"); err == nil {
		t.Error("expected error for invalid level")
	}
}

func TestContextLogger(t *testing.T) {
	fallback := zap.NewExample()
	if got := FromContextOr(context.Background(), fallback); got != fallback {
		t.Error("expected fallback for empty context")
	}

	l := zap.NewExample()
	ctx := ContextWithLogger(context.Background(), l)
	if got := FromContext(ctx); got != l {
		t.Error("expected stored logger")
	}
}

func TestWithFields(t *testing.T) {
	bare := context.Background()
	if got := WithFields(bare, zap.String("session", "s1")); got != bare {
		t.Error("expected context without logger to be returned unchanged")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(bare, zap.New(core))
	ctx = WithFields(ctx, zap.String("session", "s1"))
	FromContext(ctx).Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if got := entries[0].ContextMap()["session"]; got != "s1" {
		t.Errorf("session field = %v, want s1", got)
	}
}
