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
			t.Fatalf("%s: unexpected error: %v", env, err)
		}
		if l == nil {
			t.Fatalf("%s: nil logger", env)
		}
	}
}

func TestNewLogger_UnknownEnv(t *testing.T) {
	if _, err := NewLogger("staging", ""); err == nil {
		t.Fatal("expected error for unknown env")
	}
}

func TestNewLogger_LevelOverride(t *testing.T) {
	l, err := NewLogger("prod", "warn")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info should be disabled at warn level")
	}
	if !l.Core().Enabled(zapcore.WarnLevel) {
		t.Error("warn should be enabled")
	}

	if _, err := NewLogger("prod", "loud"); err == nil {
		t.Fatal("expected error for invalid level")
	}
}

func TestFromContext(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("FromContext must never return nil")
	}

	core, logs := observer.New(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), zap.New(core))
	FromContext(ctx).Info("hello")
	if logs.Len() != 1 {
		t.Fatalf("expected 1 log entry, got %d", logs.Len())
	}
}

func TestFromContextOr_Fallback(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	def := zap.New(core)

	FromContextOr(context.Background(), def).Info("fallback")
	if logs.Len() != 1 {
		t.Fatalf("expected fallback logger to be used")
	}
}
