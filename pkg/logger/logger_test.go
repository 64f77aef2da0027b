package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	l, err := New("debug", false)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if !l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("debug level should be enabled")
	}

	l, err = New("warn", true)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	if l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info level should be disabled at warn")
	}
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	if _, err := New("loud", false); err == nil {
		t.Fatal("expected error")
	}
}

func TestNamedNilBase(t *testing.T) {
	if Named(nil, "svc") == nil {
		t.Fatal("expected a no-op logger")
	}
}
