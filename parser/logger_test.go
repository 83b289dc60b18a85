package parser

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestNopLogger(t *testing.T) {
	l := NopLogger{}
	// Should not panic
	l.Debug("test message", "key", "value")
	l.Info("test message", "key", "value")
	l.Warn("test message", "key", "value")
	l.Error("test message", "key", "value")

	if _, ok := l.With("key", "value").(NopLogger); !ok {
		t.Error("With should return NopLogger")
	}
}

func TestSlogAdapter(t *testing.T) {
	t.Run("NewSlogAdapter with nil uses default", func(t *testing.T) {
		adapter := NewSlogAdapter(nil)
		if adapter.logger == nil {
			t.Error("adapter.logger should not be nil")
		}
	})

	t.Run("levels and attributes reach the handler", func(t *testing.T) {
		var buf bytes.Buffer
		handler := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
		adapter := NewSlogAdapter(slog.New(handler))

		adapter.Debug("debug message", "ref", "#/definitions/Pet")
		adapter.Warn("warn message")
		out := buf.String()
		for _, want := range []string{"level=DEBUG", "debug message", "ref=#/definitions/Pet", "level=WARN", "warn message"} {
			if !strings.Contains(out, want) {
				t.Errorf("expected output to contain %q, got: %s", want, out)
			}
		}
	})

	t.Run("With prepends attributes", func(t *testing.T) {
		var buf bytes.Buffer
		adapter := NewSlogAdapter(slog.New(slog.NewTextHandler(&buf, nil)))

		adapter.With("component", "parser").Info("loaded")
		if !strings.Contains(buf.String(), "component=parser") {
			t.Errorf("expected component attribute, got: %s", buf.String())
		}
	})
}

func TestOrNop(t *testing.T) {
	if _, ok := OrNop(nil).(NopLogger); !ok {
		t.Error("OrNop(nil) should return NopLogger")
	}
	a := NewSlogAdapter(nil)
	if OrNop(a) != Logger(a) {
		t.Error("OrNop should return the given logger")
	}
}
