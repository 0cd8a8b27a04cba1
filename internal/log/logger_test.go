package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func TestWithComponentTagsLines(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelDebug, Component: "app", Output: &buf})

	l.WithComponent("store").Info("loaded", "sessions", 3)

	out := buf.String()
	if !strings.Contains(out, "component=store") {
		t.Fatalf("expected component=store in %q", out)
	}
	if !strings.Contains(out, "sessions=3") {
		t.Fatalf("expected sessions=3 in %q", out)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelWarn, Component: "app", Output: &buf})
	l.Info("hidden")
	if buf.Len() != 0 {
		t.Fatalf("info should be filtered at warn level, got %q", buf.String())
	}
	l.Warn("shown")
	if !strings.Contains(buf.String(), "shown") {
		t.Fatalf("warn should pass, got %q", buf.String())
	}
}

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		if got := ParseLevel(in); got != want {
			t.Fatalf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestWithComponentReplacesComponent(t *testing.T) {
	var buf bytes.Buffer
	l := New(Config{Level: slog.LevelInfo, Component: "app", Output: &buf})

	l.With("backend", "json").WithComponent("store").Info("ready")

	out := buf.String()
	if strings.Contains(out, "component=app") {
		t.Fatalf("old component leaked into %q", out)
	}
	if !strings.Contains(out, "backend=json") || !strings.Contains(out, "component=store") {
		t.Fatalf("missing attributes in %q", out)
	}
}
