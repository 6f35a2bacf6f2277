package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"info", slog.LevelInfo},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.input); got != tt.expected {
			t.Errorf("ParseLevel(%q) = %v, expected %v", tt.input, got, tt.expected)
		}
	}
}

func TestSetupJSON(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	logger := Setup("warn", "json", &buf)
	logger.Info("hidden")
	logger.Warn("shown", "k", "v")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info entry written at warn level: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"k":"v"`) {
		t.Errorf("unexpected JSON output: %s", out)
	}
}

func TestFromContextAddsJobID(t *testing.T) {
	var buf bytes.Buffer
	base := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithJob(context.Background(), "job-42")
	if JobID(ctx) != "job-42" {
		t.Fatalf("JobID = %q, expected job-42", JobID(ctx))
	}
	FromContext(ctx, base).Info("hello")
	if !strings.Contains(buf.String(), "job_id=job-42") {
		t.Errorf("expected job_id in output, got %s", buf.String())
	}

	buf.Reset()
	FromContext(context.Background(), base).Info("plain")
	if strings.Contains(buf.String(), "job_id") {
		t.Errorf("unexpected job_id in output: %s", buf.String())
	}
}
