package log

import (
	"bytes"
	"log/slog"
	"strings"
	"testing"
)

func newCapturedLogger(component string) (*Logger, *bytes.Buffer) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.Component = component
	cfg.Handler = slog.NewTextHandler(&buf, nil)
	return New(cfg), &buf
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.Level != slog.LevelInfo {
		t.Errorf("Level = %v, want info", cfg.Level)
	}
	if cfg.Component != "app" {
		t.Errorf("Component = %q, want app", cfg.Component)
	}
}

func TestInfoCarriesComponent(t *testing.T) {
	logger, buf := newCapturedLogger("worker")
	logger.Info("Started", "port", "8082")

	out := buf.String()
	if !strings.Contains(out, "component=worker") {
		t.Errorf("output missing component attr: %q", out)
	}
	if !strings.Contains(out, "port=8082") {
		t.Errorf("output missing call attr: %q", out)
	}
}

func TestWithComponentRescopes(t *testing.T) {
	logger, buf := newCapturedLogger("app")
	logger.WithComponent("mirror").Info("Sync done")

	if out := buf.String(); !strings.Contains(out, "component=mirror") {
		t.Errorf("output missing rescoped component: %q", out)
	}
}
