package zap

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	ubzap "go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/theory-cloud/pdfsite/pkg/observability"
)

func TestZapLogger_SanitizesMessageAndFields(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	base := ubzap.New(core)

	logger, err := NewZapLogger(observability.LoggerConfig{}, WithZapLogger(base))
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}

	logger.Info("hello\r\nworld", map[string]any{
		"aws_secret_access_key": "wJalrXUtnFEMI",
		"domain":                "www.example.com\r\n",
	})

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Message != "helloworld" {
		t.Fatalf("expected sanitized message, got %q", entries[0].Message)
	}
	ctx := entries[0].ContextMap()
	if ctx["aws_secret_access_key"] != "[REDACTED]" {
		t.Fatalf("expected secret redacted, got %#v", ctx["aws_secret_access_key"])
	}
	if ctx["domain"] != "www.example.com" {
		t.Fatalf("expected domain sanitized, got %#v", ctx["domain"])
	}
}

func TestZapLogger_RunAndStackScope(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger, err := NewZapLogger(observability.LoggerConfig{}, WithZapLogger(ubzap.New(core)))
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}

	scoped := logger.WithRunID("01HZX").WithStack("PdfSite-live").WithFields(map[string]any{"region": "us-east-1"})
	scoped.Warn("certificate stack split")

	entries := observed.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	ctx := entries[0].ContextMap()
	if ctx["run_id"] != "01HZX" || ctx["stack"] != "PdfSite-live" || ctx["region"] != "us-east-1" {
		t.Fatalf("unexpected scope fields: %#v", ctx)
	}
	if entries[0].Level != zapcore.WarnLevel {
		t.Fatalf("expected warn level, got %v", entries[0].Level)
	}
}

func TestZapLogger_JSONOutputToWriter(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZapLogger(observability.LoggerConfig{Format: "json", Level: "debug"}, WithOutput(&buf))
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}

	logger.Debug("plan", map[string]any{"resources": 7})
	if err := logger.Flush(context.Background()); err != nil {
		t.Fatalf("Flush: %v", err)
	}

	line := strings.TrimSpace(buf.String())
	var decoded map[string]any
	if err := json.Unmarshal([]byte(line), &decoded); err != nil {
		t.Fatalf("expected JSON line, got %q: %v", line, err)
	}
	if decoded["message"] != "plan" || decoded["level"] != "debug" {
		t.Fatalf("unexpected entry: %#v", decoded)
	}
	if decoded["resources"] != float64(7) {
		t.Fatalf("expected resources=7, got %#v", decoded["resources"])
	}
	if logger.GetStats().EntriesLogged != 1 {
		t.Fatalf("expected one entry logged, got %#v", logger.GetStats())
	}
}

func TestZapLogger_LevelFiltersOutput(t *testing.T) {
	var buf bytes.Buffer
	logger, err := NewZapLogger(observability.LoggerConfig{Format: "console", Level: "warn"}, WithOutput(&buf))
	if err != nil {
		t.Fatalf("NewZapLogger: %v", err)
	}

	logger.Info("hidden")
	logger.Error("shown")
	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}
