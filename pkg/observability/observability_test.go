package observability

import (
	"context"
	"testing"
)

func TestNewNoOpLogger(t *testing.T) {
	logger := NewNoOpLogger()
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	if !logger.IsHealthy() {
		t.Fatal("expected noop logger to be healthy")
	}
	if logger.WithRunID("r").WithStack("s").WithField("k", "v") != logger {
		t.Fatal("expected noop With* calls to return the same logger")
	}
	if err := logger.Flush(context.Background()); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
}

func TestTestLogger_Basics(t *testing.T) {
	logger := NewTestLogger()
	if !logger.IsHealthy() {
		t.Fatal("expected healthy test logger")
	}

	logger2 := logger.WithRunID("run_1").WithStack("PdfSite").WithField("k", "v")
	logger2.Info("stack declared", map[string]any{"x": "y"})

	entries := logger.Entries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 entry, got %d", len(entries))
	}
	if entries[0].Level != "info" || entries[0].Message != "stack declared" {
		t.Fatalf("unexpected entry: %#v", entries[0])
	}
	if entries[0].RunID != "run_1" || entries[0].Stack != "PdfSite" {
		t.Fatalf("unexpected run/stack scope: %#v", entries[0])
	}
	if entries[0].Fields["k"] != "v" || entries[0].Fields["x"] != "y" {
		t.Fatalf("expected fields to be present, got %#v", entries[0].Fields)
	}

	stats := logger.GetStats()
	if stats.EntriesLogged != 1 {
		t.Fatalf("expected EntriesLogged=1, got %d", stats.EntriesLogged)
	}
	if !stats.LastFlush.IsZero() {
		t.Fatalf("expected zero LastFlush before Flush, got %v", stats.LastFlush)
	}
	if err := logger.Flush(context.Background()); err != nil {
		t.Fatalf("Flush returned error: %v", err)
	}
	stats = logger.GetStats()
	if stats.FlushCount != 1 || stats.LastFlush.IsZero() {
		t.Fatalf("unexpected stats after flush: %#v", stats)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("Close returned error: %v", err)
	}
	if logger.IsHealthy() || logger2.IsHealthy() {
		t.Fatal("expected logger and derived loggers to be unhealthy after close")
	}
	logger2.Info("dropped")
	if len(logger.Entries()) != 1 {
		t.Fatal("expected no entries after close")
	}
}

func TestTestLogger_SanitizesMessageAndFields(t *testing.T) {
	logger := NewTestLogger()
	logger.Warn("line\r\nbreak", map[string]any{"aws_session_token": "abc", "region": "us-east-1"})

	entries := logger.Entries()
	if entries[0].Message != "linebreak" {
		t.Fatalf("expected sanitized message, got %q", entries[0].Message)
	}
	if entries[0].Fields["aws_session_token"] != "[REDACTED]" {
		t.Fatalf("expected token redacted, got %#v", entries[0].Fields)
	}
	if entries[0].Fields["region"] != "us-east-1" {
		t.Fatalf("expected region preserved, got %#v", entries[0].Fields)
	}
	if got := logger.Messages(); len(got) != 1 || got[0] != "linebreak" {
		t.Fatalf("unexpected messages: %#v", got)
	}
}

func TestTestLogger_FlushHonorsContextCancel(t *testing.T) {
	logger := NewTestLogger()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := logger.Flush(ctx); err == nil {
		t.Fatal("expected error for canceled context")
	}
}
