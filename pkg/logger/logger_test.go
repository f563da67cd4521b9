package logger

import (
	"testing"

	"github.com/theory-cloud/pdfsite/pkg/observability"
)

func TestLogger_DefaultIsNoOp(t *testing.T) {
	got := Logger()
	if got == nil {
		t.Fatal("expected Logger() to return a non-nil logger")
	}
	if !got.IsHealthy() {
		t.Fatal("expected default logger to be healthy")
	}
}

func TestLogger_SetLogger(t *testing.T) {
	stub := observability.NewTestLogger()
	SetLogger(stub)
	if Logger() != stub {
		t.Fatal("expected Logger() to return the logger set via SetLogger")
	}

	Logger().Info("hello")
	if len(stub.Entries()) != 1 {
		t.Fatalf("expected entry through global logger, got %d", len(stub.Entries()))
	}

	SetLogger(nil)
	if Logger() == nil {
		t.Fatal("expected Logger() to reset to a non-nil logger")
	}
	if Logger() == stub {
		t.Fatal("expected Logger() to reset away from the previous logger")
	}
}
