package log

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5/middleware"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	buf := new(bytes.Buffer)
	original := Logger()
	ReplaceLogger(slog.New(newHandler(buf)))
	t.Cleanup(func() {
		ReplaceLogger(original)
	})
	return buf
}

func TestInfoProducesLogfmtWithTimestamp(t *testing.T) {
	buf := captureLogs(t)

	Info(context.Background(), "hello", "dish", "soup")

	line := strings.TrimSpace(buf.String())
	if line == "" {
		t.Fatalf("expected log output, got empty string")
	}
	for _, token := range []string{"ts=", "level=info", "msg=hello", "dish=soup"} {
		if !strings.Contains(line, token) {
			t.Fatalf("expected %q in log line, got %q", token, line)
		}
	}
	if strings.Contains(line, "request_id") {
		t.Fatalf("did not expect request id without request context: %q", line)
	}
}

func TestRequestIDIsAttached(t *testing.T) {
	buf := captureLogs(t)

	ctx := context.WithValue(context.Background(), middleware.RequestIDKey, "req-42")
	Error(ctx, "boom")

	if line := buf.String(); !strings.Contains(line, "request_id=req-42") {
		t.Fatalf("expected request id in log line, got %q", line)
	}
}

func TestSetLevelFiltersDebug(t *testing.T) {
	buf := captureLogs(t)
	t.Cleanup(func() { _ = SetLevel("info") })

	if err := SetLevel("info"); err != nil {
		t.Fatalf("SetLevel(info) error = %v", err)
	}
	Debug(context.Background(), "hidden")
	if buf.Len() != 0 {
		t.Fatalf("expected debug output to be filtered, got %q", buf.String())
	}

	if err := SetLevel("DEBUG"); err != nil {
		t.Fatalf("SetLevel(DEBUG) error = %v", err)
	}
	Debug(nil, "shown") //nolint:staticcheck
	if !strings.Contains(buf.String(), "msg=shown") {
		t.Fatalf("expected debug output, got %q", buf.String())
	}

	if err := SetLevel("verbose"); err == nil {
		t.Fatal("expected error for unknown level")
	}
}

func TestReplaceLoggerRejectsNil(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for nil logger")
		}
	}()
	ReplaceLogger(nil)
}
