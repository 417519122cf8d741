package tracing

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"go.opentelemetry.io/otel"
)

func TestSetupWritesSpans(t *testing.T) {
	var buf bytes.Buffer
	shutdown, err := Setup(&buf, "learnpath-test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}

	_, span := otel.Tracer("tracing_test").Start(context.Background(), "unit-span")
	span.End()

	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "unit-span") {
		t.Errorf("expected span name in output, got %q", out)
	}
	if !strings.Contains(out, "learnpath-test") {
		t.Errorf("expected service name in output, got %q", out)
	}
}

func TestSetupDisabled(t *testing.T) {
	shutdown, err := Setup(nil, "learnpath-test")
	if err != nil {
		t.Fatalf("Setup: %v", err)
	}
	if err := shutdown(context.Background()); err != nil {
		t.Errorf("shutdown: %v", err)
	}
}
