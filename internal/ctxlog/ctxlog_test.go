package ctxlog

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func TestFromContextRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, nil))

	ctx := WithLogger(context.Background(), logger)
	FromContext(ctx).Info("hello", "page", "p1")

	if !strings.Contains(buf.String(), "page=p1") {
		t.Fatalf("expected record, got %q", buf.String())
	}
}

func TestFromContextWithoutLogger(t *testing.T) {
	if FromContext(context.Background()) == nil {
		t.Fatal("expected discard logger")
	}
	ctx := WithLogger(context.Background(), nil)
	if FromContext(ctx) != discard {
		t.Fatal("nil logger should not be stored")
	}
}
