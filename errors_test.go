package xread

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestProtocolError(t *testing.T) {
	err := newProtocolError("SearchTimeline", 429, []byte(`{"errors":[{"code":88}]}`))
	if err.Status != 429 {
		t.Fatalf("expected status 429, got %d", err.Status)
	}
	msg := err.Error()
	if !strings.Contains(msg, "SearchTimeline") || !strings.Contains(msg, "429") {
		t.Fatalf("unexpected message: %s", msg)
	}

	var perr *ProtocolError
	if !errors.As(fmt.Errorf("search: %w", err), &perr) {
		t.Fatal("ProtocolError should survive wrapping")
	}
}

func TestProtocolError_TruncatesBody(t *testing.T) {
	body := strings.Repeat("x", 5000)
	err := newProtocolError("SearchTimeline", 500, []byte(body))
	if len(err.Body) > 210 {
		t.Fatalf("body not truncated: %d bytes", len(err.Body))
	}
	if !strings.HasSuffix(err.Body, "...") {
		t.Fatal("truncated body should carry an ellipsis")
	}
}

func TestTruncateBytes(t *testing.T) {
	if got := truncateBytes([]byte("short"), 200); got != "short" {
		t.Fatalf("short body altered: %q", got)
	}
	if got := truncateBytes([]byte("abcdef"), 3); got != "abc..." {
		t.Fatalf("expected abc..., got %q", got)
	}
}

func TestSentinelErrors(t *testing.T) {
	wrapped := fmt.Errorf("%w: %s", ErrNoCredentials, noCredentialsHint)
	if !errors.Is(wrapped, ErrNoCredentials) {
		t.Fatal("expected errors.Is match for ErrNoCredentials")
	}
	if errors.Is(wrapped, ErrLoginRejected) {
		t.Fatal("sentinels must be distinct")
	}
}
