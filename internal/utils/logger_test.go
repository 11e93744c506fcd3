package utils

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

func captureLog(t *testing.T, f func()) string {
	t.Helper()
	var buf bytes.Buffer
	prev := log.Writer()
	log.SetOutput(&buf)
	defer log.SetOutput(prev)
	f()
	return buf.String()
}

func TestLogEventLine(t *testing.T) {
	out := captureLog(t, func() {
		LogEvent("req-123", "booking", "create", "confirmed AB12CD34EF")
	})
	if !strings.Contains(out, "[BOOKING] request_id=req-123 action=create msg=confirmed AB12CD34EF") {
		t.Fatalf("unexpected log line: %q", out)
	}
}

func TestLogEventEmptyRequestIDBecomesDash(t *testing.T) {
	out := captureLog(t, func() {
		LogEvent("  ", "booking", "create", "confirmed")
	})
	if !strings.Contains(out, "request_id=-") {
		t.Fatalf("empty request id not normalized: %q", out)
	}
}
