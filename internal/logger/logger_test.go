package logger

import (
	"bytes"
	"strings"
	"testing"
)

func TestInit_ServiceAndLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Service: "webserver", Output: &buf})

	Debug("hidden")
	Info("shown", "port", 8080)

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Fatalf("debug record written at info level: %q", out)
	}
	if !strings.Contains(out, "msg=shown") || !strings.Contains(out, "service=webserver") || !strings.Contains(out, "port=8080") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestInit_Debug(t *testing.T) {
	var buf bytes.Buffer
	Init(Options{Debug: true, Output: &buf})

	With("conn_id", "abc").Debug("visible")

	out := buf.String()
	if !strings.Contains(out, "msg=visible") || !strings.Contains(out, "conn_id=abc") {
		t.Fatalf("unexpected output %q", out)
	}
	if !strings.Contains(out, "source=") {
		t.Fatalf("debug mode should add source: %q", out)
	}
}
