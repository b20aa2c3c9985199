package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func TestLoggerInit(t *testing.T) {
	if err := Init(); err != nil {
		t.Fatalf("failed to initialize logger: %v", err)
	}
	defer func() {
		if err := Sync(); err != nil {
			t.Errorf("failed to sync logger: %v", err)
		}
	}()

	if Get() == nil {
		t.Fatal("logger is nil after initialization")
	}
}

func TestInitWithOptionsJSON(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOptions(WithWriter(&buf), WithFormat(FormatJSON), WithLevel("debug")); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = InitWithOptions(WithWriter(&bytes.Buffer{})) }()

	Get().Debug(context.Background(), "hired", String("performer", "Annie Lennox"), Float64("price", 100))

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if rec["msg"] != "hired" {
		t.Errorf("expected msg hired, got %v", rec["msg"])
	}
	if rec["performer"] != "Annie Lennox" {
		t.Errorf("expected performer field, got %v", rec["performer"])
	}
	src, _ := rec["source"].(string)
	if !strings.Contains(src, "logger_test.go") {
		t.Errorf("expected source to point at the test file, got %q", src)
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOptions(WithWriter(&buf), WithLevel("warn")); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = InitWithOptions(WithWriter(&bytes.Buffer{})) }()

	ctx := context.Background()
	Get().Info(ctx, "quiet")
	if buf.Len() != 0 {
		t.Errorf("info should be filtered at warn, got %q", buf.String())
	}
	Get().Error(ctx, "loud", Error(errors.New("boom")))
	if !strings.Contains(buf.String(), "loud") || !strings.Contains(buf.String(), "boom") {
		t.Errorf("expected error line, got %q", buf.String())
	}

	if err := SetLevelString("debug"); err != nil {
		t.Fatalf("set level: %v", err)
	}
	buf.Reset()
	Get().Debug(ctx, "verbose")
	if !strings.Contains(buf.String(), "verbose") {
		t.Errorf("expected debug line after lowering level, got %q", buf.String())
	}
}

func TestLoggerNamed(t *testing.T) {
	var buf bytes.Buffer
	if err := InitWithOptions(WithWriter(&buf)); err != nil {
		t.Fatalf("init: %v", err)
	}
	defer func() { _ = InitWithOptions(WithWriter(&bytes.Buffer{})) }()

	Named("api").Info(context.Background(), "listening")
	if !strings.Contains(buf.String(), "logger=api") {
		t.Errorf("expected logger name in output, got %q", buf.String())
	}
}

func TestInvalidSettings(t *testing.T) {
	if err := SetLevelString("loud"); err == nil {
		t.Error("expected error for unknown level")
	}
	if _, err := New(&bytes.Buffer{}, "xml", nil); err == nil {
		t.Error("expected error for unknown format")
	}
	if err := InitWithOptions(WithFormat("xml")); err == nil {
		t.Error("expected init to reject unknown format")
	}
}

func TestNop(t *testing.T) {
	l := Nop()
	l.Info(context.Background(), "dropped")
	if l.Named("x") == nil {
		t.Error("named nop logger is nil")
	}
}
