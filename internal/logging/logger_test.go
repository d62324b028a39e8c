package logging_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"genforge/internal/logging"
	"genforge/internal/services"
)

func TestNewWritesConsoleFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:            "info",
		Format:           "console",
		OutputPaths:      []string{path},
		ErrorOutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Info("generation finished",
		logging.String(logging.FieldComponent, "coordinator"),
		logging.String(logging.FieldProjectID, "abc-123"),
	)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "coordinator: generation finished") {
		t.Fatalf("expected component-prefixed message, got %q", out)
	}
	if !strings.Contains(out, "project_id=abc-123") {
		t.Fatalf("expected project_id attribute, got %q", out)
	}
}

func TestNewWritesJSONFormat(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{
		Level:       "debug",
		Format:      "json",
		OutputPaths: []string{path},
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	logger.Debug("backend selected", logging.String(logging.FieldBackend, "ollama"))

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, `"level":"debug"`) {
		t.Fatalf("expected lowercase level key, got %q", out)
	}
	if !strings.Contains(out, `"backend":"ollama"`) {
		t.Fatalf("expected backend attribute, got %q", out)
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "yaml"}); err == nil {
		t.Fatal("expected unsupported format to be rejected")
	}
}

func TestWithContextAddsCorrelationFields(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.log")
	logger, err := logging.New(logging.Options{Format: "console", OutputPaths: []string{path}})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	ctx := services.WithProjectID(context.Background(), "proj-42")
	ctx = services.WithBackend(ctx, "chat")
	logging.WithContext(ctx, logger).Info("working")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "project_id=proj-42") || !strings.Contains(out, "backend=chat") {
		t.Fatalf("expected context fields in output, got %q", out)
	}
}

func TestNewComponentLoggerToleratesNilBase(t *testing.T) {
	logger := logging.NewComponentLogger(nil, "store")
	logger.Info("should not panic")
}
