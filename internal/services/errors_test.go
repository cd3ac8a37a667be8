package services_test

import (
	"errors"
	"strings"
	"testing"

	"trackscribe/internal/services"
)

func TestWrapIncludesContext(t *testing.T) {
	base := errors.New("boom")
	err := services.Wrap(services.ErrExternalTool, "fetch", "download", "failed", base)
	if err == nil {
		t.Fatal("expected error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected marker to be retained, got %v", err)
	}
	if !errors.Is(err, base) {
		t.Fatalf("expected wrapped error to contain base error, got %v", err)
	}
	msg := err.Error()
	for _, fragment := range []string{"fetch", "download", "failed"} {
		if !strings.Contains(msg, fragment) {
			t.Fatalf("expected %q in error string %q", fragment, msg)
		}
	}
}

func TestWrapNilMarkerDefaultsToTransient(t *testing.T) {
	err := services.Wrap(nil, "transcribe", "run", "engine crashed", nil)
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("expected transient marker, got %v", err)
	}
}

func TestIsRecoverable(t *testing.T) {
	metadataErr := services.Wrap(services.ErrMetadata, "discover", "entry", "missing webpage url", nil)
	if !services.IsRecoverable(metadataErr) {
		t.Fatalf("expected metadata error to be recoverable: %v", metadataErr)
	}

	for _, marker := range []error{
		services.ErrPrecondition,
		services.ErrNoArtifact,
		services.ErrExternalTool,
		services.ErrTransient,
	} {
		err := services.Wrap(marker, "stage", "op", "detail", nil)
		if services.IsRecoverable(err) {
			t.Fatalf("expected %v to be fatal for its track", marker)
		}
	}

	if services.IsRecoverable(nil) {
		t.Fatal("expected nil error to be non-recoverable")
	}
}
