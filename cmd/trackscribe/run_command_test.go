package main

import (
	"errors"
	"path/filepath"
	"testing"

	"trackscribe/internal/services"
	"trackscribe/internal/testsupport"
)

func TestRunCommandRequiresSource(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("TRACKSCRIBE_SOURCE_URL", "")

	_, _, err := runCLI(t, env.configPath, "run")
	if err == nil {
		t.Fatal("expected run without a source to fail")
	}
	requireContains(t, err.Error(), "no source url")
}

func TestRunCommandSurfacesDiscoveryFailure(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())

	_, _, err := runCLI(t, env.configPath, "run", "https://tracks.example/raga")
	if err == nil {
		t.Fatal("expected run against a stub resolver to fail at discovery")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected an external tool error, got %v", err)
	}

	logs, err := filepath.Glob(filepath.Join(env.cfg.Paths.LogDir, "trackscribe-*.log"))
	if err != nil {
		t.Fatalf("glob logs: %v", err)
	}
	if len(logs) == 0 {
		t.Fatal("expected a per-run log file in the log directory")
	}
}

func TestRunCommandEnvSourceFallback(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithStubbedBinaries())
	t.Setenv("TRACKSCRIBE_SOURCE_URL", "https://tracks.example/from-env")

	_, _, err := runCLI(t, env.configPath, "run")
	if err == nil {
		t.Fatal("expected discovery to fail against the stub resolver")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected an external tool error, got %v", err)
	}
}
