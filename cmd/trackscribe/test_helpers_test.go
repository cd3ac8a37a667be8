package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"trackscribe/internal/catalog"
	"trackscribe/internal/config"
	"trackscribe/internal/identity"
	"trackscribe/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	store      *catalog.Store
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)

	cfg := testsupport.NewConfig(t, opts...)
	configPath := filepath.Join(homeDir, ".config", "trackscribe", "config.toml")
	if err := os.MkdirAll(filepath.Dir(configPath), 0o755); err != nil {
		t.Fatalf("mkdir config dir: %v", err)
	}
	writeTestConfig(t, configPath, cfg)

	store := testsupport.MustOpenStore(t, cfg)

	return &cliTestEnv{
		cfg:        cfg,
		store:      store,
		configPath: configPath,
		baseDir:    base,
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()

	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cliArgs := args
	if configPath != "" {
		cliArgs = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(cliArgs)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()

	encoded, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(path, encoded, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// seedTranscribedTrack walks a track through the full lifecycle in the store:
// pending, downloaded with an audio file on disk, then transcribed.
func seedTranscribedTrack(t *testing.T, env *cliTestEnv, webpageURL, title string) *catalog.Track {
	t.Helper()
	ctx := context.Background()

	track := testsupport.NewTrack(t, env.store, webpageURL, title)

	audioPath := filepath.Join(env.cfg.Paths.AudioDir, identity.AudioFilename(track.ID, env.cfg.YtDlp.AudioFormat))
	testsupport.WriteFile(t, audioPath, 2048)
	track.AudioFilePath = audioPath
	track.Status = catalog.StatusDownloaded
	if err := env.store.UpsertTrack(ctx, track); err != nil {
		t.Fatalf("record download: %v", err)
	}

	track.Status = catalog.StatusTranscribed
	if err := env.store.UpsertTrack(ctx, track); err != nil {
		t.Fatalf("record transcription: %v", err)
	}
	transcript := &catalog.Transcript{
		TrackID: track.ID,
		Result: catalog.AlignedResult{
			Language: "en",
			Segments: []catalog.Segment{
				{Start: 0, End: 2.5, Text: "Hello from the catalog."},
			},
		},
	}
	if err := env.store.UpsertTranscript(ctx, transcript); err != nil {
		t.Fatalf("record transcript: %v", err)
	}
	return track
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
