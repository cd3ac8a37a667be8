package config_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"trackscribe/internal/config"
)

func TestLoadDefaultsExpandPathsAndReadEnvSource(t *testing.T) {
	t.Setenv("TRACKSCRIBE_SOURCE_URL", "https://media.example/watch?v=abc123")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantAudio := filepath.Join(tempHome, ".local", "share", "trackscribe", "audio")
	if cfg.Paths.AudioDir != wantAudio {
		t.Fatalf("unexpected audio dir: got %q want %q", cfg.Paths.AudioDir, wantAudio)
	}
	wantDB := filepath.Join(tempHome, ".local", "share", "trackscribe", "trackscribe.db")
	if cfg.Database.Path != wantDB {
		t.Fatalf("unexpected database path: got %q want %q", cfg.Database.Path, wantDB)
	}
	if cfg.Source.URL != "https://media.example/watch?v=abc123" {
		t.Fatalf("expected source URL from env, got %q", cfg.Source.URL)
	}
	if cfg.Pipeline.ContinueOnError {
		t.Fatal("expected continue_on_error disabled by default")
	}
	if !cfg.Transcripts.Cache {
		t.Fatal("expected transcript cache enabled by default")
	}
	if cfg.YtDlp.Binary != "yt-dlp" || cfg.YtDlp.AudioFormat != "wav" {
		t.Fatalf("unexpected ytdlp defaults: %+v", cfg.YtDlp)
	}
	if cfg.WhisperX.Device != "cpu" || cfg.WhisperX.BatchSize != 16 {
		t.Fatalf("unexpected whisperx defaults: %+v", cfg.WhisperX)
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
}

func TestLoadCustomPathOverridesDefaults(t *testing.T) {
	t.Setenv("TRACKSCRIBE_SOURCE_URL", "")
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)

	payload := struct {
		Paths struct {
			AudioDir string `toml:"audio_dir"`
		} `toml:"paths"`
		Pipeline struct {
			ContinueOnError bool `toml:"continue_on_error"`
		} `toml:"pipeline"`
		Transcripts struct {
			Cache bool `toml:"cache"`
		} `toml:"transcripts"`
		WhisperX struct {
			Device   string `toml:"device"`
			Language string `toml:"language"`
		} `toml:"whisperx"`
	}{}
	payload.Paths.AudioDir = "~/music/audio"
	payload.Pipeline.ContinueOnError = true
	payload.Transcripts.Cache = false
	payload.WhisperX.Device = "CUDA"
	payload.WhisperX.Language = " EN "

	raw, err := toml.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}
	configPath := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(configPath, raw, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.AudioDir != filepath.Join(tempHome, "music", "audio") {
		t.Fatalf("expected expanded audio dir, got %q", cfg.Paths.AudioDir)
	}
	if !cfg.Pipeline.ContinueOnError {
		t.Fatal("expected continue_on_error override to stick")
	}
	if cfg.Transcripts.Cache {
		t.Fatal("expected cache=false override to stick")
	}
	if cfg.WhisperX.Device != "cuda" {
		t.Fatalf("expected device normalized to cuda, got %q", cfg.WhisperX.Device)
	}
	if cfg.WhisperX.Language != "en" {
		t.Fatalf("expected language normalized to en, got %q", cfg.WhisperX.Language)
	}
	if cfg.YtDlp.Format != "bestaudio/best" {
		t.Fatalf("expected untouched ytdlp format default, got %q", cfg.YtDlp.Format)
	}
}

func TestCreateSampleWritesDecodableFile(t *testing.T) {
	samplePath := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := config.CreateSample(samplePath); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(samplePath)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	for _, section := range []string{"[paths]", "[database]", "[ytdlp]", "[whisperx]", "[logging]"} {
		if !strings.Contains(string(data), section) {
			t.Fatalf("sample missing %s section", section)
		}
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not decode: %v", err)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		mutate  func(*config.Config)
		wantErr string
	}{
		{
			name:    "missing audio dir",
			mutate:  func(c *config.Config) { c.Paths.AudioDir = "" },
			wantErr: "paths.audio_dir",
		},
		{
			name:    "missing database path",
			mutate:  func(c *config.Config) { c.Database.Path = "" },
			wantErr: "database.path",
		},
		{
			name:    "zero fetch timeout",
			mutate:  func(c *config.Config) { c.YtDlp.TimeoutSeconds = 0 },
			wantErr: "ytdlp.timeout_seconds",
		},
		{
			name:    "unknown device",
			mutate:  func(c *config.Config) { c.WhisperX.Device = "tpu" },
			wantErr: "whisperx.device",
		},
		{
			name:    "zero batch size",
			mutate:  func(c *config.Config) { c.WhisperX.BatchSize = 0 },
			wantErr: "whisperx.batch_size",
		},
		{
			name:    "unknown log level",
			mutate:  func(c *config.Config) { c.Logging.Level = "verbose" },
			wantErr: "logging.level",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := config.Default()
			if err := cfg.Validate(); err != nil {
				t.Fatalf("baseline config should validate: %v", err)
			}
			tc.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("error %q does not mention %q", err, tc.wantErr)
			}
		})
	}
}

func TestEnsureDirectoriesCreatesDatabaseParent(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.AudioDir = filepath.Join(base, "audio")
	cfg.Paths.TranscriptDir = filepath.Join(base, "transcripts")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.Database.Path = filepath.Join(base, "state", "trackscribe.db")

	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	for _, dir := range []string{
		cfg.Paths.AudioDir,
		cfg.Paths.TranscriptDir,
		cfg.Paths.LogDir,
		filepath.Join(base, "state"),
	} {
		info, err := os.Stat(dir)
		if err != nil {
			t.Fatalf("expected directory %q: %v", dir, err)
		}
		if !info.IsDir() {
			t.Fatalf("expected %q to be a directory", dir)
		}
	}
}
