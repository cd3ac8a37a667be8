package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration for pipeline artifacts.
type Paths struct {
	AudioDir      string `toml:"audio_dir"`
	TranscriptDir string `toml:"transcript_dir"`
	LogDir        string `toml:"log_dir"`
}

// Database contains configuration for the catalog database.
type Database struct {
	Path string `toml:"path"`
}

// Source contains the default ingestion target. The run command's
// positional URL and --playlist flag override these per invocation.
type Source struct {
	URL      string `toml:"url"`
	Playlist bool   `toml:"playlist"`
}

// Pipeline contains orchestration behaviour settings.
type Pipeline struct {
	// ContinueOnError keeps a playlist run going past a failed track and
	// reports the collected failures at the end. Off, the first failure
	// aborts the remaining batch.
	ContinueOnError bool `toml:"continue_on_error"`
}

// Transcripts contains configuration for transcript artifacts.
type Transcripts struct {
	// Cache persists aligned JSON and plain text next to the database so
	// re-runs skip the transcription engine entirely.
	Cache bool `toml:"cache"`
	// CharAlignments requests character-level timings from the engine.
	CharAlignments bool `toml:"char_alignments"`
}

// YtDlp contains configuration for discovery and audio fetching.
type YtDlp struct {
	Binary         string `toml:"binary"`
	Format         string `toml:"format"`
	AudioFormat    string `toml:"audio_format"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// WhisperX contains configuration for the transcription engine.
type WhisperX struct {
	Binary      string `toml:"binary"`
	Model       string `toml:"model"`
	Device      string `toml:"device"`
	ComputeType string `toml:"compute_type"`
	BatchSize   int    `toml:"batch_size"`
	Language    string `toml:"language"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format        string `toml:"format"`
	Level         string `toml:"level"`
	RetentionDays int    `toml:"retention_days"`
}

// Config encapsulates all configuration values for trackscribe.
//
// Configuration sections by subsystem:
//   - Paths: audio, transcript, and log directories
//   - Database: catalog database location
//   - Source: default URL and playlist mode for the run command
//   - Pipeline: batch error handling
//   - Transcripts: on-disk transcript cache and alignment detail
//   - YtDlp: discovery and fetch tool settings
//   - WhisperX: transcription engine settings
//   - Logging: log format, level, and retention
type Config struct {
	Paths       Paths       `toml:"paths"`
	Database    Database    `toml:"database"`
	Source      Source      `toml:"source"`
	Pipeline    Pipeline    `toml:"pipeline"`
	Transcripts Transcripts `toml:"transcripts"`
	YtDlp       YtDlp       `toml:"ytdlp"`
	WhisperX    WhisperX    `toml:"whisperx"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/trackscribe/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := expandPath("~/.config/trackscribe/config.toml")
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("trackscribe.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories the pipeline writes to,
// including the database file's parent.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Paths.AudioDir,
		c.Paths.TranscriptDir,
		c.Paths.LogDir,
	}
	if dbDir := filepath.Dir(c.Database.Path); strings.TrimSpace(dbDir) != "" && dbDir != "." {
		dirs = append(dirs, dbDir)
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the given path.
func CreateSample(path string) error {
	sample := sampleConfig

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
