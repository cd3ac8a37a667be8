package config

import (
	"fmt"
	"os"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	if err := c.normalizeDatabase(); err != nil {
		return err
	}
	c.normalizeSource()
	c.normalizeYtDlp()
	c.normalizeWhisperX()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.AudioDir) == "" {
		c.Paths.AudioDir = defaultAudioDir
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.TranscriptDir) == "" {
		c.Paths.TranscriptDir = defaultTranscriptDir
	}
	if c.Paths.TranscriptDir, err = expandPath(c.Paths.TranscriptDir); err != nil {
		return fmt.Errorf("paths.transcript_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeDatabase() error {
	var err error
	if strings.TrimSpace(c.Database.Path) == "" {
		c.Database.Path = defaultDatabasePath
	}
	if c.Database.Path, err = expandPath(c.Database.Path); err != nil {
		return fmt.Errorf("database.path: %w", err)
	}
	return nil
}

func (c *Config) normalizeSource() {
	c.Source.URL = strings.TrimSpace(c.Source.URL)
	if c.Source.URL == "" {
		if value, ok := os.LookupEnv("TRACKSCRIBE_SOURCE_URL"); ok {
			c.Source.URL = strings.TrimSpace(value)
		}
	}
}

func (c *Config) normalizeYtDlp() {
	c.YtDlp.Binary = strings.TrimSpace(c.YtDlp.Binary)
	if c.YtDlp.Binary == "" {
		c.YtDlp.Binary = defaultYtDlpBinary
	}
	c.YtDlp.Format = strings.TrimSpace(c.YtDlp.Format)
	if c.YtDlp.Format == "" {
		c.YtDlp.Format = defaultYtDlpFormat
	}
	c.YtDlp.AudioFormat = strings.ToLower(strings.TrimSpace(c.YtDlp.AudioFormat))
	c.YtDlp.AudioFormat = strings.TrimPrefix(c.YtDlp.AudioFormat, ".")
	if c.YtDlp.AudioFormat == "" {
		c.YtDlp.AudioFormat = defaultYtDlpAudioFormat
	}
	if c.YtDlp.TimeoutSeconds <= 0 {
		c.YtDlp.TimeoutSeconds = defaultYtDlpTimeoutSeconds
	}
}

func (c *Config) normalizeWhisperX() {
	c.WhisperX.Binary = strings.TrimSpace(c.WhisperX.Binary)
	if c.WhisperX.Binary == "" {
		c.WhisperX.Binary = defaultWhisperXBinary
	}
	c.WhisperX.Model = strings.TrimSpace(c.WhisperX.Model)
	if c.WhisperX.Model == "" {
		c.WhisperX.Model = defaultWhisperXModel
	}
	c.WhisperX.Device = strings.ToLower(strings.TrimSpace(c.WhisperX.Device))
	if c.WhisperX.Device == "" {
		c.WhisperX.Device = defaultWhisperXDevice
	}
	c.WhisperX.ComputeType = strings.ToLower(strings.TrimSpace(c.WhisperX.ComputeType))
	if c.WhisperX.ComputeType == "" {
		c.WhisperX.ComputeType = defaultWhisperXComputeType
	}
	if c.WhisperX.BatchSize <= 0 {
		c.WhisperX.BatchSize = defaultWhisperXBatchSize
	}
	c.WhisperX.Language = strings.ToLower(strings.TrimSpace(c.WhisperX.Language))
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
