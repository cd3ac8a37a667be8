package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDatabase(); err != nil {
		return err
	}
	if err := c.validateYtDlp(); err != nil {
		return err
	}
	if err := c.validateWhisperX(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.AudioDir) == "" {
		return errors.New("paths.audio_dir must be set")
	}
	if strings.TrimSpace(c.Paths.TranscriptDir) == "" {
		return errors.New("paths.transcript_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateDatabase() error {
	if strings.TrimSpace(c.Database.Path) == "" {
		return errors.New("database.path must be set")
	}
	return nil
}

func (c *Config) validateYtDlp() error {
	if strings.TrimSpace(c.YtDlp.Binary) == "" {
		return errors.New("ytdlp.binary must be set")
	}
	if strings.TrimSpace(c.YtDlp.Format) == "" {
		return errors.New("ytdlp.format must be set")
	}
	if strings.TrimSpace(c.YtDlp.AudioFormat) == "" {
		return errors.New("ytdlp.audio_format must be set")
	}
	return ensurePositiveMap(map[string]int{
		"ytdlp.timeout_seconds": c.YtDlp.TimeoutSeconds,
	})
}

func (c *Config) validateWhisperX() error {
	if strings.TrimSpace(c.WhisperX.Binary) == "" {
		return errors.New("whisperx.binary must be set")
	}
	if strings.TrimSpace(c.WhisperX.Model) == "" {
		return errors.New("whisperx.model must be set")
	}
	switch c.WhisperX.Device {
	case "cpu", "cuda":
	default:
		return errors.New("whisperx.device must be cpu or cuda")
	}
	if strings.TrimSpace(c.WhisperX.ComputeType) == "" {
		return errors.New("whisperx.compute_type must be set")
	}
	return ensurePositiveMap(map[string]int{
		"whisperx.batch_size": c.WhisperX.BatchSize,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
		return nil
	default:
		return errors.New("logging.level must be one of debug, info, warn, error")
	}
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
