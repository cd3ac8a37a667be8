package transcription

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"trackscribe/internal/catalog"
	"trackscribe/internal/config"
	"trackscribe/internal/fileutil"
	"trackscribe/internal/identity"
	"trackscribe/internal/logging"
	"trackscribe/internal/services"
	"trackscribe/internal/services/whisperx"
	"trackscribe/internal/stage"
)

// Engine abstracts the transcription service so tests can stub it.
type Engine interface {
	Transcribe(ctx context.Context, req whisperx.Request) (catalog.AlignedResult, error)
}

// Transcriber produces aligned transcripts for fetched tracks.
//
// Results are cached under the transcript directory as <id>.json plus
// <id>.txt. A cache hit loads the stored result and never invokes the
// engine, so re-runs of already transcribed tracks cost nothing.
type Transcriber struct {
	store  *catalog.Store
	cfg    *config.Config
	logger *slog.Logger
	engine Engine
}

// NewTranscriber constructs the transcribe handler using the default
// WhisperX service.
func NewTranscriber(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Transcriber {
	engine := whisperx.NewService(whisperx.Config{
		Binary:         cfg.WhisperX.Binary,
		Model:          cfg.WhisperX.Model,
		Device:         cfg.WhisperX.Device,
		ComputeType:    cfg.WhisperX.ComputeType,
		BatchSize:      cfg.WhisperX.BatchSize,
		Language:       cfg.WhisperX.Language,
		CharAlignments: cfg.Transcripts.CharAlignments,
	})
	return NewTranscriberWithEngine(cfg, store, logger, engine)
}

// NewTranscriberWithEngine allows injecting the engine (used in tests).
func NewTranscriberWithEngine(cfg *config.Config, store *catalog.Store, logger *slog.Logger, engine Engine) *Transcriber {
	return &Transcriber{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "transcribe"),
		engine: engine,
	}
}

// TranscriptPath returns the cached aligned-JSON location for a track.
func (t *Transcriber) TranscriptPath(trackID uuid.UUID) string {
	return filepath.Join(t.cfg.Paths.TranscriptDir, identity.TranscriptFilename(trackID))
}

// PlainTextPath returns the cached plain-text location for a track.
func (t *Transcriber) PlainTextPath(trackID uuid.UUID) string {
	return filepath.Join(t.cfg.Paths.TranscriptDir, identity.PlainTextFilename(trackID))
}

func (t *Transcriber) Execute(ctx context.Context, track *catalog.Track) error {
	logger := logging.WithContext(ctx, t.logger)
	if track == nil || track.ID == uuid.Nil {
		return services.Wrap(services.ErrValidation, "transcribe", "validate track", "Track is missing an identity", nil)
	}

	audioPath := strings.TrimSpace(track.AudioFilePath)
	if audioPath == "" {
		return services.Wrap(
			services.ErrPrecondition,
			"transcribe",
			"verify audio",
			"Track has no recorded audio artifact; fetch must run first",
			nil,
		)
	}
	if info, err := os.Stat(audioPath); err != nil || info.IsDir() {
		return services.Wrap(
			services.ErrPrecondition,
			"transcribe",
			"verify audio",
			fmt.Sprintf("Audio artifact %s is missing; fetch must run first", audioPath),
			err,
		)
	}

	if t.cfg.Transcripts.Cache {
		if result, ok := t.loadCached(track.ID, logger); ok {
			logger.Info("transcript cache hit; skipping engine",
				logging.String("path", t.TranscriptPath(track.ID)),
			)
			return t.finish(ctx, track, result, logger)
		}
	}

	if t.engine == nil {
		return services.Wrap(services.ErrConfiguration, "transcribe", "resolve engine", "Transcription engine unavailable; check whisperx configuration", nil)
	}

	scratchDir := filepath.Join(t.cfg.Paths.TranscriptDir, "work", track.ID.String())
	logger.Info("transcribing audio",
		logging.String("audio", audioPath),
		logging.String("scratch_dir", scratchDir),
	)
	result, err := t.engine.Transcribe(ctx, whisperx.Request{
		AudioPath: audioPath,
		OutputDir: scratchDir,
		Language:  t.cfg.WhisperX.Language,
	})
	if err != nil {
		return services.Wrap(
			services.ErrExternalTool,
			"transcribe",
			"whisperx run",
			"Transcription failed; check whisperx installation and model availability",
			err,
		)
	}

	if err := t.finish(ctx, track, result, logger); err != nil {
		return err
	}
	if err := os.RemoveAll(scratchDir); err != nil {
		logger.Warn("failed to remove scratch dir", logging.String("path", scratchDir), logging.Error(err))
	}
	return nil
}

// finish persists the transcript, advances the track, and refreshes the
// on-disk cache.
func (t *Transcriber) finish(ctx context.Context, track *catalog.Track, result catalog.AlignedResult, logger *slog.Logger) error {
	result.Normalize()
	plain := result.RenderText()

	transcript := &catalog.Transcript{
		TrackID:   track.ID,
		Language:  result.Language,
		Result:    result,
		PlainText: plain,
	}
	if err := t.store.UpsertTranscript(ctx, transcript); err != nil {
		return services.Wrap(services.ErrTransient, "transcribe", "persist transcript", "Failed to record transcript in catalog", err)
	}

	track.AdvanceTo(catalog.StatusTranscribed)
	if err := t.store.UpsertTrack(ctx, track); err != nil {
		return services.Wrap(services.ErrTransient, "transcribe", "persist track", "Failed to record transcribed track in catalog", err)
	}

	if t.cfg.Transcripts.Cache {
		if err := t.writeCache(track.ID, result, plain); err != nil {
			logger.Warn("failed to refresh transcript cache", logging.Error(err))
		}
	}

	logger.Info("transcription recorded",
		logging.String("language", result.Language),
		logging.Int("segments", len(result.Segments)),
		logging.Int("plain_text_chars", len(plain)),
	)
	return nil
}

// loadCached reads a previously cached aligned result. Corrupt cache files
// are reported and ignored so the engine can regenerate them.
func (t *Transcriber) loadCached(trackID uuid.UUID, logger *slog.Logger) (catalog.AlignedResult, bool) {
	path := t.TranscriptPath(trackID)
	data, err := os.ReadFile(path)
	if err != nil {
		return catalog.AlignedResult{}, false
	}
	var result catalog.AlignedResult
	if err := json.Unmarshal(data, &result); err != nil {
		logger.Warn("ignoring corrupt transcript cache",
			logging.String("path", path),
			logging.Error(err),
		)
		return catalog.AlignedResult{}, false
	}
	result.Normalize()
	return result, true
}

func (t *Transcriber) writeCache(trackID uuid.UUID, result catalog.AlignedResult, plain string) error {
	if err := os.MkdirAll(t.cfg.Paths.TranscriptDir, 0o755); err != nil {
		return fmt.Errorf("ensure transcript dir: %w", err)
	}
	data, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal aligned result: %w", err)
	}
	if err := fileutil.WriteFileAtomic(t.TranscriptPath(trackID), data, 0o644); err != nil {
		return err
	}
	return fileutil.WriteFileAtomic(t.PlainTextPath(trackID), []byte(plain+"\n"), 0o644)
}

// HealthCheck verifies transcription dependencies.
func (t *Transcriber) HealthCheck(ctx context.Context) stage.Health {
	const name = "transcribe"
	if t.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(t.cfg.Paths.TranscriptDir) == "" {
		return stage.Unhealthy(name, "transcript directory not configured")
	}
	if t.engine == nil {
		return stage.Unhealthy(name, "transcription engine unavailable")
	}
	binary := strings.TrimSpace(t.cfg.WhisperX.Binary)
	if binary == "" {
		return stage.Unhealthy(name, "whisperx binary not configured")
	}
	if _, err := exec.LookPath(binary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("whisperx binary %q not found", binary))
	}
	return stage.Healthy(name)
}
