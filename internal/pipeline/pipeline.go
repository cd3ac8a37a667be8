package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/gofrs/flock"

	"trackscribe/internal/catalog"
	"trackscribe/internal/config"
	"trackscribe/internal/download"
	"trackscribe/internal/logging"
	"trackscribe/internal/services/ytdlp"
	"trackscribe/internal/stage"
	"trackscribe/internal/transcription"
)

// LockFileName is the run lock created under the log directory.
const LockFileName = "trackscribe.lock"

// Pipeline sequences discovery, fetch, and transcription for a source URL.
//
// Every entry passes the same gates: entries without usable metadata are
// skipped with a warning, entries whose track is already transcribed are
// skipped before any fetch or engine work, and the rest run the fetch and
// transcribe stages in order. Each stage persists its own outcome, so an
// interrupted run leaves the catalog describing exactly how far each track
// got and a re-run resumes from there.
type Pipeline struct {
	cfg      *config.Config
	store    *catalog.Store
	logger   *slog.Logger
	resolver ytdlp.Resolver
	stages   []pipelineStage

	lockPath string
	lock     *flock.Flock
}

type pipelineStage struct {
	name    string
	handler stage.Handler
}

// New constructs the pipeline with its default collaborators: one shared
// yt-dlp client for discovery and fetching, and the WhisperX transcriber.
func New(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Pipeline {
	client := ytdlp.New(ytdlp.Config{
		Binary:         cfg.YtDlp.Binary,
		Format:         cfg.YtDlp.Format,
		AudioFormat:    cfg.YtDlp.AudioFormat,
		TimeoutSeconds: cfg.YtDlp.TimeoutSeconds,
	})
	return NewWithDependencies(
		cfg,
		store,
		logger,
		client,
		download.NewFetcherWithClient(cfg, store, logger, client),
		transcription.NewTranscriber(cfg, store, logger),
	)
}

// NewWithDependencies allows injecting the resolver and stage handlers
// (used in tests).
func NewWithDependencies(cfg *config.Config, store *catalog.Store, logger *slog.Logger, resolver ytdlp.Resolver, fetch, transcribe stage.Handler) *Pipeline {
	lockPath := filepath.Join(cfg.Paths.LogDir, LockFileName)
	return &Pipeline{
		cfg:      cfg,
		store:    store,
		logger:   logging.NewComponentLogger(logger, "pipeline"),
		resolver: resolver,
		stages: []pipelineStage{
			{name: "fetch", handler: fetch},
			{name: "transcribe", handler: transcribe},
		},
		lockPath: lockPath,
		lock:     flock.New(lockPath),
	}
}

// LockPath returns the location of the run lock file.
func (p *Pipeline) LockPath() string {
	return p.lockPath
}

// HealthCheck reports the readiness of every stage the pipeline drives.
func (p *Pipeline) HealthCheck(ctx context.Context) []stage.Health {
	checks := make([]stage.Health, 0, len(p.stages))
	for _, st := range p.stages {
		if st.handler == nil {
			checks = append(checks, stage.Unhealthy(st.name, "stage handler not configured"))
			continue
		}
		checks = append(checks, st.handler.HealthCheck(ctx))
	}
	return checks
}

func (p *Pipeline) acquireLock() error {
	ok, err := p.lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire run lock %s: %w", p.lockPath, err)
	}
	if !ok {
		return errors.New("another trackscribe run is already in progress")
	}
	return nil
}

func (p *Pipeline) releaseLock(logger *slog.Logger) {
	if err := p.lock.Unlock(); err != nil {
		logger.Warn("failed to release run lock",
			logging.Error(err),
			logging.String("path", p.lockPath),
		)
	}
}
