package download

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"trackscribe/internal/catalog"
	"trackscribe/internal/config"
	"trackscribe/internal/identity"
	"trackscribe/internal/logging"
	"trackscribe/internal/services"
	"trackscribe/internal/services/ytdlp"
	"trackscribe/internal/stage"
)

// Fetcher downloads track audio into the configured audio directory.
//
// The destination path is a pure function of the track ID, so a re-run finds
// the previous artifact and skips the fetcher entirely. The track's ephemeral
// media URL is never used for fetching; yt-dlp resolves a fresh one from the
// webpage URL on every download.
type Fetcher struct {
	store  *catalog.Store
	cfg    *config.Config
	logger *slog.Logger
	client ytdlp.Fetcher
}

// NewFetcher constructs the fetch handler using the default yt-dlp client.
func NewFetcher(cfg *config.Config, store *catalog.Store, logger *slog.Logger) *Fetcher {
	client := ytdlp.New(ytdlp.Config{
		Binary:         cfg.YtDlp.Binary,
		Format:         cfg.YtDlp.Format,
		AudioFormat:    cfg.YtDlp.AudioFormat,
		TimeoutSeconds: cfg.YtDlp.TimeoutSeconds,
	})
	return NewFetcherWithClient(cfg, store, logger, client)
}

// NewFetcherWithClient allows injecting the fetch client (used in tests).
func NewFetcherWithClient(cfg *config.Config, store *catalog.Store, logger *slog.Logger, client ytdlp.Fetcher) *Fetcher {
	return &Fetcher{
		store:  store,
		cfg:    cfg,
		logger: logging.NewComponentLogger(logger, "fetch"),
		client: client,
	}
}

// ArtifactPath returns the deterministic audio destination for a track.
func (f *Fetcher) ArtifactPath(trackID uuid.UUID) string {
	return filepath.Join(f.cfg.Paths.AudioDir, identity.AudioFilename(trackID, f.cfg.YtDlp.AudioFormat))
}

func (f *Fetcher) Execute(ctx context.Context, track *catalog.Track) error {
	logger := logging.WithContext(ctx, f.logger)
	if track == nil || track.ID == uuid.Nil {
		return services.Wrap(services.ErrValidation, "fetch", "validate track", "Track is missing an identity", nil)
	}

	dest := f.ArtifactPath(track.ID)
	if info, err := os.Stat(dest); err == nil && !info.IsDir() {
		logger.Info("audio artifact already present; skipping fetch",
			logging.String("path", dest),
			logging.Int64("bytes", info.Size()),
		)
		track.AudioFilePath = dest
		track.AdvanceTo(catalog.StatusDownloaded)
		return f.persist(ctx, track)
	}

	if f.client == nil {
		return services.Wrap(services.ErrConfiguration, "fetch", "resolve client", "Fetch client unavailable; check ytdlp configuration", nil)
	}

	logger.Info("fetching audio",
		logging.String("url", track.WebpageURL),
		logging.String("destination", dest),
	)
	if err := f.client.FetchToPath(ctx, track.WebpageURL, dest); err != nil {
		return services.Wrap(
			services.ErrExternalTool,
			"fetch",
			"yt-dlp download",
			"Audio fetch failed; check yt-dlp installation and network access",
			err,
		)
	}

	info, err := os.Stat(dest)
	if err != nil || info.IsDir() || info.Size() == 0 {
		return services.Wrap(
			services.ErrNoArtifact,
			"fetch",
			"verify artifact",
			fmt.Sprintf("Fetcher reported success but %s is missing or empty", dest),
			err,
		)
	}

	track.AudioFilePath = dest
	track.AdvanceTo(catalog.StatusDownloaded)
	if err := f.persist(ctx, track); err != nil {
		return err
	}
	logger.Info("audio fetched",
		logging.String("path", dest),
		logging.Int64("bytes", info.Size()),
	)
	return nil
}

func (f *Fetcher) persist(ctx context.Context, track *catalog.Track) error {
	if err := f.store.UpsertTrack(ctx, track); err != nil {
		return services.Wrap(services.ErrTransient, "fetch", "persist track", "Failed to record fetched track in catalog", err)
	}
	return nil
}

// HealthCheck verifies fetch dependencies.
func (f *Fetcher) HealthCheck(ctx context.Context) stage.Health {
	const name = "fetch"
	if f.cfg == nil {
		return stage.Unhealthy(name, "configuration unavailable")
	}
	if strings.TrimSpace(f.cfg.Paths.AudioDir) == "" {
		return stage.Unhealthy(name, "audio directory not configured")
	}
	if f.client == nil {
		return stage.Unhealthy(name, "fetch client unavailable")
	}
	binary := strings.TrimSpace(f.cfg.YtDlp.Binary)
	if binary == "" {
		return stage.Unhealthy(name, "yt-dlp binary not configured")
	}
	if _, err := exec.LookPath(binary); err != nil {
		return stage.Unhealthy(name, fmt.Sprintf("yt-dlp binary %q not found", binary))
	}
	return stage.Healthy(name)
}
