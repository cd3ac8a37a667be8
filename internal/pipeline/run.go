package pipeline

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trackscribe/internal/catalog"
	"trackscribe/internal/identity"
	"trackscribe/internal/logging"
	"trackscribe/internal/services"
	"trackscribe/internal/services/ytdlp"
	"trackscribe/internal/textutil"
)

// Summary reports what one pipeline run did.
type Summary struct {
	SourceURL          string
	Playlist           bool
	Discovered         int
	Transcribed        int
	AlreadyTranscribed int
	SkippedIncomplete  int
	Failed             int
	Failures           []EntryFailure
	Elapsed            time.Duration
}

// EntryFailure records a fatal per-track error encountered during a run.
type EntryFailure struct {
	Title      string
	WebpageURL string
	Err        error
}

type entryOutcome int

const (
	entryFailed entryOutcome = iota
	entryTranscribed
	entryAlreadyTranscribed
	entrySkippedIncomplete
)

// Run executes the pipeline against the source URL. Playlist expansion and
// the continue-on-error policy come from configuration. The summary is
// populated even when the run ends in an error.
func (p *Pipeline) Run(ctx context.Context, source string) (*Summary, error) {
	source = strings.TrimSpace(source)
	if source == "" {
		return nil, errors.New("source url is required")
	}

	logger := logging.WithContext(ctx, p.logger)
	playlist := p.cfg.Source.Playlist
	summary := &Summary{SourceURL: source, Playlist: playlist}
	start := time.Now()
	defer func() {
		summary.Elapsed = time.Since(start)
	}()

	if err := p.acquireLock(); err != nil {
		return summary, err
	}
	defer p.releaseLock(logger)

	// A single-track request whose URL matches the stored canonical URL
	// settles with one catalog query; the resolver never runs.
	if !playlist {
		done, err := p.store.IsTranscribed(ctx, source)
		if err != nil {
			return summary, fmt.Errorf("check transcribed state: %w", err)
		}
		if done {
			logger.Info("track already transcribed; nothing to do", logging.String("url", source))
			summary.Discovered = 1
			summary.AlreadyTranscribed = 1
			return summary, nil
		}
	}

	entries, err := p.discover(ctx, source, playlist)
	if err != nil {
		return summary, err
	}
	summary.Discovered = len(entries)
	if len(entries) == 0 {
		logger.Warn("source resolved to no entries", logging.String("url", source))
		return summary, nil
	}
	logger.Info("starting pipeline run",
		logging.String("url", source),
		logging.Bool("playlist", playlist),
		logging.Int("entries", len(entries)),
	)

	var failures []error
	for _, info := range entries {
		if err := ctx.Err(); err != nil {
			return summary, err
		}

		outcome, entryErr := p.processEntry(ctx, info)
		switch outcome {
		case entryTranscribed:
			summary.Transcribed++
		case entryAlreadyTranscribed:
			summary.AlreadyTranscribed++
		case entrySkippedIncomplete:
			summary.SkippedIncomplete++
		case entryFailed:
			if errors.Is(entryErr, context.Canceled) {
				return summary, entryErr
			}
			summary.Failed++
			summary.Failures = append(summary.Failures, EntryFailure{
				Title:      info.Title,
				WebpageURL: info.WebpageURL,
				Err:        entryErr,
			})
			if !p.cfg.Pipeline.ContinueOnError {
				return summary, entryErr
			}
			failures = append(failures, entryErr)
		}
	}

	logger.Info("pipeline run finished",
		logging.Int("transcribed", summary.Transcribed),
		logging.Int("already_transcribed", summary.AlreadyTranscribed),
		logging.Int("skipped_incomplete", summary.SkippedIncomplete),
		logging.Int("failed", summary.Failed),
	)
	return summary, errors.Join(failures...)
}

func (p *Pipeline) discover(ctx context.Context, source string, playlist bool) ([]*ytdlp.TrackInfo, error) {
	if p.resolver == nil {
		return nil, services.Wrap(services.ErrConfiguration, "discover", "resolve client", "Discovery client unavailable; check ytdlp configuration", nil)
	}
	if playlist {
		entries, err := p.resolver.ResolvePlaylist(ctx, source)
		if err != nil {
			return nil, services.Wrap(services.ErrExternalTool, "discover", "yt-dlp metadata", "Playlist discovery failed; check the URL and yt-dlp installation", err)
		}
		return entries, nil
	}
	info, err := p.resolver.ResolveTrack(ctx, source)
	if err != nil {
		return nil, services.Wrap(services.ErrExternalTool, "discover", "yt-dlp metadata", "Track discovery failed; check the URL and yt-dlp installation", err)
	}
	return []*ytdlp.TrackInfo{info}, nil
}

func (p *Pipeline) processEntry(ctx context.Context, info *ytdlp.TrackInfo) (entryOutcome, error) {
	if info == nil {
		info = &ytdlp.TrackInfo{}
	}
	logger := logging.WithContext(ctx, p.logger)

	if !info.Complete() {
		logger.Warn("skipping entry with incomplete metadata",
			logging.String("title", info.Title),
			logging.String("url", info.WebpageURL),
			logging.Int("track_number", info.TrackNumber),
		)
		return entrySkippedIncomplete, nil
	}

	trackID := identity.TrackID(info.WebpageURL)
	entryCtx := services.WithTrackID(ctx, trackID)
	logger = logging.WithContext(entryCtx, p.logger)

	done, err := p.store.IsTranscribedID(entryCtx, trackID)
	if err != nil {
		return entryFailed, fmt.Errorf("check transcribed state: %w", err)
	}
	if done {
		logger.Info("already transcribed; skipping", logging.String("title", info.Title))
		return entryAlreadyTranscribed, nil
	}

	track := newTrack(trackID, info)
	if err := p.store.UpsertTrack(entryCtx, track); err != nil {
		return entryFailed, fmt.Errorf("record discovered track: %w", err)
	}
	logger.Info("track discovered",
		logging.String("title", track.DisplayTitle()),
		logging.String("url", track.WebpageURL),
	)

	for _, st := range p.stages {
		if st.handler == nil {
			return entryFailed, services.Wrap(services.ErrConfiguration, st.name, "resolve handler", "Stage handler not configured", nil)
		}
		stageCtx := services.WithStage(entryCtx, st.name)
		stageLogger := logging.WithContext(stageCtx, p.logger)
		stageStart := time.Now()
		stageLogger.Info("stage started", logging.String("title", track.DisplayTitle()))
		if err := st.handler.Execute(stageCtx, track); err != nil {
			stageLogger.Error("stage failed",
				logging.Error(err),
				logging.Duration("stage_duration", time.Since(stageStart)),
			)
			return entryFailed, err
		}
		stageLogger.Info("stage completed",
			logging.String("status", string(track.Status)),
			logging.Duration("stage_duration", time.Since(stageStart)),
		)
	}
	return entryTranscribed, nil
}

// newTrack builds the catalog row for a discovered entry. The ephemeral
// media URL is recorded for reference only; fetching always re-resolves
// from the webpage URL.
func newTrack(id uuid.UUID, info *ytdlp.TrackInfo) *catalog.Track {
	title := strings.TrimSpace(info.Title)
	if title == "" {
		title = textutil.TitleFromURL(info.WebpageURL)
	}
	return &catalog.Track{
		ID:              id,
		Title:           title,
		WebpageURL:      info.WebpageURL,
		DownloadURL:     info.MediaURL,
		Uploader:        info.Uploader,
		DurationSeconds: info.DurationSeconds,
		PlaylistTitle:   info.PlaylistTitle,
		PlaylistURL:     info.PlaylistURL,
		TrackNumber:     info.TrackNumber,
		Status:          catalog.StatusPending,
	}
}
