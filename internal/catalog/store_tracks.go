package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"trackscribe/internal/identity"
)

// statusRankSQL renders the lifecycle ordering as a SQL expression so the
// monotonic guard can run inside a single statement.
func statusRankSQL(column string) string {
	var b strings.Builder
	b.WriteString("CASE ")
	b.WriteString(column)
	for i, status := range allStatuses {
		fmt.Fprintf(&b, " WHEN '%s' THEN %d", status, i)
	}
	b.WriteString(" ELSE -1 END")
	return b.String()
}

var upsertTrackQuery = `INSERT INTO tracks (` + trackColumns + `)
 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
 ON CONFLICT(id) DO UPDATE SET
    webpage_url = excluded.webpage_url,
    download_url = excluded.download_url,
    title = excluded.title,
    uploader = excluded.uploader,
    duration_seconds = excluded.duration_seconds,
    playlist_title = excluded.playlist_title,
    playlist_url = excluded.playlist_url,
    track_number = excluded.track_number,
    status = CASE WHEN ` + statusRankSQL("excluded.status") + ` > ` + statusRankSQL("tracks.status") + `
        THEN excluded.status ELSE tracks.status END,
    audio_file_path = COALESCE(excluded.audio_file_path, tracks.audio_file_path),
    updated_at = excluded.updated_at`

// UpsertTrack inserts the track or updates the existing row in one
// statement. Metadata columns take the new values; the status only moves
// forward, so replaying an early-stage snapshot never demotes a row that
// already progressed. On return the track mirrors the stored row.
func (s *Store) UpsertTrack(ctx context.Context, track *Track) error {
	if track == nil {
		return errors.New("track is nil")
	}
	if track.ID == uuid.Nil {
		return errors.New("track id is empty")
	}
	if strings.TrimSpace(track.WebpageURL) == "" {
		return errors.New("track webpage url is empty")
	}
	if track.Status == "" {
		track.Status = StatusPending
	}
	if _, ok := statusRank[track.Status]; !ok {
		return fmt.Errorf("unknown track status %q", track.Status)
	}

	now := time.Now().UTC()
	if track.CreatedAt.IsZero() {
		track.CreatedAt = now
	}
	track.UpdatedAt = now

	if err := s.execWithoutResultRetry(
		ctx,
		upsertTrackQuery,
		track.ID.String(),
		track.WebpageURL,
		nullableString(track.DownloadURL),
		nullableString(track.Title),
		nullableString(track.Uploader),
		nullableFloat(track.DurationSeconds),
		nullableString(track.PlaylistTitle),
		nullableString(track.PlaylistURL),
		nullableInt(track.TrackNumber),
		track.Status,
		nullableString(track.AudioFilePath),
		track.CreatedAt.Format(time.RFC3339Nano),
		track.UpdatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("upsert track: %w", err)
	}

	stored, err := s.GetTrack(ctx, track.ID)
	if err != nil {
		return err
	}
	if stored != nil {
		track.Status = stored.Status
		track.CreatedAt = stored.CreatedAt
		if track.AudioFilePath == "" {
			track.AudioFilePath = stored.AudioFilePath
		}
	}
	return nil
}

// IsTranscribed reports whether the track identified by the webpage URL
// already has a recorded transcription. This is the cheap gate the
// pipeline consults before spending any fetch or transcription work.
func (s *Store) IsTranscribed(ctx context.Context, webpageURL string) (bool, error) {
	return s.IsTranscribedID(ctx, identity.TrackID(webpageURL))
}

// IsTranscribedID is IsTranscribed for an already resolved track id.
func (s *Store) IsTranscribedID(ctx context.Context, id uuid.UUID) (bool, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT COUNT(1) FROM tracks WHERE id = ? AND status IN (?, ?)`,
		id.String(),
		StatusTranscribed,
		StatusEmbedded,
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("count transcribed: %w", err)
	}
	return count > 0, nil
}

// GetTrack fetches a track by id. A missing row returns nil, nil.
func (s *Store) GetTrack(ctx context.Context, id uuid.UUID) (*Track, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+trackColumns+` FROM tracks WHERE id = ?`,
		id.String(),
	)
	track, err := scanTrack(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get track: %w", err)
	}
	return track, nil
}

// GetTrackByURL fetches a track by its canonical webpage URL.
func (s *Store) GetTrackByURL(ctx context.Context, webpageURL string) (*Track, error) {
	return s.GetTrack(ctx, identity.TrackID(webpageURL))
}

// List returns tracks filtered by status set, or every track when no
// status is given, ordered by creation time.
func (s *Store) List(ctx context.Context, statuses ...Status) ([]*Track, error) {
	var (
		rows *sql.Rows
		err  error
	)

	baseQuery := `SELECT ` + trackColumns + ` FROM tracks`
	orderClause := ` ORDER BY created_at, id`

	ctx = ensureContext(ctx)
	if len(statuses) == 0 {
		rows, err = s.db.QueryContext(ctx, baseQuery+orderClause)
	} else {
		placeholders := makePlaceholders(len(statuses))
		args := make([]any, len(statuses))
		for i, status := range statuses {
			args[i] = status
		}
		query := baseQuery + ` WHERE status IN (` + placeholders + `)` + orderClause
		rows, err = s.db.QueryContext(ctx, query, args...)
	}
	if err != nil {
		return nil, fmt.Errorf("list tracks: %w", err)
	}
	defer rows.Close()

	var tracks []*Track
	for rows.Next() {
		track, err := scanTrack(rows)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}
	return tracks, rows.Err()
}

// DeleteTrack removes a track by id. The transcript row, if any, goes
// with it through the foreign key cascade.
func (s *Store) DeleteTrack(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.execWithRetry(ctx, `DELETE FROM tracks WHERE id = ?`, id.String())
	if err != nil {
		return false, fmt.Errorf("delete track: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("rows affected: %w", err)
	}
	return affected > 0, nil
}
