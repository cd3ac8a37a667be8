package catalog

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var upsertTranscriptQuery = `INSERT INTO transcripts (` + transcriptColumns + `)
 VALUES (?, ?, ?, ?, ?, ?, ?)
 ON CONFLICT(track_id) DO UPDATE SET
    language = excluded.language,
    aligned_json = excluded.aligned_json,
    plain_text = excluded.plain_text,
    embedding = excluded.embedding,
    updated_at = excluded.updated_at`

// UpsertTranscript writes the transcript row for its track in one
// statement, overwriting any previous result wholesale. The parent track
// row must already exist; the foreign key rejects orphan transcripts.
// Language and plain text are derived from the aligned result when unset.
func (s *Store) UpsertTranscript(ctx context.Context, transcript *Transcript) error {
	if transcript == nil {
		return errors.New("transcript is nil")
	}
	if transcript.TrackID == uuid.Nil {
		return errors.New("transcript track id is empty")
	}

	transcript.Result.Normalize()
	if transcript.Language == "" {
		transcript.Language = transcript.Result.Language
	}
	if transcript.PlainText == "" {
		transcript.PlainText = transcript.Result.RenderText()
	}

	aligned, err := json.Marshal(transcript.Result)
	if err != nil {
		return fmt.Errorf("encode aligned result: %w", err)
	}

	now := time.Now().UTC()
	if transcript.CreatedAt.IsZero() {
		transcript.CreatedAt = now
	}
	transcript.UpdatedAt = now

	if err := s.execWithoutResultRetry(
		ctx,
		upsertTranscriptQuery,
		transcript.TrackID.String(),
		nullableString(transcript.Language),
		string(aligned),
		transcript.PlainText,
		encodeEmbedding(transcript.Embedding),
		transcript.CreatedAt.Format(time.RFC3339Nano),
		transcript.UpdatedAt.Format(time.RFC3339Nano),
	); err != nil {
		return fmt.Errorf("upsert transcript: %w", err)
	}
	return nil
}

// GetTranscript fetches the transcript for a track. A missing row
// returns nil, nil.
func (s *Store) GetTranscript(ctx context.Context, trackID uuid.UUID) (*Transcript, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT `+transcriptColumns+` FROM transcripts WHERE track_id = ?`,
		trackID.String(),
	)
	transcript, err := scanTranscript(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get transcript: %w", err)
	}
	return transcript, nil
}

// HasTranscript reports whether a transcript row exists for the track.
func (s *Store) HasTranscript(ctx context.Context, trackID uuid.UUID) (bool, error) {
	row := s.db.QueryRowContext(
		ensureContext(ctx),
		`SELECT COUNT(1) FROM transcripts WHERE track_id = ?`,
		trackID.String(),
	)
	var count int
	if err := row.Scan(&count); err != nil {
		return false, fmt.Errorf("count transcripts: %w", err)
	}
	return count > 0, nil
}
