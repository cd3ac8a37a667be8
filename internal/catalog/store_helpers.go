package catalog

import (
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
)

const trackColumns = "id, webpage_url, download_url, title, uploader, duration_seconds, playlist_title, playlist_url, track_number, status, audio_file_path, created_at, updated_at"

const transcriptColumns = "track_id, language, aligned_json, plain_text, embedding, created_at, updated_at"

func scanTrack(scanner interface{ Scan(dest ...any) error }) (*Track, error) {
	var (
		idStr         string
		webpageURL    string
		downloadURL   sql.NullString
		title         sql.NullString
		uploader      sql.NullString
		duration      sql.NullFloat64
		playlistTitle sql.NullString
		playlistURL   sql.NullString
		trackNumber   sql.NullInt64
		statusStr     string
		audioFilePath sql.NullString
		createdRaw    string
		updatedRaw    string
	)

	if err := scanner.Scan(
		&idStr,
		&webpageURL,
		&downloadURL,
		&title,
		&uploader,
		&duration,
		&playlistTitle,
		&playlistURL,
		&trackNumber,
		&statusStr,
		&audioFilePath,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse track id %q: %w", idStr, err)
	}

	track := &Track{
		ID:            id,
		WebpageURL:    webpageURL,
		DownloadURL:   downloadURL.String,
		Title:         title.String,
		Uploader:      uploader.String,
		PlaylistTitle: playlistTitle.String,
		PlaylistURL:   playlistURL.String,
		Status:        Status(statusStr),
		AudioFilePath: audioFilePath.String,
	}
	if duration.Valid {
		track.DurationSeconds = duration.Float64
	}
	if trackNumber.Valid {
		track.TrackNumber = int(trackNumber.Int64)
	}
	if created, err := parseTimeString(createdRaw); err == nil {
		track.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		track.UpdatedAt = updated
	}
	return track, nil
}

func scanTranscript(scanner interface{ Scan(dest ...any) error }) (*Transcript, error) {
	var (
		idStr      string
		language   sql.NullString
		alignedRaw string
		plainText  string
		embedding  []byte
		createdRaw string
		updatedRaw string
	)

	if err := scanner.Scan(
		&idStr,
		&language,
		&alignedRaw,
		&plainText,
		&embedding,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	id, err := uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parse transcript track id %q: %w", idStr, err)
	}

	transcript := &Transcript{
		TrackID:   id,
		Language:  language.String,
		PlainText: plainText,
		Embedding: decodeEmbedding(embedding),
	}
	if err := json.Unmarshal([]byte(alignedRaw), &transcript.Result); err != nil {
		return nil, fmt.Errorf("decode aligned result: %w", err)
	}
	transcript.Result.Normalize()
	if created, err := parseTimeString(createdRaw); err == nil {
		transcript.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw); err == nil {
		transcript.UpdatedAt = updated
	}
	return transcript, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableFloat(value float64) any {
	if value == 0 {
		return nil
	}
	return value
}

func nullableInt(value int) any {
	if value == 0 {
		return nil
	}
	return value
}

// Embeddings are stored as packed little-endian float32 values.
func encodeEmbedding(values []float32) []byte {
	if len(values) == 0 {
		return nil
	}
	buf := make([]byte, len(values)*4)
	for i, v := range values {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(v))
	}
	return buf
}

func decodeEmbedding(data []byte) []float32 {
	if len(data) == 0 || len(data)%4 != 0 {
		return nil
	}
	values := make([]float32, len(data)/4)
	for i := range values {
		values[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return values
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
