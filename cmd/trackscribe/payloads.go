package main

import (
	"time"

	"trackscribe/internal/catalog"
)

type trackPayload struct {
	ID              string  `json:"id"`
	Title           string  `json:"title"`
	WebpageURL      string  `json:"webpage_url"`
	Uploader        string  `json:"uploader,omitempty"`
	DurationSeconds float64 `json:"duration_seconds,omitempty"`
	PlaylistTitle   string  `json:"playlist_title,omitempty"`
	PlaylistURL     string  `json:"playlist_url,omitempty"`
	TrackNumber     int     `json:"track_number,omitempty"`
	Status          string  `json:"status"`
	AudioFilePath   string  `json:"audio_file_path,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

type transcriptPayload struct {
	Language     string `json:"language"`
	SegmentCount int    `json:"segment_count"`
	PlainText    string `json:"plain_text"`
	HasEmbedding bool   `json:"has_embedding"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
}

type trackDetailPayload struct {
	Track      trackPayload       `json:"track"`
	Transcript *transcriptPayload `json:"transcript,omitempty"`
}

func buildTrackPayload(track *catalog.Track) trackPayload {
	return trackPayload{
		ID:              track.ID.String(),
		Title:           track.DisplayTitle(),
		WebpageURL:      track.WebpageURL,
		Uploader:        track.Uploader,
		DurationSeconds: track.DurationSeconds,
		PlaylistTitle:   track.PlaylistTitle,
		PlaylistURL:     track.PlaylistURL,
		TrackNumber:     track.TrackNumber,
		Status:          string(track.Status),
		AudioFilePath:   track.AudioFilePath,
		CreatedAt:       track.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       track.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func buildTranscriptPayload(transcript *catalog.Transcript) *transcriptPayload {
	return &transcriptPayload{
		Language:     transcript.Language,
		SegmentCount: len(transcript.Result.Segments),
		PlainText:    transcript.PlainText,
		HasEmbedding: len(transcript.Embedding) > 0,
		CreatedAt:    transcript.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    transcript.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
