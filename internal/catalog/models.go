package catalog

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// Status represents the lifecycle of a track. Values are stored verbatim,
// uppercase, and only ever move forward.
type Status string

const (
	StatusPending     Status = "PENDING"
	StatusDownloaded  Status = "DOWNLOADED"
	StatusTranscribed Status = "TRANSCRIBED"
	StatusEmbedded    Status = "EMBEDDED"
)

var allStatuses = []Status{
	StatusPending,
	StatusDownloaded,
	StatusTranscribed,
	StatusEmbedded,
}

var statusRank = func() map[Status]int {
	ranks := make(map[Status]int, len(allStatuses))
	for i, status := range allStatuses {
		ranks[status] = i
	}
	return ranks
}()

// AllStatuses returns the lifecycle stages in order.
func AllStatuses() []Status {
	out := make([]Status, len(allStatuses))
	copy(out, allStatuses)
	return out
}

// ParseStatus validates and normalizes a user supplied status value.
func ParseStatus(value string) (Status, bool) {
	candidate := Status(strings.ToUpper(strings.TrimSpace(value)))
	_, ok := statusRank[candidate]
	return candidate, ok
}

// AtLeast reports whether s is as far along the lifecycle as other.
// Unknown statuses are never at least anything.
func (s Status) AtLeast(other Status) bool {
	mine, ok := statusRank[s]
	if !ok {
		return false
	}
	theirs, ok := statusRank[other]
	if !ok {
		return false
	}
	return mine >= theirs
}

// Transcribed reports whether the track has a recorded transcription.
func (s Status) Transcribed() bool {
	return s.AtLeast(StatusTranscribed)
}

// Track is one ingestible audio track. The id is the version-5 UUID of the
// webpage URL, so the same source URL always maps to the same row.
type Track struct {
	ID              uuid.UUID
	Title           string
	WebpageURL      string
	DownloadURL     string
	Uploader        string
	DurationSeconds float64
	PlaylistTitle   string
	PlaylistURL     string
	TrackNumber     int
	Status          Status
	AudioFilePath   string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// AdvanceTo raises the track status to the given stage. Statuses only move
// forward; an earlier or equal stage leaves the track untouched.
func (t *Track) AdvanceTo(status Status) {
	if !t.Status.AtLeast(status) {
		t.Status = status
	}
}

// DisplayTitle returns the best human-readable label for the track.
func (t *Track) DisplayTitle() string {
	if title := strings.TrimSpace(t.Title); title != "" {
		return title
	}
	return t.WebpageURL
}

// Transcript is the transcription result for a track. TrackID doubles as
// primary key and foreign key, so a track carries at most one transcript
// and deleting the track removes it.
type Transcript struct {
	TrackID   uuid.UUID
	Language  string
	Result    AlignedResult
	PlainText string
	Embedding []float32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// AlignedResult is the timed transcription payload. Segments always
// marshal a chars key; a nil slice encodes as null, which readers treat
// as "character alignment not produced".
type AlignedResult struct {
	Language string    `json:"language,omitempty"`
	Segments []Segment `json:"segments"`
}

// Segment is one timed span of recognized speech.
type Segment struct {
	Start float64 `json:"start"`
	End   float64 `json:"end"`
	Text  string  `json:"text"`
	Words []Word  `json:"words"`
	Chars []Char  `json:"chars"`
}

// Word is a word-level alignment entry.
type Word struct {
	Word  string  `json:"word"`
	Start float64 `json:"start,omitempty"`
	End   float64 `json:"end,omitempty"`
	Score float64 `json:"score,omitempty"`
}

// Char is a character-level alignment entry.
type Char struct {
	Char  string  `json:"char"`
	Start float64 `json:"start,omitempty"`
	End   float64 `json:"end,omitempty"`
	Score float64 `json:"score,omitempty"`
}

// Normalize makes engine output uniform: the language code is lowercased
// and the segments slice is never nil. Nil word and char slices stay nil
// so they marshal as null rather than disappearing.
func (r *AlignedResult) Normalize() {
	r.Language = strings.ToLower(strings.TrimSpace(r.Language))
	if r.Segments == nil {
		r.Segments = []Segment{}
	}
}

// RenderText flattens the segments into the plain-text reading of the
// transcript: segment texts trimmed and joined with single spaces.
func (r AlignedResult) RenderText() string {
	parts := make([]string, 0, len(r.Segments))
	for _, segment := range r.Segments {
		text := strings.TrimSpace(segment.Text)
		if text == "" {
			continue
		}
		parts = append(parts, text)
	}
	return strings.Join(parts, " ")
}

// HealthSummary aggregates track counts for diagnostic output.
type HealthSummary struct {
	Total       int
	Pending     int
	Downloaded  int
	Transcribed int
	Embedded    int
}
