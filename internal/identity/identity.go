// Package identity derives stable track identifiers from canonical webpage
// URLs.
//
// Every idempotency decision in the pipeline keys off these values: the
// catalog primary key, the fetched audio artifact name, and the transcript
// cache names are all functions of the id alone. Re-running the pipeline
// against the same URL therefore lands on the same rows and the same files.
package identity

import (
	"strings"

	"github.com/google/uuid"
)

// TrackID returns the version-5 UUID of the canonical webpage URL in the
// URL namespace. The URL is trimmed but otherwise hashed verbatim, so the
// extractor's reported webpage URL is the canonical form, not whatever the
// user typed.
func TrackID(webpageURL string) uuid.UUID {
	return uuid.NewSHA1(uuid.NameSpaceURL, []byte(strings.TrimSpace(webpageURL)))
}

// AudioFilename names the fetched audio artifact for a track id. The format
// is the container extension without a leading dot; empty falls back to wav.
func AudioFilename(id uuid.UUID, format string) string {
	format = strings.TrimPrefix(strings.TrimSpace(format), ".")
	if format == "" {
		format = "wav"
	}
	return id.String() + "." + format
}

// TranscriptFilename names the cached aligned-transcript JSON for a track id.
func TranscriptFilename(id uuid.UUID) string {
	return id.String() + ".json"
}

// PlainTextFilename names the cached plain-text rendering for a track id.
func PlainTextFilename(id uuid.UUID) string {
	return id.String() + ".txt"
}
