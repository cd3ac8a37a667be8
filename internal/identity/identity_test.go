package identity_test

import (
	"testing"

	"github.com/google/uuid"

	"trackscribe/internal/identity"
)

func TestTrackIDDeterministic(t *testing.T) {
	url := "https://example.com/watch?v=abc123"
	first := identity.TrackID(url)
	second := identity.TrackID(url)
	if first != second {
		t.Fatalf("expected identical ids for identical URLs, got %s and %s", first, second)
	}
}

func TestTrackIDDistinctURLs(t *testing.T) {
	a := identity.TrackID("https://example.com/watch?v=abc123")
	b := identity.TrackID("https://example.com/watch?v=def456")
	if a == b {
		t.Fatalf("expected distinct ids for distinct URLs, got %s twice", a)
	}
}

func TestTrackIDVersionAndVariant(t *testing.T) {
	id := identity.TrackID("https://example.com/watch?v=abc123")
	if id.Version() != 5 {
		t.Fatalf("expected version 5 id, got version %d", id.Version())
	}
	if id.Variant() != uuid.RFC4122 {
		t.Fatalf("expected RFC 4122 variant, got %s", id.Variant())
	}
}

func TestTrackIDTrimsWhitespace(t *testing.T) {
	plain := identity.TrackID("https://example.com/watch?v=abc123")
	padded := identity.TrackID("  https://example.com/watch?v=abc123\n")
	if plain != padded {
		t.Fatalf("expected surrounding whitespace to be ignored, got %s and %s", plain, padded)
	}
}

func TestArtifactFilenames(t *testing.T) {
	id := identity.TrackID("https://example.com/watch?v=abc123")

	cases := []struct {
		name   string
		got    string
		suffix string
	}{
		{"audio default", identity.AudioFilename(id, ""), ".wav"},
		{"audio explicit", identity.AudioFilename(id, "mp3"), ".mp3"},
		{"audio dotted", identity.AudioFilename(id, ".flac"), ".flac"},
		{"transcript", identity.TranscriptFilename(id), ".json"},
		{"plain text", identity.PlainTextFilename(id), ".txt"},
	}
	for _, tc := range cases {
		want := id.String() + tc.suffix
		if tc.got != want {
			t.Fatalf("%s: expected %q, got %q", tc.name, want, tc.got)
		}
	}
}
