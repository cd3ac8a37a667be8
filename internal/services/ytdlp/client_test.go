package ytdlp_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"trackscribe/internal/services/ytdlp"
)

type stubExecutor struct {
	lines []string
	err   error
	calls int
	args  [][]string
}

func (s *stubExecutor) Run(ctx context.Context, binary string, args []string, onStdout func(string)) error {
	s.calls++
	cloned := append([]string(nil), args...)
	s.args = append(s.args, cloned)
	if onStdout != nil {
		for _, line := range s.lines {
			onStdout(line)
		}
	}
	return s.err
}

const playlistPayload = `{
    "_type": "playlist",
    "title": "Morning Mix",
    "webpage_url": "https://example.com/playlist?list=PL123",
    "entries": [
        {"title": "First Song", "webpage_url": "https://example.com/watch?v=one",
         "url": "https://cdn.example.com/one.m4a?expire=123", "uploader": "Artist A", "duration": 181.5},
        {"title": "Untitled", "webpage_url": "", "url": "", "uploader": "", "duration": 0},
        {"title": "Third Song", "webpage_url": "https://example.com/watch?v=three",
         "url": "https://cdn.example.com/three.m4a?expire=456", "uploader": "Artist C", "duration": 95}
    ]
}`

const singlePayload = `{
    "title": "Lone Track",
    "webpage_url": "https://example.com/watch?v=lone",
    "url": "https://cdn.example.com/lone.m4a?expire=789",
    "uploader": "Solo Artist",
    "duration": 240.25
}`

func TestResolvePlaylistKeepsEntryPositions(t *testing.T) {
	exec := &stubExecutor{lines: []string{playlistPayload}}
	client := ytdlp.New(ytdlp.Config{}, ytdlp.WithExecutor(exec))

	tracks, err := client.ResolvePlaylist(context.Background(), "https://example.com/playlist?list=PL123")
	if err != nil {
		t.Fatalf("ResolvePlaylist failed: %v", err)
	}
	if len(tracks) != 3 {
		t.Fatalf("expected 3 entries, got %d", len(tracks))
	}

	first := tracks[0]
	if first.Title != "First Song" || first.Uploader != "Artist A" {
		t.Fatalf("unexpected first entry: %+v", first)
	}
	if first.TrackNumber != 1 || tracks[2].TrackNumber != 3 {
		t.Fatalf("expected 1-based gap-preserving numbering, got %d and %d", first.TrackNumber, tracks[2].TrackNumber)
	}
	if first.PlaylistTitle != "Morning Mix" || first.PlaylistURL != "https://example.com/playlist?list=PL123" {
		t.Fatalf("expected playlist context on entries: %+v", first)
	}
	if !first.Complete() {
		t.Fatalf("expected first entry to be complete: %+v", first)
	}
	if tracks[1].Complete() {
		t.Fatalf("expected entry without locators to be incomplete: %+v", tracks[1])
	}

	args := strings.Join(exec.args[0], " ")
	for _, fragment := range []string{"--dump-single-json", "--no-download", "--yes-playlist", "--format bestaudio/best"} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("expected %q in args %q", fragment, args)
		}
	}
}

func TestResolveTrackParsesSingleEntry(t *testing.T) {
	exec := &stubExecutor{lines: []string{singlePayload}}
	client := ytdlp.New(ytdlp.Config{}, ytdlp.WithExecutor(exec))

	track, err := client.ResolveTrack(context.Background(), "https://example.com/watch?v=lone")
	if err != nil {
		t.Fatalf("ResolveTrack failed: %v", err)
	}
	if track.WebpageURL != "https://example.com/watch?v=lone" {
		t.Fatalf("unexpected webpage url: %q", track.WebpageURL)
	}
	if track.MediaURL == "" || track.DurationSeconds != 240.25 {
		t.Fatalf("unexpected track metadata: %+v", track)
	}
	if track.PlaylistTitle != "" || track.TrackNumber != 0 {
		t.Fatalf("single track should carry no playlist context: %+v", track)
	}

	args := strings.Join(exec.args[0], " ")
	if !strings.Contains(args, "--no-playlist") {
		t.Fatalf("expected --no-playlist in args %q", args)
	}
}

func TestResolveTrackUsesFirstPlaylistEntry(t *testing.T) {
	exec := &stubExecutor{lines: []string{playlistPayload}}
	client := ytdlp.New(ytdlp.Config{}, ytdlp.WithExecutor(exec))

	track, err := client.ResolveTrack(context.Background(), "https://example.com/playlist?list=PL123")
	if err != nil {
		t.Fatalf("ResolveTrack failed: %v", err)
	}
	if track.Title != "First Song" || track.TrackNumber != 1 {
		t.Fatalf("expected first playlist entry, got %+v", track)
	}
	if track.PlaylistTitle != "Morning Mix" {
		t.Fatalf("expected playlist context, got %+v", track)
	}
}

func TestResolveTrackEmptyResponse(t *testing.T) {
	exec := &stubExecutor{}
	client := ytdlp.New(ytdlp.Config{}, ytdlp.WithExecutor(exec))

	if _, err := client.ResolveTrack(context.Background(), "https://example.com/watch?v=gone"); err == nil {
		t.Fatal("expected error for empty metadata response")
	}
}

func TestResolveReturnsExecutorError(t *testing.T) {
	exec := &stubExecutor{err: errors.New("boom")}
	client := ytdlp.New(ytdlp.Config{}, ytdlp.WithExecutor(exec))

	if _, err := client.ResolvePlaylist(context.Background(), "https://example.com/playlist"); err == nil {
		t.Fatal("expected error from executor")
	}
}

func TestFetchToPathBuildsConversionTemplate(t *testing.T) {
	exec := &stubExecutor{}
	client := ytdlp.New(ytdlp.Config{AudioFormat: "wav"}, ytdlp.WithExecutor(exec))

	destPath := filepath.Join(t.TempDir(), "audio", "40c818b9-0cf0-52a9-bb2f-39bbedbb4829.wav")
	if err := client.FetchToPath(context.Background(), "https://example.com/watch?v=one", destPath); err != nil {
		t.Fatalf("FetchToPath failed: %v", err)
	}

	if info, err := os.Stat(filepath.Dir(destPath)); err != nil || !info.IsDir() {
		t.Fatalf("expected destination directory to exist: %v", err)
	}

	args := strings.Join(exec.args[0], " ")
	template := strings.TrimSuffix(destPath, ".wav") + ".%(ext)s"
	for _, fragment := range []string{
		"--format bestaudio/best",
		"--extract-audio",
		"--audio-format wav",
		"--output " + template,
		"--no-playlist",
		"https://example.com/watch?v=one",
	} {
		if !strings.Contains(args, fragment) {
			t.Fatalf("expected %q in args %q", fragment, args)
		}
	}
}

func TestFetchToPathValidatesInput(t *testing.T) {
	client := ytdlp.New(ytdlp.Config{}, ytdlp.WithExecutor(&stubExecutor{}))

	if err := client.FetchToPath(context.Background(), "", "/tmp/out.wav"); err == nil {
		t.Fatal("expected error for missing webpage url")
	}
	if err := client.FetchToPath(context.Background(), "https://example.com/watch?v=x", ""); err == nil {
		t.Fatal("expected error for missing destination")
	}
}
