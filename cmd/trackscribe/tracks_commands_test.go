package main

import (
	"context"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"trackscribe/internal/catalog"
	"trackscribe/internal/testsupport"
)

func TestTracksListEmptyCatalog(t *testing.T) {
	env := setupCLITestEnv(t)

	stdout, _, err := runCLI(t, env.configPath, "tracks", "list")
	if err != nil {
		t.Fatalf("tracks list: %v", err)
	}
	requireContains(t, stdout, "Catalog is empty")
}

func TestTracksListShowsSeededTracks(t *testing.T) {
	env := setupCLITestEnv(t)
	seedTranscribedTrack(t, env, "https://tracks.example/raga", "Morning Raga")
	seedTranscribedTrack(t, env, "https://tracks.example/nocturne", "Night Nocturne")

	stdout, _, err := runCLI(t, env.configPath, "tracks", "list")
	if err != nil {
		t.Fatalf("tracks list: %v", err)
	}
	requireContains(t, stdout, "Morning Raga")
	requireContains(t, stdout, "Night Nocturne")
	requireContains(t, stdout, "TRANSCRIBED")
	requireContains(t, stdout, "2 tracks")
}

func TestTracksListStatusFilter(t *testing.T) {
	env := setupCLITestEnv(t)
	seedTranscribedTrack(t, env, "https://tracks.example/done", "Finished Track")
	testsupport.NewTrack(t, env.store, "https://tracks.example/waiting", "Waiting Track")

	stdout, _, err := runCLI(t, env.configPath, "tracks", "list", "--status", "transcribed")
	if err != nil {
		t.Fatalf("tracks list --status: %v", err)
	}
	requireContains(t, stdout, "Finished Track")
	if strings.Contains(stdout, "Waiting Track") {
		t.Fatalf("filtered output should omit pending tracks:\n%s", stdout)
	}

	if _, _, err := runCLI(t, env.configPath, "tracks", "list", "--status", "bogus"); err == nil {
		t.Fatal("expected unknown status to fail")
	}
}

func TestTracksListJSON(t *testing.T) {
	env := setupCLITestEnv(t)
	track := seedTranscribedTrack(t, env, "https://tracks.example/raga", "Morning Raga")

	stdout, _, err := runCLI(t, env.configPath, "tracks", "list", "--json")
	if err != nil {
		t.Fatalf("tracks list --json: %v", err)
	}

	var payloads []trackPayload
	if err := json.Unmarshal([]byte(stdout), &payloads); err != nil {
		t.Fatalf("decode JSON output: %v\n%s", err, stdout)
	}
	if len(payloads) != 1 {
		t.Fatalf("expected 1 payload, got %d", len(payloads))
	}
	if payloads[0].ID != track.ID.String() {
		t.Fatalf("payload id = %s, want %s", payloads[0].ID, track.ID)
	}
	if payloads[0].Status != string(catalog.StatusTranscribed) {
		t.Fatalf("payload status = %s", payloads[0].Status)
	}
}

func TestTracksShowByURL(t *testing.T) {
	env := setupCLITestEnv(t)
	track := seedTranscribedTrack(t, env, "https://tracks.example/raga", "Morning Raga")

	stdout, _, err := runCLI(t, env.configPath, "tracks", "show", "https://tracks.example/raga")
	if err != nil {
		t.Fatalf("tracks show: %v", err)
	}
	requireContains(t, stdout, "Morning Raga")
	requireContains(t, stdout, track.ID.String())
	requireContains(t, stdout, "https://tracks.example/raga")
	requireContains(t, stdout, "Transcript:")
	requireContains(t, stdout, "Hello from the catalog.")
}

func TestTracksShowJSONIncludesTranscript(t *testing.T) {
	env := setupCLITestEnv(t)
	track := seedTranscribedTrack(t, env, "https://tracks.example/raga", "Morning Raga")

	stdout, _, err := runCLI(t, env.configPath, "tracks", "show", track.ID.String(), "--json")
	if err != nil {
		t.Fatalf("tracks show --json: %v", err)
	}

	var payload trackDetailPayload
	if err := json.Unmarshal([]byte(stdout), &payload); err != nil {
		t.Fatalf("decode JSON output: %v\n%s", err, stdout)
	}
	if payload.Track.Title != "Morning Raga" {
		t.Fatalf("payload title = %s", payload.Track.Title)
	}
	if payload.Transcript == nil {
		t.Fatal("expected transcript payload")
	}
	if payload.Transcript.SegmentCount != 1 {
		t.Fatalf("segment count = %d", payload.Transcript.SegmentCount)
	}
	if payload.Transcript.Language != "en" {
		t.Fatalf("language = %s", payload.Transcript.Language)
	}
}

func TestTracksShowUnknownReference(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, env.configPath, "tracks", "show", "https://tracks.example/never-ingested")
	if err == nil {
		t.Fatal("expected show to fail for unknown reference")
	}
	requireContains(t, err.Error(), "no track found")
}

func TestTracksRemoveDeletesRow(t *testing.T) {
	env := setupCLITestEnv(t)
	track := seedTranscribedTrack(t, env, "https://tracks.example/raga", "Morning Raga")

	stdout, _, err := runCLI(t, env.configPath, "tracks", "rm", track.ID.String())
	if err != nil {
		t.Fatalf("tracks rm: %v", err)
	}
	requireContains(t, stdout, "Removed Morning Raga")

	got, err := env.store.GetTrack(context.Background(), track.ID)
	if err != nil {
		t.Fatalf("GetTrack: %v", err)
	}
	if got != nil {
		t.Fatal("track still present after rm")
	}

	if _, _, err := runCLI(t, env.configPath, "tracks", "rm", track.ID.String()); err == nil {
		t.Fatal("expected rm of missing track to fail")
	}
}

func TestTracksRemovePurgeFilesDeletesArtifacts(t *testing.T) {
	env := setupCLITestEnv(t)
	track := seedTranscribedTrack(t, env, "https://tracks.example/raga", "Morning Raga")

	if _, err := os.Stat(track.AudioFilePath); err != nil {
		t.Fatalf("audio artifact missing before rm: %v", err)
	}

	if _, _, err := runCLI(t, env.configPath, "tracks", "rm", track.ID.String(), "--purge-files"); err != nil {
		t.Fatalf("tracks rm --purge-files: %v", err)
	}

	if _, err := os.Stat(track.AudioFilePath); !os.IsNotExist(err) {
		t.Fatalf("audio artifact should be deleted, stat err = %v", err)
	}
}
