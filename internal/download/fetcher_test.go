package download_test

import (
	"context"
	"errors"
	"os"
	"testing"

	"trackscribe/internal/catalog"
	"trackscribe/internal/download"
	"trackscribe/internal/logging"
	"trackscribe/internal/services"
	"trackscribe/internal/testsupport"
)

type stubFetcher struct {
	calls   int
	lastURL string
	payload []byte
	err     error
}

func (s *stubFetcher) FetchToPath(_ context.Context, webpageURL, destPath string) error {
	s.calls++
	s.lastURL = webpageURL
	if s.err != nil {
		return s.err
	}
	if s.payload == nil {
		return nil
	}
	return os.WriteFile(destPath, s.payload, 0o644)
}

func TestExecuteFetchesAndRecordsArtifact(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	track := testsupport.NewTrack(t, store, "https://media.example/watch?v=fetch1", "Fetch One")

	stub := &stubFetcher{payload: []byte("wav-bytes")}
	fetcher := download.NewFetcherWithClient(cfg, store, logging.NewNop(), stub)

	if err := fetcher.Execute(context.Background(), track); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}

	if stub.calls != 1 {
		t.Fatalf("expected one fetch call, got %d", stub.calls)
	}
	if stub.lastURL != track.WebpageURL {
		t.Fatalf("fetcher received %q, want webpage URL %q", stub.lastURL, track.WebpageURL)
	}

	wantPath := fetcher.ArtifactPath(track.ID)
	if track.AudioFilePath != wantPath {
		t.Fatalf("audio path %q, want %q", track.AudioFilePath, wantPath)
	}
	if _, err := os.Stat(wantPath); err != nil {
		t.Fatalf("expected artifact on disk: %v", err)
	}

	stored, err := store.GetTrack(context.Background(), track.ID)
	if err != nil {
		t.Fatalf("GetTrack failed: %v", err)
	}
	if stored.Status != catalog.StatusDownloaded {
		t.Fatalf("stored status %q, want %q", stored.Status, catalog.StatusDownloaded)
	}
	if stored.AudioFilePath != wantPath {
		t.Fatalf("stored audio path %q, want %q", stored.AudioFilePath, wantPath)
	}
}

func TestExecuteSkipsFetchWhenArtifactExists(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	track := testsupport.NewTrack(t, store, "https://media.example/watch?v=fetch2", "Fetch Two")

	stub := &stubFetcher{payload: []byte("wav-bytes")}
	fetcher := download.NewFetcherWithClient(cfg, store, logging.NewNop(), stub)
	testsupport.WriteFile(t, fetcher.ArtifactPath(track.ID), 2048)

	if err := fetcher.Execute(context.Background(), track); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if stub.calls != 0 {
		t.Fatalf("expected zero fetch calls for existing artifact, got %d", stub.calls)
	}

	stored, err := store.GetTrack(context.Background(), track.ID)
	if err != nil {
		t.Fatalf("GetTrack failed: %v", err)
	}
	if stored.Status != catalog.StatusDownloaded {
		t.Fatalf("stored status %q, want %q", stored.Status, catalog.StatusDownloaded)
	}
	if stored.AudioFilePath != fetcher.ArtifactPath(track.ID) {
		t.Fatalf("stored audio path %q not updated from disk", stored.AudioFilePath)
	}
}

func TestExecuteFailsWhenNoArtifactProduced(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	track := testsupport.NewTrack(t, store, "https://media.example/watch?v=fetch3", "Fetch Three")

	stub := &stubFetcher{}
	fetcher := download.NewFetcherWithClient(cfg, store, logging.NewNop(), stub)

	err := fetcher.Execute(context.Background(), track)
	if err == nil {
		t.Fatal("expected error when fetcher produced nothing")
	}
	if !errors.Is(err, services.ErrNoArtifact) {
		t.Fatalf("expected no-artifact marker, got %v", err)
	}
	if services.IsRecoverable(err) {
		t.Fatal("missing artifact must be fatal")
	}

	stored, err := store.GetTrack(context.Background(), track.ID)
	if err != nil {
		t.Fatalf("GetTrack failed: %v", err)
	}
	if stored.Status != catalog.StatusPending {
		t.Fatalf("status should remain %q after failed fetch, got %q", catalog.StatusPending, stored.Status)
	}
}

func TestExecuteWrapsFetcherFailure(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	track := testsupport.NewTrack(t, store, "https://media.example/watch?v=fetch4", "Fetch Four")

	stub := &stubFetcher{err: errors.New("network unreachable")}
	fetcher := download.NewFetcherWithClient(cfg, store, logging.NewNop(), stub)

	err := fetcher.Execute(context.Background(), track)
	if err == nil {
		t.Fatal("expected fetch error")
	}
	if !errors.Is(err, services.ErrExternalTool) {
		t.Fatalf("expected external tool marker, got %v", err)
	}
}

func TestHealthCheckReportsMissingBinary(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	cfg.YtDlp.Binary = "definitely-not-installed-yt-dlp"

	fetcher := download.NewFetcherWithClient(cfg, store, logging.NewNop(), &stubFetcher{})
	health := fetcher.HealthCheck(context.Background())
	if health.Ready {
		t.Fatal("expected unhealthy fetch stage")
	}
	if health.Detail == "" {
		t.Fatal("expected detail for missing binary")
	}
}

func TestHealthCheckPassesWithStubbedBinaries(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithStubbedBinaries())
	store := testsupport.MustOpenStore(t, cfg)

	fetcher := download.NewFetcherWithClient(cfg, store, logging.NewNop(), &stubFetcher{})
	if health := fetcher.HealthCheck(context.Background()); !health.Ready {
		t.Fatalf("expected healthy fetch stage, got %s", health.Detail)
	}
}
