package testsupport

import (
	"context"
	"testing"

	"trackscribe/internal/catalog"
	"trackscribe/internal/config"
	"trackscribe/internal/identity"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewTrack persists a pending track for tests and returns it.
func NewTrack(t testing.TB, store *catalog.Store, webpageURL, title string) *catalog.Track {
	t.Helper()

	track := &catalog.Track{
		ID:         identity.TrackID(webpageURL),
		WebpageURL: webpageURL,
		Title:      title,
		Status:     catalog.StatusPending,
	}
	if err := store.UpsertTrack(context.Background(), track); err != nil {
		t.Fatalf("store.UpsertTrack: %v", err)
	}
	return track
}
