// Package download fetches track audio through yt-dlp and records the
// artifact in the catalog.
//
// Artifact locations derive from the track ID alone, which makes the stage
// idempotent: when the expected file already exists the fetcher is never
// invoked and the catalog row is brought up to date from what is on disk.
package download
