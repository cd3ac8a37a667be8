// Package ytdlp mediates access to the yt-dlp CLI used for discovery and
// audio fetching.
//
// It normalizes command invocation, parses single-JSON metadata dumps
// into per-entry track info, and downloads audio onto deterministic
// destination paths. Media URLs reported at discovery time expire
// quickly, so downloads always let yt-dlp resolve a fresh one from the
// canonical webpage URL.
//
// Prefer this package over ad-hoc exec.Command usage when interacting
// with yt-dlp so output parsing and timeout handling remain consistent.
package ytdlp
