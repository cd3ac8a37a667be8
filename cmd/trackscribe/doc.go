// Command trackscribe is the command line interface for the track
// transcription pipeline: run fetches and transcribes sources, tracks
// inspects the catalog, status reports health, and export writes transcripts
// out as plain text.
package main
