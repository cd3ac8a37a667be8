// Package transcription runs WhisperX over fetched audio and persists the
// aligned results.
//
// Each transcript is written to the catalog and cached on disk keyed by
// track ID. The stage refuses to run when the audio artifact is absent
// rather than refetching it; ordering between fetch and transcribe belongs
// to the pipeline.
package transcription
