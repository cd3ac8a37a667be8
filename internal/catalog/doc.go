// Package catalog persists tracks and their transcripts in SQLite and is
// the single source of truth for lifecycle semantics.
//
// Track rows are keyed by the version-5 UUID of the canonical webpage URL,
// so writes for the same source always land on the same row. All writes go
// through single-statement conflict upserts; the status column only moves
// forward (PENDING, DOWNLOADED, TRANSCRIBED, EMBEDDED) and replaying an
// earlier snapshot never demotes a row. Transcripts share their primary
// key with the owning track and are removed by cascade when the track is
// deleted.
//
// Schema changes are additive migration files under migrations/; the Store
// applies any it has not yet recorded on open.
package catalog
