// Package services defines shared utilities consumed by the pipeline
// stages and external tool integrations.
//
// Key responsibilities:
//   - Context helpers that stamp track IDs, stage names, and correlation
//     identifiers for logging and tracing.
//   - Structured error markers plus the Wrap helper that let the
//     orchestrator tell recoverable entry skips apart from failures that
//     are fatal for a track.
//   - Thin abstractions that make command execution against external
//     tools testable.
//
// Use these helpers when wiring new stage logic so operational behaviour
// stays uniform across the pipeline.
package services
