// Package whisperx invokes the WhisperX CLI and parses its output.
//
// This package handles:
//   - Building the transcription command (model, device, precision,
//     language hint, character alignment flag)
//   - Parsing the engine's JSON payload into the catalog's aligned
//     result shape
//
// A single invocation performs transcription and forced alignment; the
// command runner hook lets tests substitute a fake engine.
package whisperx
