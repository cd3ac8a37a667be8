// Package language provides unified language code normalization and mapping.
//
// Language hints arrive as 2-letter codes, 3-letter codes, or full words
// depending on where they came from; conversions are consolidated here so
// the transcription engine and display code agree on one form.
package language
