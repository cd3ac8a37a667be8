// Package pipeline drives the full ingestion sequence for a source URL:
// discovery, the fetch stage, and the transcribe stage, with skip gates
// that make re-runs of finished work free.
package pipeline
