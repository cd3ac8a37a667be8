package services

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrExternalTool  = errors.New("external tool error")
	ErrValidation    = errors.New("validation error")
	ErrConfiguration = errors.New("configuration error")
	ErrNotFound      = errors.New("not found")
	ErrTimeout       = errors.New("timeout")
	ErrTransient     = errors.New("transient failure")

	// ErrMetadata marks a source entry whose discovery metadata is too
	// incomplete to process. Unlike the other markers it is recoverable:
	// the pipeline logs a warning and moves on to the next entry.
	ErrMetadata = errors.New("incomplete metadata")

	// ErrPrecondition marks a stage invoked before its inputs exist, such
	// as transcription of a track with no audio artifact on disk.
	ErrPrecondition = errors.New("stage precondition not met")

	// ErrNoArtifact marks a fetch that reported success yet produced no
	// artifact at the expected path.
	ErrNoArtifact = errors.New("fetch produced no artifact")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification. The marker should be
// one of the exported sentinel errors above.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrTransient
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// IsRecoverable reports whether the pipeline may skip the affected entry
// and keep processing its siblings. Only metadata gaps discovered during
// playlist expansion are recoverable; every other failure is fatal for
// its track.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrMetadata)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
