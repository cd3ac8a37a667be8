package main

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// shortID returns the leading segment of a track id, enough to disambiguate
// in table output while staying readable.
func shortID(id uuid.UUID) string {
	return id.String()[:8]
}

func formatTrackDuration(seconds float64) string {
	if seconds <= 0 {
		return "-"
	}
	total := int(seconds + 0.5)
	hours := total / 3600
	minutes := (total % 3600) / 60
	secs := total % 60
	if hours > 0 {
		return fmt.Sprintf("%d:%02d:%02d", hours, minutes, secs)
	}
	return fmt.Sprintf("%d:%02d", minutes, secs)
}

func truncateText(value string, max int) string {
	value = strings.Join(strings.Fields(value), " ")
	runes := []rune(value)
	if len(runes) <= max {
		return value
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}
