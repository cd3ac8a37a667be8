package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"trackscribe/internal/catalog"
	"trackscribe/internal/config"
	"trackscribe/internal/identity"
)

func newTracksCommand(cmdCtx *commandContext) *cobra.Command {
	tracksCmd := &cobra.Command{
		Use:   "tracks",
		Short: "Inspect and manage cataloged tracks",
	}
	tracksCmd.AddCommand(newTracksListCommand(cmdCtx))
	tracksCmd.AddCommand(newTracksShowCommand(cmdCtx))
	tracksCmd.AddCommand(newTracksRemoveCommand(cmdCtx))
	return tracksCmd
}

func newTracksListCommand(cmdCtx *commandContext) *cobra.Command {
	var statusFilters []string
	var asJSON bool

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List cataloged tracks",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				statuses, err := parseStatusFilters(statusFilters)
				if err != nil {
					return err
				}
				tracks, err := store.List(cmd.Context(), statuses...)
				if err != nil {
					return err
				}
				if asJSON {
					payloads := make([]trackPayload, 0, len(tracks))
					for _, track := range tracks {
						payloads = append(payloads, buildTrackPayload(track))
					}
					return writeJSON(cmd, payloads)
				}

				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintln(out, "Catalog is empty")
					return nil
				}
				rows := make([][]string, 0, len(tracks))
				for _, track := range tracks {
					rows = append(rows, []string{
						shortID(track.ID),
						truncateText(track.DisplayTitle(), 48),
						string(track.Status),
						truncateText(track.Uploader, 24),
						formatTrackDuration(track.DurationSeconds),
					})
				}
				fmt.Fprintln(out, renderTable(
					[]string{"ID", "Title", "Status", "Uploader", "Length"},
					rows,
					[]columnAlignment{alignLeft, alignLeft, alignLeft, alignLeft, alignRight},
				))
				fmt.Fprintf(out, "%d tracks\n", len(tracks))
				return nil
			})
		},
	}

	listCmd.Flags().StringSliceVar(&statusFilters, "status", nil, "Filter by status (repeatable)")
	listCmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of a table")
	return listCmd
}

func newTracksShowCommand(cmdCtx *commandContext) *cobra.Command {
	var asJSON bool

	showCmd := &cobra.Command{
		Use:   "show <id-or-url>",
		Short: "Show one track and its transcript",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				track, err := lookupTrack(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				transcript, err := store.GetTranscript(cmd.Context(), track.ID)
				if err != nil {
					return err
				}
				if asJSON {
					payload := trackDetailPayload{Track: buildTrackPayload(track)}
					if transcript != nil {
						payload.Transcript = buildTranscriptPayload(transcript)
					}
					return writeJSON(cmd, payload)
				}
				printTrackDetail(cmd.OutOrStdout(), track, transcript)
				return nil
			})
		},
	}

	showCmd.Flags().BoolVar(&asJSON, "json", false, "Emit JSON instead of text")
	return showCmd
}

func newTracksRemoveCommand(cmdCtx *commandContext) *cobra.Command {
	var purgeFiles bool

	rmCmd := &cobra.Command{
		Use:     "rm <id-or-url>",
		Aliases: []string{"remove"},
		Short:   "Remove a track and its transcript from the catalog",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				track, err := lookupTrack(cmd.Context(), store, args[0])
				if err != nil {
					return err
				}
				deleted, err := store.DeleteTrack(cmd.Context(), track.ID)
				if err != nil {
					return err
				}
				if !deleted {
					return fmt.Errorf("no track found for %q", args[0])
				}

				out := cmd.OutOrStdout()
				fmt.Fprintf(out, "Removed %s (%s)\n", track.DisplayTitle(), shortID(track.ID))
				if !purgeFiles {
					return nil
				}
				for _, path := range trackArtifactPaths(cfg, track) {
					if err := os.Remove(path); err != nil {
						if os.IsNotExist(err) {
							continue
						}
						return fmt.Errorf("remove %s: %w", path, err)
					}
					fmt.Fprintf(out, "Deleted %s\n", path)
				}
				return nil
			})
		},
	}

	rmCmd.Flags().BoolVar(&purgeFiles, "purge-files", false, "Also delete the audio file and cached transcript files")
	return rmCmd
}

// lookupTrack resolves a user supplied reference, either a catalog id or the
// original track URL, to a stored track.
func lookupTrack(ctx context.Context, store *catalog.Store, ref string) (*catalog.Track, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, errors.New("track id or url is required")
	}
	id, err := uuid.Parse(ref)
	if err != nil {
		id = identity.TrackID(ref)
	}
	track, err := store.GetTrack(ctx, id)
	if err != nil {
		return nil, err
	}
	if track == nil {
		return nil, fmt.Errorf("no track found for %q", ref)
	}
	return track, nil
}

// trackArtifactPaths lists every file a track may have left on disk: the
// audio download plus the cached transcript JSON and plain text.
func trackArtifactPaths(cfg *config.Config, track *catalog.Track) []string {
	paths := []string{
		filepath.Join(cfg.Paths.AudioDir, identity.AudioFilename(track.ID, cfg.YtDlp.AudioFormat)),
		filepath.Join(cfg.Paths.TranscriptDir, identity.TranscriptFilename(track.ID)),
		filepath.Join(cfg.Paths.TranscriptDir, identity.PlainTextFilename(track.ID)),
	}
	if track.AudioFilePath != "" && track.AudioFilePath != paths[0] {
		paths = append(paths, track.AudioFilePath)
	}
	return paths
}

func parseStatusFilters(raw []string) ([]catalog.Status, error) {
	var statuses []catalog.Status
	for _, value := range raw {
		status, ok := catalog.ParseStatus(value)
		if !ok {
			return nil, fmt.Errorf("unknown status %q (expected one of %s)", value, statusNames())
		}
		statuses = append(statuses, status)
	}
	return statuses, nil
}

func statusNames() string {
	all := catalog.AllStatuses()
	names := make([]string, 0, len(all))
	for _, status := range all {
		names = append(names, strings.ToLower(string(status)))
	}
	return strings.Join(names, ", ")
}

func printTrackDetail(out io.Writer, track *catalog.Track, transcript *catalog.Transcript) {
	fmt.Fprintln(out, track.DisplayTitle())
	fmt.Fprintf(out, "  ID:         %s\n", track.ID)
	fmt.Fprintf(out, "  URL:        %s\n", track.WebpageURL)
	fmt.Fprintf(out, "  Status:     %s\n", track.Status)
	if track.Uploader != "" {
		fmt.Fprintf(out, "  Uploader:   %s\n", track.Uploader)
	}
	if track.DurationSeconds > 0 {
		fmt.Fprintf(out, "  Length:     %s\n", formatTrackDuration(track.DurationSeconds))
	}
	if track.PlaylistTitle != "" {
		fmt.Fprintf(out, "  Playlist:   %s (track %d)\n", track.PlaylistTitle, track.TrackNumber)
	}
	if track.AudioFilePath != "" {
		fmt.Fprintf(out, "  Audio:      %s\n", track.AudioFilePath)
	}
	fmt.Fprintf(out, "  Added:      %s\n", track.CreatedAt.Local().Format(time.RFC1123))

	if transcript == nil {
		fmt.Fprintln(out, "  Transcript: none")
		return
	}
	fmt.Fprintf(out, "  Transcript: %d segments, language %s\n", len(transcript.Result.Segments), transcript.Language)
	if preview := truncateText(transcript.PlainText, 200); preview != "" {
		fmt.Fprintf(out, "  Preview:    %s\n", preview)
	}
}
