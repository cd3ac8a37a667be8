package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"trackscribe/internal/catalog"
	"trackscribe/internal/config"
	"trackscribe/internal/fileutil"
	"trackscribe/internal/textutil"
)

func newExportCommand(cmdCtx *commandContext) *cobra.Command {
	var trackRef string
	var withAudio bool

	exportCmd := &cobra.Command{
		Use:   "export <directory>",
		Short: "Write plain-text transcripts to a directory",
		Long: `Export writes one text file per transcribed track into the given directory,
named after the track title. Pass --track to export a single track and
--with-audio to copy the downloaded audio alongside each transcript.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				dest, err := config.ExpandPath(args[0])
				if err != nil {
					return fmt.Errorf("resolve destination: %w", err)
				}
				if err := os.MkdirAll(dest, 0o755); err != nil {
					return fmt.Errorf("create destination: %w", err)
				}

				var tracks []*catalog.Track
				if strings.TrimSpace(trackRef) != "" {
					track, err := lookupTrack(cmd.Context(), store, trackRef)
					if err != nil {
						return err
					}
					tracks = append(tracks, track)
				} else {
					tracks, err = store.List(cmd.Context(), catalog.StatusTranscribed, catalog.StatusEmbedded)
					if err != nil {
						return err
					}
				}

				out := cmd.OutOrStdout()
				if len(tracks) == 0 {
					fmt.Fprintln(out, "No transcribed tracks to export")
					return nil
				}

				exported := 0
				for _, track := range tracks {
					transcript, err := store.GetTranscript(cmd.Context(), track.ID)
					if err != nil {
						return err
					}
					if transcript == nil {
						fmt.Fprintf(out, "skipping %s: no transcript recorded\n", track.DisplayTitle())
						continue
					}

					base := exportBaseName(track)
					textPath := filepath.Join(dest, base+".txt")
					if err := os.WriteFile(textPath, []byte(transcript.PlainText+"\n"), 0o644); err != nil {
						return fmt.Errorf("write transcript: %w", err)
					}
					fmt.Fprintf(out, "%s -> %s\n", track.DisplayTitle(), textPath)

					if withAudio {
						if err := exportAudio(out, track, dest, base); err != nil {
							return err
						}
					}
					exported++
				}
				fmt.Fprintf(out, "Exported %d transcripts to %s\n", exported, dest)
				return nil
			})
		},
	}

	exportCmd.Flags().StringVar(&trackRef, "track", "", "Export only the track with this id or URL")
	exportCmd.Flags().BoolVar(&withAudio, "with-audio", false, "Copy the downloaded audio file next to each transcript")
	return exportCmd
}

func exportAudio(out io.Writer, track *catalog.Track, dest, base string) error {
	if track.AudioFilePath == "" {
		fmt.Fprintf(out, "skipping audio for %s: no file recorded\n", track.DisplayTitle())
		return nil
	}
	ext := filepath.Ext(track.AudioFilePath)
	audioPath := filepath.Join(dest, base+ext)
	if err := fileutil.CopyFileVerified(track.AudioFilePath, audioPath); err != nil {
		return fmt.Errorf("copy audio for %s: %w", track.DisplayTitle(), err)
	}
	fmt.Fprintf(out, "%s audio -> %s\n", track.DisplayTitle(), audioPath)
	return nil
}

// exportBaseName derives a filesystem-safe name from the track title. Titles
// are not unique across a catalog, so a short id suffix keeps exports from
// colliding.
func exportBaseName(track *catalog.Track) string {
	name := textutil.SanitizeFileName(track.DisplayTitle())
	if name == "" {
		return track.ID.String()
	}
	return name + "-" + shortID(track.ID)
}
