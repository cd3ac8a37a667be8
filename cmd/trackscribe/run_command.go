package main

import (
	"errors"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trackscribe/internal/catalog"
	"trackscribe/internal/config"
	"trackscribe/internal/logging"
	"trackscribe/internal/pipeline"
	"trackscribe/internal/preflight"
)

func newRunCommand(cmdCtx *commandContext) *cobra.Command {
	var playlist bool
	var continueOnError bool

	runCmd := &cobra.Command{
		Use:   "run [url]",
		Short: "Fetch and transcribe a track or playlist",
		Long: `Run resolves the source URL, downloads any tracks that are not yet on disk,
and transcribes them. Tracks that already carry a stored transcript are
skipped, so re-running the same source is cheap.

The URL argument is optional when source.url is set in the configuration.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			source := strings.TrimSpace(cfg.Source.URL)
			if len(args) > 0 && strings.TrimSpace(args[0]) != "" {
				source = strings.TrimSpace(args[0])
			}
			if source == "" {
				return errors.New("no source url: pass one as an argument or set source.url in the config file")
			}

			if cmd.Flags().Changed("playlist") {
				cfg.Source.Playlist = playlist
			}
			if cmd.Flags().Changed("continue-on-error") {
				cfg.Pipeline.ContinueOnError = continueOnError
			}

			return runPipeline(cmd, cfg, source)
		},
	}

	runCmd.Flags().BoolVarP(&playlist, "playlist", "p", false, "Treat the source URL as a playlist")
	runCmd.Flags().BoolVar(&continueOnError, "continue-on-error", false, "Keep processing remaining playlist entries when one fails")

	return runCmd
}

func runPipeline(cmd *cobra.Command, cfg *config.Config, source string) error {
	if failed := preflight.Failed(preflight.RunAll(cfg)); len(failed) > 0 {
		var details []string
		for _, result := range failed {
			details = append(details, fmt.Sprintf("%s: %s", result.Name, result.Detail))
		}
		return fmt.Errorf("preflight checks failed: %s", strings.Join(details, "; "))
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	runID := time.Now().UTC().Format("20060102T150405.000Z")
	logPath := filepath.Join(cfg.Paths.LogDir, "trackscribe-"+runID+".log")
	logger, err := logging.New(logging.Options{
		Level:            cfg.Logging.Level,
		Format:           cfg.Logging.Format,
		OutputPaths:      []string{"stdout", logPath},
		ErrorOutputPaths: []string{"stderr", logPath},
	})
	if err != nil {
		return fmt.Errorf("initialize logging: %w", err)
	}

	logging.CleanupOldLogs(logger, cfg.Logging.RetentionDays, logging.RetentionTarget{
		Dir:     cfg.Paths.LogDir,
		Pattern: "trackscribe-*.log",
		Exclude: []string{logPath},
	})

	store, err := catalog.Open(cfg)
	if err != nil {
		return fmt.Errorf("open catalog: %w", err)
	}
	defer store.Close()

	summary, runErr := pipeline.New(cfg, store, logger).Run(ctx, source)
	if summary != nil {
		printRunSummary(cmd.OutOrStdout(), summary)
	}
	return runErr
}

func printRunSummary(out io.Writer, summary *pipeline.Summary) {
	fmt.Fprintf(out, "\nProcessed %d entries in %s\n", summary.Discovered, summary.Elapsed.Round(time.Millisecond))

	rows := [][]string{
		{"Transcribed", strconv.Itoa(summary.Transcribed)},
		{"Already transcribed", strconv.Itoa(summary.AlreadyTranscribed)},
		{"Skipped (incomplete metadata)", strconv.Itoa(summary.SkippedIncomplete)},
		{"Failed", strconv.Itoa(summary.Failed)},
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Outcome", "Count"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))

	for _, failure := range summary.Failures {
		title := failure.Title
		if title == "" {
			title = failure.WebpageURL
		}
		fmt.Fprintf(out, "failed %s: %v\n", title, failure.Err)
	}
}
