package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/spf13/cobra"

	"trackscribe/internal/catalog"
	"trackscribe/internal/config"
	"trackscribe/internal/deps"
	"trackscribe/internal/logging"
	"trackscribe/internal/pipeline"
	"trackscribe/internal/preflight"
)

func newStatusCommand(cmdCtx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration, catalog, and dependency health",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmdCtx.withStore(func(cfg *config.Config, store *catalog.Store) error {
				out := cmd.OutOrStdout()
				colorize := shouldColorize(out)

				printConfigSection(out, cmdCtx, cfg, colorize)
				printCatalogSection(cmd, out, store, colorize)
				printStageSection(cmd, out, cfg, store, colorize)
				printDependencySection(out, cfg, colorize)
				printDirectorySection(out, cfg, colorize)
				return nil
			})
		},
	}
}

func printConfigSection(out io.Writer, cmdCtx *commandContext, cfg *config.Config, colorize bool) {
	printSection(out, "Configuration", colorize)
	path, exists := cmdCtx.configSource()
	if exists {
		printCheckLine(out, "Config file", checkOK, path, colorize)
	} else {
		printCheckLine(out, "Config file", checkWarn, path+" (not found, using defaults)", colorize)
	}
	printCheckLine(out, "Database", checkInfo, cfg.Database.Path, colorize)
	printCheckLine(out, "Audio directory", checkInfo, cfg.Paths.AudioDir, colorize)
	printCheckLine(out, "Transcript directory", checkInfo, cfg.Paths.TranscriptDir, colorize)
	printCheckLine(out, "Log directory", checkInfo, cfg.Paths.LogDir, colorize)
	fmt.Fprintln(out)
}

func printCatalogSection(cmd *cobra.Command, out io.Writer, store *catalog.Store, colorize bool) {
	printSection(out, "Catalog", colorize)

	health, err := store.CheckHealth(cmd.Context())
	if err != nil {
		printCheckLine(out, "Database health", checkError, err.Error(), colorize)
		fmt.Fprintln(out)
		return
	}
	ready := health.DatabaseExists && health.DatabaseReadable && health.TablesPresent && health.IntegrityCheck
	if ready {
		printCheckLine(out, "Database health", checkOK, fmt.Sprintf("%d tracks", health.TotalTracks), colorize)
	} else {
		detail := health.Error
		if detail == "" {
			detail = "schema or integrity check failed"
		}
		printCheckLine(out, "Database health", checkError, detail, colorize)
	}

	counts, err := store.Health(cmd.Context())
	if err != nil {
		printCheckLine(out, "Track counts", checkError, err.Error(), colorize)
		fmt.Fprintln(out)
		return
	}
	rows := [][]string{
		{string(catalog.StatusPending), strconv.Itoa(counts.Pending)},
		{string(catalog.StatusDownloaded), strconv.Itoa(counts.Downloaded)},
		{string(catalog.StatusTranscribed), strconv.Itoa(counts.Transcribed)},
		{string(catalog.StatusEmbedded), strconv.Itoa(counts.Embedded)},
	}
	fmt.Fprintln(out, renderTable(
		[]string{"Status", "Tracks"},
		rows,
		[]columnAlignment{alignLeft, alignRight},
	))
	fmt.Fprintln(out)
}

func printStageSection(cmd *cobra.Command, out io.Writer, cfg *config.Config, store *catalog.Store, colorize bool) {
	printSection(out, "Stages", colorize)
	checks := pipeline.New(cfg, store, logging.NewNop()).HealthCheck(cmd.Context())
	for _, check := range checks {
		if check.Ready {
			printCheckLine(out, check.Name, checkOK, check.Detail, colorize)
		} else {
			printCheckLine(out, check.Name, checkError, check.Detail, colorize)
		}
	}
	fmt.Fprintln(out)
}

func printDependencySection(out io.Writer, cfg *config.Config, colorize bool) {
	printSection(out, "Dependencies", colorize)
	for _, status := range preflight.CheckSystemDeps(cfg) {
		switch {
		case status.Available:
			detail := deps.ToolVersion(status.Command)
			if detail == "" {
				detail = status.Detail
			}
			printCheckLine(out, status.Name, checkOK, detail, colorize)
		case status.Optional:
			printCheckLine(out, status.Name, checkWarn, status.Detail, colorize)
		default:
			printCheckLine(out, status.Name, checkError, status.Detail, colorize)
		}
	}
	fmt.Fprintln(out)
}

func printDirectorySection(out io.Writer, cfg *config.Config, colorize bool) {
	printSection(out, "Directories", colorize)
	for _, result := range preflight.RunAll(cfg) {
		if result.Passed {
			printCheckLine(out, result.Name, checkOK, result.Detail, colorize)
		} else {
			printCheckLine(out, result.Name, checkError, result.Detail, colorize)
		}
	}
}
