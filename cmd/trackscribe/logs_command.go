package main

import (
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"trackscribe/internal/runlog"
)

func newLogsCommand(cmdCtx *commandContext) *cobra.Command {
	var limit int
	var follow bool
	var filePath string

	logsCmd := &cobra.Command{
		Use:   "logs",
		Short: "Show output from the most recent run",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := cmdCtx.ensureConfig()
			if err != nil {
				return err
			}

			path := strings.TrimSpace(filePath)
			if path == "" {
				path, err = runlog.Latest(cfg.Paths.LogDir)
				if err != nil {
					return err
				}
				if path == "" {
					fmt.Fprintln(cmd.OutOrStdout(), "No run logs found")
					return nil
				}
			}

			out := cmd.OutOrStdout()
			lines, offset, err := runlog.TailLines(path, limit)
			if err != nil {
				return err
			}
			for _, line := range lines {
				fmt.Fprintln(out, line)
			}
			if !follow {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			ticker := time.NewTicker(500 * time.Millisecond)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return nil
				case <-ticker.C:
				}
				lines, offset, err = runlog.ReadFrom(path, offset)
				if err != nil {
					return err
				}
				for _, line := range lines {
					fmt.Fprintln(out, line)
				}
			}
		},
	}

	logsCmd.Flags().IntVarP(&limit, "lines", "n", 50, "Number of trailing lines to print")
	logsCmd.Flags().BoolVarP(&follow, "follow", "f", false, "Keep printing lines as a concurrent run writes them")
	logsCmd.Flags().StringVar(&filePath, "file", "", "Read this log file instead of the newest run log")
	return logsCmd
}
