package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var configFlag string
	cmdCtx := newCommandContext(&configFlag)

	rootCmd := &cobra.Command{
		Use:           "trackscribe",
		Short:         "Fetch audio tracks and transcribe them with word-level timestamps",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if shouldSkipConfig(cmd) {
				return nil
			}
			_, err := cmdCtx.ensureConfig()
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVarP(&configFlag, "config", "c", "", "Path to configuration file")

	rootCmd.AddCommand(newRunCommand(cmdCtx))
	rootCmd.AddCommand(newTracksCommand(cmdCtx))
	rootCmd.AddCommand(newStatusCommand(cmdCtx))
	rootCmd.AddCommand(newExportCommand(cmdCtx))
	rootCmd.AddCommand(newLogsCommand(cmdCtx))
	rootCmd.AddCommand(newConfigCommand(cmdCtx))

	return rootCmd
}

// shouldSkipConfig reports whether a command opted out of config loading via
// the skipConfigLoad annotation.
func shouldSkipConfig(cmd *cobra.Command) bool {
	for current := cmd; current != nil; current = current.Parent() {
		if current.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}
