package main

import (
	"log/slog"

	"github.com/spf13/cobra"
)

var version = "dev"

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ex4check",
		Short: "ex4check - grading harness for the ex4 analyzer exercise",
		Long: `ex4check is the grading-support harness for the ex4 uninitialized-variable
analysis exercise.

It packs a student source tree into a submission archive, and extracts, builds,
and exercises a submitted archive against the course test suite, comparing the
analyzer's output to expected output per test case.`,
		Version:      version,
		SilenceUsage: true,
	}

	debugLogging := cmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	cmd.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		if *debugLogging {
			slog.SetLogLoggerLevel(slog.LevelDebug)
		}
	}

	cmd.AddCommand(newRunCommand())
	cmd.AddCommand(newPackCommand())

	return cmd
}

func execute() error {
	rootCmd := newRootCommand()
	return rootCmd.Execute()
}
