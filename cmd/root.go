// Package cmd implements the vcctl Cobra CLI: one subcommand per engine
// (pack, sulfate, fem, poredist, dryout, stats), each reading a grid text
// image from --grid, writing the mutated grid back (where the engine
// mutates phase), and writing its engine-specific report to stdout or
// --out.
package cmd

import (
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var logLevel string

var rootCmd = &cobra.Command{
	Use:   "vcctl",
	Short: "Voxel-based virtual cement and concrete laboratory",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)
	},
}

// Execute runs the root command, exiting with status 1 on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logLevel, "log", "info", "Log level (debug, info, warn, error)")
}
