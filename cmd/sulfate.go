package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vcctl/vcctl-core/internal/diffuse"
)

var (
	sulfateGridPath   string
	sulfateConfigPath string
	sulfateOutPath    string
	sulfatePlotPath   string
)

var sulfateCmd = &cobra.Command{
	Use:   "sulfate",
	Short: "Run the sulfate-attack diffusion simulation",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := diffuse.LoadConfig(sulfateConfigPath)
		if err != nil {
			logrus.Fatalf("loading sulfate config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid sulfate config: %v", err)
		}

		g := loadGrid(sulfateGridPath)
		plotW, closePlot := openOut(sulfatePlotPath)
		defer closePlot()

		engine := diffuse.NewEngine(cfg)
		result, err := engine.Run(g, plotW)
		if err != nil {
			logrus.Fatalf("sulfate run failed: %v", err)
		}

		out := sulfateGridPath
		if sulfateOutPath != "" {
			out = sulfateOutPath
		}
		saveGrid(result.Grid, out)
		logrus.Infof("ran %d of %d requested cycles", result.CyclesRan, cfg.Ncyc)
	},
}

func init() {
	sulfateCmd.Flags().StringVar(&sulfateGridPath, "grid", "", "Path to input grid text image")
	sulfateCmd.Flags().StringVar(&sulfateConfigPath, "config", "", "Path to sulfate config YAML")
	sulfateCmd.Flags().StringVar(&sulfateOutPath, "out", "", "Path to write the reacted grid (default: overwrite --grid)")
	sulfateCmd.Flags().StringVar(&sulfatePlotPath, "plot", "", "Path to write per-cycle plot output (default: stdout)")
	_ = sulfateCmd.MarkFlagRequired("grid")
	_ = sulfateCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(sulfateCmd)
}
