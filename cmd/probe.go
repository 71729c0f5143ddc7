package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vcctl/vcctl-core/internal/probe"
)

var (
	poredistGridPath string
	poredistMaxR     int
	poredistOutPath  string
)

var poredistCmd = &cobra.Command{
	Use:   "poredist",
	Short: "Simulate mercury intrusion and report the pore-size distribution",
	Run: func(cmd *cobra.Command, args []string) {
		g := loadGrid(poredistGridPath)
		result := probe.PoreDist(g, poredistMaxR)

		out, closeOut := openOut(poredistOutPath)
		defer closeOut()
		if err := probe.WritePoreDist(out, result); err != nil {
			logrus.Fatalf("writing pore distribution: %v", err)
		}
	},
}

var (
	dryoutGridPath  string
	dryoutOutPath   string
	dryoutTargetSat float64
	dryoutCubeSize  int
)

var dryoutCmd = &cobra.Command{
	Use:   "dryout",
	Short: "Remove saturated capillary-pore voxels to reach a target degree of saturation",
	Run: func(cmd *cobra.Command, args []string) {
		g := loadGrid(dryoutGridPath)
		cfg := probe.DryoutConfig{TargetSaturation: dryoutTargetSat, CubeSize: dryoutCubeSize}
		result, err := probe.Dryout(g, cfg)
		if err != nil {
			logrus.Fatalf("dryout run failed: %v", err)
		}

		out := dryoutGridPath
		if dryoutOutPath != "" {
			out = dryoutOutPath
		}
		saveGrid(g, out)
		logrus.Infof("removed %d/%d candidate voxels (cube size settled at %d), achieved saturation %.4f",
			result.Removed, result.Ndesire, result.CubeSize, result.AchievedSaturation)
	},
}

func init() {
	poredistCmd.Flags().StringVar(&poredistGridPath, "grid", "", "Path to input grid text image")
	poredistCmd.Flags().IntVar(&poredistMaxR, "max-radius", 20, "Largest probe radius to test, in voxels")
	poredistCmd.Flags().StringVar(&poredistOutPath, "out", "", "Path to write the distribution table (default: stdout)")
	_ = poredistCmd.MarkFlagRequired("grid")
	rootCmd.AddCommand(poredistCmd)

	dryoutCmd.Flags().StringVar(&dryoutGridPath, "grid", "", "Path to input grid text image")
	dryoutCmd.Flags().StringVar(&dryoutOutPath, "out", "", "Path to write the dried grid (default: overwrite --grid)")
	dryoutCmd.Flags().Float64Var(&dryoutTargetSat, "target-saturation", 0.5, "Target overall degree of saturation, in [0,1]")
	dryoutCmd.Flags().IntVar(&dryoutCubeSize, "cube-size", 7, "Initial centered-cube side length for scoring candidates (odd, >= 3)")
	_ = dryoutCmd.MarkFlagRequired("grid")
	rootCmd.AddCommand(dryoutCmd)
}
