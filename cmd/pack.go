package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vcctl/vcctl-core/internal/pack"
)

var (
	packGridPath      string
	packConfigPath    string
	packOutPath       string
	packPartGridPath  string
	packStructurePath string
)

var packCmd = &cobra.Command{
	Use:   "pack",
	Short: "Place aggregate particles into a grid by size class",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := pack.LoadConfig(packConfigPath)
		if err != nil {
			logrus.Fatalf("loading packing config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid packing config: %v", err)
		}

		g := loadGrid(packGridPath)
		engine := pack.NewEngine(cfg)
		result, err := engine.Run(g)
		if err != nil {
			logrus.Fatalf("packing run failed: %v", err)
		}

		out := packGridPath
		if packOutPath != "" {
			out = packOutPath
		}
		saveGrid(result.Grid, out)
		logrus.Infof("placed %d particles across %d size classes", len(result.Particles), len(cfg.SizeClasses))

		if packPartGridPath != "" {
			pgOut, closePg := openOut(packPartGridPath)
			defer closePg()
			if err := pack.WritePartGrid(pgOut, result.PartGrid); err != nil {
				logrus.Fatalf("writing particle-id grid: %v", err)
			}
		}
		if packStructurePath != "" {
			sOut, closeS := openOut(packStructurePath)
			defer closeS()
			if err := pack.WriteStructure(sOut, result.Particles, result.Radii, result.Shapes); err != nil {
				logrus.Fatalf("writing packing structure file: %v", err)
			}
		}
	},
}

func init() {
	packCmd.Flags().StringVar(&packGridPath, "grid", "", "Path to input grid text image")
	packCmd.Flags().StringVar(&packConfigPath, "config", "", "Path to packing config YAML")
	packCmd.Flags().StringVar(&packOutPath, "out", "", "Path to write the packed grid (default: overwrite --grid)")
	packCmd.Flags().StringVar(&packPartGridPath, "partgrid", "", "Path to write the particle-id grid (default: not written)")
	packCmd.Flags().StringVar(&packStructurePath, "structure", "", "Path to write the packing structure file (default: not written)")
	_ = packCmd.MarkFlagRequired("grid")
	_ = packCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(packCmd)
}
