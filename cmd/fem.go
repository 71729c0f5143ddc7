package cmd

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/vcctl/vcctl-core/internal/fem"
)

var (
	femGridPath   string
	femConfigPath string
	femOutPath    string
)

var femCmd = &cobra.Command{
	Use:   "fem",
	Short: "Solve the linear-elastic periodic homogenization problem on a grid",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := fem.LoadConfig(femConfigPath)
		if err != nil {
			logrus.Fatalf("loading fem config: %v", err)
		}
		if err := cfg.Validate(); err != nil {
			logrus.Fatalf("invalid fem config: %v", err)
		}

		g := loadGrid(femGridPath)
		asm, err := fem.NewAssembly(g, cfg.MaterialTable(), cfg.Strain)
		if err != nil {
			logrus.Fatalf("fem assembly failed: %v", err)
		}

		sol := fem.Solve(asm)
		logrus.Infof("CG finished after %d iterations (converged=%v, gg=%g)", sol.Iters, sol.Converged, sol.FinalGG)

		byPhase, byLayer := fem.EvaluateStress(asm, sol, cfg.DoITZ)
		strain, stress := fem.TotalStressStrain(byPhase)
		moduli := fem.Fit(strain, stress)

		out, closeOut := openOut(femOutPath)
		defer closeOut()
		if err := fem.WriteEffectiveModuli(out, moduli); err != nil {
			logrus.Fatalf("writing effective moduli: %v", err)
		}
		if err := fem.WritePhaseContributions(out, byPhase); err != nil {
			logrus.Fatalf("writing phase contributions: %v", err)
		}
		if cfg.DoITZ {
			if err := fem.WriteITZModuli(out, byLayer); err != nil {
				logrus.Fatalf("writing ITZ moduli: %v", err)
			}
		}

		if cfg.Concelas != nil {
			itzWidth, err := cfg.Concelas.ItzWidth()
			if err != nil {
				logrus.Fatalf("computing concelas itz width: %v", err)
			}
			concrete := fem.Concelas(cfg.Concelas.Paste, cfg.Concelas.ITZ, cfg.Concelas.Aggregates,
				itzWidth, cfg.Concelas.AirFraction, cfg.Concelas.Correlations)
			if err := fem.WriteConcrete(out, concrete); err != nil {
				logrus.Fatalf("writing concrete result: %v", err)
			}
		}
	},
}

func init() {
	femCmd.Flags().StringVar(&femGridPath, "grid", "", "Path to input grid text image")
	femCmd.Flags().StringVar(&femConfigPath, "config", "", "Path to fem config YAML")
	femCmd.Flags().StringVar(&femOutPath, "out", "", "Path to write EffectiveModuli/PhaseContributions/ITZmoduli (default: stdout)")
	_ = femCmd.MarkFlagRequired("grid")
	_ = femCmd.MarkFlagRequired("config")

	rootCmd.AddCommand(femCmd)
}
