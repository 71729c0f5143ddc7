package fem

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/vcctl/vcctl-core/internal/grid"
	"github.com/vcctl/vcctl-core/internal/probe"
)

// MaterialEntry is one YAML-configured phase->moduli row.
type MaterialEntry struct {
	Phase int     `yaml:"phase"`
	K     float64 `yaml:"k"`
	G     float64 `yaml:"g"`
}

// Config is the FEM engine's YAML-loadable configuration bundle: the
// per-phase material table and the applied macroscopic strain, per spec
// §4.4.
type Config struct {
	Materials []MaterialEntry `yaml:"materials"`
	Strain    MacroStrain     `yaml:"strain"`
	DoITZ     bool            `yaml:"do_itz"`
	Concelas  *ConcelasConfig `yaml:"concelas,omitempty"`
}

// ConcelasConfig configures the optional multi-scale concelas estimator
// (spec §4.4 step 3), run alongside the voxel FEM solve. ItzWidth is not set
// directly here: it is always the median diameter of the PSD file named by
// PSDFile, per spec §4.4 step 1 "the median cement PSD".
type ConcelasConfig struct {
	PSDFile      string                `yaml:"psd_file"`
	Paste        Moduli                `yaml:"paste"`
	ITZ          Moduli                `yaml:"itz"`
	Aggregates   []AggregateClass      `yaml:"aggregates"`
	AirFraction  float64               `yaml:"air_fraction"`
	Correlations []StrengthCorrelation `yaml:"correlations,omitempty"`
}

// ItzWidth reads c.PSDFile and returns its median diameter (spec §4.4 step
// 1, §6 PSD format), the itz shell width Concelas is built on.
func (c *ConcelasConfig) ItzWidth() (float64, error) {
	data, err := os.ReadFile(c.PSDFile)
	if err != nil {
		return 0, fmt.Errorf("reading psd file: %w", err)
	}
	entries, err := probe.ParsePSD(bytes.NewReader(data))
	if err != nil {
		return 0, fmt.Errorf("parsing psd file: %w", err)
	}
	return probe.PSDMedian(entries)
}

// LoadConfig reads and strictly decodes an FEM config from path.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fem config: %w", err)
	}
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("parsing fem config: %w", err)
	}
	return &cfg, nil
}

// Validate checks that every configured phase is in range and moduli are
// physically plausible.
func (c *Config) Validate() error {
	if len(c.Materials) == 0 {
		return fmt.Errorf("at least one material entry is required")
	}
	for i, m := range c.Materials {
		if m.Phase < 0 || m.Phase >= int(grid.NPHASES) {
			return fmt.Errorf("material %d: phase %d out of range", i, m.Phase)
		}
		if m.K < 0 || m.G < 0 {
			return fmt.Errorf("material %d: moduli must be non-negative, got K=%v G=%v", i, m.K, m.G)
		}
	}
	if c.Concelas != nil {
		if c.Concelas.PSDFile == "" {
			return fmt.Errorf("concelas: psd_file is required")
		}
		if len(c.Concelas.Aggregates) == 0 {
			return fmt.Errorf("concelas: at least one aggregate class is required")
		}
		if c.Concelas.AirFraction < 0 || c.Concelas.AirFraction >= 1 {
			return fmt.Errorf("concelas: air_fraction must be in [0,1), got %v", c.Concelas.AirFraction)
		}
	}
	return nil
}

// MaterialTable builds the fem.MaterialTable keyed by grid.PhaseId.
func (c *Config) MaterialTable() MaterialTable {
	table := make(MaterialTable, len(c.Materials))
	for _, m := range c.Materials {
		table[grid.PhaseId(m.Phase)] = Moduli{K: m.K, G: m.G}
	}
	return table
}
