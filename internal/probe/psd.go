package probe

import (
	"bufio"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"gonum.org/v1/gonum/stat"
)

// PSDEntry is one row of a cement particle-size-distribution file, per spec
// §6: a particle diameter (µm) and its volume fraction of the total solids.
type PSDEntry struct {
	Diameter       float64
	VolumeFraction float64
}

// ParsePSD reads the PSD text format of spec §6: whitespace-separated
// `diameter volume_fraction` rows, one particle bin per line.
func ParsePSD(r io.Reader) ([]PSDEntry, error) {
	sc := bufio.NewScanner(r)
	var entries []PSDEntry
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("psd file: malformed row %q", line)
		}
		d, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("psd file: invalid diameter %q: %w", fields[0], err)
		}
		v, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("psd file: invalid volume_fraction %q: %w", fields[1], err)
		}
		entries = append(entries, PSDEntry{Diameter: d, VolumeFraction: v})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("psd file: no entries")
	}
	return entries, nil
}

// PSDMedian returns the median particle diameter by cumulative-volume-
// fraction interpolation, per spec §4.4 step 1's "median cement PSD": the
// diameter at which the interpolated cumulative volume fraction crosses
// 0.5. Uses gonum/stat's linear-interpolation quantile over the
// diameter-sorted, volume-fraction-weighted distribution.
func PSDMedian(entries []PSDEntry) (float64, error) {
	if len(entries) == 0 {
		return 0, fmt.Errorf("psd: no entries")
	}
	sorted := make([]PSDEntry, len(entries))
	copy(sorted, entries)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Diameter < sorted[j].Diameter })

	diameters := make([]float64, len(sorted))
	weights := make([]float64, len(sorted))
	for i, e := range sorted {
		diameters[i] = e.Diameter
		weights[i] = e.VolumeFraction
	}
	return stat.Quantile(0.5, stat.LinInterp, diameters, weights), nil
}
