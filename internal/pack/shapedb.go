package pack

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
)

// ShapeEntry is one row of a `<shapeset>-geom.dat` particle-shape database
// file, per spec §6.
type ShapeEntry struct {
	Name                         string
	Xlow, Xhi, Ylow, Yhi, Zlow, Zhi float64
	Volume, SurfArea, NSurfArea  float64
	Diam                         float64
	Itrace                       int
	Nnn                          int
	NGC                          int
	Length, Width, Thickness     float64
	NLength, NWidth              float64
}

// LoadShapeDB reads `<dir>/<shapeset>-geom.dat` and every referenced
// `<name>.anm` spherical-harmonic file from dir, per spec §6.
func LoadShapeDB(dir, shapeset string) ([]ShapeEntry, map[string]*ShapeCoeffs, error) {
	geomPath := filepath.Join(dir, shapeset+"-geom.dat")
	f, err := os.Open(geomPath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening shape geometry file: %w", err)
	}
	defer f.Close()

	entries, err := parseGeomFile(f)
	if err != nil {
		return nil, nil, fmt.Errorf("parsing shape geometry file %s: %w", geomPath, err)
	}

	coeffs := make(map[string]*ShapeCoeffs, len(entries))
	for _, e := range entries {
		anmPath := filepath.Join(dir, e.Name+".anm")
		af, err := os.Open(anmPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening shape coefficient file %s: %w", anmPath, err)
		}
		c, err := parseAnmFile(af)
		af.Close()
		if err != nil {
			return nil, nil, fmt.Errorf("parsing shape coefficient file %s: %w", anmPath, err)
		}
		coeffs[e.Name] = c
	}
	return entries, coeffs, nil
}

func parseGeomFile(f *os.File) ([]ShapeEntry, error) {
	sc := bufio.NewScanner(f)
	var entries []ShapeEntry
	first := true
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if first {
			first = false
			// Header row: tab/space-separated column names. Skip it.
			if _, err := strconv.ParseFloat(fields[1], 64); err != nil {
				continue
			}
		}
		if len(fields) < 18 {
			return nil, fmt.Errorf("row %q: expected 18 columns, got %d", line, len(fields))
		}
		e := ShapeEntry{Name: fields[0]}
		vals := make([]float64, 0, 16)
		for _, s := range fields[1:17] {
			v, err := strconv.ParseFloat(s, 64)
			if err != nil {
				return nil, fmt.Errorf("row %q: invalid number %q: %w", line, s, err)
			}
			vals = append(vals, v)
		}
		e.Xlow, e.Xhi, e.Ylow, e.Yhi, e.Zlow, e.Zhi = vals[0], vals[1], vals[2], vals[3], vals[4], vals[5]
		e.Volume, e.SurfArea, e.NSurfArea, e.Diam = vals[6], vals[7], vals[8], vals[9]
		e.Itrace, e.Nnn, e.NGC = int(vals[10]), int(vals[11]), int(vals[12])
		e.Length, e.Width, e.Thickness = vals[13], vals[14], vals[15]
		if len(fields) >= 18 {
			nl, err1 := strconv.ParseFloat(fields[17], 64)
			if err1 == nil {
				e.NLength = nl
			}
		}
		if len(fields) >= 19 {
			nw, err2 := strconv.ParseFloat(fields[18], 64)
			if err2 == nil {
				e.NWidth = nw
			}
		}
		entries = append(entries, e)
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return entries, nil
}

// parseAnmFile reads the `<name>.anm` coefficient file: rows of
// `n m Re(AA[n,m]) Im(AA[n,m])`.
func parseAnmFile(f *os.File) (*ShapeCoeffs, error) {
	sc := bufio.NewScanner(f)
	c := NewShapeCoeffs()
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 4 {
			return nil, fmt.Errorf("row %q: expected 4 columns", line)
		}
		n, err := strconv.Atoi(fields[0])
		if err != nil {
			return nil, fmt.Errorf("row %q: invalid n: %w", line, err)
		}
		m, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, fmt.Errorf("row %q: invalid m: %w", line, err)
		}
		re, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, fmt.Errorf("row %q: invalid Re: %w", line, err)
		}
		im, err := strconv.ParseFloat(fields[3], 64)
		if err != nil {
			return nil, fmt.Errorf("row %q: invalid Im: %w", line, err)
		}
		c.Set(n, m, complex(re, im))
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return c, nil
}
