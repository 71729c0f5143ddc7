package cmd

import (
	"os"

	"github.com/sirupsen/logrus"

	"github.com/vcctl/vcctl-core/internal/grid"
)

// loadGrid reads and parses the text image at path, fatally logging and
// exiting on failure (per the teacher's Cobra command error-handling idiom).
func loadGrid(path string) *grid.Grid {
	f, err := os.Open(path)
	if err != nil {
		logrus.Fatalf("opening grid %q: %v", path, err)
	}
	defer f.Close()
	g, err := grid.ReadImage(f)
	if err != nil {
		logrus.Fatalf("reading grid %q: %v", path, err)
	}
	return g
}

// saveGrid writes g's text image to path.
func saveGrid(g *grid.Grid, path string) {
	f, err := os.Create(path)
	if err != nil {
		logrus.Fatalf("creating grid %q: %v", path, err)
	}
	defer f.Close()
	if err := g.WriteImage(f); err != nil {
		logrus.Fatalf("writing grid %q: %v", path, err)
	}
}

// openOut opens --out for writing, or returns stdout when path is empty.
func openOut(path string) (*os.File, func()) {
	if path == "" {
		return os.Stdout, func() {}
	}
	f, err := os.Create(path)
	if err != nil {
		logrus.Fatalf("creating output %q: %v", path, err)
	}
	return f, func() { f.Close() }
}
