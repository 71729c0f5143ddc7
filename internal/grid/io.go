package grid

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/vcctl/vcctl-core/internal/vcerr"
)

const engineName = "grid"

// defaultN/defaultR are the fallback dimension (for each axis) and resolution used when a
// header is absent, per spec §4.1/§6.
const (
	defaultN = 100
	defaultR = 1.0
)

// headerKeys are the recognized `Key:` tokens, order-independent, per §4.1.
const (
	keyVersion    = "Version"
	keyXSize      = "X_Size"
	keyYSize      = "Y_Size"
	keyZSize      = "Z_Size"
	keyResolution = "Image_Resolution"
)

// ReadImage parses the text image format described in spec §4.1/§6: an
// optional header of `Key: value` lines (order-independent) followed by
// Nx*Ny*Nz whitespace-separated integer phase ids in z-outermost order. If
// no header is present, it defaults to 100x100x100 at R=1.0 and rewinds to
// read the voxel block from the top of the input. Every id is passed
// through RemapPhase using the header's Version (or "2.0" if absent/
// unparseable, per §6).
func ReadImage(r io.Reader) (*Grid, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, vcerr.New(engineName, "ReadImage", vcerr.Fatal, err)
	}
	sc := bufio.NewScanner(strings.NewReader(string(data)))
	sc.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)

	header := map[string]string{}
	headerStarted := false
	var bodyStart int // byte offset in data where the voxel block begins

	// Scan line-by-line to detect an optional header. A line is part of the
	// header iff it contains a recognized `Key:` token; the first line that
	// is not a recognized header line ends the header (possibly immediately,
	// meaning no header was present at all).
	offset := 0
	for sc.Scan() {
		line := sc.Text()
		lineLen := len(line) + 1 // scanner strips the trailing newline
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			offset += lineLen
			continue
		}
		key, val, isHeaderLine := parseHeaderLine(trimmed)
		if !isHeaderLine {
			break
		}
		headerStarted = true
		header[key] = val
		offset += lineLen
		bodyStart = offset
	}

	version := defaultVersion(header[keyVersion])
	nx, ny, nz, res, err := resolveDims(header, headerStarted)
	if err != nil {
		return nil, err
	}

	var body string
	if headerStarted {
		body = string(data[bodyStart:])
	} else {
		// No header at all: rewind to read the raw block from the top.
		body = string(data)
	}

	ids, err := parseVoxels(body, nx*ny*nz)
	if err != nil {
		return nil, err
	}

	g := &Grid{Nx: nx, Ny: ny, Nz: nz, R: res, Version: version, Phase: ids}
	for i, id := range g.Phase {
		remapped := RemapPhase(id, version)
		if remapped < 0 || remapped >= NPHASES {
			return nil, vcerr.Newf(engineName, "ReadImage", vcerr.Fatal,
				"voxel %d: phase id %d out of range after remap", i, remapped)
		}
		g.Phase[i] = remapped
	}
	return g, nil
}

// parseHeaderLine reports whether trimmed is a recognized `Key: value` line
// and, if so, returns the key and value.
func parseHeaderLine(trimmed string) (key, val string, ok bool) {
	idx := strings.Index(trimmed, ":")
	if idx < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(trimmed[:idx])
	val = strings.TrimSpace(trimmed[idx+1:])
	switch key {
	case keyVersion, keyXSize, keyYSize, keyZSize, keyResolution:
		return key, val, true
	default:
		return "", "", false
	}
}

func defaultVersion(v string) string {
	if v == "" {
		return CurrentVersion
	}
	return v
}

// resolveDims computes (Nx,Ny,Nz,R) from a parsed header, applying the
// default-100^3/R=1.0 fallback when no header was present, and failing
// fatally when a header was started but a required key is missing or
// unparseable (§4.1 failure modes).
func resolveDims(header map[string]string, headerStarted bool) (nx, ny, nz int, r float64, err error) {
	if !headerStarted {
		return defaultN, defaultN, defaultN, defaultR, nil
	}
	nx, err1 := requireInt(header, keyXSize)
	ny, err2 := requireInt(header, keyYSize)
	nz, err3 := requireInt(header, keyZSize)
	for _, e := range []error{err1, err2, err3} {
		if e != nil {
			return 0, 0, 0, 0, e
		}
	}
	res := defaultR
	if rv, ok := header[keyResolution]; ok {
		parsed, perr := strconv.ParseFloat(rv, 64)
		if perr != nil {
			return 0, 0, 0, 0, vcerr.Newf(engineName, "ReadImage", vcerr.Fatal,
				"%s: invalid resolution %q: %v", keyResolution, rv, perr)
		}
		res = parsed
	}
	if nx <= 0 || ny <= 0 || nz <= 0 {
		return 0, 0, 0, 0, vcerr.Newf(engineName, "ReadImage", vcerr.Fatal,
			"grid dimensions must be positive, got %dx%dx%d", nx, ny, nz)
	}
	return nx, ny, nz, res, nil
}

func requireInt(header map[string]string, key string) (int, error) {
	v, ok := header[key]
	if !ok {
		return 0, vcerr.Newf(engineName, "ReadImage", vcerr.Fatal, "missing header key %q", key)
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, vcerr.Newf(engineName, "ReadImage", vcerr.Fatal, "%s: invalid integer %q: %v", key, v, err)
	}
	return n, nil
}

// parseVoxels reads exactly want whitespace-separated integers from body.
func parseVoxels(body string, want int) ([]PhaseId, error) {
	fields := strings.Fields(body)
	if len(fields) < want {
		return nil, vcerr.Newf(engineName, "ReadImage", vcerr.Fatal,
			"expected %d voxel values, found %d", want, len(fields))
	}
	ids := make([]PhaseId, want)
	for i := 0; i < want; i++ {
		v, err := strconv.Atoi(fields[i])
		if err != nil {
			return nil, vcerr.Newf(engineName, "ReadImage", vcerr.Fatal,
				"voxel %d: invalid integer %q: %v", i, fields[i], err)
		}
		ids[i] = PhaseId(v)
	}
	return ids, nil
}

// WriteImage emits the text image format with a header stamped at
// CurrentVersion (writers always emit a header, per §4.1/§6).
func (g *Grid) WriteImage(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%s: %s\n", keyVersion, CurrentVersion)
	fmt.Fprintf(bw, "%s: %d\n", keyXSize, g.Nx)
	fmt.Fprintf(bw, "%s: %d\n", keyYSize, g.Ny)
	fmt.Fprintf(bw, "%s: %d\n", keyZSize, g.Nz)
	fmt.Fprintf(bw, "%s: %g\n", keyResolution, g.R)
	col := 0
	for _, id := range g.Phase {
		if col > 0 {
			bw.WriteByte(' ')
		}
		fmt.Fprintf(bw, "%d", id)
		col++
		if col == g.Nx {
			bw.WriteByte('\n')
			col = 0
		}
	}
	if col != 0 {
		bw.WriteByte('\n')
	}
	return bw.Flush()
}
