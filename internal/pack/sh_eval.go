package pack

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"math/cmplx"
	"strconv"
	"strings"
)

// QuadratureNode is one row of the 120-point Gaussian quadrature file (§6):
// an abscissa Xg (used as cos(theta)) and weight Wg.
type QuadratureNode struct {
	Xg, Wg float64
}

// LoadQuadrature reads the text quadrature file format of spec §6: 120 rows
// of `(xg, wg)`.
func LoadQuadrature(r io.Reader) ([]QuadratureNode, error) {
	sc := bufio.NewScanner(r)
	var nodes []QuadratureNode
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return nil, fmt.Errorf("quadrature file: malformed row %q", line)
		}
		xg, err := strconv.ParseFloat(fields[0], 64)
		if err != nil {
			return nil, fmt.Errorf("quadrature file: invalid xg %q: %w", fields[0], err)
		}
		wg, err := strconv.ParseFloat(fields[1], 64)
		if err != nil {
			return nil, fmt.Errorf("quadrature file: invalid wg %q: %w", fields[1], err)
		}
		nodes = append(nodes, QuadratureNode{Xg: xg, Wg: wg})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return nodes, nil
}

// sphericalHarmonicY evaluates the complex spherical harmonic Y[n,m] at
// (theta,phi) using the Condon-Shortley-normalized associated Legendre
// function.
func sphericalHarmonicY(n, m int, theta, phi float64) complex128 {
	mm := m
	sign := 1.0
	if mm < 0 {
		mm = -mm
		if mm%2 != 0 {
			sign = -1.0
		}
	}
	norm := math.Sqrt(float64(2*n+1) / (4 * math.Pi) * factorial(n-mm) / factorial(n+mm))
	p := assocLegendre(n, mm, math.Cos(theta))
	real := norm * p
	if m < 0 {
		real *= sign
	}
	return complex(real, 0) * cmplx.Exp(complex(0, float64(m)*phi))
}

// assocLegendre evaluates the associated Legendre function P_n^m(x) via the
// standard upward recurrence from P_m^m.
func assocLegendre(n, m int, x float64) float64 {
	pmm := 1.0
	if m > 0 {
		somx2 := math.Sqrt((1 - x) * (1 + x))
		fact := 1.0
		for i := 1; i <= m; i++ {
			pmm *= -fact * somx2
			fact += 2
		}
	}
	if n == m {
		return pmm
	}
	pmmp1 := x * float64(2*m+1) * pmm
	if n == m+1 {
		return pmmp1
	}
	var pnn float64
	pll1, pll2 := pmmp1, pmm
	for l := m + 2; l <= n; l++ {
		pnn = (x*float64(2*l-1)*pll1 - float64(l+m-1)*pll2) / float64(l-m)
		pll2 = pll1
		pll1 = pnn
	}
	return pnn
}

// RadiusAt evaluates rho(theta,phi) = sum_{n,m} AA[n,m]*Y[n,m](theta,phi),
// taking the real part (the radial surface function is real-valued by
// construction for a physical shape), per spec §4.2.
func RadiusAt(coeffs *ShapeCoeffs, theta, phi float64) float64 {
	var acc complex128
	for n := 0; n <= MaxDegree; n++ {
		for m := -n; m <= n; m++ {
			c := coeffs.At(n, m)
			if c == 0 {
				continue
			}
			acc += c * sphericalHarmonicY(n, m, theta, phi)
		}
	}
	return real(acc)
}
