package fem

// nodeCoords gives the natural-coordinate (xi,eta,zeta) position of each of
// the 8 trilinear hexahedron nodes, in the source's corner ordering.
var nodeCoords = [8][3]float64{
	{-1, -1, -1}, {1, -1, -1}, {1, 1, -1}, {-1, 1, -1},
	{-1, -1, 1}, {1, -1, 1}, {1, 1, 1}, {-1, 1, 1},
}

// simpson3 holds the 3-point Simpson quadrature abscissae and weights on
// [-1,1], per spec §4.4 "precomputed once by Simpson's-rule quadrature
// (3³ points)".
var simpson3 = [3]struct{ x, w float64 }{
	{-1, 1.0 / 3.0},
	{0, 4.0 / 3.0},
	{1, 1.0 / 3.0},
}

// jacobianDet is the constant Jacobian determinant mapping the natural cube
// [-1,1]^3 onto a unit-volume physical voxel (each physical axis spans
// length 1, so dx/dxi = 0.5 on every axis).
const jacobianDet = 1.0 / 8.0

// shapeDerivs returns dN_i/dxi, dN_i/deta, dN_i/dzeta for all 8 nodes at
// natural coordinate (xi,eta,zeta).
func shapeDerivs(xi, eta, zeta float64) (dxi, deta, dzeta [8]float64) {
	for i, c := range nodeCoords {
		xi_i, eta_i, zeta_i := c[0], c[1], c[2]
		dxi[i] = 0.125 * xi_i * (1 + eta*eta_i) * (1 + zeta*zeta_i)
		deta[i] = 0.125 * (1 + xi*xi_i) * eta_i * (1 + zeta*zeta_i)
		dzeta[i] = 0.125 * (1 + xi*xi_i) * (1 + eta*eta_i) * zeta_i
	}
	return
}

// strainMatrix builds the 6x24 strain-displacement matrix B at one
// quadrature point, in strain order (exx,eyy,ezz,exz,eyz,exy) per spec
// §4.4, from the natural-coordinate shape derivatives (converted to
// physical derivatives by the constant factor 2 per axis).
func strainMatrix(xi, eta, zeta float64) [6][24]float64 {
	dxi, deta, dzeta := shapeDerivs(xi, eta, zeta)
	var b [6][24]float64
	for i := 0; i < 8; i++ {
		dNdx := 2 * dxi[i]
		dNdy := 2 * deta[i]
		dNdz := 2 * dzeta[i]
		cx, cy, cz := 3*i, 3*i+1, 3*i+2
		b[0][cx] = dNdx // exx
		b[1][cy] = dNdy // eyy
		b[2][cz] = dNdz // ezz
		b[3][cx] = dNdz // exz
		b[3][cz] = dNdx
		b[4][cy] = dNdz // eyz
		b[4][cz] = dNdy
		b[5][cx] = dNdy // exy
		b[5][cy] = dNdx
	}
	return b
}

// isotropicC builds the 6x6 isotropic elasticity matrix in the same strain
// order as strainMatrix: C = K*ck + G*cmu, per spec §4.4.
func isotropicC(m Moduli) [6][6]float64 {
	k, g := m.K, m.G
	var c [6][6]float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			if i == j {
				c[i][j] = k + 4*g/3
			} else {
				c[i][j] = k - 2*g/3
			}
		}
	}
	c[3][3], c[4][4], c[5][5] = g, g, g
	return c
}

// ElementStiffness is dk[i][alpha][j][beta]: the 8x3x8x3 per-phase element
// stiffness tensor, integrated once via 3³-point Simpson quadrature of
// BᵀCB over the unit cube, per spec §4.4.
type ElementStiffness [8][3][8][3]float64

// BuildElementStiffness computes dk for a phase with elastic moduli m.
func BuildElementStiffness(m Moduli) ElementStiffness {
	c := isotropicC(m)
	var dk ElementStiffness
	for _, qx := range simpson3 {
		for _, qy := range simpson3 {
			for _, qz := range simpson3 {
				weight := qx.w * qy.w * qz.w * jacobianDet
				b := strainMatrix(qx.x, qy.x, qz.x)
				accumulate(&dk, b, c, weight)
			}
		}
	}
	return dk
}

func accumulate(dk *ElementStiffness, b [6][24]float64, c [6][6]float64, weight float64) {
	// cb[m][col] = sum_n C[m][n]*B[n][col], then dk += weight * B^T * cb
	var cb [6][24]float64
	for m := 0; m < 6; m++ {
		for col := 0; col < 24; col++ {
			sum := 0.0
			for n := 0; n < 6; n++ {
				sum += c[m][n] * b[n][col]
			}
			cb[m][col] = sum
		}
	}
	for row := 0; row < 24; row++ {
		i, alpha := row/3, row%3
		for col := 0; col < 24; col++ {
			j, beta := col/3, col%3
			sum := 0.0
			for m := 0; m < 6; m++ {
				sum += b[m][row] * cb[m][col]
			}
			dk[i][alpha][j][beta] += weight * sum
		}
	}
}
