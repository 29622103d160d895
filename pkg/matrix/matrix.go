// Package matrix provides the dense MNA system the analysis engines
// stamp into, mirroring the AddElement/AddComplexElement/AddRHS/Solve
// surface of the teacher's matrix.CircuitMatrix, but backed by plain
// [][]float64/[][]complex128 storage and mnasim/pkg/linsolve instead of
// a sparse factorization library: the original specification's
// Non-goals explicitly rule out sparse storage for this engine.
package matrix

import (
	"mnasim/pkg/linsolve"
)

// Real is a dense real-valued MNA system A x = b of size N.
type Real struct {
	N int
	A [][]float64
	B []float64
}

// NewReal allocates a zeroed N x N real system.
func NewReal(n int) *Real {
	a := make([][]float64, n)
	for i := range a {
		a[i] = make([]float64, n)
	}
	return &Real{N: n, A: a, B: make([]float64, n)}
}

// Reset zeroes A and b for reassembly on the next Newton iteration or time step.
func (m *Real) Reset() {
	for i := range m.A {
		row := m.A[i]
		for j := range row {
			row[j] = 0
		}
		m.B[i] = 0
	}
}

// StampAdmittance additively stamps conductance y between MNA indices i and j.
// Either index may be -1 (ground), in which case that row/column is skipped.
func (m *Real) StampAdmittance(i, j int, y float64) {
	if i >= 0 {
		m.A[i][i] += y
	}
	if j >= 0 {
		m.A[j][j] += y
	}
	if i >= 0 && j >= 0 {
		m.A[i][j] -= y
		m.A[j][i] -= y
	}
}

// StampCurrent additively injects current val from iPlus to iMinus.
func (m *Real) StampCurrent(iPlus, iMinus int, val float64) {
	if iPlus >= 0 {
		m.B[iPlus] -= val
	}
	if iMinus >= 0 {
		m.B[iMinus] += val
	}
}

// StampVoltageSource additively stamps a voltage-source constraint with
// branch-current unknown at index k and terminals i, j.
func (m *Real) StampVoltageSource(i, j, k int, v float64) {
	if i >= 0 {
		m.A[i][k] += 1
		m.A[k][i] += 1
	}
	if j >= 0 {
		m.A[j][k] -= 1
		m.A[k][j] -= 1
	}
	m.B[k] += v
}

// Solve solves A x = b via linsolve.Real.
func (m *Real) Solve() ([]float64, error) {
	return linsolve.Real(m.A, m.B)
}

// Complex is a dense complex-valued MNA system A x = b of size N.
type Complex struct {
	N int
	A [][]complex128
	B []complex128
}

// NewComplex allocates a zeroed N x N complex system.
func NewComplex(n int) *Complex {
	a := make([][]complex128, n)
	for i := range a {
		a[i] = make([]complex128, n)
	}
	return &Complex{N: n, A: a, B: make([]complex128, n)}
}

func (m *Complex) Reset() {
	for i := range m.A {
		row := m.A[i]
		for j := range row {
			row[j] = 0
		}
		m.B[i] = 0
	}
}

func (m *Complex) StampAdmittance(i, j int, y complex128) {
	if i >= 0 {
		m.A[i][i] += y
	}
	if j >= 0 {
		m.A[j][j] += y
	}
	if i >= 0 && j >= 0 {
		m.A[i][j] -= y
		m.A[j][i] -= y
	}
}

func (m *Complex) StampCurrent(iPlus, iMinus int, val complex128) {
	if iPlus >= 0 {
		m.B[iPlus] -= val
	}
	if iMinus >= 0 {
		m.B[iMinus] += val
	}
}

func (m *Complex) StampVoltageSource(i, j, k int, v complex128) {
	if i >= 0 {
		m.A[i][k] += 1
		m.A[k][i] += 1
	}
	if j >= 0 {
		m.A[j][k] -= 1
		m.A[k][j] -= 1
	}
	m.B[k] += v
}

func (m *Complex) Solve() ([]complex128, error) {
	return linsolve.Complex(m.A, m.B)
}
