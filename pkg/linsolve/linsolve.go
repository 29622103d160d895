// Package linsolve implements dense Gaussian elimination with partial
// pivoting over real and complex systems, in the style of the sparse
// row/column elimination the reference corpus (edp1096/sparse) performs
// on a linked element list, but over a plain dense augmented matrix:
// sparse factor retention is explicitly out of scope for this engine,
// so every Solve call rebuilds and discards its own working copy.
package linsolve

import (
	"errors"
	"fmt"
	"math"

	"mnasim/pkg/cplx"
)

// Epsilon is the pivot-magnitude floor below which a column is singular.
const Epsilon = 1e-15

// ErrSingular is returned when no row in the remaining pivot column has
// a magnitude at or above Epsilon.
var ErrSingular = errors.New("linsolve: singular matrix")

// Real solves A x = b via Gaussian elimination with partial pivoting by
// column absolute value. A is not mutated; Real augments a local copy.
func Real(a [][]float64, b []float64) ([]float64, error) {
	n := len(b)
	aug := make([][]float64, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]float64, n+1)
		copy(aug[i], a[i])
		aug[i][n] = b[i]
	}

	for k := 0; k < n; k++ {
		pivotRow, pivotMag := k, math.Abs(aug[k][k])
		for i := k + 1; i < n; i++ {
			if mag := math.Abs(aug[i][k]); mag > pivotMag {
				pivotRow, pivotMag = i, mag
			}
		}
		if pivotMag < Epsilon {
			return nil, fmt.Errorf("%w: pivot column %d magnitude %g", ErrSingular, k, pivotMag)
		}
		aug[k], aug[pivotRow] = aug[pivotRow], aug[k]

		for i := k + 1; i < n; i++ {
			f := aug[i][k] / aug[k][k]
			if math.Abs(f) < Epsilon {
				continue
			}
			for j := k; j <= n; j++ {
				aug[i][j] -= f * aug[k][j]
			}
		}
	}

	x := make([]float64, n)
	for i := n - 1; i >= 0; i-- {
		sum := aug[i][n]
		for j := i + 1; j < n; j++ {
			sum -= aug[i][j] * x[j]
		}
		x[i] = sum / aug[i][i]
	}
	return x, nil
}

// Complex solves A x = b via Gaussian elimination with partial pivoting
// by complex magnitude. A is not mutated; Complex augments a local copy.
func Complex(a [][]complex128, b []complex128) ([]complex128, error) {
	n := len(b)
	aug := make([][]complex128, n)
	for i := 0; i < n; i++ {
		aug[i] = make([]complex128, n+1)
		copy(aug[i], a[i])
		aug[i][n] = b[i]
	}

	for k := 0; k < n; k++ {
		pivotRow, pivotMag := k, cplx.Abs(aug[k][k])
		for i := k + 1; i < n; i++ {
			if mag := cplx.Abs(aug[i][k]); mag > pivotMag {
				pivotRow, pivotMag = i, mag
			}
		}
		if pivotMag < Epsilon {
			return nil, fmt.Errorf("%w: pivot column %d magnitude %g", ErrSingular, k, pivotMag)
		}
		aug[k], aug[pivotRow] = aug[pivotRow], aug[k]

		for i := k + 1; i < n; i++ {
			f := aug[i][k] / aug[k][k]
			if cplx.Abs(f) < Epsilon {
				continue
			}
			for j := k; j <= n; j++ {
				aug[i][j] -= f * aug[k][j]
			}
		}
	}

	x := make([]complex128, n)
	for i := n - 1; i >= 0; i-- {
		sum := aug[i][n]
		for j := i + 1; j < n; j++ {
			sum -= aug[i][j] * x[j]
		}
		x[i] = sum / aug[i][i]
	}
	return x, nil
}
