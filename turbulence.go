// Package turbulence applies spatial coherence models to the spectral
// representation of a synthetic turbulent wind field. The caller owns a
// complex spectral matrix (one row per grid point, one column per frequency)
// holding uncoherent per-point amplitudes with random phases; the kernels in
// this package rewrite it in place into a coherence-consistent field ready
// for inverse-FFT synthesis.
package turbulence

import (
	"errors"
	"fmt"

	"github.com/wiless/vlib"
)

var (
	// ErrDimension indicates the spectral matrix, frequency vector and grid
	// axes disagree on their shapes.
	ErrDimension = errors.New("turbulence: dimension mismatch")
	// ErrParameter indicates a physically invalid model parameter.
	ErrParameter = errors.New("turbulence: invalid model parameter")
	// ErrNumeric indicates a non-finite coherence or factorization value.
	ErrNumeric = errors.New("turbulence: numeric instability")
)

// SpectralMatrix is the shared spectral array phr. Row p holds the one-sided
// complex amplitudes of grid point p over all frequencies. Points are
// enumerated y-fastest: p = iz*ny + iy.
type SpectralMatrix []vlib.VectorC

// NewSpectralMatrix allocates an np x nf zero matrix.
func NewSpectralMatrix(np, nf int) SpectralMatrix {
	result := make(SpectralMatrix, np)
	for p := range result {
		result[p] = vlib.NewVectorC(nf)
	}
	return result
}

// Np returns the number of grid points (rows).
func (s SpectralMatrix) Np() int {
	return len(s)
}

// Nf returns the number of frequency columns.
func (s SpectralMatrix) Nf() int {
	if len(s) == 0 {
		return 0
	}
	return s[0].Size()
}

// Dims carries explicit dimension overrides for the kernels. Zero fields are
// derived from the array arguments; non-zero fields are validated against
// the derived values and rejected on mismatch.
type Dims struct {
	Nf int
	Ny int
	Nz int
}

// checkShapes derives (nf,ny,nz) from the arrays, applies any explicit
// override, and verifies the spectral matrix agrees before it is touched.
func checkShapes(phr SpectralMatrix, f, y, z vlib.VectorF, dims ...Dims) (nf, ny, nz int, err error) {
	nf, ny, nz = f.Size(), y.Size(), z.Size()
	if len(dims) > 0 {
		d := dims[0]
		if d.Nf > 0 {
			if d.Nf != nf {
				return 0, 0, 0, fmt.Errorf("%w: explicit nf=%d but len(f)=%d", ErrDimension, d.Nf, nf)
			}
		}
		if d.Ny > 0 {
			if d.Ny > ny {
				return 0, 0, 0, fmt.Errorf("%w: explicit ny=%d but len(y)=%d", ErrDimension, d.Ny, ny)
			}
			ny = d.Ny
		}
		if d.Nz > 0 {
			if d.Nz > nz {
				return 0, 0, 0, fmt.Errorf("%w: explicit nz=%d but len(z)=%d", ErrDimension, d.Nz, nz)
			}
			nz = d.Nz
		}
	}
	if nf == 0 || ny == 0 || nz == 0 {
		return 0, 0, 0, fmt.Errorf("%w: empty frequency vector or grid axis", ErrDimension)
	}
	np := ny * nz
	if phr.Np() != np {
		return 0, 0, 0, fmt.Errorf("%w: phr has %d rows, grid has %d points", ErrDimension, phr.Np(), np)
	}
	for p := 0; p < np; p++ {
		if phr[p].Size() != nf {
			return 0, 0, 0, fmt.Errorf("%w: phr row %d has %d columns, want nf=%d", ErrDimension, p, phr[p].Size(), nf)
		}
	}
	last := 0.0
	for k := 0; k < nf; k++ {
		if f[k] <= last {
			return 0, 0, 0, fmt.Errorf("%w: frequency vector must be positive and strictly increasing (f[%d]=%v)", ErrParameter, k, f[k])
		}
		last = f[k]
	}
	return nf, ny, nz, nil
}
