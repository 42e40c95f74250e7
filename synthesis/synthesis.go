// Package synthesis turns a coherence-adjusted spectral matrix into real
// time series: random-phase assignment, spectral assembly and the inverse
// real FFT.
package synthesis

import (
	"fmt"
	"math"
	"math/cmplx"
	"math/rand"

	"github.com/wiless/turbulence"
	"github.com/wiless/turbulence/grid"
	"github.com/wiless/turbulence/spectrum"
	"github.com/wiless/vlib"
	"gonum.org/v1/gonum/dsp/fourier"
)

// RandomPhasors returns an np x nf spectral matrix of unit phasors, one
// independent uniform phase per point per frequency. The caller owns the
// rand source so runs are reproducible from a seed.
func RandomPhasors(np, nf int, rng *rand.Rand) turbulence.SpectralMatrix {
	phr := turbulence.NewSpectralMatrix(np, nf)
	for p := range phr {
		for k := range phr[p] {
			phr[p][k] = cmplx.Rect(1, 2*math.Pi*rng.Float64())
		}
	}
	return phr
}

// Assemble scales the phasors of phr by each point's uncoherent amplitude
// column sqrt(S(f_k)*df), in place. The per-point mean speeds u follow the
// grid's point enumeration.
func Assemble(phr turbulence.SpectralMatrix, m spectrum.Model, g *grid.Grid, f vlib.VectorF, df float64, u vlib.VectorF) error {
	if err := m.Validate(); err != nil {
		return err
	}
	if phr.Np() != g.Np() || u.Size() < g.Np() {
		return fmt.Errorf("synthesis: phr has %d rows, u %d entries, grid %d points", phr.Np(), u.Size(), g.Np())
	}
	if phr.Nf() != f.Size() {
		return fmt.Errorf("synthesis: phr has %d columns, f %d frequencies", phr.Nf(), f.Size())
	}
	for p := range phr {
		amp := spectrum.Amplitudes(m, f, df, g.Loc(p).Z, u[p])
		for k := range phr[p] {
			phr[p][k] *= complex(amp[k], 0)
		}
	}
	return nil
}

// TimeSeries inverse-transforms every row of phr into a real series of
// nt = 2*nf samples. Coefficients are scaled by sqrt(2)/2 so each row's
// sample variance matches its integrated one-sided spectrum; the zero bin
// carries no mean (callers add their own mean profile).
func TimeSeries(phr turbulence.SpectralMatrix) ([]vlib.VectorF, error) {
	nf := phr.Nf()
	if nf == 0 {
		return nil, fmt.Errorf("synthesis: empty spectral matrix")
	}
	nt := 2 * nf
	fft := fourier.NewFFT(nt)
	coeff := make([]complex128, nf+1)
	result := make([]vlib.VectorF, phr.Np())
	for p := range phr {
		coeff[0] = 0
		for k := 0; k < nf; k++ {
			coeff[k+1] = phr[p][k] * complex(math.Sqrt2/2, 0)
		}
		result[p] = vlib.VectorF(fft.Sequence(nil, coeff))
	}
	return result, nil
}
