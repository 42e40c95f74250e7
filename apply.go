package turbulence

import (
	"fmt"
	"math"
	"math/cmplx"
	"sync"

	log "github.com/sirupsen/logrus"
	"github.com/wiless/turbulence/coherence"
	"github.com/wiless/turbulence/grid"
	"github.com/wiless/vlib"
)

// ApplyGenericCoherence rewrites phr in place with the generic exponential
// coherence model
//
//	coh = exp(-coefA*((f*d/um)^2 + (coefB*d)^coefExp)^(1/2))
//
// where um is the pair mean of the per-point velocity array u. ncpus workers
// process independent frequency columns; correctness does not depend on the
// worker count. The optional trailing Dims overrides the derived shapes.
func ApplyGenericCoherence(phr SpectralMatrix, f, y, z, u vlib.VectorF, coefA, coefB, coefExp float64, ncpus int, dims ...Dims) error {
	_, ny, nz, err := checkShapes(phr, f, y, z, dims...)
	if err != nil {
		return err
	}
	np := ny * nz
	if u.Size() < np {
		return fmt.Errorf("%w: velocity array has %d entries, grid has %d points", ErrDimension, u.Size(), np)
	}
	for p := 0; p < np; p++ {
		if u[p] <= 0 || math.IsInf(u[p], 0) || math.IsNaN(u[p]) {
			return fmt.Errorf("%w: point velocity u[%d]=%v", ErrParameter, p, u[p])
		}
	}
	model := coherence.GenericModel{CoefA: coefA, CoefB: coefB, CoefExp: coefExp}
	g, err := grid.New(y[:ny], z[:nz])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDimension, err)
	}
	return apply(phr, f, g, model, u[:np], ncpus)
}

// ApplyIECCoherence rewrites phr in place with the IEC 61400-1 exponential
// coherence model
//
//	coh = exp(-a*sqrt((f*d/uhub)^2 + (0.12*d/lc)^2))
//
// using the single hub-height wind speed uhub for the whole grid.
func ApplyIECCoherence(phr SpectralMatrix, f, y, z vlib.VectorF, uhub, a, lc float64, ncpus int, dims ...Dims) error {
	_, ny, nz, err := checkShapes(phr, f, y, z, dims...)
	if err != nil {
		return err
	}
	model := coherence.IECModel{UHub: uhub, A: a, Lc: lc}
	g, err := grid.New(y[:ny], z[:nz])
	if err != nil {
		return fmt.Errorf("%w: %v", ErrDimension, err)
	}
	return apply(phr, f, g, model, nil, ncpus)
}

// apply fans the frequency columns out over ncpus workers. Columns are
// disjoint slices of phr, so the workers share no mutable state and need no
// locks; each carries its own scratch buffers.
func apply(phr SpectralMatrix, f vlib.VectorF, g *grid.Grid, model coherence.Model, u vlib.VectorF, ncpus int) error {
	if err := model.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrParameter, err)
	}
	nf := f.Size()
	if ncpus < 1 {
		ncpus = 1
	}
	if ncpus > nf {
		ncpus = nf
	}
	log.Debugf("turbulence: %d points x %d frequencies on %d workers", g.Np(), nf, ncpus)

	errs := make([]error, ncpus)
	var wg sync.WaitGroup
	wg.Add(ncpus)
	for pp := 0; pp < ncpus; pp++ {
		go func(pp int) {
			defer wg.Done()
			scratch := newColumnScratch(g.Np())
			for k := pp; k < nf; k += ncpus {
				if err := scratch.applyColumn(phr, k, f[k], g, model, u); err != nil {
					errs[pp] = fmt.Errorf("column %d (f=%g): %w", k, f[k], err)
					return
				}
			}
		}(pp)
	}
	wg.Wait()
	for _, err := range errs {
		if err != nil {
			return err
		}
	}
	return nil
}

// columnScratch holds the per-worker buffers: the packed lower triangle of
// one column's cross-spectral matrix, the pre-call unit phasors and the
// pre-call amplitudes. Reused across all columns of a worker.
type columnScratch struct {
	np  int
	sij []float64    // packed lower triangle, row major: (i,j) -> i*(i+1)/2 + j
	w   vlib.VectorC // unit phasors of the untouched column
	s0  vlib.VectorF // amplitudes of the untouched column
}

func newColumnScratch(np int) *columnScratch {
	return &columnScratch{
		np:  np,
		sij: make([]float64, np*(np+1)/2),
		w:   vlib.NewVectorC(np),
		s0:  vlib.NewVectorF(np),
	}
}

// applyColumn transforms one frequency column in place: it buffers the
// column's amplitudes and unit phasors, builds the packed cross-spectral
// lower triangle S = C .* sqrt(s0*s0'), factorizes H*H' = S and stores the
// recombination phr[p][k] = sum_{j<=p} H[p][j]*w[j]. phr is written only
// after the factorization succeeded, so a failed column stays untouched.
func (c *columnScratch) applyColumn(phr SpectralMatrix, k int, fk float64, g *grid.Grid, model coherence.Model, u vlib.VectorF) error {
	np := c.np
	for p := 0; p < np; p++ {
		v := phr[p][k]
		a := cmplx.Abs(v)
		if math.IsNaN(a) || math.IsInf(a, 0) {
			return fmt.Errorf("%w: non-finite spectral amplitude at point %d", ErrNumeric, p)
		}
		c.s0[p] = a
		if a == 0 {
			c.w[p] = 1
		} else {
			c.w[p] = v / complex(a, 0)
		}
	}

	ind := 0
	for i := 0; i < np; i++ {
		for j := 0; j < i; j++ {
			um := 0.0
			if u != nil {
				um = 0.5 * (u[i] + u[j])
			}
			coh := model.Coh(fk, g.Sep(i, j), um)
			if math.IsNaN(coh) || math.IsInf(coh, 0) {
				return fmt.Errorf("%w: coherence(f=%g, d=%g) is not finite", ErrNumeric, fk, g.Sep(i, j))
			}
			c.sij[ind] = coh * math.Sqrt(c.s0[i]*c.s0[j])
			ind++
		}
		c.sij[ind] = c.s0[i]
		ind++
	}

	if err := cholPacked(c.sij, np); err != nil {
		return err
	}

	ind = 0
	for i := 0; i < np; i++ {
		var acc complex128
		for j := 0; j <= i; j++ {
			acc += complex(c.sij[ind], 0) * c.w[j]
			ind++
		}
		phr[i][k] = acc
	}
	return nil
}

// cholPacked factorizes a symmetric positive-semidefinite matrix held as a
// packed row-major lower triangle, in place, H*H' = S. Diagonal residues
// that drift negative from rounding (near-duplicate grid points) are clamped
// to zero and their columns zeroed through the zero-pivot branch.
func cholPacked(s []float64, n int) error {
	for i := 0; i < n; i++ {
		ri := i * (i + 1) / 2
		for j := 0; j <= i; j++ {
			rj := j * (j + 1) / 2
			sum := s[ri+j]
			for t := 0; t < j; t++ {
				sum -= s[ri+t] * s[rj+t]
			}
			if i == j {
				if sum < 0 {
					sum = 0
				}
				s[ri+i] = math.Sqrt(sum)
			} else if piv := s[rj+j]; piv == 0 {
				s[ri+j] = 0
			} else {
				s[ri+j] = sum / piv
			}
			if math.IsNaN(s[ri+j]) || math.IsInf(s[ri+j], 0) {
				return fmt.Errorf("%w: factorization produced a non-finite entry at (%d,%d)", ErrNumeric, i, j)
			}
		}
	}
	return nil
}
