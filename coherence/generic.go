package coherence

import (
	"errors"
	"math"
)

// GenericModel is the general exponential coherence decay
//
//	coh = exp( -CoefA * ( (f*d/um)^2 + (CoefB*d)^CoefExp )^(1/2) )
//
// with um the pair-mean advection speed supplied per call. CoefExp = 2
// recovers the classical sum-of-squares exponential decay; other exponents
// reweight the pure-spatial term against the frequency-driven term.
type GenericModel struct {
	CoefA   float64
	CoefB   float64
	CoefExp float64
}

func (m GenericModel) Coh(f, sep, um float64) float64 {
	if sep == 0 {
		return 1
	}
	arg := math.Sqrt(math.Pow(f*sep/um, 2) + math.Pow(m.CoefB*sep, m.CoefExp))
	return math.Exp(-m.CoefA * arg)
}

func (m GenericModel) Validate() error {
	if !finite(m.CoefA, m.CoefB, m.CoefExp) {
		return errors.New("coherence: generic model coefficients must be finite")
	}
	if m.CoefA < 0 {
		return errors.New("coherence: decay coefficient CoefA must be >= 0")
	}
	return nil
}
