package coherence

import (
	"errors"
	"math"
)

// nearFieldCoupling is the fixed length-scale correction constant of the
// IEC 61400-1 coherence function.
const nearFieldCoupling = 0.12

// IECModel is the IEC 61400-1 exponential coherence
//
//	coh = exp( -A * sqrt( (f*d/UHub)^2 + (0.12*d/Lc)^2 ) )
//
// with one scalar hub-height wind speed for the whole grid.
type IECModel struct {
	UHub float64 // hub-height mean wind speed [m/s]
	A    float64 // coherence decrement, 12 in the standard
	Lc   float64 // coherence scale length [m], 8.1*Lambda1
}

// NewIECModel returns the standard-parameter model for a hub speed,
// Lambda1 = 42 m (hub heights above 60 m).
func NewIECModel(uhub float64) IECModel {
	return IECModel{UHub: uhub, A: 12, Lc: 8.1 * 42.0}
}

func (m IECModel) Coh(f, sep, _ float64) float64 {
	if sep == 0 {
		return 1
	}
	ft := f * sep / m.UHub
	st := nearFieldCoupling * sep / m.Lc
	return math.Exp(-m.A * math.Sqrt(ft*ft+st*st))
}

func (m IECModel) Validate() error {
	if !finite(m.UHub, m.A, m.Lc) {
		return errors.New("coherence: IEC model parameters must be finite")
	}
	if m.UHub <= 0 {
		return errors.New("coherence: hub wind speed must be > 0")
	}
	if m.Lc <= 0 {
		return errors.New("coherence: coherence scale length must be > 0")
	}
	if m.A < 0 {
		return errors.New("coherence: coherence decrement must be >= 0")
	}
	return nil
}
