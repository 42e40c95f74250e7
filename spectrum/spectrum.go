// Package spectrum provides the one-sided point power spectral densities
// that seed the spectral matrix before coherence is applied.
package spectrum

import (
	"errors"
	"math"

	"github.com/wiless/vlib"
)

// Model is a one-sided PSD [ (m/s)^2 / Hz ] of the longitudinal velocity
// component at frequency f for a point at height z with mean speed u.
type Model interface {
	Psd(f, z, u float64) float64
	Validate() error
}

// iecLengthScale is Lambda1 of IEC 61400-1: 0.7*z below 60 m, 42 m above.
func iecLengthScale(z float64) float64 {
	if z < 60 {
		return 0.7 * z
	}
	return 42
}

// Kaimal is the IEC 61400-1 Kaimal form
//
//	S(f) = 4 s^2 (L/u) / (1 + 6 f L/u)^(5/3),  L = 8.1*Lambda1(z)
type Kaimal struct {
	SigmaU float64 // turbulence standard deviation [m/s]
}

func (m Kaimal) Psd(f, z, u float64) float64 {
	l := 8.1 * iecLengthScale(z)
	flu := f * l / u
	return 4 * m.SigmaU * m.SigmaU * (l / u) / math.Pow(1+6*flu, 5.0/3.0)
}

func (m Kaimal) Validate() error {
	return validateSigma(m.SigmaU)
}

// VonKarman is the isotropic von Karman form
//
//	S(f) = 4 s^2 (L/u) / (1 + 70.8 (f L/u)^2)^(5/6),  L = 3.5*Lambda1(z)
type VonKarman struct {
	SigmaU float64
}

func (m VonKarman) Psd(f, z, u float64) float64 {
	l := 3.5 * iecLengthScale(z)
	flu := f * l / u
	return 4 * m.SigmaU * m.SigmaU * (l / u) / math.Pow(1+70.8*flu*flu, 5.0/6.0)
}

func (m VonKarman) Validate() error {
	return validateSigma(m.SigmaU)
}

func validateSigma(sigma float64) error {
	if !(sigma > 0) || math.IsInf(sigma, 0) {
		return errors.New("spectrum: turbulence standard deviation must be > 0")
	}
	return nil
}

// Amplitudes returns sqrt(S(f_k)*df) for every frequency: the uncoherent
// one-sided amplitude column of a single point on a df-spaced frequency
// vector.
func Amplitudes(m Model, f vlib.VectorF, df, z, u float64) vlib.VectorF {
	result := vlib.NewVectorF(f.Size())
	for k, fk := range f {
		result[k] = math.Sqrt(m.Psd(fk, z, u) * df)
	}
	return result
}
