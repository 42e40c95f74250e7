package spectrum_test

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiless/turbulence/spectrum"
	"github.com/wiless/vlib"
)

func TestPsdPositiveAndDecaying(t *testing.T) {
	models := []spectrum.Model{
		spectrum.Kaimal{SigmaU: 1.5},
		spectrum.VonKarman{SigmaU: 1.5},
	}
	for _, m := range models {
		require.NoError(t, m.Validate())
		prev := math.Inf(1)
		for _, f := range []float64{0.001, 0.01, 0.1, 1, 10} {
			s := m.Psd(f, 90, 10)
			assert.True(t, s > 0, "%T f=%v", m, f)
			assert.True(t, s < prev, "PSD must decay with frequency")
			prev = s
		}
	}
}

// In the inertial range the Kaimal form falls off as f^(-5/3).
func TestKaimalHighFrequencySlope(t *testing.T) {
	m := spectrum.Kaimal{SigmaU: 2}
	const f1, f2 = 10.0, 100.0
	ratio := m.Psd(f2, 90, 10) / m.Psd(f1, 90, 10)
	assert.InDelta(t, math.Pow(f2/f1, -5.0/3.0), ratio, 2e-3)
}

func TestKaimalZeroFrequency(t *testing.T) {
	// S(0) = 4 s^2 L/u with L = 8.1*42 above 60 m
	m := spectrum.Kaimal{SigmaU: 2}
	assert.InDelta(t, 4*4*8.1*42.0/10, m.Psd(0, 90, 10), 1e-12)
	// below 60 m the length scale shrinks to 8.1*0.7*z
	assert.InDelta(t, 4*4*8.1*0.7*30/10, m.Psd(0, 30, 10), 1e-12)
}

func TestValidateRejectsBadSigma(t *testing.T) {
	assert.Error(t, spectrum.Kaimal{SigmaU: 0}.Validate())
	assert.Error(t, spectrum.Kaimal{SigmaU: -1}.Validate())
	assert.Error(t, spectrum.VonKarman{SigmaU: math.NaN()}.Validate())
	assert.NoError(t, spectrum.VonKarman{SigmaU: 0.8}.Validate())
}

func TestAmplitudes(t *testing.T) {
	m := spectrum.Kaimal{SigmaU: 1.2}
	f := vlib.VectorF{0.05, 0.1, 0.15, 0.2}
	const df, z, u = 0.05, 90.0, 10.0

	amp := spectrum.Amplitudes(m, f, df, z, u)
	require.Equal(t, f.Size(), amp.Size())
	for k, fk := range f {
		assert.InDelta(t, math.Sqrt(m.Psd(fk, z, u)*df), amp[k], 1e-14)
	}
}
