package aerodyn_test

import (
	"io/ioutil"
	"math"
	"math/rand"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wiless/turbulence/aerodyn"
)

func TestWriteReadRoundTrip(t *testing.T) {
	dir, err := ioutil.TempDir("", "aerodyn")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	const ny, nz, nt = 4, 3, 50
	d := aerodyn.NewData(ny, nz, nt)
	d.DY, d.DZ, d.DT = 5, 7, 0.25
	d.UHub, d.ZHub, d.ZBottom = 10, 90, 83
	d.Desc = "round trip fixture"

	rng := rand.New(rand.NewSource(17))
	for c := 0; c < 3; c++ {
		for iz := 0; iz < nz; iz++ {
			for iy := 0; iy < ny; iy++ {
				for it := 0; it < nt; it++ {
					d.U[c][iz][iy][it] = 10*rng.NormFloat64() + float64(c)
				}
			}
		}
	}

	fname := filepath.Join(dir, "field.bts")
	require.NoError(t, aerodyn.Write(fname, d))

	got, err := aerodyn.Read(fname)
	require.NoError(t, err)

	assert.Equal(t, ny, got.NY)
	assert.Equal(t, nz, got.NZ)
	assert.Equal(t, nt, got.NT)
	assert.Equal(t, 0, got.NTower)
	assert.InDelta(t, d.DY, got.DY, 1e-6)
	assert.InDelta(t, d.DZ, got.DZ, 1e-6)
	assert.InDelta(t, d.DT, got.DT, 1e-6)
	assert.InDelta(t, d.UHub, got.UHub, 1e-6)
	assert.InDelta(t, d.ZHub, got.ZHub, 1e-6)
	assert.InDelta(t, d.ZBottom, got.ZBottom, 1e-6)
	assert.Equal(t, d.Desc, got.Desc)

	// quantization error is bounded by one int16 count per component
	for c := 0; c < 3; c++ {
		min, max := math.Inf(1), math.Inf(-1)
		for iz := 0; iz < nz; iz++ {
			for iy := 0; iy < ny; iy++ {
				for it := 0; it < nt; it++ {
					v := d.U[c][iz][iy][it]
					min = math.Min(min, v)
					max = math.Max(max, v)
				}
			}
		}
		tol := 1.5 * (max - min) / 65534
		for iz := 0; iz < nz; iz++ {
			for iy := 0; iy < ny; iy++ {
				for it := 0; it < nt; it++ {
					assert.InDelta(t, d.U[c][iz][iy][it], got.U[c][iz][iy][it], tol,
						"c=%d iz=%d iy=%d it=%d", c, iz, iy, it)
				}
			}
		}
	}
}

func TestWriteForcesExtension(t *testing.T) {
	dir, err := ioutil.TempDir("", "aerodyn")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	d := aerodyn.NewData(1, 1, 4)
	d.U[0][0][0] = []float64{1, 2, 3, 4}

	base := filepath.Join(dir, "noext")
	require.NoError(t, aerodyn.Write(base, d))
	_, err = os.Stat(base + ".bts")
	assert.NoError(t, err)
}

func TestConstantComponent(t *testing.T) {
	dir, err := ioutil.TempDir("", "aerodyn")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	d := aerodyn.NewData(2, 2, 8)
	for iz := 0; iz < 2; iz++ {
		for iy := 0; iy < 2; iy++ {
			for it := 0; it < 8; it++ {
				d.U[0][iz][iy][it] = 12.5
			}
		}
	}

	fname := filepath.Join(dir, "const.bts")
	require.NoError(t, aerodyn.Write(fname, d))
	got, err := aerodyn.Read(fname)
	require.NoError(t, err)
	for iz := 0; iz < 2; iz++ {
		for iy := 0; iy < 2; iy++ {
			for it := 0; it < 8; it++ {
				assert.InDelta(t, 12.5, got.U[0][iz][iy][it], 1e-6)
			}
		}
	}
}

func TestRejectsForeignFile(t *testing.T) {
	dir, err := ioutil.TempDir("", "aerodyn")
	require.NoError(t, err)
	defer os.RemoveAll(dir)

	fname := filepath.Join(dir, "bogus.bts")
	require.NoError(t, ioutil.WriteFile(fname, make([]byte, 128), 0644))

	_, err = aerodyn.Read(fname)
	assert.Error(t, err)
}
