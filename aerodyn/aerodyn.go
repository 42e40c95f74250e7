// Package aerodyn reads and writes AeroDyn/TurbSim full-field binary files
// (.bts): a little-endian header, a description string and the int16-scaled
// velocity payload, component index fastest, then y, then z top-down, then
// time.
package aerodyn

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/wiless/vlib"
)

const (
	fileID = 7
	intMin = -32768
	intRng = 65536
)

var ErrBadHeader = errors.New("aerodyn: not a TurbSim .bts file")

// Data is an in-memory full-field time series. U[c][iz][iy] is the sample
// series of velocity component c (0:u streamwise, 1:v, 2:w) at grid point
// (iy, iz), z enumerated bottom to top.
type Data struct {
	NY, NZ  int
	NTower  int
	NT      int
	DY, DZ  float64 // grid spacing [m]
	DT      float64 // sample interval [s]
	UHub    float64 // mean hub wind speed [m/s]
	ZHub    float64 // hub height [m]
	ZBottom float64
	Desc    string
	U       [3][][]vlib.VectorF
}

// NewData allocates a zeroed field of ny x nz points and nt samples.
func NewData(ny, nz, nt int) *Data {
	d := &Data{NY: ny, NZ: nz, NT: nt}
	for c := 0; c < 3; c++ {
		d.U[c] = make([][]vlib.VectorF, nz)
		for iz := 0; iz < nz; iz++ {
			d.U[c][iz] = make([]vlib.VectorF, ny)
			for iy := 0; iy < ny; iy++ {
				d.U[c][iz][iy] = vlib.NewVectorF(nt)
			}
		}
	}
	return d
}

type header struct {
	ID       int16
	NZ       int32
	NY       int32
	NTower   int32
	NT       int32
	DZ       float32
	DY       float32
	DT       float32
	UHub     float32
	ZHub     float32
	ZBottom  float32
	ScaleOff [6]float32 // scl0, off0, scl1, off1, scl2, off2
	DescLen  int32
}

// convName forces the .bts extension the way the original tool does.
func convName(fname string) string {
	if filepath.Ext(fname) != ".bts" {
		return fname + ".bts"
	}
	return fname
}

// Write stores the field to fname (extension forced to .bts). Each
// component is scaled to the int16 range from its own min/max.
func Write(fname string, d *Data) error {
	fl, err := os.Create(convName(fname))
	if err != nil {
		return err
	}
	defer fl.Close()
	w := bufio.NewWriter(fl)

	var scl, off [3]float32
	for c := 0; c < 3; c++ {
		min, max := d.U[c][0][0][0], d.U[c][0][0][0]
		for iz := 0; iz < d.NZ; iz++ {
			for iy := 0; iy < d.NY; iy++ {
				for _, v := range d.U[c][iz][iy] {
					if v < min {
						min = v
					}
					if v > max {
						max = v
					}
				}
			}
		}
		if min == max {
			scl[c] = 1
		} else {
			// two counts of headroom keep the extremes inside int16
			scl[c] = float32((intRng - 2) / (max - min))
		}
		off[c] = intMin - scl[c]*float32(min)
	}

	h := header{
		ID: fileID,
		NZ: int32(d.NZ), NY: int32(d.NY), NTower: int32(d.NTower), NT: int32(d.NT),
		DZ: float32(d.DZ), DY: float32(d.DY), DT: float32(d.DT),
		UHub: float32(d.UHub), ZHub: float32(d.ZHub), ZBottom: float32(d.ZBottom),
		ScaleOff: [6]float32{scl[0], off[0], scl[1], off[1], scl[2], off[2]},
		DescLen:  int32(len(d.Desc)),
	}
	if err := binary.Write(w, binary.LittleEndian, h); err != nil {
		return err
	}
	if _, err := w.WriteString(d.Desc); err != nil {
		return err
	}

	// Payload order: component fastest, then y, then z top-down, then time.
	out := make([]int16, 0, 3*d.NY*d.NZ*d.NT)
	for it := 0; it < d.NT; it++ {
		for iz := d.NZ - 1; iz >= 0; iz-- {
			for iy := 0; iy < d.NY; iy++ {
				for c := 0; c < 3; c++ {
					out = append(out, int16(float32(d.U[c][iz][iy][it])*scl[c]+off[c]))
				}
			}
		}
	}
	if err := binary.Write(w, binary.LittleEndian, out); err != nil {
		return err
	}
	return w.Flush()
}

// Read loads a .bts file written by Write or by TurbSim itself.
func Read(fname string) (*Data, error) {
	fl, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fl.Close()
	r := bufio.NewReader(fl)

	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, err
	}
	if h.ID != fileID {
		return nil, fmt.Errorf("%w: id=%d", ErrBadHeader, h.ID)
	}
	desc := make([]byte, h.DescLen)
	if _, err := io.ReadFull(r, desc); err != nil {
		return nil, err
	}

	d := NewData(int(h.NY), int(h.NZ), int(h.NT))
	d.NTower = int(h.NTower)
	d.DY, d.DZ, d.DT = float64(h.DY), float64(h.DZ), float64(h.DT)
	d.UHub, d.ZHub, d.ZBottom = float64(h.UHub), float64(h.ZHub), float64(h.ZBottom)
	d.Desc = string(desc)

	raw := make([]int16, 3*d.NY*d.NZ*d.NT)
	if err := binary.Read(r, binary.LittleEndian, raw); err != nil {
		return nil, err
	}
	ind := 0
	for it := 0; it < d.NT; it++ {
		for iz := d.NZ - 1; iz >= 0; iz-- {
			for iy := 0; iy < d.NY; iy++ {
				for c := 0; c < 3; c++ {
					scl, off := h.ScaleOff[2*c], h.ScaleOff[2*c+1]
					d.U[c][iz][iy][it] = float64((float32(raw[ind]) - off) / scl)
					ind++
				}
			}
		}
	}
	return d, nil
}
