// Package grid defines the rectilinear y-z point grid the spectral kernels
// operate on. The grid is the cross product of a lateral axis y and a
// vertical axis z; points are enumerated y-fastest, p = iz*ny + iy.
package grid

import (
	"encoding/json"
	"errors"
	"fmt"
	"math"

	ms "github.com/mitchellh/mapstructure"
	"github.com/wiless/vlib"
)

var (
	// ErrEmptyAxis indicates a grid axis with no coordinates.
	ErrEmptyAxis = errors.New("grid: axis must have at least one coordinate")
)

// Grid holds the two coordinate axes. Both are read-only after construction.
type Grid struct {
	Y vlib.VectorF
	Z vlib.VectorF
}

// New builds a grid from explicit axis coordinates [m].
func New(y, z vlib.VectorF) (*Grid, error) {
	if y.Size() == 0 || z.Size() == 0 {
		return nil, ErrEmptyAxis
	}
	return &Grid{Y: y, Z: z}, nil
}

// NewRect builds an equally spaced grid of width x height metres with ny
// lateral points centred on ycentre and nz vertical points starting at
// zbottom.
func NewRect(ycentre, width float64, ny int, zbottom, height float64, nz int) (*Grid, error) {
	if ny < 1 || nz < 1 {
		return nil, ErrEmptyAxis
	}
	y := vlib.NewVectorF(ny)
	for i := 0; i < ny; i++ {
		if ny > 1 {
			y[i] = ycentre - width/2 + width*float64(i)/float64(ny-1)
		} else {
			y[i] = ycentre
		}
	}
	z := vlib.NewVectorF(nz)
	for i := 0; i < nz; i++ {
		if nz > 1 {
			z[i] = zbottom + height*float64(i)/float64(nz-1)
		} else {
			z[i] = zbottom
		}
	}
	return &Grid{Y: y, Z: z}, nil
}

func (g *Grid) Ny() int {
	return g.Y.Size()
}

func (g *Grid) Nz() int {
	return g.Z.Size()
}

// Np returns the total number of grid points.
func (g *Grid) Np() int {
	return g.Y.Size() * g.Z.Size()
}

// Index maps axis indices to the flat point index.
func (g *Grid) Index(iy, iz int) int {
	return iz*g.Ny() + iy
}

// Split is the inverse of Index.
func (g *Grid) Split(p int) (iy, iz int) {
	return p % g.Ny(), p / g.Ny()
}

// Loc returns the 3D location of point p; the grid plane is x=0.
func (g *Grid) Loc(p int) vlib.Location3D {
	iy, iz := g.Split(p)
	return vlib.Location3D{X: 0, Y: g.Y[iy], Z: g.Z[iz]}
}

// Sep returns the Euclidean separation between points p and q [m]. It is
// symmetric and zero on the diagonal; kept branch-free for the pairwise
// loops that call it O(np^2) times.
func (g *Grid) Sep(p, q int) float64 {
	ny := g.Ny()
	dy := g.Y[p%ny] - g.Y[q%ny]
	dz := g.Z[p/ny] - g.Z[q/ny]
	return math.Sqrt(dy*dy + dz*dz)
}

// Dy returns the lateral spacing for equally spaced grids, 0 for a single
// column.
func (g *Grid) Dy() float64 {
	if g.Ny() < 2 {
		return 0
	}
	return g.Y[1] - g.Y[0]
}

// Dz returns the vertical spacing, 0 for a single row.
func (g *Grid) Dz() float64 {
	if g.Nz() < 2 {
		return 0
	}
	return g.Z[1] - g.Z[0]
}

// HubLoc returns the geometric centre of the grid, the conventional
// reference point for hub values.
func (g *Grid) HubLoc() vlib.Location3D {
	return vlib.Location3D{
		X: 0,
		Y: (g.Y[0] + g.Y[g.Ny()-1]) / 2,
		Z: (g.Z[0] + g.Z[g.Nz()-1]) / 2,
	}
}

// UnmarshalJSON accepts {"Y":[...],"Z":[...]} objects, decoded through
// mapstructure so ints and floats mix freely in hand-written configs.
func (g *Grid) UnmarshalJSON(jsondata []byte) error {
	var customobject map[string]interface{}
	if err := json.Unmarshal(jsondata, &customobject); err != nil {
		return err
	}
	var axes struct {
		Y vlib.VectorF
		Z vlib.VectorF
	}
	if err := ms.WeakDecode(customobject, &axes); err != nil {
		return fmt.Errorf("grid: %v", err)
	}
	if axes.Y.Size() == 0 || axes.Z.Size() == 0 {
		return ErrEmptyAxis
	}
	g.Y, g.Z = axes.Y, axes.Z
	return nil
}
