package types

import (
	"fmt"
)

/*
Grid describes the simulation mesh. Nx and Nz count the interior cells, Pml is
the absorbing layer thickness in cells on every side. Fields are stored over the
padded grid, NX() rows by NZ() columns, row i is the x index and column j the z
index.
*/
type Grid struct {
	Nx, Nz, Pml int
	Dx, Dz      float64
}

func NewGrid(Nx, Nz, Pml int, Dx, Dz float64) (g Grid, err error) {
	g = Grid{Nx: Nx, Nz: Nz, Pml: Pml, Dx: Dx, Dz: Dz}
	err = g.Validate()
	return
}

func (g Grid) NX() int { return g.Nx + 2*g.Pml }
func (g Grid) NZ() int { return g.Nz + 2*g.Pml }

// Size is the number of cells in the padded grid.
func (g Grid) Size() int { return g.NX() * g.NZ() }

// Index is the row major offset of padded cell (i,j).
func (g Grid) Index(i, j int) int { return i*g.NZ() + j }

// Interior converts an unpadded coordinate to the padded grid.
func (g Grid) Interior(i, j int) (ip, jp int) { return i + g.Pml, j + g.Pml }

// Validate checks the dimensions. A zero PML thickness is accepted by the
// solver, the material builder requires a positive one.
func (g Grid) Validate() (err error) {
	switch {
	case g.Nx <= 0 || g.Nz <= 0:
		err = fmt.Errorf("%w: grid dimensions must be positive, have nx = %d, nz = %d",
			ErrConfiguration, g.Nx, g.Nz)
	case g.Pml < 0:
		err = fmt.Errorf("%w: negative PML thickness %d", ErrConfiguration, g.Pml)
	case !(g.Dx > 0) || !(g.Dz > 0):
		err = fmt.Errorf("%w: grid spacing must be positive, have dx = %g, dz = %g",
			ErrConfiguration, g.Dx, g.Dz)
	}
	return
}

func (g Grid) String() string {
	return fmt.Sprintf("Grid[%d x %d, pml = %d, padded %d x %d, dx = %g, dz = %g]",
		g.Nx, g.Nz, g.Pml, g.NX(), g.NZ(), g.Dx, g.Dz)
}
